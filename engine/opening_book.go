package engine

import (
	"errors"
	"fmt"

	"github.com/notnil/chess/opening"
	"github.com/samber/lo"
	"lukechampine.com/frand"

	"negachess/board"
)

// ErrServiceUnavailable is wrapped by book and tablebase failures. The engine
// stops using a service that returned it.
var ErrServiceUnavailable = errors.New("service unavailable")

// Book proposes opening moves. ok is false when the position is not covered;
// an error means the book itself is unusable.
type Book interface {
	Lookup(b *board.Board) (m board.Move, ok bool, err error)
}

// ECOBook answers from the lines of the ECO opening classification. Every
// position along every named line is indexed by its FEN without the move
// counters, and a lookup picks uniformly among the distinct continuations.
type ECOBook struct {
	lines map[string][]board.Move
}

func NewECOBook() (*ECOBook, error) {
	eco := opening.NewBookECO()
	bk := &ECOBook{lines: make(map[string][]board.Move)}
	for _, o := range eco.Possible(nil) {
		b := board.NewBoard()
		for _, cm := range o.Game().Moves() {
			m, err := b.ParseMove(cm.String())
			if err != nil {
				return nil, fmt.Errorf("%w: opening %s %q: %v", ErrServiceUnavailable, o.Code(), o.Title(), err)
			}
			key := b.PositionKey()
			bk.lines[key] = append(bk.lines[key], m)
			b.Push(m)
		}
	}
	for key, moves := range bk.lines {
		bk.lines[key] = lo.Uniq(moves)
	}
	return bk, nil
}

func (bk *ECOBook) Lookup(b *board.Board) (board.Move, bool, error) {
	moves := bk.lines[b.PositionKey()]
	if len(moves) == 0 {
		return board.NullMove, false, nil
	}
	return moves[frand.Intn(len(moves))], true, nil
}

// Positions returns how many distinct positions the book covers.
func (bk *ECOBook) Positions() int { return len(bk.lines) }
