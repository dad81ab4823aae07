package match

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/samber/lo"

	"negachess/board"
	"negachess/engine"
)

// ErrResign is returned by a Player that gives up the game.
var ErrResign = errors.New("player resigns")

// Player chooses moves for one side of a Game. NextMove gets a copy of the
// game's board and must return a legal move or an error.
type Player interface {
	Name() string
	NewGame(c board.Color)
	NextMove(ctx context.Context, b *board.Board) (board.Move, error)
}

// Resignation policy.
const (
	resignMinEvals = 5
	// Evals that must all be at or below the cutoff, by situation.
	resignEvalsDownQueen = 2
	resignEvalsTBLoss    = 10
	resignEvals          = 3
)

var resignCutoff = -(engine.PieceValue[board.Queen] + 2*engine.PieceValue[board.Pawn])

// EnginePlayer plays with an Engine, giving it a fixed time per move.
type EnginePlayer struct {
	name     string
	eng      *engine.Engine
	moveTime time.Duration
	color    board.Color
	evals    []int

	// Resigns enables the resignation policy.
	Resigns bool
}

func NewEnginePlayer(name string, eng *engine.Engine, moveTime time.Duration) *EnginePlayer {
	return &EnginePlayer{name: name, eng: eng, moveTime: moveTime, Resigns: true}
}

func (p *EnginePlayer) Name() string { return p.name }

func (p *EnginePlayer) Engine() *engine.Engine { return p.eng }

func (p *EnginePlayer) NewGame(c board.Color) {
	p.color = c
	p.evals = p.evals[:0]
	p.eng.NewGame()
}

func (p *EnginePlayer) NextMove(ctx context.Context, b *board.Board) (board.Move, error) {
	if p.ShouldResign(b) {
		return board.NullMove, ErrResign
	}
	m, err := p.eng.SelectMoveContext(ctx, b, time.Now().Add(p.moveTime))
	if err != nil {
		return board.NullMove, err
	}
	if v, ok := p.eng.LastScore(); ok {
		p.evals = append(p.evals, v)
	}
	return m, nil
}

// ShouldResign looks at the scores of the player's recent searched moves.
// Once there are enough of them it resigns if the last few are all hopeless:
// the last two when a queen or more behind in material, the last ten when the
// tablebase says the game is lost, the last three otherwise.
func (p *EnginePlayer) ShouldResign(b *board.Board) bool {
	if !p.Resigns || len(p.evals) < resignMinEvals {
		return false
	}
	material := engine.MaterialCount(b, p.color) - engine.MaterialCount(b, p.color.Other())
	n := resignEvals
	switch {
	case material < -engine.PieceValue[board.Queen]:
		n = resignEvalsDownQueen
	case p.evals[len(p.evals)-1] == -engine.TBWinScore:
		n = resignEvalsTBLoss
	}
	recent := p.evals[engine.Max(0, len(p.evals)-n):]
	return lo.EveryBy(recent, func(v int) bool { return v <= resignCutoff })
}

// InputPlayer reads moves in UCI notation, one per line, and prompts on out.
// A line holding just "/" resigns.
type InputPlayer struct {
	name string
	in   *bufio.Scanner
	out  io.Writer
}

func NewInputPlayer(name string, in io.Reader, out io.Writer) *InputPlayer {
	return &InputPlayer{name: name, in: bufio.NewScanner(in), out: out}
}

func (p *InputPlayer) Name() string { return p.name }

func (p *InputPlayer) NewGame(board.Color) {}

func (p *InputPlayer) NextMove(ctx context.Context, b *board.Board) (board.Move, error) {
	for {
		if err := ctx.Err(); err != nil {
			return board.NullMove, err
		}
		fmt.Fprint(p.out, "your move: ")
		if !p.in.Scan() {
			if err := p.in.Err(); err != nil {
				return board.NullMove, err
			}
			return board.NullMove, io.ErrUnexpectedEOF
		}
		s := strings.TrimSpace(p.in.Text())
		if s == "/" {
			return board.NullMove, ErrResign
		}
		m, err := b.ParseMove(s)
		if err != nil {
			fmt.Fprintf(p.out, "illegal move: %s\n", s)
			continue
		}
		return m, nil
	}
}
