package match

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"negachess/board"
)

// Outcome is the result of a game from White's side.
type Outcome int

const (
	NoOutcome Outcome = iota
	WhiteWon
	BlackWon
	Drawn
)

func (o Outcome) String() string {
	switch o {
	case WhiteWon:
		return "1-0"
	case BlackWon:
		return "0-1"
	case Drawn:
		return "1/2-1/2"
	}
	return "*"
}

// Termination is how a game ended.
type Termination int

const (
	Unterminated Termination = iota
	Checkmate
	Resignation
	Stalemate
	InsufficientMaterial
	FiftyMoveRule
	ThreefoldRepetition
)

func (t Termination) String() string {
	switch t {
	case Checkmate:
		return "checkmate"
	case Resignation:
		return "resignation"
	case Stalemate:
		return "stalemate"
	case InsufficientMaterial:
		return "insufficient material"
	case FiftyMoveRule:
		return "fifty-move rule"
	case ThreefoldRepetition:
		return "threefold repetition"
	}
	return "unterminated"
}

// Game plays two players against each other from a start position. Draws by
// the fifty-move rule and threefold repetition are claimed as soon as they
// are available.
type Game struct {
	White, Black Player

	start   string
	board   *board.Board
	log     zerolog.Logger
	started time.Time

	resigned   bool
	resignedBy board.Color
}

type Option func(*Game)

// WithStartFEN starts the game from fen instead of the initial position.
func WithStartFEN(fen string) Option {
	return func(g *Game) { g.start = fen }
}

func WithLogger(l zerolog.Logger) Option {
	return func(g *Game) { g.log = l }
}

func NewGame(white, black Player, opts ...Option) (*Game, error) {
	g := &Game{White: white, Black: black, start: board.StartFEN, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(g)
	}
	b, err := board.ParseFEN(g.start)
	if err != nil {
		return nil, fmt.Errorf("start position: %w", err)
	}
	g.board = b
	return g, nil
}

// Board returns the game's position. Callers must not push moves on it.
func (g *Game) Board() *board.Board { return g.board }

func (g *Game) StartFEN() string { return g.start }

func (g *Game) player(c board.Color) Player {
	if c == board.White {
		return g.White
	}
	return g.Black
}

// Play asks the players for moves in turn until the game is over. An error
// from a player other than ErrResign, or an illegal move, aborts the game.
func (g *Game) Play(ctx context.Context) (Outcome, error) {
	g.started = time.Now()
	g.White.NewGame(board.White)
	g.Black.NewGame(board.Black)

	for !g.IsOver() {
		if err := ctx.Err(); err != nil {
			return NoOutcome, err
		}
		side := g.board.SideToMove()
		p := g.player(side)
		m, err := p.NextMove(ctx, g.board.Copy())
		if errors.Is(err, ErrResign) {
			g.resigned, g.resignedBy = true, side
			g.log.Info().Str("player", p.Name()).Stringer("side", side).Msg("resigned")
			break
		}
		if err != nil {
			return NoOutcome, fmt.Errorf("%s (%s) to move: %w", p.Name(), side, err)
		}
		if !g.board.IsLegal(m) {
			return NoOutcome, fmt.Errorf("%w: %s played %v in %s", board.ErrIllegalMove, p.Name(), m, g.board.FEN())
		}
		g.board.Push(m)
		g.log.Debug().Str("player", p.Name()).Stringer("move", m).Msg("move-played")
	}

	o, t := g.Outcome()
	g.log.Info().
		Str("white", g.White.Name()).
		Str("black", g.Black.Name()).
		Stringer("result", o).
		Stringer("termination", t).
		Int("plies", g.board.Ply()).
		Msg("game-over")
	return o, nil
}

func (g *Game) IsOver() bool {
	_, t := g.Outcome()
	return t != Unterminated
}

// Outcome reports the result so far and how the game ended.
func (g *Game) Outcome() (Outcome, Termination) {
	b := g.board
	switch {
	case g.resigned:
		if g.resignedBy == board.White {
			return BlackWon, Resignation
		}
		return WhiteWon, Resignation
	case b.IsCheckmate():
		if b.SideToMove() == board.White {
			return BlackWon, Checkmate
		}
		return WhiteWon, Checkmate
	case b.IsStalemate():
		return Drawn, Stalemate
	case b.IsInsufficientMaterial():
		return Drawn, InsufficientMaterial
	case b.IsFiftyMoveDraw():
		return Drawn, FiftyMoveRule
	case b.IsRepetition(3):
		return Drawn, ThreefoldRepetition
	}
	return NoOutcome, Unterminated
}

// Result is the PGN result string, with the resigning side named when the
// game ended by resignation.
func (g *Game) Result() string {
	o, t := g.Outcome()
	if t == Resignation {
		return fmt.Sprintf("%s (%s resigns)", o, g.resignedBy)
	}
	return o.String()
}
