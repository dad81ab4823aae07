package match

import (
	"fmt"
	"time"

	"github.com/notnil/chess"

	"negachess/board"
)

// PGN exports the game so far with Date, White, Black and Result tags.
func (g *Game) PGN() (string, error) {
	fen, err := chess.FEN(g.start)
	if err != nil {
		return "", fmt.Errorf("pgn: start position: %w", err)
	}
	game := chess.NewGame(fen)
	for i, m := range g.board.Moves() {
		cm, err := chess.UCINotation{}.Decode(game.Position(), m.String())
		if err != nil {
			return "", fmt.Errorf("pgn: ply %d %v: %w", i+1, m, err)
		}
		if err := game.Move(cm); err != nil {
			return "", fmt.Errorf("pgn: ply %d %v: %w", i+1, m, err)
		}
	}

	o, t := g.Outcome()
	switch t {
	case Resignation:
		game.Resign(chessColor(g.resignedBy))
	case FiftyMoveRule:
		claimDraw(game, chess.FiftyMoveRule)
	case ThreefoldRepetition:
		claimDraw(game, chess.ThreefoldRepetition)
	}

	date := g.started
	if date.IsZero() {
		date = time.Now()
	}
	game.AddTagPair("Date", date.Format("2006.01.02"))
	game.AddTagPair("White", g.White.Name())
	game.AddTagPair("Black", g.Black.Name())
	game.AddTagPair("Result", o.String())
	if t != Unterminated {
		game.AddTagPair("Termination", t.String())
	}
	return game.String(), nil
}

func chessColor(c board.Color) chess.Color {
	if c == board.White {
		return chess.White
	}
	return chess.Black
}

// claimDraw records a claimed draw, falling back to an agreed draw when the
// PGN library counts repetitions differently.
func claimDraw(game *chess.Game, method chess.Method) {
	if err := game.Draw(method); err != nil {
		game.Draw(chess.DrawOffer)
	}
}
