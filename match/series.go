package match

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Series plays a number of games between two players, swapping colours every
// game, and keeps the score from P1's side.
type Series struct {
	P1, P2 Player
	Rounds int
	// StartFEN defaults to the initial position.
	StartFEN string
	// OnGame, when set, sees every finished game.
	OnGame func(round int, g *Game)
	Logger zerolog.Logger

	Wins, Draws, Losses int
}

// Run plays the remaining rounds. The score so far is kept on error.
func (s *Series) Run(ctx context.Context) error {
	for r := s.Wins + s.Draws + s.Losses; r < s.Rounds; r++ {
		white, black := s.sides(r)
		opts := []Option{WithLogger(s.Logger)}
		if s.StartFEN != "" {
			opts = append(opts, WithStartFEN(s.StartFEN))
		}
		g, err := NewGame(white, black, opts...)
		if err != nil {
			return err
		}
		o, err := g.Play(ctx)
		if err != nil {
			return fmt.Errorf("round %d: %w", r+1, err)
		}
		p1White := r%2 == 0
		switch {
		case o == Drawn:
			s.Draws++
		case (o == WhiteWon) == p1White:
			s.Wins++
		default:
			s.Losses++
		}
		if s.OnGame != nil {
			s.OnGame(r+1, g)
		}
		s.Logger.Info().Int("round", r+1).Str("score", s.Score()).Msg("round-complete")
	}
	return nil
}

func (s *Series) sides(round int) (white, black Player) {
	if round%2 == 0 {
		return s.P1, s.P2
	}
	return s.P2, s.P1
}

// Score is P1's record as "+wins =draws -losses".
func (s *Series) Score() string {
	return fmt.Sprintf("+%d =%d -%d", s.Wins, s.Draws, s.Losses)
}
