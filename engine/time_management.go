package engine

import (
	"time"

	"negachess/board"
)

// Clock is what a UCI "go" command tells us about the time control.
type Clock struct {
	Remaining time.Duration
	Increment time.Duration
	MovesToGo int
}

// Safety knobs for spending clock time.
const (
	moveOverhead     = 30 * time.Millisecond // reserve for IO jitter
	minMoveTime      = 5 * time.Millisecond
	maxRemainingFrac = 0.7
	panicThreshold   = time.Second
	panicIncFrac     = 0.9
)

// Deadline turns the clock into a wall-clock deadline for one move. The time
// spent scales with an estimate of the moves left in the game.
func (c Clock) Deadline(now time.Time, b *board.Board) time.Time {
	return now.Add(c.Budget(b))
}

func (c Clock) Budget(b *board.Board) time.Duration {
	rem, inc := c.Remaining, c.Increment
	movesLeft := c.MovesToGo
	if movesLeft <= 0 {
		movesLeft = estimateMovesRemaining(gamePhase(b))
	}

	var moveTime time.Duration
	switch {
	case inc > 0 && rem < panicThreshold:
		// Nearly flagged: live off the increment.
		moveTime = time.Duration(float64(inc) * panicIncFrac)
	case inc > 0:
		moveTime = rem/time.Duration(movesLeft) + inc
	default:
		moveTime = rem / time.Duration(movesLeft)
	}

	moveTime = Min(moveTime, time.Duration(float64(rem)*maxRemainingFrac))
	moveTime = Min(moveTime, rem-moveOverhead)
	return Max(moveTime, minMoveTime)
}

// Interpolates between 20 moves left in a bare endgame and 45 with all
// pieces on the board.
func estimateMovesRemaining(phase int) int {
	return phase*25/24 + 20
}

// gamePhase is 24 with the full set of pieces and 0 with none: minor pieces
// count 1, rooks 2, queens 4.
func gamePhase(b *board.Board) int {
	phase := b.Pieces(board.Knight).Count() + b.Pieces(board.Bishop).Count() +
		2*b.Pieces(board.Rook).Count() + 4*b.Pieces(board.Queen).Count()
	return Min(phase, 24)
}
