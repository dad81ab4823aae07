package engine

import "fmt"

// =============================================================================
// SCORES
// =============================================================================
const (
	MateScore = 99900
	Infinity  = MateScore + 1
	DrawScore = 0

	// Anything beyond this is a forced mate.
	mateBound = MateScore - MaxPly
	// Tablebase results sit just below every mate score and carry no
	// distance, so the table stores them as they are.
	TBWinScore = mateBound - 1
)

// MatedIn is the score of the side to move when it is mated ply plies from
// the root. Shorter mates score further from zero.
func MatedIn(ply int) int { return -(MateScore - ply) }

// IsDecisive reports a proven mate or tablebase score.
func IsDecisive(score int) bool { return Abs(score) >= TBWinScore }

// Mate scores count plies from the root. In the table they are stored
// counting from the node instead, so a hit at another ply reads correctly.
func scoreToTT(score, ply int) int {
	switch {
	case score >= mateBound:
		return score + ply
	case score <= -mateBound:
		return score - ply
	}
	return score
}

func scoreFromTT(score, ply int) int {
	switch {
	case score >= mateBound:
		return score - ply
	case score <= -mateBound:
		return score + ply
	}
	return score
}

// ScoreString renders a score for UCI info lines: "cp 35" or "mate -3".
// Tablebase results print as the centipawn value UCI engines use for them.
func ScoreString(score int) string {
	switch {
	case score == TBWinScore:
		return fmt.Sprintf("cp %d", tbWinCentipawns)
	case score == -TBWinScore:
		return fmt.Sprintf("cp %d", -tbWinCentipawns)
	case score >= mateBound:
		return fmt.Sprintf("mate %d", (MateScore-score+1)/2)
	case score <= -mateBound:
		return fmt.Sprintf("mate %d", -(MateScore+score+1)/2)
	}
	return fmt.Sprintf("cp %d", score)
}

// Late move reduction for the n-th move searched at depth.
func lmrReduction(depth, n int) int {
	if n >= 10 && depth >= 4 {
		return 3
	}
	return 2
}

// Depth a reduced late move is first searched at.
func lmrDepth(depth, n int) int {
	return depth - lmrReduction(depth, n)
}

func nullMoveReduction(depth int) int {
	if depth >= 6 {
		return 3
	}
	return 2
}
