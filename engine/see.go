package engine

import "negachess/board"

// PieceValue is the material scale shared by evaluation, move ordering and
// exchange evaluation, indexed by board.PieceType.
var PieceValue = [7]int{
	board.NoPieceType: 0,
	board.Pawn:        100,
	board.Knight:      320,
	board.Bishop:      330,
	board.Rook:        500,
	board.Queen:       900,
	board.King:        20000,
}

// SEE plays out every capture and recapture on the destination square of m,
// least valuable attacker first for both sides, and returns the material the
// mover nets if both sides stop as soon as continuing would lose. Pins and
// legality are ignored. En passant and non-captures evaluate to 0.
func SEE(b *board.Board, m board.Move) int {
	target := b.PieceAt(m.To()).Type()
	if target == board.NoPieceType {
		return 0
	}
	to := m.To()
	attacker := b.PieceAt(m.From()).Type()
	side := b.SideToMove()

	var gain [32]int
	depth := 0
	occ := b.Occupied()
	from := board.SquareBB(m.From())
	attadef := b.AttackersTo(to)
	gain[0] = PieceValue[target]

	for {
		depth++
		gain[depth] = PieceValue[attacker] - gain[depth-1]
		if Max(-gain[depth-1], gain[depth]) < 0 || depth == len(gain)-1 {
			break
		}
		attadef &^= from
		occ &^= from
		// Sliders lined up behind the piece that just left show up again.
		attadef |= b.AttackersToOcc(to, occ) & occ
		side = side.Other()
		from, attacker = leastValuableAttacker(b, attadef, side)
		if from == 0 {
			break
		}
	}
	for depth--; depth > 0; depth-- {
		gain[depth-1] = -Max(-gain[depth-1], gain[depth])
	}
	return gain[0]
}

func leastValuableAttacker(b *board.Board, attadef board.Bitboard, side board.Color) (board.Bitboard, board.PieceType) {
	for pt := board.Pawn; pt <= board.King; pt++ {
		if subset := attadef & b.PiecesOf(side, pt); subset != 0 {
			return subset & -subset, pt
		}
	}
	return 0, board.NoPieceType
}
