package board

// Precomputed attack masks for the leapers.
var knightAttacks [64]Bitboard
var kingAttacks [64]Bitboard

// pawnAttacks[color][sq] is the set of squares a pawn of color attacks from sq.
var pawnAttacks [2][64]Bitboard

// Rays exclude the origin square.
// Rook directions: 0=N, 1=S, 2=E, 3=W. Bishop directions: 0=NE, 1=NW, 2=SE, 3=SW.
var rookRays [64][4]Bitboard
var bishopRays [64][4]Bitboard

// Whether the ray runs towards higher square indices, so the first blocker is the LSB.
var rookRayUp = [4]bool{true, false, true, false}
var bishopRayUp = [4]bool{true, true, false, false}

// Empty-board slider reach, used to find pin candidates.
var rookReach [64]Bitboard
var bishopReach [64]Bitboard

// between[a][b] holds the squares strictly between two aligned squares.
// line[a][b] holds the full line through both, or 0 when not aligned.
var between [64][64]Bitboard
var line [64][64]Bitboard

// castleRightsMask[sq] holds the rights lost when a piece leaves or lands on sq.
var castleRightsMask [64]CastlingRights

func init() {
	initLeaperTables()
	initRays()
	initLines()

	castleRightsMask[E1] = WhiteKingSide | WhiteQueenSide
	castleRightsMask[H1] = WhiteKingSide
	castleRightsMask[A1] = WhiteQueenSide
	castleRightsMask[E8] = BlackKingSide | BlackQueenSide
	castleRightsMask[H8] = BlackKingSide
	castleRightsMask[A8] = BlackQueenSide
}

func offsetMask(sq int, offsets [][2]int) Bitboard {
	file, rank := sq%8, sq/8
	var mask Bitboard
	for _, off := range offsets {
		r, f := rank+off[0], file+off[1]
		if r >= 0 && r < 8 && f >= 0 && f < 8 {
			mask |= 1 << uint(r*8+f)
		}
	}
	return mask
}

func initLeaperTables() {
	knightOffsets := [][2]int{
		{2, 1}, {2, -1}, {-2, 1}, {-2, -1},
		{1, 2}, {1, -2}, {-1, 2}, {-1, -2},
	}
	kingOffsets := [][2]int{
		{1, 0}, {-1, 0}, {0, 1}, {0, -1},
		{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
	}
	for sq := 0; sq < 64; sq++ {
		knightAttacks[sq] = offsetMask(sq, knightOffsets)
		kingAttacks[sq] = offsetMask(sq, kingOffsets)
		pawnAttacks[White][sq] = offsetMask(sq, [][2]int{{1, -1}, {1, 1}})
		pawnAttacks[Black][sq] = offsetMask(sq, [][2]int{{-1, -1}, {-1, 1}})
	}
}

func walk(sq, dr, df int) Bitboard {
	var ray Bitboard
	r, f := sq/8+dr, sq%8+df
	for r >= 0 && r < 8 && f >= 0 && f < 8 {
		ray |= 1 << uint(r*8+f)
		r, f = r+dr, f+df
	}
	return ray
}

func initRays() {
	for sq := 0; sq < 64; sq++ {
		rookRays[sq][0] = walk(sq, 1, 0)
		rookRays[sq][1] = walk(sq, -1, 0)
		rookRays[sq][2] = walk(sq, 0, 1)
		rookRays[sq][3] = walk(sq, 0, -1)

		bishopRays[sq][0] = walk(sq, 1, 1)
		bishopRays[sq][1] = walk(sq, 1, -1)
		bishopRays[sq][2] = walk(sq, -1, 1)
		bishopRays[sq][3] = walk(sq, -1, -1)

		for d := 0; d < 4; d++ {
			rookReach[sq] |= rookRays[sq][d]
			bishopReach[sq] |= bishopRays[sq][d]
		}
	}
}

func initLines() {
	for a := 0; a < 64; a++ {
		for d := 0; d < 4; d++ {
			// opposite directions: N<->S, E<->W for rooks; NE<->SW, NW<->SE for bishops
			fillLines(a, rookRays[a][d], &rookRays, d, d^1)
			fillLines(a, bishopRays[a][d], &bishopRays, d, 3-d)
		}
	}
}

func fillLines(a int, ray Bitboard, rays *[64][4]Bitboard, d, opp int) {
	full := rays[a][d] | rays[a][opp] | SquareBB(Square(a))
	for ray != 0 {
		b := ray.PopLSB()
		between[a][b] = rays[a][d] &^ rays[b][d] &^ SquareBB(b)
		line[a][b] = full
	}
}

func slide(rays *[64][4]Bitboard, up *[4]bool, sq Square, occ Bitboard) Bitboard {
	var attacks Bitboard
	for d := 0; d < 4; d++ {
		ray := rays[sq][d]
		if blockers := ray & occ; blockers != 0 {
			first := blockers.MSB()
			if up[d] {
				first = blockers.LSB()
			}
			ray &^= rays[first][d]
		}
		attacks |= ray
	}
	return attacks
}

// RookAttacks returns the squares a rook on sq reaches given the occupancy.
func RookAttacks(sq Square, occ Bitboard) Bitboard {
	return slide(&rookRays, &rookRayUp, sq, occ)
}

// BishopAttacks returns the squares a bishop on sq reaches given the occupancy.
func BishopAttacks(sq Square, occ Bitboard) Bitboard {
	return slide(&bishopRays, &bishopRayUp, sq, occ)
}

// KnightAttacks returns the knight targets from sq.
func KnightAttacks(sq Square) Bitboard { return knightAttacks[sq] }

// KingAttacks returns the king targets from sq.
func KingAttacks(sq Square) Bitboard { return kingAttacks[sq] }

// PawnAttacks returns the squares a pawn of color c attacks from sq.
func PawnAttacks(c Color, sq Square) Bitboard { return pawnAttacks[c][sq] }

// Between returns the squares strictly between a and b when they share a line.
func Between(a, b Square) Bitboard { return between[a][b] }

// AttackersTo returns the pieces of both colors attacking sq.
func (b *Board) AttackersTo(sq Square) Bitboard {
	return b.AttackersToOcc(sq, b.Occupied())
}

// AttackersToOcc is AttackersTo with a caller-supplied occupancy. Pieces
// outside occ are still reported when they attack; callers mask them.
func (b *Board) AttackersToOcc(sq Square, occ Bitboard) Bitboard {
	rq := b.pieces[Rook] | b.pieces[Queen]
	bq := b.pieces[Bishop] | b.pieces[Queen]
	return pawnAttacks[Black][sq]&b.pieces[Pawn]&b.colors[White] |
		pawnAttacks[White][sq]&b.pieces[Pawn]&b.colors[Black] |
		knightAttacks[sq]&b.pieces[Knight] |
		kingAttacks[sq]&b.pieces[King] |
		RookAttacks(sq, occ)&rq |
		BishopAttacks(sq, occ)&bq
}

// IsSquareAttacked reports whether any piece of color by attacks sq.
func (b *Board) IsSquareAttacked(sq Square, by Color) bool {
	return b.AttackersTo(sq)&b.colors[by] != 0
}

func (b *Board) attackedWithOcc(sq Square, by Color, occ Bitboard) bool {
	return b.AttackersToOcc(sq, occ)&b.colors[by]&occ != 0
}
