package engine

import (
	"negachess/board"
)

// Evaluator scores a position from the side to move's point of view:
// positive is good for the mover and 0 is balanced.
type Evaluator interface {
	Evaluate(b *board.Board) int
}

// evalCache is implemented by evaluators that memoize. The engine reports
// their hits and keeps their tables bounded.
type evalCache interface {
	CacheHits() uint64
	Maintain()
	Clear()
}

// MaterialEvaluator counts material and nothing else.
type MaterialEvaluator struct{}

func (MaterialEvaluator) Evaluate(b *board.Board) int {
	v := MaterialCount(b, board.White) - MaterialCount(b, board.Black)
	if b.SideToMove() == board.Black {
		return -v
	}
	return v
}

// MaterialCount sums the values of c's pawns and pieces, king excluded.
func MaterialCount(b *board.Board, c board.Color) int {
	total := 0
	for pt := board.Pawn; pt <= board.Queen; pt++ {
		total += PieceValue[pt] * b.PiecesOf(c, pt).Count()
	}
	return total
}

// MaxPieceValue is the value of the most valuable non-king piece c owns, or a
// pawn's value when c has nothing better.
func MaxPieceValue(b *board.Board, c board.Color) int {
	for pt := board.Queen; pt >= board.Knight; pt-- {
		if b.PiecesOf(c, pt) != 0 {
			return PieceValue[pt]
		}
	}
	return PieceValue[board.Pawn]
}

// IsEndgame reports that both sides are down to at most a rook and a minor
// piece's worth of material, or the equivalent in pawns.
func IsEndgame(b *board.Board) bool {
	return MaterialCount(b, board.White) <= endgameMaterial && MaterialCount(b, board.Black) <= endgameMaterial
}

type pieceKey struct {
	pieces  board.Bitboard
	color   board.Color
	endgame bool
}

type shelterKey struct {
	king  board.Square
	pawns board.Bitboard
}

// ReferenceEvaluator adds piece-square tables, pawn structure, mobility and
// king shelter to material. Every component is memoized: whole evaluations
// by position hash, each piece type's subtotal by its bitboard, and the
// shelter term by king square and pawns.
type ReferenceEvaluator struct {
	evals   *Memo[uint64, int]
	pieces  [board.King]*Memo[pieceKey, int]
	shelter *Memo[shelterKey, int]
}

// NewReferenceEvaluator sizes the evaluation cache to capacity and the
// per-piece caches to a tenth of it.
func NewReferenceEvaluator(capacity int) *ReferenceEvaluator {
	e := &ReferenceEvaluator{
		evals:   NewMemo[uint64, int](capacity),
		shelter: NewMemo[shelterKey, int](capacity / 10),
	}
	for pt := board.Pawn; pt < board.King; pt++ {
		e.pieces[pt] = NewMemo[pieceKey, int](capacity / 10)
	}
	return e
}

func (e *ReferenceEvaluator) Evaluate(b *board.Board) int {
	hash := b.Hash()
	if v, ok := e.evals.Get(hash); ok {
		return v
	}
	endgame := IsEndgame(b)
	if endgame && (b.IsInsufficientMaterial() || b.IsStalemate()) {
		return 0
	}
	v := e.sideScore(b, board.White, endgame) - e.sideScore(b, board.Black, endgame)
	if b.SideToMove() == board.Black {
		v = -v
	}
	e.evals.Put(hash, v)
	return v
}

func (e *ReferenceEvaluator) CacheHits() uint64 { return e.evals.Hits() }

func (e *ReferenceEvaluator) Maintain() {
	e.evals.Maintain()
	e.shelter.Maintain()
	for pt := board.Pawn; pt < board.King; pt++ {
		e.pieces[pt].Maintain()
	}
}

func (e *ReferenceEvaluator) Clear() {
	e.evals.Clear()
	e.shelter.Clear()
	for pt := board.Pawn; pt < board.King; pt++ {
		e.pieces[pt].Clear()
	}
}

func (e *ReferenceEvaluator) sideScore(b *board.Board, c board.Color, endgame bool) int {
	score := 0
	for pt := board.Pawn; pt < board.King; pt++ {
		score += e.pieceScore(pt, b.PiecesOf(c, pt), c, endgame)
	}

	king := b.KingSquare(c)
	score += e.kingShelter(king, b.PiecesOf(c, board.Pawn), c, endgame)
	score += pstValue(endgame, board.King, c, king)

	occ := b.Occupied()
	for sliders := b.PiecesOf(c, board.Bishop) | b.PiecesOf(c, board.Rook) | b.PiecesOf(c, board.Queen); sliders != 0; {
		sq := sliders.PopLSB()
		var attacks board.Bitboard
		switch b.PieceAt(sq).Type() {
		case board.Bishop:
			attacks = board.BishopAttacks(sq, occ)
		case board.Rook:
			attacks = board.RookAttacks(sq, occ)
		default:
			attacks = board.BishopAttacks(sq, occ) | board.RookAttacks(sq, occ)
		}
		score += attacks.Count() * squareValue
	}
	return score
}

func (e *ReferenceEvaluator) pieceScore(pt board.PieceType, pieces board.Bitboard, c board.Color, endgame bool) int {
	key := pieceKey{pieces: pieces, color: c, endgame: endgame}
	if v, ok := e.pieces[pt].Get(key); ok {
		return v
	}
	n := pieces.Count()
	v := PieceValue[pt] * n
	switch pt {
	case board.Pawn:
		for file := 0; file < 8; file++ {
			if onFile := (pieces & board.FileMask(file)).Count(); onFile > 1 {
				v -= (onFile - 1) * doubledPawnPenalty
			}
		}
	case board.Bishop:
		if n == 2 {
			v += bishopPairBonus
		}
	}
	for bb := pieces; bb != 0; {
		sq := bb.PopLSB()
		v += pstValue(endgame, pt, c, sq)
		if pt == board.Knight {
			v += knightReach[sq] * squareValue
		}
	}
	e.pieces[pt].Put(key, v)
	return v
}

// Pawn shield in front of a king on its castled squares. Open files next to
// the king cost extra, and the file right in front of it most.
func (e *ReferenceEvaluator) kingShelter(king board.Square, pawns board.Bitboard, c board.Color, endgame bool) int {
	if endgame {
		return 0
	}
	shields, ok := pawnShields[king]
	if !ok || !isShelterSquare(king, c) {
		return 0
	}
	key := shelterKey{king: king, pawns: pawns}
	if v, ok := e.shelter.Get(key); ok {
		return v
	}

	center := king + 8
	if c == board.Black {
		center = king - 8
	}
	centerBB := board.SquareBB(center)
	v := -5
	if pawns&centerBB != 0 {
		v = 15
	}
	v += (pawns & shields[0]).Count() * 20
	v += (pawns & shields[1]).Count() * 10
	for file := 0; file < 8; file++ {
		shieldFile := board.FileMask(file) & (shields[0] | shields[1])
		if shieldFile != 0 && pawns&shieldFile == 0 {
			v -= 20
			if shieldFile&centerBB != 0 {
				v -= 25
			}
		}
	}
	e.shelter.Put(key, v)
	return v
}

func isShelterSquare(sq board.Square, c board.Color) bool {
	for _, s := range shelterSquares[c] {
		if s == sq {
			return true
		}
	}
	return false
}
