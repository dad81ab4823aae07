package board

import (
	"math/rand"

	"github.com/cespare/xxhash/v2"
)

// HashingPolicy decides how a Board derives its position key. The key covers
// piece placement, side to move, castling rights and the en-passant file, and
// ignores the move counters, so it also serves as the repetition key.
//
// Incremental policies expose per-feature keys which the board XORs in on
// every edit. Lazy policies return zero feature keys; the board marks its key
// stale on every edit and calls Compute on the next Hash call.
type HashingPolicy interface {
	Name() string
	Incremental() bool
	PieceKey(p Piece, sq Square) uint64
	CastlingKey(cr CastlingRights) uint64
	EnPassantKey(sq Square) uint64
	SideKey() uint64
	Compute(b *Board) uint64
}

// Zobrist tables, filled from a fixed seed so keys are reproducible across runs.
var zobristPiece [16][64]uint64
var zobristCastle [16]uint64
var zobristEnPassant [8]uint64
var zobristSide uint64

func init() {
	rnd := rand.New(rand.NewSource(0xC0DE))
	for p := 0; p < 16; p++ {
		for sq := 0; sq < 64; sq++ {
			zobristPiece[p][sq] = rnd.Uint64()
		}
	}
	for cr := range zobristCastle {
		zobristCastle[cr] = rnd.Uint64()
	}
	for f := range zobristEnPassant {
		zobristEnPassant[f] = rnd.Uint64()
	}
	zobristSide = rnd.Uint64()
}

// Zobrist maintains a 64-bit Zobrist key incrementally. This is the default.
type Zobrist struct{}

func (Zobrist) Name() string { return "zobrist" }
func (Zobrist) Incremental() bool { return true }
func (Zobrist) PieceKey(p Piece, sq Square) uint64 { return zobristPiece[p][sq] }
func (Zobrist) CastlingKey(cr CastlingRights) uint64 { return zobristCastle[cr&AllCastling] }
func (Zobrist) SideKey() uint64 { return zobristSide }
func (Zobrist) EnPassantKey(sq Square) uint64 {
	if sq == NoSquare {
		return 0
	}
	return zobristEnPassant[sq.File()]
}

// Compute builds the key from scratch.
func (z Zobrist) Compute(b *Board) uint64 {
	var key uint64
	for sq := A1; sq <= H8; sq++ {
		if p := b.squares[sq]; p != NoPiece {
			key ^= zobristPiece[p][sq]
		}
	}
	if b.sideToMove == Black {
		key ^= zobristSide
	}
	key ^= z.CastlingKey(b.castling)
	key ^= z.EnPassantKey(b.epSquare)
	return key
}

// Structural hashes a byte encoding of the position on demand. Keys are not
// interchangeable with Zobrist keys.
type Structural struct{}

func (Structural) Name() string { return "structural" }
func (Structural) Incremental() bool { return false }
func (Structural) PieceKey(Piece, Square) uint64 { return 0 }
func (Structural) CastlingKey(CastlingRights) uint64 { return 0 }
func (Structural) EnPassantKey(Square) uint64 { return 0 }
func (Structural) SideKey() uint64 { return 0 }

func (Structural) Compute(b *Board) uint64 {
	var buf [67]byte
	for sq := 0; sq < 64; sq++ {
		buf[sq] = byte(b.squares[sq])
	}
	buf[64] = byte(b.sideToMove)
	buf[65] = byte(b.castling)
	buf[66] = 0xFF
	if b.epSquare != NoSquare {
		buf[66] = byte(b.epSquare)
	}
	return xxhash.Sum64(buf[:])
}
