package board

import (
	"fmt"
	"math/bits"
)

// Color identifies a side. White moves first.
type Color uint8

const (
	White Color = 0
	Black Color = 1
)

// Other returns the opposing side.
func (c Color) Other() Color { return c ^ 1 }

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// PieceType is a colorless piece kind used for table lookups.
type PieceType uint8

const (
	NoPieceType PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

var pieceTypeLetters = [...]byte{' ', 'p', 'n', 'b', 'r', 'q', 'k'}

func (pt PieceType) String() string { return string(pieceTypeLetters[pt&7]) }

// Piece is a colored piece. Black pieces are encoded as type|8 so that
// piece&7 yields the type and piece&8 the color.
type Piece uint8

const (
	NoPiece     Piece = 0
	WhitePawn   Piece = Piece(Pawn)
	WhiteKnight Piece = Piece(Knight)
	WhiteBishop Piece = Piece(Bishop)
	WhiteRook   Piece = Piece(Rook)
	WhiteQueen  Piece = Piece(Queen)
	WhiteKing   Piece = Piece(King)
	BlackPawn   Piece = Piece(Pawn) | 8
	BlackKnight Piece = Piece(Knight) | 8
	BlackBishop Piece = Piece(Bishop) | 8
	BlackRook   Piece = Piece(Rook) | 8
	BlackQueen  Piece = Piece(Queen) | 8
	BlackKing   Piece = Piece(King) | 8
)

// NewPiece combines a side and a type.
func NewPiece(c Color, pt PieceType) Piece {
	if pt == NoPieceType {
		return NoPiece
	}
	return Piece(pt) | Piece(c)<<3
}

// Type strips the color.
func (p Piece) Type() PieceType { return PieceType(p & 7) }

// Color returns the owner. NoPiece reports White.
func (p Piece) Color() Color { return Color(p>>3) & 1 }

// Square is a board index, a1=0 through h8=63.
type Square int

const NoSquare Square = -1

const (
	A1 Square = iota
	B1
	C1
	D1
	E1
	F1
	G1
	H1
	A2
	B2
	C2
	D2
	E2
	F2
	G2
	H2
	A3
	B3
	C3
	D3
	E3
	F3
	G3
	H3
	A4
	B4
	C4
	D4
	E4
	F4
	G4
	H4
	A5
	B5
	C5
	D5
	E5
	F5
	G5
	H5
	A6
	B6
	C6
	D6
	E6
	F6
	G6
	H6
	A7
	B7
	C7
	D7
	E7
	F7
	G7
	H7
	A8
	B8
	C8
	D8
	E8
	F8
	G8
	H8
)

// File returns 0 for the a-file through 7 for the h-file.
func (s Square) File() int { return int(s) & 7 }

// Rank returns 0 for the first rank through 7 for the eighth.
func (s Square) Rank() int { return int(s) >> 3 }

func (s Square) String() string {
	if s < 0 || s > 63 {
		return "-"
	}
	return string([]byte{'a' + byte(s.File()), '1' + byte(s.Rank())})
}

// ParseSquare reads algebraic coordinates such as "e4".
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return NoSquare, fmt.Errorf("invalid square %q", s)
	}
	return Square(int(s[1]-'1')*8 + int(s[0]-'a')), nil
}

// CastlingRights is a bitmask of the four castling options.
type CastlingRights uint8

const (
	WhiteKingSide CastlingRights = 1 << iota
	WhiteQueenSide
	BlackKingSide
	BlackQueenSide

	NoCastling  CastlingRights = 0
	AllCastling                = WhiteKingSide | WhiteQueenSide | BlackKingSide | BlackQueenSide
)

// Bitboard is a set of squares, one bit per square.
type Bitboard uint64

const (
	Rank1 Bitboard = 0xFF
	Rank2 Bitboard = Rank1 << 8
	Rank7 Bitboard = Rank1 << 48
	Rank8 Bitboard = Rank1 << 56
	FileA Bitboard = 0x0101010101010101

	LightSquares Bitboard = 0x55AA55AA55AA55AA
	DarkSquares  Bitboard = ^LightSquares
)

// FileMask returns all squares of the given file.
func FileMask(file int) Bitboard { return FileA << uint(file) }

// SquareBB returns a bitboard holding just sq.
func SquareBB(sq Square) Bitboard { return 1 << uint(sq) }

// Has reports whether sq is in the set.
func (bb Bitboard) Has(sq Square) bool { return bb&(1<<uint(sq)) != 0 }

// Count returns the population count.
func (bb Bitboard) Count() int { return bits.OnesCount64(uint64(bb)) }

// LSB returns the lowest set square, or NoSquare when empty.
func (bb Bitboard) LSB() Square {
	if bb == 0 {
		return NoSquare
	}
	return Square(bits.TrailingZeros64(uint64(bb)))
}

// MSB returns the highest set square, or NoSquare when empty.
func (bb Bitboard) MSB() Square {
	if bb == 0 {
		return NoSquare
	}
	return Square(63 - bits.LeadingZeros64(uint64(bb)))
}

// PopLSB removes and returns the lowest set square.
func (bb *Bitboard) PopLSB() Square {
	sq := Square(bits.TrailingZeros64(uint64(*bb)))
	*bb &= *bb - 1
	return sq
}
