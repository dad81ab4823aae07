package board

import (
	"errors"
	"fmt"
	"strings"
)

// Move packs from (bits 0-5), to (bits 6-11) and the promotion piece type
// (bits 12-14). Two moves are equal exactly when their squares and promotion
// agree. Castling is encoded as the king's two-square step and en passant as
// the pawn's diagonal step onto the en-passant square.
type Move uint16

// NullMove passes the turn. It is only used by null-move pruning.
const NullMove Move = 0

// ErrIllegalMove is returned when input does not name a legal move.
var ErrIllegalMove = errors.New("illegal move")

// NewMove builds a move. promo is NoPieceType for non-promotions.
func NewMove(from, to Square, promo PieceType) Move {
	return Move(from) | Move(to)<<6 | Move(promo)<<12
}

func (m Move) From() Square { return Square(m & 63) }

func (m Move) To() Square { return Square(m >> 6 & 63) }

// Promotion returns the promotion piece type, or NoPieceType.
func (m Move) Promotion() PieceType { return PieceType(m >> 12 & 7) }

func (m Move) IsNull() bool { return m == NullMove }

// String renders UCI long algebraic notation, e.g. "e7e8q". The null move is "0000".
func (m Move) String() string {
	if m == NullMove {
		return "0000"
	}
	s := m.From().String() + m.To().String()
	if p := m.Promotion(); p != NoPieceType {
		s += p.String()
	}
	return s
}

// MovedPiece returns the piece standing on the move's origin.
func (b *Board) MovedPiece(m Move) Piece { return b.squares[m.From()] }

// IsEnPassant reports a pawn capturing onto the en-passant square.
func (b *Board) IsEnPassant(m Move) bool {
	return b.epSquare != NoSquare && m.To() == b.epSquare &&
		b.squares[m.From()].Type() == Pawn && m.From().File() != m.To().File()
}

// IsCastle reports a king stepping two files.
func (b *Board) IsCastle(m Move) bool {
	if b.squares[m.From()].Type() != King {
		return false
	}
	d := m.To() - m.From()
	return d == 2 || d == -2
}

// IsCapture reports whether the move removes an enemy piece.
func (b *Board) IsCapture(m Move) bool {
	return b.squares[m.To()] != NoPiece || b.IsEnPassant(m)
}

// CapturedType returns the type of the piece the move removes, Pawn for en passant.
func (b *Board) CapturedType(m Move) PieceType {
	if b.IsEnPassant(m) {
		return Pawn
	}
	return b.squares[m.To()].Type()
}

// GivesCheck reports whether playing m checks the opponent.
func (b *Board) GivesCheck(m Move) bool {
	b.Push(m)
	check := b.InCheck()
	b.Pop()
	return check
}

// IsLegal reports whether m is among the legal moves of the position.
func (b *Board) IsLegal(m Move) bool {
	if m == NullMove {
		return false
	}
	var buf [256]Move
	for _, lm := range b.LegalMovesInto(buf[:0]) {
		if lm == m {
			return true
		}
	}
	return false
}

// ParseMove resolves a UCI move string against the legal moves. The board is
// not touched; an unknown or illegal move yields an error wrapping ErrIllegalMove.
func (b *Board) ParseMove(s string) (Move, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != 4 && len(s) != 5 {
		return NullMove, fmt.Errorf("%w: %q is not in UCI notation", ErrIllegalMove, s)
	}
	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NullMove, fmt.Errorf("%w: %v", ErrIllegalMove, err)
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NullMove, fmt.Errorf("%w: %v", ErrIllegalMove, err)
	}
	promo := NoPieceType
	if len(s) == 5 {
		switch s[4] {
		case 'q':
			promo = Queen
		case 'r':
			promo = Rook
		case 'b':
			promo = Bishop
		case 'n':
			promo = Knight
		default:
			return NullMove, fmt.Errorf("%w: bad promotion piece in %q", ErrIllegalMove, s)
		}
	}
	m := NewMove(from, to, promo)
	if !b.IsLegal(m) {
		return NullMove, fmt.Errorf("%w: %s in %s", ErrIllegalMove, s, b.FEN())
	}
	return m, nil
}
