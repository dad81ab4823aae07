package board

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the standard initial position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ErrInvalidFEN is wrapped by every ParseFEN failure.
var ErrInvalidFEN = errors.New("invalid FEN")

const pieceLetters = " PNBRQK  pnbrqk"

func pieceFromChar(ch rune) Piece {
	if i := strings.IndexRune(pieceLetters, ch); i > 0 && ch != ' ' {
		return Piece(i)
	}
	return NoPiece
}

func charFromPiece(p Piece) byte { return pieceLetters[p] }

func fenError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidFEN, fmt.Sprintf(format, args...))
}

// ParseFEN builds a board from Forsyth-Edwards Notation. The halfmove clock
// and fullmove number may be omitted. On error no board is returned.
func ParseFEN(fen string, opts ...Option) (*Board, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 || len(fields) > 6 {
		return nil, fenError("expected 4 to 6 fields, got %d", len(fields))
	}
	b := newEmpty(opts...)

	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return nil, fenError("expected 8 ranks, got %d", len(ranks))
	}
	for i, rankStr := range ranks {
		rank := 7 - i
		file := 0
		for _, ch := range rankStr {
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			p := pieceFromChar(ch)
			if p == NoPiece {
				return nil, fenError("unknown piece %q", ch)
			}
			if file >= 8 {
				return nil, fenError("rank %d is too long", rank+1)
			}
			if p.Type() == Pawn && (rank == 0 || rank == 7) {
				return nil, fenError("pawn on back rank %d", rank+1)
			}
			b.put(Square(rank*8+file), p)
			file++
		}
		if file != 8 {
			return nil, fenError("rank %d has %d files", rank+1, file)
		}
	}
	if b.PiecesOf(White, King).Count() != 1 || b.PiecesOf(Black, King).Count() != 1 {
		return nil, fenError("each side needs exactly one king")
	}

	switch fields[1] {
	case "w":
		b.sideToMove = White
	case "b":
		b.sideToMove = Black
	default:
		return nil, fenError("side to move %q", fields[1])
	}

	if fields[2] != "-" {
		for _, ch := range fields[2] {
			switch ch {
			case 'K':
				b.castling |= WhiteKingSide
			case 'Q':
				b.castling |= WhiteQueenSide
			case 'k':
				b.castling |= BlackKingSide
			case 'q':
				b.castling |= BlackQueenSide
			default:
				return nil, fenError("castling rights %q", fields[2])
			}
		}
	}

	if fields[3] != "-" {
		sq, err := ParseSquare(fields[3])
		if err != nil {
			return nil, fenError("en passant square: %v", err)
		}
		if (b.sideToMove == White && sq.Rank() != 5) || (b.sideToMove == Black && sq.Rank() != 2) {
			return nil, fenError("en passant square %v on the wrong rank", sq)
		}
		// The pawn that just double-pushed stands in front of the target, and
		// the squares it crossed are empty.
		pushed, origin := sq-8, sq+8
		if b.sideToMove == Black {
			pushed, origin = sq+8, sq-8
		}
		if b.squares[pushed] != NewPiece(b.sideToMove.Other(), Pawn) ||
			b.squares[sq] != NoPiece || b.squares[origin] != NoPiece {
			return nil, fenError("en passant square %v without a double-pushed pawn", sq)
		}
		b.epSquare = sq
	}

	if len(fields) > 4 {
		n, err := strconv.Atoi(fields[4])
		if err != nil || n < 0 {
			return nil, fenError("halfmove clock %q", fields[4])
		}
		b.halfmove = n
	}
	if len(fields) > 5 {
		n, err := strconv.Atoi(fields[5])
		if err != nil || n < 1 {
			return nil, fenError("fullmove number %q", fields[5])
		}
		b.fullmove = n
	}

	if b.IsSquareAttacked(b.KingSquare(b.sideToMove.Other()), b.sideToMove) {
		return nil, fenError("side not to move is in check")
	}

	b.key = b.hasher.Compute(b)
	return b, nil
}

// FEN serializes the position.
func (b *Board) FEN() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			p := b.squares[rank*8+file]
			if p == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte('0' + byte(empty))
				empty = 0
			}
			sb.WriteByte(charFromPiece(p))
		}
		if empty > 0 {
			sb.WriteByte('0' + byte(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	if b.sideToMove == White {
		sb.WriteString(" w ")
	} else {
		sb.WriteString(" b ")
	}

	if b.castling == NoCastling {
		sb.WriteByte('-')
	}
	for i, ch := range "KQkq" {
		if b.castling&(1<<uint(i)) != 0 {
			sb.WriteRune(ch)
		}
	}

	sb.WriteByte(' ')
	sb.WriteString(b.epSquare.String())
	fmt.Fprintf(&sb, " %d %d", b.halfmove, b.fullmove)
	return sb.String()
}

// PositionKey is the FEN without the move counters; it identifies a position
// for lookups in external catalogues.
func (b *Board) PositionKey() string {
	fields := strings.Fields(b.FEN())
	return strings.Join(fields[:4], " ")
}

// String draws the board from White's side, rank 8 first.
func (b *Board) String() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		sb.WriteByte('1' + byte(rank))
		for file := 0; file < 8; file++ {
			sb.WriteByte(' ')
			if p := b.squares[rank*8+file]; p != NoPiece {
				sb.WriteByte(charFromPiece(p))
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("  a b c d e f g h\n")
	return sb.String()
}
