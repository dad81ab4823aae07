package board

import (
	"errors"
	"fmt"
)

// Debug makes every Push and Pop validate the board and panic on corruption.
// Tests switch it on; search leaves it off.
var Debug = false

// Board is the mutable position owned by a search. Moves are applied in place
// with Push and reverted with Pop; the undo stack is the only record of the
// line played so far.
type Board struct {
	// Colorless piece bitboards indexed by PieceType. Index 0 is unused.
	pieces [7]Bitboard
	// Occupancy per side.
	colors [2]Bitboard
	// Mailbox mirror of the bitboards.
	squares [64]Piece

	sideToMove Color
	castling   CastlingRights
	epSquare   Square
	halfmove   int
	fullmove   int

	hasher      HashingPolicy
	incremental bool
	key         uint64
	keyStale    bool

	stack []undo
}

// undo holds what Pop needs to restore the position before move.
type undo struct {
	move     Move
	moved    Piece
	captured Piece
	castling CastlingRights
	epSquare Square
	halfmove int
	fullmove int
	key      uint64
	keyStale bool
}

// Option configures a Board at construction time.
type Option func(*Board)

// WithHashing selects the key derivation strategy. The default is Zobrist.
func WithHashing(p HashingPolicy) Option {
	return func(b *Board) { b.hasher = p }
}

func newEmpty(opts ...Option) *Board {
	b := &Board{epSquare: NoSquare, fullmove: 1, hasher: Zobrist{}}
	for _, opt := range opts {
		opt(b)
	}
	b.incremental = b.hasher.Incremental()
	b.stack = make([]undo, 0, 128)
	return b
}

// NewBoard returns the standard starting position.
func NewBoard(opts ...Option) *Board {
	b, err := ParseFEN(StartFEN, opts...)
	if err != nil {
		panic(err)
	}
	return b
}

// Copy returns an independent deep copy, undo stack included.
func (b *Board) Copy() *Board {
	c := *b
	c.stack = append(make([]undo, 0, cap(b.stack)), b.stack...)
	return &c
}

func (b *Board) SideToMove() Color { return b.sideToMove }
func (b *Board) Castling() CastlingRights { return b.castling }
func (b *Board) EnPassant() Square { return b.epSquare }
func (b *Board) HalfmoveClock() int { return b.halfmove }
func (b *Board) FullmoveNumber() int { return b.fullmove }
func (b *Board) Hashing() HashingPolicy { return b.hasher }
func (b *Board) PieceAt(sq Square) Piece { return b.squares[sq] }
func (b *Board) Pieces(pt PieceType) Bitboard { return b.pieces[pt] }
func (b *Board) Occupancy(c Color) Bitboard { return b.colors[c] }
func (b *Board) Occupied() Bitboard { return b.colors[White] | b.colors[Black] }
func (b *Board) PiecesOf(c Color, pt PieceType) Bitboard { return b.pieces[pt] & b.colors[c] }

// KingSquare returns the king of color c, or NoSquare if it is missing.
func (b *Board) KingSquare(c Color) Square { return b.PiecesOf(c, King).LSB() }

// Hash returns the position key, recomputing it first under a lazy policy.
func (b *Board) Hash() uint64 {
	if b.keyStale {
		b.key = b.hasher.Compute(b)
		b.keyStale = false
	}
	return b.key
}

// Ply returns the number of moves on the undo stack.
func (b *Board) Ply() int { return len(b.stack) }

// LastMove returns the most recent move, or NullMove on an empty stack.
func (b *Board) LastMove() Move {
	if len(b.stack) == 0 {
		return NullMove
	}
	return b.stack[len(b.stack)-1].move
}

// Moves returns a copy of the line played since the board was set up.
func (b *Board) Moves() []Move {
	moves := make([]Move, len(b.stack))
	for i, u := range b.stack {
		moves[i] = u.move
	}
	return moves
}

// ==========================
// Low-level square edits
// ==========================

func (b *Board) put(sq Square, p Piece) {
	bit := SquareBB(sq)
	b.squares[sq] = p
	b.pieces[p.Type()] |= bit
	b.colors[p.Color()] |= bit
}

func (b *Board) clear(sq Square) Piece {
	p := b.squares[sq]
	if p == NoPiece {
		return NoPiece
	}
	mask := ^SquareBB(sq)
	b.squares[sq] = NoPiece
	b.pieces[p.Type()] &= mask
	b.colors[p.Color()] &= mask
	return p
}

func (b *Board) touch(key uint64) {
	if b.incremental {
		b.key ^= key
	} else {
		b.keyStale = true
	}
}

func (b *Board) addPiece(sq Square, p Piece) {
	b.put(sq, p)
	b.touch(b.hasher.PieceKey(p, sq))
}

func (b *Board) removePiece(sq Square) Piece {
	p := b.clear(sq)
	if p != NoPiece {
		b.touch(b.hasher.PieceKey(p, sq))
	}
	return p
}

func (b *Board) movePiece(from, to Square) {
	b.addPiece(to, b.removePiece(from))
}

func (b *Board) setCastling(cr CastlingRights) {
	if cr == b.castling {
		return
	}
	b.touch(b.hasher.CastlingKey(b.castling) ^ b.hasher.CastlingKey(cr))
	b.castling = cr
}

func (b *Board) setEnPassant(sq Square) {
	if sq == b.epSquare {
		return
	}
	b.touch(b.hasher.EnPassantKey(b.epSquare) ^ b.hasher.EnPassantKey(sq))
	b.epSquare = sq
}

func (b *Board) flipSide() {
	b.sideToMove = b.sideToMove.Other()
	b.touch(b.hasher.SideKey())
}

// ==========================
// Game status
// ==========================

// InCheck reports whether the side to move is in check.
func (b *Board) InCheck() bool {
	ksq := b.KingSquare(b.sideToMove)
	return ksq != NoSquare && b.IsSquareAttacked(ksq, b.sideToMove.Other())
}

// Checkers returns the enemy pieces giving check to the side to move.
func (b *Board) Checkers() Bitboard {
	ksq := b.KingSquare(b.sideToMove)
	if ksq == NoSquare {
		return 0
	}
	return b.AttackersTo(ksq) & b.colors[b.sideToMove.Other()]
}

// IsCheckmate reports check with no legal reply.
func (b *Board) IsCheckmate() bool { return b.InCheck() && !b.HasLegalMoves() }

// IsStalemate reports no legal move while not in check.
func (b *Board) IsStalemate() bool { return !b.InCheck() && !b.HasLegalMoves() }

// IsFiftyMoveDraw reports that a hundred half-moves passed without a capture or pawn move.
func (b *Board) IsFiftyMoveDraw() bool { return b.halfmove >= 100 }

// IsInsufficientMaterial reports positions where neither side can mate:
// bare kings, a single minor piece, or bishops all on one square color.
func (b *Board) IsInsufficientMaterial() bool {
	if b.pieces[Pawn]|b.pieces[Rook]|b.pieces[Queen] != 0 {
		return false
	}
	minors := b.pieces[Knight] | b.pieces[Bishop]
	if minors.Count() <= 1 {
		return true
	}
	if b.pieces[Knight] != 0 {
		return false
	}
	bishops := b.pieces[Bishop]
	return bishops&LightSquares == 0 || bishops&DarkSquares == 0
}

// IsRepetition reports whether the current position occurred at least count
// times in the line so far, the current occurrence included. Only positions
// since the last capture or pawn move can match, and the scan stops at a
// null move.
func (b *Board) IsRepetition(count int) bool {
	if count <= 1 {
		return true
	}
	key := b.Hash()
	seen := 1
	limit := b.halfmove
	if b.incremental {
		for i, k := len(b.stack)-1, 1; i >= 0 && k <= limit; i, k = i-1, k+1 {
			u := &b.stack[i]
			if u.move == NullMove {
				break
			}
			if u.key == key {
				seen++
				if seen >= count {
					return true
				}
			}
		}
		return false
	}

	// Stored keys may be stale under a lazy policy, so walk back for real.
	var replay []Move
	defer func() {
		for i := len(replay) - 1; i >= 0; i-- {
			b.Push(replay[i])
		}
	}()
	for k := 1; k <= limit && len(b.stack) > 0 && b.LastMove() != NullMove; k++ {
		replay = append(replay, b.Pop())
		if b.Hash() == key {
			seen++
			if seen >= count {
				return true
			}
		}
	}
	return false
}

// ==========================
// Consistency
// ==========================

// ErrCorrupt is wrapped by every Validate failure.
var ErrCorrupt = errors.New("board: inconsistent state")

// Validate cross-checks the mailbox, the piece and color bitboards and the key.
func (b *Board) Validate() error {
	if b.colors[White]&b.colors[Black] != 0 {
		return fmt.Errorf("%w: color occupancies overlap", ErrCorrupt)
	}
	var union Bitboard
	for pt := Pawn; pt <= King; pt++ {
		if union&b.pieces[pt] != 0 {
			return fmt.Errorf("%w: square holds two piece types", ErrCorrupt)
		}
		union |= b.pieces[pt]
	}
	if union != b.Occupied() {
		return fmt.Errorf("%w: piece union differs from occupancy", ErrCorrupt)
	}
	for sq := A1; sq <= H8; sq++ {
		p := b.squares[sq]
		if p == NoPiece {
			if union.Has(sq) {
				return fmt.Errorf("%w: %v set in bitboards but empty in mailbox", ErrCorrupt, sq)
			}
			continue
		}
		if !b.pieces[p.Type()].Has(sq) || !b.colors[p.Color()].Has(sq) {
			return fmt.Errorf("%w: mailbox %v disagrees with bitboards", ErrCorrupt, sq)
		}
	}
	if b.PiecesOf(White, King).Count() != 1 || b.PiecesOf(Black, King).Count() != 1 {
		return fmt.Errorf("%w: each side needs exactly one king", ErrCorrupt)
	}
	if !b.keyStale && b.key != b.hasher.Compute(b) {
		return fmt.Errorf("%w: key out of sync", ErrCorrupt)
	}
	return nil
}

func (b *Board) mustValidate() {
	if err := b.Validate(); err != nil {
		panic(err)
	}
}
