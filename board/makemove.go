package board

import "fmt"

// Push plays a legal move in place and records how to undo it. It returns the
// piece type that ends up on the destination square, i.e. the promotion piece
// for promotions. Legality is the caller's job: check with IsLegal or
// ParseMove first when the move comes from outside the generator.
func (b *Board) Push(m Move) PieceType {
	from, to := m.From(), m.To()
	moved := b.squares[from]
	if moved == NoPiece {
		panic(fmt.Sprintf("board: push %v from an empty square in %s", m, b.FEN()))
	}
	us := b.sideToMove
	u := undo{
		move:     m,
		moved:    moved,
		castling: b.castling,
		epSquare: b.epSquare,
		halfmove: b.halfmove,
		fullmove: b.fullmove,
		key:      b.key,
		keyStale: b.keyStale,
	}
	enPassant := b.IsEnPassant(m)
	castle := b.IsCastle(m)

	b.setEnPassant(NoSquare)
	b.halfmove++

	landed := moved.Type()
	switch {
	case enPassant:
		capSq := to - 8
		if us == Black {
			capSq = to + 8
		}
		u.captured = b.removePiece(capSq)
		b.movePiece(from, to)
	case castle:
		b.movePiece(from, to)
		rookFrom, rookTo := castleRook(to)
		b.movePiece(rookFrom, rookTo)
	default:
		u.captured = b.removePiece(to)
		if promo := m.Promotion(); promo != NoPieceType {
			b.removePiece(from)
			b.addPiece(to, NewPiece(us, promo))
			landed = promo
		} else {
			b.movePiece(from, to)
		}
	}

	if moved.Type() == Pawn || u.captured != NoPiece {
		b.halfmove = 0
	}
	if moved.Type() == Pawn && (to-from == 16 || from-to == 16) {
		// only record the square when a capture onto it is possible
		ep := (from + to) / 2
		if pawnAttacks[us][ep]&b.pieces[Pawn]&b.colors[us.Other()] != 0 {
			b.setEnPassant(ep)
		}
	}
	b.setCastling(b.castling &^ (castleRightsMask[from] | castleRightsMask[to]))
	if us == Black {
		b.fullmove++
	}
	b.flipSide()
	b.stack = append(b.stack, u)

	if Debug {
		b.mustValidate()
	}
	return landed
}

// Pop reverts the last Push or PushNull and returns the move it undid.
// It panics on an empty stack.
func (b *Board) Pop() Move {
	n := len(b.stack)
	if n == 0 {
		panic("board: pop on an empty move stack")
	}
	u := b.stack[n-1]
	b.stack = b.stack[:n-1]
	b.sideToMove = b.sideToMove.Other()

	if u.move != NullMove {
		m := u.move
		from, to := m.From(), m.To()
		switch {
		case u.moved.Type() == Pawn && to == u.epSquare && from.File() != to.File():
			b.put(from, b.clear(to))
			capSq := to - 8
			if b.sideToMove == Black {
				capSq = to + 8
			}
			b.put(capSq, u.captured)
		case u.moved.Type() == King && (to-from == 2 || from-to == 2):
			b.put(from, b.clear(to))
			rookFrom, rookTo := castleRook(to)
			b.put(rookFrom, b.clear(rookTo))
		default:
			b.clear(to)
			b.put(from, u.moved)
			if u.captured != NoPiece {
				b.put(to, u.captured)
			}
		}
	}

	b.castling = u.castling
	b.epSquare = u.epSquare
	b.halfmove = u.halfmove
	b.fullmove = u.fullmove
	b.key = u.key
	b.keyStale = u.keyStale

	if Debug {
		b.mustValidate()
	}
	return u.move
}

// PushNull passes the turn: the side to move flips and the en-passant square
// clears, no piece moves. Calling it while in check is a programming error.
func (b *Board) PushNull() {
	if b.InCheck() {
		panic("board: null move while in check")
	}
	b.stack = append(b.stack, undo{
		move:     NullMove,
		castling: b.castling,
		epSquare: b.epSquare,
		halfmove: b.halfmove,
		fullmove: b.fullmove,
		key:      b.key,
		keyStale: b.keyStale,
	})
	b.setEnPassant(NoSquare)
	b.halfmove++
	if b.sideToMove == Black {
		b.fullmove++
	}
	b.flipSide()
}

// PopNull reverts PushNull. It panics if the last pushed move was not a null move.
func (b *Board) PopNull() {
	if b.LastMove() != NullMove || len(b.stack) == 0 {
		panic("board: PopNull without a matching PushNull")
	}
	b.Pop()
}
