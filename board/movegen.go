package board

// Generation filters.
const (
	genQuiets = 1 << iota
	genNoisy
	genAll = genQuiets | genNoisy
)

// LegalMoves returns every legal move for the side to move.
func (b *Board) LegalMoves() []Move {
	return b.LegalMovesInto(make([]Move, 0, 64))
}

// LegalMovesInto appends the legal moves to dst[:0] and returns the result.
func (b *Board) LegalMovesInto(dst []Move) []Move {
	return b.filterLegal(b.generate(dst[:0], genAll))
}

// Captures returns the legal captures and promotions.
func (b *Board) Captures() []Move {
	return b.CapturesInto(make([]Move, 0, 32))
}

// CapturesInto is Captures with a caller-supplied buffer.
func (b *Board) CapturesInto(dst []Move) []Move {
	return b.filterLegal(b.generate(dst[:0], genNoisy))
}

// PseudoLegalMoves returns the moves before the king-safety filter.
func (b *Board) PseudoLegalMoves() []Move {
	return b.generate(make([]Move, 0, 64), genAll)
}

// HasLegalMoves reports whether the side to move can move at all.
func (b *Board) HasLegalMoves() bool {
	var buf [256]Move
	moves := b.generate(buf[:0], genAll)
	safety := b.safety()
	for _, m := range moves {
		if b.isLegal(m, &safety) {
			return true
		}
	}
	return false
}

// generate appends pseudo-legal moves: every move obeying piece movement
// rules, without regard to the mover's own king. Castling is the exception;
// its path and check conditions are verified here.
func (b *Board) generate(moves []Move, filter int) []Move {
	us := b.sideToMove
	them := us.Other()
	own := b.colors[us]
	enemy := b.colors[them]
	occ := own | enemy
	empty := ^occ

	var targets Bitboard
	if filter&genNoisy != 0 {
		targets |= enemy
	}
	if filter&genQuiets != 0 {
		targets |= empty
	}

	moves = b.generatePawnMoves(moves, filter, us, enemy, empty)

	knights := b.pieces[Knight] & own
	for knights != 0 {
		from := knights.PopLSB()
		moves = appendTargets(moves, from, knightAttacks[from]&targets)
	}
	bishops := (b.pieces[Bishop] | b.pieces[Queen]) & own
	for bishops != 0 {
		from := bishops.PopLSB()
		moves = appendTargets(moves, from, BishopAttacks(from, occ)&targets)
	}
	rooks := (b.pieces[Rook] | b.pieces[Queen]) & own
	for rooks != 0 {
		from := rooks.PopLSB()
		moves = appendTargets(moves, from, RookAttacks(from, occ)&targets)
	}

	ksq := (b.pieces[King] & own).LSB()
	if ksq != NoSquare {
		moves = appendTargets(moves, ksq, kingAttacks[ksq]&targets)
		if filter&genQuiets != 0 {
			moves = b.generateCastling(moves, us, ksq, occ)
		}
	}
	return moves
}

func appendTargets(moves []Move, from Square, targets Bitboard) []Move {
	for targets != 0 {
		moves = append(moves, NewMove(from, targets.PopLSB(), NoPieceType))
	}
	return moves
}

func appendPromotions(moves []Move, from, to Square) []Move {
	return append(moves,
		NewMove(from, to, Queen),
		NewMove(from, to, Rook),
		NewMove(from, to, Bishop),
		NewMove(from, to, Knight),
	)
}

func (b *Board) generatePawnMoves(moves []Move, filter int, us Color, enemy, empty Bitboard) []Move {
	forward, startRank, lastRank := 8, Rank2, Rank8
	if us == Black {
		forward, startRank, lastRank = -8, Rank7, Rank1
	}
	pawns := b.pieces[Pawn] & b.colors[us]
	for pawns != 0 {
		from := pawns.PopLSB()
		one := from + Square(forward)
		if empty.Has(one) {
			if lastRank.Has(one) {
				// promotions count as noisy whether or not they capture
				if filter&genNoisy != 0 {
					moves = appendPromotions(moves, from, one)
				}
			} else if filter&genQuiets != 0 {
				moves = append(moves, NewMove(from, one, NoPieceType))
				two := one + Square(forward)
				if startRank.Has(from) && empty.Has(two) {
					moves = append(moves, NewMove(from, two, NoPieceType))
				}
			}
		}
		if filter&genNoisy == 0 {
			continue
		}
		attacks := pawnAttacks[us][from]
		captures := attacks & enemy
		for captures != 0 {
			to := captures.PopLSB()
			if lastRank.Has(to) {
				moves = appendPromotions(moves, from, to)
			} else {
				moves = append(moves, NewMove(from, to, NoPieceType))
			}
		}
		if b.epSquare != NoSquare && attacks.Has(b.epSquare) {
			moves = append(moves, NewMove(from, b.epSquare, NoPieceType))
		}
	}
	return moves
}

// castleSpec describes one castling option.
type castleSpec struct {
	right    CastlingRights
	king     Square
	to       Square
	rook     Square
	rookTo   Square
	empty    Bitboard // squares between king and rook
	kingPath []Square // squares the king stands on or crosses
}

var castleSpecs = [2][2]castleSpec{
	White: {
		{WhiteKingSide, E1, G1, H1, F1, SquareBB(F1) | SquareBB(G1), []Square{E1, F1, G1}},
		{WhiteQueenSide, E1, C1, A1, D1, SquareBB(B1) | SquareBB(C1) | SquareBB(D1), []Square{E1, D1, C1}},
	},
	Black: {
		{BlackKingSide, E8, G8, H8, F8, SquareBB(F8) | SquareBB(G8), []Square{E8, F8, G8}},
		{BlackQueenSide, E8, C8, A8, D8, SquareBB(B8) | SquareBB(C8) | SquareBB(D8), []Square{E8, D8, C8}},
	},
}

func (b *Board) generateCastling(moves []Move, us Color, ksq Square, occ Bitboard) []Move {
	for i := range castleSpecs[us] {
		cs := &castleSpecs[us][i]
		if b.castling&cs.right == 0 || ksq != cs.king || occ&cs.empty != 0 {
			continue
		}
		if b.squares[cs.rook] != NewPiece(us, Rook) {
			continue
		}
		safe := true
		for _, sq := range cs.kingPath {
			if b.IsSquareAttacked(sq, us.Other()) {
				safe = false
				break
			}
		}
		if safe {
			moves = append(moves, NewMove(cs.king, cs.to, NoPieceType))
		}
	}
	return moves
}

// castleRook returns the rook's squares for a castling king landing on kingTo.
func castleRook(kingTo Square) (from, to Square) {
	switch kingTo {
	case G1:
		return H1, F1
	case C1:
		return A1, D1
	case G8:
		return H8, F8
	case C8:
		return A8, D8
	}
	return NoSquare, NoSquare
}

// safety holds what the legality test needs about the mover's king.
type safety struct {
	king     Square
	checkers Bitboard
	pinned   Bitboard
}

func (b *Board) safety() safety {
	us := b.sideToMove
	them := us.Other()
	s := safety{king: b.KingSquare(us)}
	if s.king == NoSquare {
		return s
	}
	occ := b.Occupied()
	s.checkers = b.AttackersTo(s.king) & b.colors[them]

	snipers := rookReach[s.king]&(b.pieces[Rook]|b.pieces[Queen])&b.colors[them] |
		bishopReach[s.king]&(b.pieces[Bishop]|b.pieces[Queen])&b.colors[them]
	for snipers != 0 {
		sn := snipers.PopLSB()
		blockers := between[s.king][sn] & occ
		if blockers.Count() == 1 && blockers&b.colors[us] != 0 {
			s.pinned |= blockers
		}
	}
	return s
}

// isLegal is the king-safety filter applied to a pseudo-legal move.
func (b *Board) isLegal(m Move, s *safety) bool {
	if s.king == NoSquare {
		return true
	}
	from, to := m.From(), m.To()
	us := b.sideToMove
	them := us.Other()

	if from == s.king {
		if d := to - from; d == 2 || d == -2 {
			// path and check conditions were tested at generation
			return true
		}
		occ := b.Occupied() &^ SquareBB(from)
		return !b.attackedWithOcc(to, them, occ&^SquareBB(to))
	}

	if b.IsEnPassant(m) {
		capSq := to - 8
		if us == Black {
			capSq = to + 8
		}
		occ := b.Occupied()&^SquareBB(from)&^SquareBB(capSq) | SquareBB(to)
		return !b.attackedWithOcc(s.king, them, occ)
	}

	if s.checkers != 0 {
		if s.checkers.Count() > 1 {
			return false
		}
		checker := s.checkers.LSB()
		if !(s.checkers | between[s.king][checker]).Has(to) {
			return false
		}
	}
	if s.pinned.Has(from) && !line[s.king][from].Has(to) {
		return false
	}
	return true
}

func (b *Board) filterLegal(moves []Move) []Move {
	s := b.safety()
	legal := moves[:0]
	for _, m := range moves {
		if b.isLegal(m, &s) {
			legal = append(legal, m)
		}
	}
	return legal
}
