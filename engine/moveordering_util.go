package engine

import "negachess/board"

type scoredMove struct {
	move  board.Move
	score int
}

// MovePicker hands out moves best score first, selecting one at a time so a
// node that cuts off early never pays for sorting the tail. Moves with equal
// scores come out in generation order.
type MovePicker struct {
	lead  board.Move
	moves []scoredMove
	next  int
	led   bool
}

// Next returns the next move, or false once the list is exhausted.
func (mp *MovePicker) Next() (board.Move, bool) {
	if !mp.led {
		mp.led = true
		if mp.lead != board.NullMove {
			return mp.lead, true
		}
	}
	if mp.next >= len(mp.moves) {
		return board.NullMove, false
	}
	orderNextMove(mp.next, mp.moves)
	m := mp.moves[mp.next].move
	mp.next++
	return m, true
}

// Reset rewinds the picker to its first move.
func (mp *MovePicker) Reset() {
	mp.next = 0
	mp.led = false
}

func (mp *MovePicker) Len() int {
	if mp.lead != board.NullMove {
		return len(mp.moves) + 1
	}
	return len(mp.moves)
}

// Drain returns the remaining moves in order.
func (mp *MovePicker) Drain() []board.Move {
	out := make([]board.Move, 0, mp.Len())
	for m, ok := mp.Next(); ok; m, ok = mp.Next() {
		out = append(out, m)
	}
	return out
}

// Moves the best scored move from moves[cur:] to cur, shifting the ones it
// jumps over so ties keep their relative order.
func orderNextMove(cur int, moves []scoredMove) {
	best := cur
	for i := cur + 1; i < len(moves); i++ {
		if moves[i].score > moves[best].score {
			best = i
		}
	}
	if best == cur {
		return
	}
	picked := moves[best]
	copy(moves[cur+1:best+1], moves[cur:best])
	moves[cur] = picked
}

// mvvLva ranks a capture by victim first and attacker second: any capture of
// a bigger piece outranks every capture of a smaller one.
func mvvLva(victim, attacker board.PieceType, scale int) int {
	return scale*PieceValue[victim] - PieceValue[attacker]
}

// Captured and capturing piece types of m, treating en passant as pawn takes pawn.
func captureTypes(b *board.Board, m board.Move) (victim, attacker board.PieceType) {
	if b.IsEnPassant(m) {
		return board.Pawn, board.Pawn
	}
	return b.PieceAt(m.To()).Type(), b.PieceAt(m.From()).Type()
}
