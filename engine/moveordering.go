package engine

import (
	"negachess/board"
)

// MaxPly bounds the distance from the root any search line can reach.
const MaxPly = 256

/*
Ordering offsets. Everything noisy goes ahead of the quiet heuristics, and
history is kept below counterOffset by ageing the table once any entry
reaches historyMax.
*/
const (
	captureOffset   = 200_000
	promotionOffset = 100_000
	killerOffset    = 70_000
	counterOffset   = 60_000
	historyMax      = 50_000
)

// MoveOrderer keeps the killer, counter-move and history tables and turns a
// position's legal moves into a MovePicker.
type MoveOrderer struct {
	killers  [MaxPly + 1]board.Move
	counters [64][64]board.Move
	history  [2][64][64]int

	// Counts of moves generated for ordering, for diagnostics.
	generated uint64
}

func NewMoveOrderer() *MoveOrderer {
	return &MoveOrderer{}
}

// Killer returns the killer move stored for ply.
func (mo *MoveOrderer) Killer(ply int) board.Move {
	if ply < 0 || ply > MaxPly {
		return board.NullMove
	}
	return mo.killers[ply]
}

// History returns the history score of a quiet move for side.
func (mo *MoveOrderer) History(side board.Color, m board.Move) int {
	return mo.history[side][m.From()][m.To()]
}

// Picker orders all legal moves of b: ttMove first when it is legal, then
// captures by MVV-LVA, then promotions, then the killer for ply, then the
// counter to the opponent's last move, then quiet moves by history. A
// capturing promotion ranks as a promotion.
func (mo *MoveOrderer) Picker(b *board.Board, ply int, ttMove board.Move, mp *MovePicker) {
	moves := b.LegalMovesInto(make([]board.Move, 0, 64))
	mo.generated += uint64(len(moves))

	*mp = MovePicker{moves: make([]scoredMove, 0, len(moves))}
	killer := mo.Killer(ply)
	counter := board.NullMove
	if last := b.LastMove(); last != board.NullMove {
		counter = mo.counters[last.From()][last.To()]
	}
	side := b.SideToMove()
	for _, m := range moves {
		if m == ttMove {
			mp.lead = m
			continue
		}
		var score int
		switch {
		case m.Promotion() != board.NoPieceType:
			score = promotionOffset + PieceValue[m.Promotion()]
		case b.IsCapture(m):
			victim, attacker := captureTypes(b, m)
			score = captureOffset + mvvLva(victim, attacker, 64)
		case m == killer:
			score = killerOffset
		case m == counter:
			score = counterOffset
		default:
			score = mo.history[side][m.From()][m.To()]
		}
		mp.moves = append(mp.moves, scoredMove{move: m, score: score})
	}
}

// Order is Picker drained into a slice.
func (mo *MoveOrderer) Order(b *board.Board, ply int, ttMove board.Move) []board.Move {
	var mp MovePicker
	mo.Picker(b, ply, ttMove, &mp)
	return mp.Drain()
}

// QuiescencePicker orders the moves quiescence search looks at: captures
// that do not lose material by exchange, queen promotions and checks, by
// MVV-LVA alone.
func (mo *MoveOrderer) QuiescencePicker(b *board.Board, mp *MovePicker) {
	moves := b.LegalMovesInto(make([]board.Move, 0, 64))
	mo.generated += uint64(len(moves))

	*mp = MovePicker{moves: make([]scoredMove, 0, 16)}
	for _, m := range moves {
		promo := m.Promotion()
		capture := b.IsCapture(m)
		if promo != board.Queen && !(capture && !losingCapture(b, m)) && !b.GivesCheck(m) {
			continue
		}
		score := 0
		switch {
		case promo != board.NoPieceType:
			score = 8 * PieceValue[promo]
		case capture:
			victim, attacker := captureTypes(b, m)
			score = mvvLva(victim, attacker, 16)
		}
		mp.moves = append(mp.moves, scoredMove{move: m, score: score})
	}
}

// OrderQuiescence is QuiescencePicker drained into a slice.
func (mo *MoveOrderer) OrderQuiescence(b *board.Board) []board.Move {
	var mp MovePicker
	mo.QuiescencePicker(b, &mp)
	return mp.Drain()
}

// ChecksPicker yields ttMove when legal, then queen promotions and checking
// moves in generation order.
func (mo *MoveOrderer) ChecksPicker(b *board.Board, ttMove board.Move, mp *MovePicker) {
	moves := b.LegalMovesInto(make([]board.Move, 0, 64))
	mo.generated += uint64(len(moves))

	*mp = MovePicker{}
	for _, m := range moves {
		switch {
		case m == ttMove:
			mp.lead = m
		case m.Promotion() == board.Queen || b.GivesCheck(m):
			mp.moves = append(mp.moves, scoredMove{move: m})
		}
	}
}

// OrderChecks is ChecksPicker drained into a slice.
func (mo *MoveOrderer) OrderChecks(b *board.Board, ttMove board.Move) []board.Move {
	var mp MovePicker
	mo.ChecksPicker(b, ttMove, &mp)
	return mp.Drain()
}

// A capture is only worth an exchange evaluation when the attacker is worth
// more than what it takes.
func losingCapture(b *board.Board, m board.Move) bool {
	victim, attacker := captureTypes(b, m)
	return PieceValue[attacker] > PieceValue[victim] && SEE(b, m) < 0
}

// RecordCutoff remembers a quiet move that failed high at ply: it becomes the
// killer for the ply and the counter to the opponent's last move, and its
// history score grows by depth squared.
func (mo *MoveOrderer) RecordCutoff(b *board.Board, ply int, m board.Move, depth int) {
	if m == board.NullMove || b.IsCapture(m) || m.Promotion() != board.NoPieceType {
		return
	}
	if ply >= 0 && ply <= MaxPly {
		mo.killers[ply] = m
	}
	if last := b.LastMove(); last != board.NullMove {
		mo.counters[last.From()][last.To()] = m
	}
	side := b.SideToMove()
	h := &mo.history[side][m.From()][m.To()]
	*h += depth * depth
	if *h >= historyMax {
		mo.ageHistory(side)
	}
}

func (mo *MoveOrderer) ageHistory(side board.Color) {
	for from := range mo.history[side] {
		for to := range mo.history[side][from] {
			mo.history[side][from][to] /= 2
		}
	}
}

// Decay runs before every root search: history is halved, killers and
// counters start over.
func (mo *MoveOrderer) Decay() {
	mo.ageHistory(board.White)
	mo.ageHistory(board.Black)
	mo.killers = [MaxPly + 1]board.Move{}
	mo.counters = [64][64]board.Move{}
}

// Reset clears every table for a new game.
func (mo *MoveOrderer) Reset() {
	*mo = MoveOrderer{}
}
