package engine

import (
	"context"
	"time"

	"github.com/samber/lo"

	"negachess/board"
)

// =============================================================================
// PRUNING PARAMETERS
// =============================================================================
const (
	// Static eval plus this much per ply of depth must reach alpha for a
	// shallow node to look at quiet moves.
	futilityMargin   = 120
	futilityMaxDepth = 4
	lmrMinDepth      = 3
	lmrMinMoves      = 4
	nullMoveMinDepth = 3
	// A capture in quiescence is skipped when even winning the victim outright
	// by more than this leaves alpha out of reach.
	deltaMargin = 20
)

func (e *Engine) prepareSearch(ctx context.Context, deadline time.Time, b *board.Board) {
	e.ctx = ctx
	e.deadline = deadline
	e.timedOut = false
	e.started = time.Now()
	e.rootFilter = nil
	e.tbSearch = false
	e.tbWon = false

	if !e.tablebaseRange(b) {
		return
	}
	wdl, ok := e.probeWDL(b)
	if !ok {
		return
	}
	e.tbSearch = true
	e.tbWon = wdl == Win
	e.rootFilter = e.tablebaseMoves(b)
	e.log.Debug().Stringer("wdl", wdl).Int("moves", len(e.rootFilter)).Msg("tablebase-root")
}

// tablebaseMoves keeps the root moves whose resulting positions have the best
// tablebase outcome. Moves into a third repetition count as draws. Returns nil
// when the tablebase fails partway.
func (e *Engine) tablebaseMoves(b *board.Board) []board.Move {
	moves := b.LegalMoves()
	outcomes := make([]int, len(moves))
	for i, m := range moves {
		b.Push(m)
		if !b.IsRepetition(3) {
			wdl, ok := e.probeWDL(b)
			if !ok {
				b.Pop()
				return nil
			}
			outcomes[i] = -int(wdl)
		}
		b.Pop()
	}
	best := lo.Max(outcomes)
	return lo.Filter(moves, func(_ board.Move, i int) bool { return outcomes[i] == best })
}

// outOfTime reports whether the search must unwind. It polls the clock and
// the context; once either fires the answer sticks for the rest of the search.
func (e *Engine) outOfTime() bool {
	if e.timedOut {
		return true
	}
	if !e.deadline.IsZero() && !time.Now().Before(e.deadline) {
		e.timedOut = true
		return true
	}
	select {
	case <-e.ctx.Done():
		e.timedOut = true
		return true
	default:
		return false
	}
}

func (e *Engine) evaluate(b *board.Board) int {
	e.stats.Evals++
	return e.eval.Evaluate(b)
}

func (e *Engine) hint(hash uint64) board.Move {
	m, _ := e.hints.Get(hash)
	return m
}

// iterativeDeepening searches depth 1, 2, ... until the deadline, the depth
// limit or a decisive score. It returns the move of the deepest search that
// produced one, its score and the last depth started.
func (e *Engine) iterativeDeepening(b *board.Board) (board.Move, int, int) {
	best, bestScore := board.NullMove, -Infinity
	depth := 0
	for d := 1; d <= e.opts.MaxDepth; d++ {
		depth = d
		m, v := e.searchRoot(b, d)
		if m != board.NullMove {
			best, bestScore = m, v
		}
		if !e.timedOut && m != board.NullMove {
			e.log.Trace().Int("depth", d).Int("score", v).Stringer("move", m).Msg("iteration")
			if e.opts.OnIteration != nil {
				e.opts.OnIteration(Iteration{
					Depth:   d,
					Score:   v,
					Move:    m,
					Nodes:   e.stats.Nodes + e.stats.QNodes,
					Elapsed: time.Since(e.started),
				})
			}
		}
		if e.timedOut || IsDecisive(bestScore) || e.outOfTime() {
			break
		}
	}
	if best == board.NullMove {
		best = e.fallbackMove(b)
		e.log.Debug().Stringer("move", best).Msg("fallback-move")
	}
	return best, bestScore, depth
}

// fallbackMove is used when not even the first root move finished: the hint
// for the root if it is legal, otherwise the move with the best static
// evaluation.
func (e *Engine) fallbackMove(b *board.Board) board.Move {
	if m, ok := e.hints.Get(b.Hash()); ok && b.IsLegal(m) {
		return m
	}
	best, bestScore := board.NullMove, -Infinity-1
	for _, m := range b.LegalMoves() {
		b.Push(m)
		v := -e.evaluate(b)
		b.Pop()
		if v > bestScore {
			best, bestScore = m, v
		}
	}
	return best
}

// searchRoot searches every root move with a full window. The best move is
// NullMove when time ran out before the first move finished.
func (e *Engine) searchRoot(b *board.Board, depth int) (board.Move, int) {
	e.order.Decay()
	hash := b.Hash()
	moves := e.order.Order(b, 0, e.hint(hash))
	if e.rootFilter != nil {
		moves = lo.Filter(moves, func(m board.Move, _ int) bool { return lo.Contains(e.rootFilter, m) })
	}

	alpha, beta := -Infinity, Infinity
	best, bestValue := board.NullMove, -Infinity
	for i, m := range moves {
		b.Push(m)
		v := -e.negamax(b, depth-1, 1, -beta, -alpha, true)
		b.Pop()
		if e.timedOut {
			break
		}
		e.stats.Searched++
		if v > bestValue {
			best, bestValue = m, v
			e.hints.Put(hash, m)
		}
		alpha = Max(alpha, v)
		if i < len(moves)-1 && e.outOfTime() {
			break
		}
	}
	return best, bestValue
}

// negamax is a fail-hard alpha-beta search: the result is clamped to
// [alpha, beta].
func (e *Engine) negamax(b *board.Board, depth, ply, alpha, beta int, canNull bool) int {
	if e.outOfTime() {
		return alpha
	}
	e.stats.Nodes++

	// Mate on the hundredth half-move still counts as mate.
	if b.IsRepetition(3) || (b.IsFiftyMoveDraw() && !b.IsCheckmate()) {
		return Clamp(DrawScore, alpha, beta)
	}

	if depth <= 0 || ply >= MaxPly {
		if e.opts.Quiescence {
			return e.quiescence(b, ply, alpha, beta)
		}
		return Clamp(e.evaluate(b), alpha, beta)
	}

	hash := b.Hash()
	hint := e.hint(hash)
	if entry, ok := e.tt.Probe(hash); ok {
		entry.Value = scoreFromTT(entry.Value, ply)
		var cut bool
		var v int
		v, alpha, beta, cut = Cutoff(entry, depth, alpha, beta)
		if cut {
			e.stats.Cuts.TTCutoffs++
			if entry.Bound != Exact {
				e.order.RecordCutoff(b, ply, hint, depth)
			}
			return v
		}
	}

	if e.tbSearch && !e.tbWon && e.tablebaseRange(b) {
		if wdl, ok := e.probeWDL(b); ok {
			v := DrawScore
			switch wdl {
			case Win:
				v = TBWinScore
			case Loss:
				v = -TBWinScore
			}
			return Clamp(v, alpha, beta)
		}
	}

	inCheck := b.InCheck()
	if canNull && e.opts.NullMove && depth >= nullMoveMinDepth && beta < Infinity && !e.endgame && !inCheck {
		b.PushNull()
		v := -e.negamax(b, depth-1-nullMoveReduction(depth), ply+1, -beta, -beta+1, false)
		b.PopNull()
		if e.timedOut {
			return alpha
		}
		if v >= beta {
			e.stats.Cuts.NullMoveCutoffs++
			return beta
		}
	}

	// Shallow nodes far below alpha only try moves that can swing the score:
	// noisy moves, or just checks when even the best capture falls short.
	var mp MovePicker
	futile := false
	if e.opts.Futility && depth < futilityMaxDepth && !inCheck {
		margin := e.evaluate(b) + futilityMargin*depth
		switch {
		case margin+MaxPieceValue(b, b.SideToMove().Other()) < alpha:
			e.order.ChecksPicker(b, hint, &mp)
			futile = true
		case margin < alpha:
			e.order.QuiescencePicker(b, &mp)
			futile = true
		}
	}
	if futile {
		e.stats.Cuts.FutilityNodes++
	} else {
		e.order.Picker(b, ply, hint, &mp)
	}

	origAlpha := alpha
	killer := e.order.Killer(ply)
	count := 0
	for {
		m, ok := mp.Next()
		if !ok {
			break
		}
		count++
		quiet := !b.IsCapture(m) && m.Promotion() == board.NoPieceType
		b.Push(m)
		var v int
		if e.opts.LateMoveReduction && count >= lmrMinMoves && depth >= lmrMinDepth &&
			m != killer && quiet && !inCheck && !b.InCheck() {
			v = -e.negamax(b, lmrDepth(depth, count), ply+1, -beta, -alpha, true)
			if v > alpha {
				e.stats.Cuts.LMRResearches++
				v = -e.negamax(b, depth-1, ply+1, -beta, -alpha, true)
			}
		} else {
			v = -e.negamax(b, depth-1, ply+1, -beta, -alpha, true)
		}
		b.Pop()
		if e.timedOut {
			return alpha
		}
		e.stats.Searched++

		if v > alpha {
			alpha = v
			e.hints.Put(hash, m)
		}
		if alpha >= beta {
			e.stats.Cuts.BetaCutoffs++
			e.order.RecordCutoff(b, ply, m, depth)
			break
		}
	}

	if count == 0 && !b.HasLegalMoves() {
		v := DrawScore
		if inCheck {
			v = MatedIn(ply)
		}
		e.tt.Store(hash, scoreToTT(v, ply), Exact, MaxPly)
		return Clamp(v, origAlpha, beta)
	}

	switch {
	case alpha >= beta:
		e.tt.Store(hash, scoreToTT(beta, ply), Lower, depth)
		return beta
	case alpha <= origAlpha:
		e.tt.Store(hash, scoreToTT(origAlpha, ply), Upper, depth)
	default:
		e.tt.Store(hash, scoreToTT(alpha, ply), Exact, depth)
	}
	return alpha
}

// quiescence resolves captures, queen promotions and checks until the
// position is quiet, standing pat on the static evaluation.
func (e *Engine) quiescence(b *board.Board, ply, alpha, beta int) int {
	if e.outOfTime() {
		return alpha
	}
	e.stats.QNodes++

	hash := b.Hash()
	if entry, ok := e.tt.Probe(hash); ok {
		entry.Value = scoreFromTT(entry.Value, ply)
		var cut bool
		var v int
		v, alpha, beta, cut = Cutoff(entry, 0, alpha, beta)
		if cut {
			return v
		}
	}

	if b.InCheck() && !b.HasLegalMoves() {
		return Clamp(MatedIn(ply), alpha, beta)
	}

	standPat := e.evaluate(b)
	if ply >= MaxPly {
		return Clamp(standPat, alpha, beta)
	}
	if standPat >= beta {
		e.stats.Cuts.QStandPatCutoffs++
		e.tt.Store(hash, scoreToTT(beta, ply), Lower, 0)
		return beta
	}

	side := b.SideToMove()
	delta := MaxPieceValue(b, side.Other())
	if e.promotionPending(b, side) {
		delta += PieceValue[board.Queen] - PieceValue[board.Pawn]
	}
	if standPat+delta < alpha {
		e.stats.Cuts.QDeltaPrunes++
		return alpha
	}

	origAlpha := alpha
	alpha = Max(alpha, standPat)

	var mp MovePicker
	e.order.QuiescencePicker(b, &mp)
	for {
		m, ok := mp.Next()
		if !ok {
			break
		}
		if m.Promotion() == board.NoPieceType {
			if victim := b.PieceAt(m.To()); victim != board.NoPiece &&
				standPat+PieceValue[victim.Type()]+deltaMargin < alpha {
				e.stats.Cuts.QDeltaPrunes++
				continue
			}
		}
		b.Push(m)
		v := -e.quiescence(b, ply+1, -beta, -alpha)
		b.Pop()
		if e.timedOut {
			return alpha
		}
		e.stats.Searched++

		if v >= beta {
			e.stats.Cuts.QBetaCutoffs++
			e.hints.Put(hash, m)
			e.tt.Store(hash, scoreToTT(beta, ply), Lower, 0)
			return beta
		}
		if v > alpha {
			alpha = v
			e.hints.Put(hash, m)
		}
	}

	if alpha > origAlpha {
		e.tt.Store(hash, scoreToTT(alpha, ply), Exact, 0)
	} else {
		e.tt.Store(hash, scoreToTT(origAlpha, ply), Upper, 0)
	}
	return alpha
}

// promotionPending reports a pawn of side one step from promotion with the
// square ahead empty.
func (e *Engine) promotionPending(b *board.Board, side board.Color) bool {
	pawns := b.PiecesOf(side, board.Pawn)
	if side == board.White {
		return (pawns&board.Rank7)<<8&^b.Occupied() != 0
	}
	return (pawns&board.Rank2)>>8&^b.Occupied() != 0
}
