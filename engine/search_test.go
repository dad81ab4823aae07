package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"negachess/board"
)

// plainOptions turns off every pruning heuristic so the search must agree
// with plain minimax.
func plainOptions() Options {
	opts := DefaultOptions()
	opts.UseBook = false
	opts.NullMove = false
	opts.LateMoveReduction = false
	opts.Futility = false
	opts.Quiescence = false
	opts.Evaluator = MaterialEvaluator{}
	opts.TTCapacity = 1 << 18
	return opts
}

func mustEngine(t *testing.T, opts Options) *Engine {
	t.Helper()
	e, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func minimax(b *board.Board, ev Evaluator, depth, ply int) int {
	if ply > 0 && (b.IsRepetition(3) || b.IsFiftyMoveDraw()) {
		return DrawScore
	}
	if depth == 0 {
		return ev.Evaluate(b)
	}
	moves := b.LegalMoves()
	if len(moves) == 0 {
		if b.InCheck() {
			return MatedIn(ply)
		}
		return DrawScore
	}
	best := -Infinity
	for _, m := range moves {
		b.Push(m)
		best = Max(best, -minimax(b, ev, depth-1, ply+1))
		b.Pop()
	}
	return best
}

var searchPositions = []struct {
	name  string
	fen   string
	depth int
}{
	{"initial", board.StartFEN, 3},
	{"kiwipete", kiwipete, 2},
	{"back rank", "6k1/5ppp/8/8/8/8/5PPP/3R2K1 w - - 0 1", 3},
	{"defended pawn", "4k3/8/2p5/3p4/8/8/8/3QK3 w - - 0 1", 3},
	{"hanging queen", "4k3/8/8/3q4/8/8/3R4/4K3 b - - 0 1", 3},
	{"promotion race", "8/1P4k1/8/8/8/8/6p1/K7 w - - 0 1", 3},
}

func TestSearchMatchesMinimax(t *testing.T) {
	for _, tt := range searchPositions {
		for depth := 1; depth <= tt.depth; depth++ {
			b := mustParse(t, tt.fen)
			e := mustEngine(t, plainOptions())
			m, v := e.Search(b, depth)

			want := -Infinity
			values := make(map[board.Move]int)
			for _, rm := range b.LegalMoves() {
				b.Push(rm)
				values[rm] = -minimax(b, MaterialEvaluator{}, depth-1, 1)
				b.Pop()
				want = Max(want, values[rm])
			}
			if v != want {
				t.Fatalf("%s depth %d: search %d, minimax %d", tt.name, depth, v, want)
			}
			if values[m] != want {
				t.Fatalf("%s depth %d: %v scores %d, best is %d", tt.name, depth, m, values[m], want)
			}
			if b.FEN() != mustParse(t, tt.fen).FEN() {
				t.Fatalf("%s: search left the board changed", tt.name)
			}
		}
	}
}

// Every entry left in the table must bound the true value of a search to the
// entry's depth.
func TestTranspositionBoundsAreSound(t *testing.T) {
	for _, tt := range searchPositions[:4] {
		b := mustParse(t, tt.fen)
		e := mustEngine(t, plainOptions())
		e.Search(b, 3)

		checked := 0
		var walk func(ply int)
		walk = func(ply int) {
			if entry, ok := e.tt.entries.entries[b.Hash()]; ok && (entry.Depth <= 2 || !b.HasLegalMoves()) {
				ref := minimax(b, MaterialEvaluator{}, Min(entry.Depth, 2), 0)
				sound := true
				switch entry.Bound {
				case Exact:
					sound = ref == entry.Value
				case Lower:
					sound = ref >= entry.Value
				case Upper:
					sound = ref <= entry.Value
				}
				if !sound {
					t.Fatalf("%s %s: %v entry %d at depth %d, true value %d", tt.name, b.FEN(), entry.Bound, entry.Value, entry.Depth, ref)
				}
				checked++
			}
			if ply == 2 {
				return
			}
			for _, m := range b.LegalMoves() {
				b.Push(m)
				walk(ply + 1)
				b.Pop()
			}
		}
		walk(0)
		if checked == 0 {
			t.Fatalf("%s: no entries checked", tt.name)
		}
	}
}

func TestSelectMoveFindsMateInOne(t *testing.T) {
	tests := []struct {
		fen  string
		want string
	}{
		{"6k1/5ppp/8/8/8/8/5PPP/3R2K1 w - - 0 1", "d1d8"},
		{"r1bqkb1r/pppp1ppp/2n2n2/4p2Q/2B1P3/8/PPPP1PPP/RNB1K1NR w KQkq - 4 4", "h5f7"},
		{"6k1/8/6K1/8/8/8/8/R7 w - - 0 1", "a1a8"},
		// Mate on the hundredth half-move beats the fifty-move draw.
		{"6k1/5ppp/8/8/8/8/8/R3K3 w - - 99 80", "a1a8"},
	}
	for _, tt := range tests {
		opts := DefaultOptions()
		opts.UseBook = false
		opts.MaxDepth = 5
		opts.TTCapacity = 1 << 16
		e := mustEngine(t, opts)
		b := mustParse(t, tt.fen)
		m, err := e.SelectMove(b, time.Now().Add(time.Minute))
		if err != nil {
			t.Fatalf("SelectMove: %v", err)
		}
		if m.String() != tt.want {
			t.Errorf("%s: got %v want %s", tt.fen, m, tt.want)
		}
		if score, ok := e.LastScore(); !ok || score != MateScore-1 {
			t.Errorf("%s: score %d want %d", tt.fen, score, MateScore-1)
		}
		if d := e.Stats().Depths; len(d) != 1 || d[0] != 1 {
			t.Errorf("%s: a mate in one should end deepening at depth 1, got %v", tt.fen, d)
		}
	}
}

func TestSelectMoveAvoidsStalemate(t *testing.T) {
	opts := DefaultOptions()
	opts.UseBook = false
	opts.MaxDepth = 3
	opts.TTCapacity = 1 << 16
	e := mustEngine(t, opts)
	b := mustParse(t, "7k/8/6Q1/8/8/8/8/6K1 w - - 0 1")
	m, err := e.SelectMove(b, time.Now().Add(time.Minute))
	if err != nil {
		t.Fatalf("SelectMove: %v", err)
	}
	b.Push(m)
	if b.IsStalemate() {
		t.Fatalf("%v stalemates with a queen up", m)
	}
}

func TestSelectMoveNoLegalMoves(t *testing.T) {
	e := mustEngine(t, plainOptions())
	b := mustParse(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	if _, err := e.SelectMove(b, time.Now().Add(time.Second)); !errors.Is(err, ErrNoLegalMoves) {
		t.Fatalf("expected ErrNoLegalMoves, got %v", err)
	}
}

func TestSelectMoveExpiredDeadline(t *testing.T) {
	e := mustEngine(t, DefaultOptions())
	e.SetUseBook(false)
	b := mustParse(t, kiwipete)
	m, err := e.SelectMove(b, time.Now().Add(-time.Second))
	if err != nil {
		t.Fatalf("SelectMove: %v", err)
	}
	if !b.IsLegal(m) {
		t.Fatalf("fallback move %v is illegal", m)
	}

	// A legal hint for the root wins over static evaluation.
	hint := mustMove(t, b, "a2a3")
	e.hints.Put(b.Hash(), hint)
	if m, _ := e.SelectMove(b, time.Now().Add(-time.Second)); m != hint {
		t.Fatalf("got %v want the hint %v", m, hint)
	}
}

func TestSelectMoveContextCancelled(t *testing.T) {
	e := mustEngine(t, DefaultOptions())
	e.SetUseBook(false)
	b := board.NewBoard()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m, err := e.SelectMoveContext(ctx, b, time.Time{})
	if err != nil {
		t.Fatalf("SelectMoveContext: %v", err)
	}
	if !b.IsLegal(m) {
		t.Fatalf("illegal move %v", m)
	}
}

func TestSelectMoveRespectsDeadline(t *testing.T) {
	e := mustEngine(t, DefaultOptions())
	e.SetUseBook(false)
	b := mustParse(t, kiwipete)
	start := time.Now()
	m, err := e.SelectMove(b, start.Add(200*time.Millisecond))
	if err != nil {
		t.Fatalf("SelectMove: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("search overran its deadline: %v", elapsed)
	}
	if !b.IsLegal(m) {
		t.Fatalf("illegal move %v", m)
	}
	if b.FEN() != kiwipete {
		t.Fatalf("board changed: %s", b.FEN())
	}
}

func TestOnIterationReportsEveryDepth(t *testing.T) {
	opts := DefaultOptions()
	opts.UseBook = false
	opts.MaxDepth = 4
	var depths []int
	opts.OnIteration = func(it Iteration) {
		if it.Move == board.NullMove {
			t.Errorf("iteration %d without a move", it.Depth)
		}
		depths = append(depths, it.Depth)
	}
	e := mustEngine(t, opts)
	if _, err := e.SelectMove(board.NewBoard(), time.Time{}); err != nil {
		t.Fatalf("SelectMove: %v", err)
	}
	if len(depths) != 4 || depths[0] != 1 || depths[3] != 4 {
		t.Fatalf("iterations %v", depths)
	}
	s := e.Stats()
	if s.Nodes == 0 || s.Evals == 0 || s.Generated == 0 || s.Searched == 0 {
		t.Fatalf("counters not collected: %+v", s)
	}
	if s.Searched > s.Generated {
		t.Fatalf("searched %d of %d generated", s.Searched, s.Generated)
	}
}

func TestNewGameClearsTables(t *testing.T) {
	e := mustEngine(t, plainOptions())
	e.Search(board.NewBoard(), 3)
	if e.tt.Len() == 0 || e.hints.Len() == 0 {
		t.Fatalf("search stored nothing")
	}
	e.NewGame()
	if e.tt.Len() != 0 || e.hints.Len() != 0 {
		t.Fatalf("NewGame kept table entries")
	}
}

func TestSetTTCapacity(t *testing.T) {
	e := mustEngine(t, plainOptions())
	e.Search(board.NewBoard(), 3)
	e.SetTTCapacity(4)
	if e.tt.Capacity() != 4 {
		t.Fatalf("capacity %d", e.tt.Capacity())
	}
	e.maintainTables()
	if e.tt.Len() > 4 {
		t.Fatalf("maintenance left %d entries", e.tt.Len())
	}
}
