package bench

import (
	"testing"

	"negachess/board"
	"negachess/engine"
)

func benchSearch(b *testing.B, fen string, depth int) {
	opts := engine.DefaultOptions()
	opts.UseBook = false
	opts.TTCapacity = 1 << 20
	e, err := engine.New(opts)
	if err != nil {
		b.Fatalf("engine.New: %v", err)
	}
	pos := mustParse(b, fen)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.NewGame()
		e.Search(pos, depth)
	}
}

func BenchmarkSearch_Initial_D5(b *testing.B)  { benchSearch(b, board.StartFEN, 5) }
func BenchmarkSearch_Kiwipete_D4(b *testing.B) { benchSearch(b, kiwipete, 4) }

func BenchmarkEvaluate_Reference(b *testing.B) {
	pos := mustParse(b, pos6)
	ev := engine.NewReferenceEvaluator(16)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		// Clearing keeps the whole-position cache from answering.
		ev.Clear()
		ev.Evaluate(pos)
	}
}
