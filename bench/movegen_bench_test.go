package bench

import (
	"testing"

	"negachess/board"
)

const (
	kiwipete = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
	pos6     = "r4rk1/1pp1qppp/p1np1n2/2b1p3/2B1P3/2NP1N2/PPP1QPPP/R4RK1 w - - 0 10"
)

func mustParse(b *testing.B, fen string, opts ...board.Option) *board.Board {
	pos, err := board.ParseFEN(fen, opts...)
	if err != nil {
		b.Fatalf("ParseFEN: %v", err)
	}
	return pos
}

func benchLegalMoves(b *testing.B, fen string) {
	pos := mustParse(b, fen)
	buf := make([]board.Move, 0, 256)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf = pos.LegalMovesInto(buf[:0])
	}
}

func BenchmarkLegalMoves_Initial(b *testing.B)  { benchLegalMoves(b, board.StartFEN) }
func BenchmarkLegalMoves_Kiwipete(b *testing.B) { benchLegalMoves(b, kiwipete) }
func BenchmarkLegalMoves_Pos6(b *testing.B)     { benchLegalMoves(b, pos6) }

func BenchmarkCaptures_EP(b *testing.B) {
	pos := mustParse(b, "k7/8/8/3pP3/8/8/8/7K w - d6 0 2")
	buf := make([]board.Move, 0, 64)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf = pos.CapturesInto(buf[:0])
	}
}

func benchPushPop(b *testing.B, opts ...board.Option) {
	pos := mustParse(b, kiwipete, opts...)
	moves := pos.LegalMoves()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, m := range moves {
			pos.Push(m)
			pos.Hash()
			pos.Pop()
		}
	}
}

func BenchmarkPushPop_Zobrist(b *testing.B)    { benchPushPop(b) }
func BenchmarkPushPop_Structural(b *testing.B) { benchPushPop(b, board.WithHashing(board.Structural{})) }
