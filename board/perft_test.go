package board_test

import (
	"testing"

	"negachess/board"
)

const kiwipete = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"

func TestPerftInitialPosition(t *testing.T) {
	b := board.NewBoard()
	for depth, want := range map[int]uint64{1: 20, 2: 400, 3: 8902} {
		if got := board.Perft(b, depth); got != want {
			t.Fatalf("perft depth %d: got %d want %d", depth, got, want)
		}
	}
	if b.FEN() != board.StartFEN {
		t.Fatalf("perft left the board changed: %s", b.FEN())
	}
}

func TestPerftPositions(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		want []uint64
	}{
		{"kiwipete", kiwipete, []uint64{48, 2039, 97862}},
		{"rook endgame", "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", []uint64{14, 191, 2812}},
		{"promotions and pins", "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1", []uint64{6, 264, 9467}},
		{"discovered checks", "rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8", []uint64{44, 1486, 62379}},
		{"en passant", "k7/8/8/3pP3/8/8/8/7K w - d6 0 2", []uint64{5, 19}},
		{"promotion", "1n5k/P7/8/8/8/8/8/7K w - - 0 1", []uint64{11}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := board.ParseFEN(tt.fen)
			if err != nil {
				t.Fatalf("ParseFEN: %v", err)
			}
			for i, want := range tt.want {
				if got := board.Perft(b, i+1); got != want {
					t.Fatalf("depth %d: got %d want %d", i+1, got, want)
				}
			}
		})
	}
}

func TestPerftStructuralHashingMatches(t *testing.T) {
	b, err := board.ParseFEN(kiwipete, board.WithHashing(board.Structural{}))
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	if got := board.Perft(b, 2); got != 2039 {
		t.Fatalf("structural perft depth 2: got %d want 2039", got)
	}
}

func TestPerftDivideInitialDepth2(t *testing.T) {
	div := board.PerftDivide(board.NewBoard(), 2)
	if len(div) != 20 {
		t.Fatalf("divide length: got %d want 20", len(div))
	}
	var sum uint64
	for _, e := range div {
		if e.Nodes != 20 {
			t.Errorf("%v: got %d children want 20", e.Move, e.Nodes)
		}
		sum += e.Nodes
	}
	if sum != 400 {
		t.Fatalf("divide sum: got %d want 400", sum)
	}
}
