package board_test

import (
	"errors"
	"testing"

	"negachess/board"
)

func TestFENRoundTrip(t *testing.T) {
	fens := []string{
		board.StartFEN,
		kiwipete,
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
		"k7/8/8/3pP3/8/8/8/7K w - d6 0 2",
		"rnbqkbnr/ppp1pppp/8/8/3pP3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 3",
	}
	for _, fen := range fens {
		b := mustParse(t, fen)
		if got := b.FEN(); got != fen {
			t.Errorf("round trip:\n got %s\nwant %s", got, fen)
		}
	}
}

func TestParseFENDefaultsCounters(t *testing.T) {
	b := mustParse(t, "4k3/8/8/8/8/8/8/4K3 b - -")
	if b.HalfmoveClock() != 0 || b.FullmoveNumber() != 1 {
		t.Fatalf("counters: %d %d", b.HalfmoveClock(), b.FullmoveNumber())
	}
	if b.PositionKey() != "4k3/8/8/8/8/8/8/4K3 b - -" {
		t.Fatalf("position key: %q", b.PositionKey())
	}
}

func TestParseFENRejectsMalformed(t *testing.T) {
	bad := []string{
		"",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP w KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNX w KQkq - 0 1",
		"rnbqkbnr/pppppppp/9/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		"rnbqkbnr/ppppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQxq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq e4 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - -1 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 0",
		"rnbqnbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		"P3k3/8/8/8/8/8/8/4K3 w - - 0 1",
		"4k3/8/8/8/8/8/4R3/4K3 w - - 0 1",
		"4k3/8/8/8/3p4/8/8/4K3 b - e3 0 1",
		"4k3/8/4p3/3P4/8/8/8/4K3 w - e6 0 1",
		"4k3/4n3/8/3Pp3/8/8/8/4K3 w - e6 0 1",
	}
	for _, fen := range bad {
		b, err := board.ParseFEN(fen)
		if err == nil {
			t.Errorf("ParseFEN(%q) succeeded", fen)
			continue
		}
		if !errors.Is(err, board.ErrInvalidFEN) {
			t.Errorf("ParseFEN(%q): error %v does not wrap ErrInvalidFEN", fen, err)
		}
		if b != nil {
			t.Errorf("ParseFEN(%q) returned a board with an error", fen)
		}
	}
}

func TestParseMove(t *testing.T) {
	b := board.NewBoard()
	m, err := b.ParseMove("e2e4")
	if err != nil || m != board.NewMove(board.E2, board.E4, board.NoPieceType) {
		t.Fatalf("ParseMove(e2e4) = %v, %v", m, err)
	}
	for _, s := range []string{"e2e5", "e7e5", "zz", "e2e4q", "0000"} {
		if _, err := b.ParseMove(s); !errors.Is(err, board.ErrIllegalMove) {
			t.Errorf("ParseMove(%q): got %v want ErrIllegalMove", s, err)
		}
	}

	b = mustParse(t, "1n5k/P7/8/8/8/8/8/7K w - - 0 1")
	m, err = b.ParseMove("a7b8q")
	if err != nil || m.Promotion() != board.Queen || m.String() != "a7b8q" {
		t.Fatalf("ParseMove(a7b8q) = %v, %v", m, err)
	}
	if _, err := b.ParseMove("a7b8"); err == nil {
		t.Fatalf("promotion without a piece should be rejected")
	}
}
