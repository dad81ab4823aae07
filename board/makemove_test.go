package board

import (
	"reflect"
	"testing"
)

var roundTripFENs = []string{
	StartFEN,
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
	"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
	"k7/8/8/3pP3/8/8/8/7K w - d6 0 2",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
}

// Every legal move followed by Pop must restore the board field for field.
func TestPushPopRestoresPosition(t *testing.T) {
	Debug = true
	defer func() { Debug = false }()

	for _, policy := range []HashingPolicy{Zobrist{}, Structural{}} {
		for _, fen := range roundTripFENs {
			b, err := ParseFEN(fen, WithHashing(policy))
			if err != nil {
				t.Fatalf("ParseFEN(%q): %v", fen, err)
			}
			b.Hash()
			for _, m := range b.LegalMoves() {
				before := b.Copy()
				b.Push(m)
				b.Hash()
				for _, reply := range b.LegalMoves() {
					mid := b.Copy()
					b.Push(reply)
					b.Pop()
					if !reflect.DeepEqual(mid, b) {
						t.Fatalf("%s %s: %v %v did not round-trip", policy.Name(), fen, m, reply)
					}
				}
				if got := b.Pop(); got != m {
					t.Fatalf("Pop returned %v want %v", got, m)
				}
				if !reflect.DeepEqual(before, b) {
					t.Fatalf("%s %s: %v did not round-trip\nbefore %s\nafter  %s", policy.Name(), fen, m, before.FEN(), b.FEN())
				}
			}
		}
	}
}

func TestPushReturnsLandedPieceType(t *testing.T) {
	b, err := ParseFEN("1n5k/P7/8/8/8/8/8/7K w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	if got := b.Push(NewMove(A7, B8, Knight)); got != Knight {
		t.Fatalf("promotion: got %v want %v", got, Knight)
	}
	b.Pop()
	if got := b.Push(NewMove(H1, G1, NoPieceType)); got != King {
		t.Fatalf("king move: got %v want %v", got, King)
	}
}

func TestCastlingMovesRook(t *testing.T) {
	b, err := ParseFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	b.Push(NewMove(E1, G1, NoPieceType))
	if b.PieceAt(F1) != WhiteRook || b.PieceAt(H1) != NoPiece {
		t.Fatalf("rook not moved by short castling: %s", b.FEN())
	}
	if b.Castling()&(WhiteKingSide|WhiteQueenSide) != 0 {
		t.Fatalf("white keeps castling rights after castling: %s", b.FEN())
	}
	b.Push(NewMove(A8, A1, NoPieceType))
	if b.Castling() != BlackKingSide {
		t.Fatalf("capturing on a1 should leave only black short castling, got %04b", b.Castling())
	}
	b.Pop()
	b.Pop()
	if b.FEN() != "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1" {
		t.Fatalf("unexpected FEN after pops: %s", b.FEN())
	}
}

func TestNullMoveTogglesSideOnly(t *testing.T) {
	b, err := ParseFEN("rnbqkbnr/ppp1pppp/8/8/3pP3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 3")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	before := b.Copy()
	b.PushNull()
	if b.SideToMove() != White || b.EnPassant() != NoSquare {
		t.Fatalf("null move: side %v ep %v", b.SideToMove(), b.EnPassant())
	}
	if b.Occupied() != before.Occupied() {
		t.Fatalf("null move changed occupancy")
	}
	b.PopNull()
	if !reflect.DeepEqual(before, b) {
		t.Fatalf("null move did not round-trip")
	}
}

func TestNullMoveInCheckPanics(t *testing.T) {
	b, err := ParseFEN("4k3/8/8/8/8/8/4r3/4K3 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	b.PushNull()
}

func TestPopEmptyStackPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	NewBoard().Pop()
}
