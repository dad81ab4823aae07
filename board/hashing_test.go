package board

import "testing"

// Walks every line to depth 3 checking the incremental key against a full
// recomputation.
func TestZobristIncrementalMatchesCompute(t *testing.T) {
	for _, fen := range roundTripFENs {
		b, err := ParseFEN(fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", fen, err)
		}
		var walk func(depth int)
		walk = func(depth int) {
			if got, want := b.Hash(), (Zobrist{}).Compute(b); got != want {
				t.Fatalf("%s after %v: incremental %x computed %x", fen, b.Moves(), got, want)
			}
			if depth == 0 {
				return
			}
			for _, m := range b.LegalMoves() {
				b.Push(m)
				walk(depth - 1)
				b.Pop()
			}
		}
		walk(3)
	}
}

func TestTranspositionsShareKey(t *testing.T) {
	for _, policy := range []HashingPolicy{Zobrist{}, Structural{}} {
		a := NewBoard(WithHashing(policy))
		c := NewBoard(WithHashing(policy))
		for _, s := range []string{"g1f3", "g8f6", "b1c3"} {
			m, _ := a.ParseMove(s)
			a.Push(m)
		}
		for _, s := range []string{"b1c3", "g8f6", "g1f3"} {
			m, _ := c.ParseMove(s)
			c.Push(m)
		}
		if a.Hash() != c.Hash() {
			t.Fatalf("%s: transposed lines hash differently", policy.Name())
		}
		if a.Hash() == NewBoard(WithHashing(policy)).Hash() {
			t.Fatalf("%s: different positions share a key", policy.Name())
		}
	}
}

func TestKeyIgnoresCountersButNotEnPassant(t *testing.T) {
	for _, policy := range []HashingPolicy{Zobrist{}, Structural{}} {
		x, _ := ParseFEN("k7/8/8/3pP3/8/8/8/7K w - d6 0 2", WithHashing(policy))
		y, _ := ParseFEN("k7/8/8/3pP3/8/8/8/7K w - d6 7 30", WithHashing(policy))
		z, _ := ParseFEN("k7/8/8/3pP3/8/8/8/7K w - - 0 2", WithHashing(policy))
		if x.Hash() != y.Hash() {
			t.Fatalf("%s: move counters changed the key", policy.Name())
		}
		if x.Hash() == z.Hash() {
			t.Fatalf("%s: en passant square not part of the key", policy.Name())
		}
	}
}

func TestNullMoveKeyRestored(t *testing.T) {
	b := NewBoard()
	m, _ := b.ParseMove("e2e4")
	b.Push(m)
	key := b.Hash()
	b.PushNull()
	if b.Hash() == key {
		t.Fatalf("null move did not change the key")
	}
	b.PopNull()
	if b.Hash() != key {
		t.Fatalf("PopNull did not restore the key")
	}
}
