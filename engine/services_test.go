package engine

import (
	"errors"
	"testing"
	"time"

	"negachess/board"
)

type fakeBook struct {
	move  string
	err   error
	calls int
}

func (f *fakeBook) Lookup(b *board.Board) (board.Move, bool, error) {
	f.calls++
	if f.err != nil {
		return board.NullMove, false, f.err
	}
	if f.move == "" {
		return board.NullMove, false, nil
	}
	m, err := b.ParseMove(f.move)
	if err != nil {
		// Hand back the raw move so the engine has to reject it.
		from, _ := board.ParseSquare(f.move[:2])
		to, _ := board.ParseSquare(f.move[2:4])
		return board.NewMove(from, to, board.NoPieceType), true, nil
	}
	return m, true, nil
}

// fakeTablebase knows one rule: the side with the only queen wins.
type fakeTablebase struct {
	err   error
	calls int
}

func (f *fakeTablebase) ProbeWDL(b *board.Board) (WDL, error) {
	f.calls++
	if f.err != nil {
		return Draw, f.err
	}
	if !b.HasLegalMoves() {
		if b.InCheck() {
			return Loss, nil
		}
		return Draw, nil
	}
	us := b.PiecesOf(b.SideToMove(), board.Queen) != 0
	them := b.PiecesOf(b.SideToMove().Other(), board.Queen) != 0
	switch {
	case us && !them:
		return Win, nil
	case them && !us:
		return Loss, nil
	}
	return Draw, nil
}

func serviceOptions() Options {
	opts := DefaultOptions()
	opts.MaxDepth = 2
	opts.TTCapacity = 1 << 14
	return opts
}

func TestBookMoveIsPlayed(t *testing.T) {
	bk := &fakeBook{move: "d2d4"}
	opts := serviceOptions()
	opts.Book = bk
	e := mustEngine(t, opts)
	m, err := e.SelectMove(board.NewBoard(), time.Now().Add(time.Second))
	if err != nil {
		t.Fatalf("SelectMove: %v", err)
	}
	if m.String() != "d2d4" {
		t.Fatalf("got %v want the book move", m)
	}
	if s := e.Stats(); s.BookMoves != 1 || len(s.Depths) != 0 {
		t.Fatalf("book moves %d, searched %d", s.BookMoves, len(s.Depths))
	}
	if _, ok := e.LastScore(); ok {
		t.Fatalf("book moves carry no score")
	}
}

func TestBookMissKeepsBookEnabled(t *testing.T) {
	bk := &fakeBook{}
	opts := serviceOptions()
	opts.Book = bk
	e := mustEngine(t, opts)
	b := board.NewBoard()
	for i := 0; i < 2; i++ {
		if _, err := e.SelectMove(b, time.Now().Add(time.Second)); err != nil {
			t.Fatalf("SelectMove: %v", err)
		}
	}
	if bk.calls != 2 {
		t.Fatalf("book consulted %d times, want 2", bk.calls)
	}
}

func TestBookFailureDisablesBook(t *testing.T) {
	bk := &fakeBook{err: ErrServiceUnavailable}
	opts := serviceOptions()
	opts.Book = bk
	e := mustEngine(t, opts)
	b := board.NewBoard()
	for i := 0; i < 3; i++ {
		m, err := e.SelectMove(b, time.Now().Add(time.Second))
		if err != nil {
			t.Fatalf("SelectMove: %v", err)
		}
		if !b.IsLegal(m) {
			t.Fatalf("illegal move %v", m)
		}
	}
	if bk.calls != 1 {
		t.Fatalf("failed book consulted %d times, want 1", bk.calls)
	}
}

func TestIllegalBookMoveIgnored(t *testing.T) {
	bk := &fakeBook{move: "e2e5"}
	opts := serviceOptions()
	opts.Book = bk
	e := mustEngine(t, opts)
	b := board.NewBoard()
	m, err := e.SelectMove(b, time.Now().Add(time.Second))
	if err != nil {
		t.Fatalf("SelectMove: %v", err)
	}
	if m.String() == "e2e5" || !b.IsLegal(m) {
		t.Fatalf("illegal book move played: %v", m)
	}
	if e.Stats().BookMoves != 0 {
		t.Fatalf("illegal book move counted")
	}
}

func TestBookDisabledByOption(t *testing.T) {
	bk := &fakeBook{move: "d2d4"}
	opts := serviceOptions()
	opts.Book = bk
	opts.UseBook = false
	e := mustEngine(t, opts)
	if _, err := e.SelectMove(board.NewBoard(), time.Now().Add(time.Second)); err != nil {
		t.Fatalf("SelectMove: %v", err)
	}
	if bk.calls != 0 {
		t.Fatalf("book consulted with UseBook off")
	}
}

func TestTablebaseRootFilter(t *testing.T) {
	// Only Kxd2 saves White: every other move leaves Black the queen.
	const fen = "4k3/8/8/8/8/8/3q4/4K3 w - - 0 1"
	tb := &fakeTablebase{}
	opts := serviceOptions()
	opts.Tablebase = tb
	e := mustEngine(t, opts)

	b := mustParse(t, fen)
	if got := e.tablebaseMoves(b); len(got) != 1 || got[0].String() != "e1d2" {
		t.Fatalf("tablebase moves %v want [e1d2]", got)
	}
	m, err := e.SelectMove(b, time.Now().Add(time.Second))
	if err != nil {
		t.Fatalf("SelectMove: %v", err)
	}
	if m.String() != "e1d2" {
		t.Fatalf("got %v want e1d2", m)
	}
	if tb.calls == 0 {
		t.Fatalf("tablebase never probed")
	}
}

func TestTablebaseOutOfRangeNotProbed(t *testing.T) {
	tb := &fakeTablebase{}
	opts := serviceOptions()
	opts.Tablebase = tb
	e := mustEngine(t, opts)
	if _, err := e.SelectMove(board.NewBoard(), time.Now().Add(time.Second)); err != nil {
		t.Fatalf("SelectMove: %v", err)
	}
	if tb.calls != 0 {
		t.Fatalf("tablebase probed with 32 pieces on the board")
	}
}

func TestTablebaseFailureDisablesTablebase(t *testing.T) {
	tb := &fakeTablebase{err: errors.New("engine crashed")}
	opts := serviceOptions()
	opts.Tablebase = tb
	e := mustEngine(t, opts)
	b := mustParse(t, "4k3/8/8/8/8/8/3q4/4K3 w - - 0 1")
	for i := 0; i < 2; i++ {
		m, err := e.SelectMove(b, time.Now().Add(time.Second))
		if err != nil {
			t.Fatalf("SelectMove: %v", err)
		}
		if !b.IsLegal(m) {
			t.Fatalf("illegal move %v", m)
		}
	}
	if tb.calls != 1 {
		t.Fatalf("failed tablebase probed %d times, want 1", tb.calls)
	}
}

func TestECOBook(t *testing.T) {
	bk, err := NewECOBook()
	if err != nil {
		t.Fatalf("NewECOBook: %v", err)
	}
	if bk.Positions() < 100 {
		t.Fatalf("only %d positions indexed", bk.Positions())
	}
	b := board.NewBoard()
	for i := 0; i < 20; i++ {
		m, ok, err := bk.Lookup(b)
		if err != nil || !ok {
			t.Fatalf("no book move for the initial position: %v", err)
		}
		if !b.IsLegal(m) {
			t.Fatalf("book move %v is illegal", m)
		}
	}
	if _, ok, _ := bk.Lookup(mustParse(t, "4k3/8/8/8/8/8/8/4K3 w - - 0 1")); ok {
		t.Fatalf("book answered a bare-kings position")
	}
}
