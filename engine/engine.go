package engine

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"negachess/board"
)

var ErrNoLegalMoves = errors.New("no legal moves")

// Iteration describes one completed depth of iterative deepening.
type Iteration struct {
	Depth   int
	Score   int
	Move    board.Move
	Nodes   uint64
	Elapsed time.Duration
}

// Engine picks moves by iterative-deepening alpha-beta search. It owns its
// tables outright and is not safe for concurrent use; run one Engine per
// goroutine.
type Engine struct {
	opts  Options
	log   zerolog.Logger
	eval  Evaluator
	tt    *TranspositionTable
	hints *Memo[uint64, board.Move]
	order *MoveOrderer
	book  Book
	tb    Tablebase
	stats Stats

	// Latched once both sides run low on material; turns off null moves.
	endgame bool

	lastScore    int
	lastSearched bool

	// Per-search state.
	ctx        context.Context
	deadline   time.Time
	timedOut   bool
	started    time.Time
	rootFilter []board.Move
	tbSearch   bool
	tbWon      bool
}

func New(opts Options) (*Engine, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		opts:  opts,
		log:   opts.Logger,
		eval:  opts.Evaluator,
		tt:    NewTranspositionTable(opts.TTCapacity),
		hints: NewMemo[uint64, board.Move](opts.TTCapacity / 2),
		order: NewMoveOrderer(),
		book:  opts.Book,
		tb:    opts.Tablebase,
		ctx:   context.Background(),
	}
	if e.eval == nil {
		e.eval = NewReferenceEvaluator(opts.EvalCacheCapacity)
	}
	return e, nil
}

func (e *Engine) Options() Options { return e.opts }

// NewGame forgets everything learned about earlier positions. A book or
// tablebase switched off after a failure stays off.
func (e *Engine) NewGame() {
	e.tt.Clear()
	e.hints.Clear()
	e.order.Reset()
	if c, ok := e.eval.(evalCache); ok {
		c.Clear()
	}
	e.endgame = false
	e.lastSearched = false
}

// SetTTCapacity resizes the transposition and hint tables. Tables already
// over the new size are cleared before the next search.
func (e *Engine) SetTTCapacity(entries int) {
	e.opts.TTCapacity = Max(entries, 2)
	e.tt.entries.Resize(e.opts.TTCapacity)
	e.hints.Resize(e.opts.TTCapacity / 2)
}

func (e *Engine) SetUseBook(use bool) { e.opts.UseBook = use }

// SetMaxDepth bounds iterative deepening; depths outside the valid range
// restore the configured default.
func (e *Engine) SetMaxDepth(depth int) {
	if depth < 1 || depth > MaxPly/2 {
		depth = DefaultOptions().MaxDepth
	}
	e.opts.MaxDepth = depth
}

func (e *Engine) SetBook(bk Book) { e.book = bk }

// SetLogger replaces the logger given in Options.
func (e *Engine) SetLogger(l zerolog.Logger) {
	e.opts.Logger = l
	e.log = l
}

// SetTablebase replaces the tablebase; nil disables probing.
func (e *Engine) SetTablebase(tb Tablebase) { e.tb = tb }

// Stats returns a snapshot of the counters.
func (e *Engine) Stats() Stats {
	s := e.stats.clone()
	s.TTProbes, s.TTHits = e.tt.Probes()
	s.HintHits = e.hints.Hits()
	s.HintProbes = s.HintHits + e.hints.Misses()
	s.Generated = e.order.generated
	if c, ok := e.eval.(evalCache); ok {
		s.EvalCacheHits = c.CacheHits()
	}
	return s
}

// SelectMove picks a move for the side to move, searching until deadline. A
// zero deadline searches to the maximum depth.
func (e *Engine) SelectMove(b *board.Board, deadline time.Time) (board.Move, error) {
	return e.SelectMoveContext(context.Background(), b, deadline)
}

// SelectMoveContext is SelectMove that also stops when ctx is done. Either
// way a legal move comes back as long as the position has one.
func (e *Engine) SelectMoveContext(ctx context.Context, b *board.Board, deadline time.Time) (board.Move, error) {
	start := time.Now()
	if !b.HasLegalMoves() {
		return board.NullMove, ErrNoLegalMoves
	}
	e.maintainTables()
	e.checkEndgame(b)

	if m, ok := e.bookMove(b); ok {
		e.stats.BookMoves++
		e.lastSearched = false
		e.log.Debug().Stringer("move", m).Msg("book-move")
		return m, nil
	}

	e.prepareSearch(ctx, deadline, b)
	m, score, depth := e.iterativeDeepening(b)
	elapsed := time.Since(start)
	e.stats.Depths = append(e.stats.Depths, depth)
	e.stats.Times = append(e.stats.Times, elapsed)
	e.lastScore, e.lastSearched = score, true
	e.log.Debug().
		Stringer("move", m).
		Int("score", score).
		Int("depth", depth).
		Dur("elapsed", elapsed).
		Msg("move-selected")
	return m, nil
}

// Search runs one fixed-depth root search without a deadline and returns the
// best move with its score. The book is not consulted.
func (e *Engine) Search(b *board.Board, depth int) (board.Move, int) {
	e.checkEndgame(b)
	e.prepareSearch(context.Background(), time.Time{}, b)
	return e.searchRoot(b, Clamp(depth, 1, MaxPly/2))
}

// LastScore returns the score of the move SelectMove returned last, from the
// mover's side. ok is false when that move came from the book.
func (e *Engine) LastScore() (score int, ok bool) {
	return e.lastScore, e.lastSearched
}

func (e *Engine) checkEndgame(b *board.Board) {
	if !e.endgame && IsEndgame(b) {
		e.endgame = true
		e.log.Debug().Msg("endgame-reached")
	}
}

func (e *Engine) maintainTables() {
	if e.tt.entries.Maintain() {
		e.log.Debug().Msg("transposition-table-cleared")
	}
	if e.hints.Maintain() {
		e.log.Debug().Msg("hint-table-cleared")
	}
	if c, ok := e.eval.(evalCache); ok {
		c.Maintain()
	}
}

func (e *Engine) bookMove(b *board.Board) (board.Move, bool) {
	if !e.opts.UseBook || e.book == nil {
		return board.NullMove, false
	}
	m, ok, err := e.book.Lookup(b)
	if err != nil {
		e.log.Warn().Err(err).Msg("book-disabled")
		e.book = nil
		return board.NullMove, false
	}
	if !ok {
		return board.NullMove, false
	}
	if !b.IsLegal(m) {
		e.log.Debug().Stringer("move", m).Str("fen", b.FEN()).Msg("book-move-illegal")
		return board.NullMove, false
	}
	return m, true
}

// probeWDL asks the tablebase about b. The first failure switches the
// tablebase off for good.
func (e *Engine) probeWDL(b *board.Board) (WDL, bool) {
	if e.tb == nil {
		return Draw, false
	}
	wdl, err := e.tb.ProbeWDL(b)
	if err != nil {
		e.log.Warn().Err(err).Msg("tablebase-disabled")
		e.tb = nil
		return Draw, false
	}
	return wdl, true
}

func (e *Engine) tablebaseRange(b *board.Board) bool {
	return e.tb != nil && b.Occupied().Count() <= e.opts.TBPieceCount
}
