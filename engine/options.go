package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

var ErrInvalidOptions = errors.New("invalid engine options")

// Options configures an Engine. Start from DefaultOptions.
type Options struct {
	// Iterative deepening stops at this depth even with time left.
	MaxDepth int
	// MoveTime is the budget SelectMove callers usually turn into a deadline.
	MoveTime time.Duration

	// TTCapacity bounds the transposition table in entries; the move hint
	// table gets half of it.
	TTCapacity int
	// EvalCacheCapacity sizes the default evaluator's caches.
	EvalCacheCapacity int

	UseBook bool
	// Tablebase probing starts once this many pieces or fewer are left.
	TBPieceCount int

	NullMove          bool
	LateMoveReduction bool
	Futility          bool
	// Quiescence turns the capture search at the horizon on; without it
	// leaves are scored statically.
	Quiescence bool

	// Evaluator defaults to a ReferenceEvaluator.
	Evaluator Evaluator
	// Book and Tablebase are optional; nil disables them.
	Book      Book
	Tablebase Tablebase

	// OnIteration, when set, is called after every completed depth.
	OnIteration func(Iteration)

	Logger zerolog.Logger
}

func DefaultOptions() Options {
	return Options{
		MaxDepth:          99,
		MoveTime:          time.Second,
		TTCapacity:        4_000_000,
		EvalCacheCapacity: 400_000,
		UseBook:           true,
		TBPieceCount:      5,
		NullMove:          true,
		LateMoveReduction: true,
		Futility:          true,
		Quiescence:        true,
		Logger:            zerolog.Nop(),
	}
}

func (o Options) Validate() error {
	switch {
	case o.MaxDepth < 1 || o.MaxDepth > MaxPly/2:
		return fmt.Errorf("%w: max depth %d outside [1, %d]", ErrInvalidOptions, o.MaxDepth, MaxPly/2)
	case o.MoveTime < 0:
		return fmt.Errorf("%w: negative move time %v", ErrInvalidOptions, o.MoveTime)
	case o.TTCapacity < 2:
		return fmt.Errorf("%w: transposition table capacity %d", ErrInvalidOptions, o.TTCapacity)
	case o.EvalCacheCapacity < 10:
		return fmt.Errorf("%w: evaluation cache capacity %d", ErrInvalidOptions, o.EvalCacheCapacity)
	case o.TBPieceCount < 0 || o.TBPieceCount > 32:
		return fmt.Errorf("%w: tablebase piece count %d", ErrInvalidOptions, o.TBPieceCount)
	}
	return nil
}
