package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Stats collects search counters across a game. None of them feed back into
// the search.
type Stats struct {
	Nodes         uint64
	QNodes        uint64
	Evals         uint64
	EvalCacheHits uint64
	TTProbes      uint64
	TTHits        uint64
	HintProbes    uint64
	HintHits      uint64
	// Generated counts moves produced for ordering, Searched those actually
	// played out; the gap is what cutoffs saved.
	Generated uint64
	Searched  uint64

	Cuts CutStatistics

	BookMoves int
	// One entry per searched move: final iteration depth and time spent.
	Depths []int
	Times  []time.Duration
}

func (s Stats) AverageDepth() float64 {
	if len(s.Depths) == 0 {
		return 0
	}
	sum := 0
	for _, d := range s.Depths {
		sum += d
	}
	return float64(sum) / float64(len(s.Depths))
}

func (s Stats) AverageTime() time.Duration {
	if len(s.Times) == 0 {
		return 0
	}
	var sum time.Duration
	for _, t := range s.Times {
		sum += t
	}
	return sum / time.Duration(len(s.Times))
}

func (s Stats) clone() Stats {
	s.Depths = append([]int(nil), s.Depths...)
	s.Times = append([]time.Duration(nil), s.Times...)
	return s
}

func ratio(part, whole uint64) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole)
}

// Log writes the counters as one structured line.
func (s Stats) Log(logger zerolog.Logger) {
	logger.Info().
		Uint64("nodes", s.Nodes).
		Uint64("qnodes", s.QNodes).
		Uint64("evals", s.Evals).
		Float64("eval-hit-rate", ratio(s.EvalCacheHits, s.Evals)).
		Uint64("tt-probes", s.TTProbes).
		Float64("tt-hit-rate", ratio(s.TTHits, s.TTProbes)).
		Float64("hint-hit-rate", ratio(s.HintHits, s.HintProbes)).
		Float64("searched-ratio", ratio(s.Searched, s.Generated)).
		Int("book-moves", s.BookMoves).
		Float64("avg-depth", s.AverageDepth()).
		Dur("avg-time", s.AverageTime()).
		Object("cuts", s.Cuts).
		Msg("search-stats")
}

func (s Stats) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "nodes %d (quiescence %d)\n", s.Nodes, s.QNodes)
	fmt.Fprintf(&sb, "evals %d, cache hits %d (%.1f%%)\n", s.Evals, s.EvalCacheHits, 100*ratio(s.EvalCacheHits, s.Evals))
	fmt.Fprintf(&sb, "tt probes %d, hits %d (%.1f%%)\n", s.TTProbes, s.TTHits, 100*ratio(s.TTHits, s.TTProbes))
	fmt.Fprintf(&sb, "move hints %d of %d\n", s.HintHits, s.HintProbes)
	fmt.Fprintf(&sb, "moves searched %d of %d generated\n", s.Searched, s.Generated)
	fmt.Fprintf(&sb, "book moves %d, searched moves %d\n", s.BookMoves, len(s.Depths))
	fmt.Fprintf(&sb, "average depth %.2f, average time %v", s.AverageDepth(), s.AverageTime().Round(time.Millisecond))
	return sb.String()
}
