package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"sort"
	"time"

	"github.com/dylhunn/dragontoothmg"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"negachess/board"
)

func main() {
	fen := flag.String("fen", board.StartFEN, "FEN string (defaults to initial position)")
	depth := flag.Int("depth", 0, "Perft depth (required)")
	divide := flag.Bool("divide", false, "Print per-move node counts at root")
	repeat := flag.Int("repeat", 1, "Repeat perft N times and report aggregate (for steadier timings)")
	label := flag.String("label", "", "Optional label prefix for one-line output")
	hashing := flag.String("hashing", "zobrist", "Hashing policy: zobrist or structural")
	verify := flag.Bool("verify", false, "Cross-check node counts against dragontoothmg")
	workers := flag.Int("workers", runtime.NumCPU(), "Parallel root moves for -divide")
	cpuProf := flag.String("cpuprofile", "", "Write CPU profile to file during run")
	memProf := flag.String("memprofile", "", "Write heap profile to file after run")
	verbose := flag.Bool("v", false, "Debug logging")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if !*verbose {
		log = log.Level(zerolog.InfoLevel)
	}

	if *depth <= 0 {
		log.Fatal().Int("depth", *depth).Msg("-depth must be > 0")
	}

	var policy board.HashingPolicy
	switch *hashing {
	case "zobrist":
		policy = board.Zobrist{}
	case "structural":
		policy = board.Structural{}
	default:
		log.Fatal().Str("hashing", *hashing).Msg("unknown hashing policy")
	}

	pos, err := board.ParseFEN(*fen, board.WithHashing(policy))
	if err != nil {
		log.Fatal().Err(err).Msg("parse FEN")
	}

	if *divide {
		div, err := parallelDivide(pos, *depth, *workers)
		if err != nil {
			log.Fatal().Err(err).Msg("divide")
		}
		var sum uint64
		for _, e := range div {
			fmt.Printf("%s: %d\n", e.Move, e.Nodes)
			sum += e.Nodes
		}
		fmt.Printf("Total: %d\n", sum)
		if *verify {
			verifyDivide(log, *fen, *depth, div)
		}
		return
	}

	if *cpuProf != "" {
		f, err := os.Create(*cpuProf)
		if err != nil {
			log.Fatal().Err(err).Msg("creating cpuprofile")
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal().Err(err).Msg("start cpu profile")
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		}()
	}

	var totalNodes uint64
	start := time.Now()
	for i := 0; i < *repeat; i++ {
		totalNodes += board.Perft(pos, *depth)
	}
	elapsed := time.Since(start)
	nps := float64(totalNodes) / elapsed.Seconds()

	// Single line: Depth Nodes Time NPS
	fmt.Printf("%s \t%d \t\t%d \t\t%s \t%.0f\n", *label, *depth, totalNodes, elapsed, nps)

	if *verify {
		want := oraclePerft(*fen, *depth)
		got := totalNodes / uint64(*repeat)
		if got != want {
			log.Fatal().Uint64("nodes", got).Uint64("oracle", want).Msg("perft mismatch")
		}
		log.Info().Uint64("nodes", got).Msg("verified")
	}

	if *memProf != "" {
		f, err := os.Create(*memProf)
		if err != nil {
			log.Fatal().Err(err).Msg("creating memprofile")
		}
		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			log.Fatal().Err(err).Msg("write heap profile")
		}
		_ = f.Close()
	}
}

// parallelDivide runs one perft per root move, each on its own copy of the
// board.
func parallelDivide(pos *board.Board, depth, workers int) ([]board.DivideEntry, error) {
	moves := pos.LegalMoves()
	out := make([]board.DivideEntry, len(moves))
	var g errgroup.Group
	g.SetLimit(max(workers, 1))
	for i, m := range moves {
		i, m := i, m
		child := pos.Copy()
		g.Go(func() error {
			child.Push(m)
			if err := child.Validate(); err != nil {
				return fmt.Errorf("%v: %w", m, err)
			}
			out[i] = board.DivideEntry{Move: m, Nodes: board.Perft(child, depth-1)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Move.String() < out[j].Move.String() })
	return out, nil
}

func oraclePerft(fen string, depth int) uint64 {
	b := dragontoothmg.ParseFen(fen)
	return oracleCount(&b, depth)
}

func oracleCount(b *dragontoothmg.Board, depth int) uint64 {
	moves := b.GenerateLegalMoves()
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		undo := b.Apply(m)
		nodes += oracleCount(b, depth-1)
		undo()
	}
	return nodes
}

func verifyDivide(log zerolog.Logger, fen string, depth int, div []board.DivideEntry) {
	b := dragontoothmg.ParseFen(fen)
	want := make(map[string]uint64)
	for _, m := range b.GenerateLegalMoves() {
		undo := b.Apply(m)
		n := uint64(1)
		if depth > 1 {
			n = oracleCount(&b, depth-1)
		}
		want[m.String()] = n
		undo()
	}
	bad := 0
	for _, e := range div {
		if n, ok := want[e.Move.String()]; !ok || n != e.Nodes {
			log.Error().Stringer("move", e.Move).Uint64("nodes", e.Nodes).Uint64("oracle", n).Msg("divide mismatch")
			bad++
		}
		delete(want, e.Move.String())
	}
	for m := range want {
		log.Error().Str("move", m).Msg("missing move")
		bad++
	}
	if bad > 0 {
		log.Fatal().Int("mismatches", bad).Msg("divide verification failed")
	}
	log.Info().Int("moves", len(div)).Msg("verified")
}
