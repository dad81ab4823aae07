package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"negachess/board"
	"negachess/engine"
)

// Positions searched when no suite is given.
var defaultSuite = []string{
	board.StartFEN,
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"r4rk1/1pp1qppp/p1np1n2/2b1p3/2B1P3/2NP1N2/PPP1QPPP/R4RK1 w - - 0 10",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"r1bqkb1r/pppp1ppp/2n2n2/4p2Q/2B1P3/8/PPPP1PPP/RNB1K1NR w KQkq - 4 4",
}

type result struct {
	fen     string
	move    board.Move
	score   int
	elapsed time.Duration
	stats   engine.Stats
}

func main() {
	depthFlag := flag.Int("depth", 6, "maximum search depth in plies")
	moveTime := flag.Duration("movetime", 0, "time per position (0 = search to -depth)")
	repeatFlag := flag.Int("repeat", 1, "number of passes over the suite")
	fenFlag := flag.String("fen", "", "single FEN to search (overrides -suite)")
	suiteFlag := flag.String("suite", "", "file with one FEN per line")
	workers := flag.Int("workers", runtime.NumCPU(), "positions searched in parallel, one engine each")
	hash := flag.Int("hash", 1<<20, "transposition table entries per engine")
	cpuProfile := flag.String("cpuprofile", "", "write CPU profile to file")
	memProfile := flag.String("memprofile", "", "write memory profile (heap) to file")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if !*verbose {
		log = log.Level(zerolog.InfoLevel)
	}

	opts := engine.DefaultOptions()
	opts.MaxDepth = *depthFlag
	opts.TTCapacity = *hash
	opts.UseBook = false
	if err := opts.Validate(); err != nil {
		log.Fatal().Err(err).Msg("options")
	}

	suite := defaultSuite
	switch {
	case *fenFlag != "":
		suite = []string{*fenFlag}
	case *suiteFlag != "":
		var err error
		if suite, err = readSuite(*suiteFlag); err != nil {
			log.Fatal().Err(err).Msg("read suite")
		}
	}
	for _, fen := range suite {
		if _, err := board.ParseFEN(fen); err != nil {
			log.Fatal().Err(err).Str("fen", fen).Msg("bad suite entry")
		}
	}

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			log.Fatal().Err(err).Msg("could not create CPU profile")
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal().Err(err).Msg("could not start CPU profile")
		}
		defer func() {
			pprof.StopCPUProfile()
			f.Close()
		}()
	}

	fmt.Printf("searchbench: positions=%d depth=%d movetime=%v repeat=%d\n", len(suite), *depthFlag, *moveTime, *repeatFlag)

	startAll := time.Now()
	var total engine.Stats
	for pass := 0; pass < *repeatFlag; pass++ {
		results, err := searchSuite(context.Background(), suite, opts, *moveTime, *workers, log)
		if err != nil {
			log.Fatal().Err(err).Msg("search")
		}
		for i, r := range results {
			fmt.Printf("pass %d #%d: bestmove %v %s time=%v depth=%d nodes=%d\n",
				pass+1, i+1, r.move, engine.ScoreString(r.score), r.elapsed.Round(time.Millisecond),
				lastDepth(r.stats), r.stats.Nodes+r.stats.QNodes)
			total = addStats(total, r.stats)
		}
	}
	totalElapsed := time.Since(startAll)
	fmt.Println(total.String())
	fmt.Println(total.Cuts.String())
	fmt.Printf("total time: %v\n", totalElapsed)
	total.Log(log)

	if *memProfile != "" {
		f, err := os.Create(*memProfile)
		if err != nil {
			log.Fatal().Err(err).Msg("could not create memory profile")
		}
		defer f.Close()
		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			log.Fatal().Err(err).Msg("could not write memory profile")
		}
	}
}

// searchSuite gives every position its own engine; engines share nothing, so
// they run side by side.
func searchSuite(ctx context.Context, suite []string, opts engine.Options, moveTime time.Duration, workers int, log zerolog.Logger) ([]result, error) {
	results := make([]result, len(suite))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for i, fen := range suite {
		i, fen := i, fen
		g.Go(func() error {
			o := opts
			o.Logger = log.With().Int("position", i+1).Logger()
			e, err := engine.New(o)
			if err != nil {
				return err
			}
			b, err := board.ParseFEN(fen)
			if err != nil {
				return err
			}
			var deadline time.Time
			if moveTime > 0 {
				deadline = time.Now().Add(moveTime)
			}
			start := time.Now()
			m, err := e.SelectMoveContext(ctx, b, deadline)
			if err != nil {
				return fmt.Errorf("position %d: %w", i+1, err)
			}
			score, _ := e.LastScore()
			results[i] = result{fen: fen, move: m, score: score, elapsed: time.Since(start), stats: e.Stats()}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func lastDepth(s engine.Stats) int {
	if len(s.Depths) == 0 {
		return 0
	}
	return s.Depths[len(s.Depths)-1]
}

func readSuite(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var fens []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		// EPD operations after ';' and comment lines are ignored.
		if i := strings.IndexByte(line, ';'); i >= 0 {
			line = strings.TrimSpace(line[:i])
		}
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fens = append(fens, line)
	}
	return fens, sc.Err()
}

func addStats(a, b engine.Stats) engine.Stats {
	a.Nodes += b.Nodes
	a.QNodes += b.QNodes
	a.Evals += b.Evals
	a.EvalCacheHits += b.EvalCacheHits
	a.TTProbes += b.TTProbes
	a.TTHits += b.TTHits
	a.HintProbes += b.HintProbes
	a.HintHits += b.HintHits
	a.Generated += b.Generated
	a.Searched += b.Searched
	a.BookMoves += b.BookMoves
	a.Cuts.TTCutoffs += b.Cuts.TTCutoffs
	a.Cuts.NullMoveCutoffs += b.Cuts.NullMoveCutoffs
	a.Cuts.FutilityNodes += b.Cuts.FutilityNodes
	a.Cuts.LMRResearches += b.Cuts.LMRResearches
	a.Cuts.BetaCutoffs += b.Cuts.BetaCutoffs
	a.Cuts.QStandPatCutoffs += b.Cuts.QStandPatCutoffs
	a.Cuts.QDeltaPrunes += b.Cuts.QDeltaPrunes
	a.Cuts.QBetaCutoffs += b.Cuts.QBetaCutoffs
	a.Depths = append(a.Depths, b.Depths...)
	a.Times = append(a.Times, b.Times...)
	return a
}
