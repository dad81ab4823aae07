// Command selfplay runs games between two engine configurations, or between
// the engine and a human on the terminal, and prints every game as PGN.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"

	"negachess/engine"
	"negachess/match"
)

func main() {
	rounds := flag.Int("rounds", 2, "games to play; colours alternate")
	moveTime := flag.Duration("movetime", 200*time.Millisecond, "time per engine move")
	depth := flag.Int("depth", 0, "depth limit for both engines (0 = none)")
	book := flag.Bool("book", true, "let both engines use the ECO opening book")
	fen := flag.String("fen", "", "start every game from this position")
	human := flag.Bool("human", false, "play P2 yourself from stdin")
	plain := flag.Bool("plain", false, "disable null move, reductions and futility for P2")
	resign := flag.Bool("resign", true, "let engines resign hopeless games")
	hash := flag.Int("hash", 1<<20, "transposition table entries per engine")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if !*verbose {
		log = log.Level(zerolog.InfoLevel)
	}

	var bk engine.Book
	if *book {
		eco, err := engine.NewECOBook()
		if err != nil {
			log.Warn().Err(err).Msg("book unavailable")
		} else {
			bk = eco
		}
	}

	newEngine := func(name string, plain bool) *match.EnginePlayer {
		opts := engine.DefaultOptions()
		opts.TTCapacity = *hash
		opts.UseBook = bk != nil
		opts.Book = bk
		if *depth > 0 {
			opts.MaxDepth = *depth
		}
		if plain {
			opts.NullMove, opts.LateMoveReduction, opts.Futility = false, false, false
		}
		opts.Logger = log.With().Str("player", name).Logger()
		eng, err := engine.New(opts)
		if err != nil {
			log.Fatal().Err(err).Msg("engine options")
		}
		p := match.NewEnginePlayer(name, eng, *moveTime)
		p.Resigns = *resign
		return p
	}

	p1 := newEngine("negachess", false)
	var p2 match.Player
	if *human {
		p2 = match.NewInputPlayer("human", os.Stdin, os.Stdout)
	} else {
		name := "negachess-b"
		if *plain {
			name = "negachess-plain"
		}
		p2 = newEngine(name, *plain)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	s := &match.Series{
		P1:       p1,
		P2:       p2,
		Rounds:   *rounds,
		StartFEN: *fen,
		Logger:   log,
		OnGame: func(round int, g *match.Game) {
			pgn, err := g.PGN()
			if err != nil {
				log.Error().Err(err).Int("round", round).Msg("pgn")
				return
			}
			fmt.Println(pgn)
			fmt.Println()
		},
	}
	err := s.Run(ctx)
	fmt.Printf("%s vs %s: %s\n", p1.Name(), p2.Name(), s.Score())
	st := p1.Engine().Stats()
	fmt.Println(st.String())
	st.Log(log)
	if err != nil {
		log.Fatal().Err(err).Msg("series stopped")
	}
}
