package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"negachess/board"
	"negachess/engine"
)

const (
	engineName   = "negachess"
	engineAuthor = "negachess authors"

	// Rough transposition table entries per megabyte of "Hash".
	ttEntriesPerMB = 1 << 15
	defaultHashMB  = 64
	maxHashMB      = 4096
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger().Level(zerolog.WarnLevel)
	s, err := newUCIServer(os.Stdout, log)
	if err != nil {
		log.Fatal().Err(err).Msg("engine")
	}
	defer s.close()
	s.uciLoop(os.Stdin)
}

// goParams holds the arguments of one "go" command. Times are in
// milliseconds as sent by the GUI.
type goParams struct {
	wtime, btime, winc, binc int
	movesToGo                int
	moveTime                 int
	depth                    int
	infinite                 bool
}

// uciServer speaks UCI over a line-oriented reader and writer. The search
// runs on its own goroutine so "stop" and "isready" are answered while it
// thinks.
type uciServer struct {
	mu  sync.Mutex
	out io.Writer
	log zerolog.Logger

	eng   *engine.Engine
	board *board.Board

	ownBook    bool
	bookLoaded bool
	moveTime   time.Duration
	tbEngine   string
	tbPath     string
	tb         *engine.UCITablebase

	cancel   context.CancelFunc
	done     chan struct{}
	infinite bool
}

func newUCIServer(out io.Writer, log zerolog.Logger) (*uciServer, error) {
	s := &uciServer{
		out:      out,
		log:      log,
		board:    board.NewBoard(),
		ownBook:  true,
		moveTime: engine.DefaultOptions().MoveTime,
	}
	opts := engine.DefaultOptions()
	opts.TTCapacity = defaultHashMB * ttEntriesPerMB
	opts.Logger = log
	opts.OnIteration = s.info
	eng, err := engine.New(opts)
	if err != nil {
		return nil, err
	}
	s.eng = eng
	return s, nil
}

func (s *uciServer) printf(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, format, args...)
}

func (s *uciServer) println(args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.out, args...)
}

func (s *uciServer) info(it engine.Iteration) {
	ms := it.Elapsed.Milliseconds()
	nps := uint64(0)
	if it.Elapsed > 0 {
		nps = uint64(float64(it.Nodes) / it.Elapsed.Seconds())
	}
	s.printf("info depth %d score %s nodes %d time %d nps %d pv %v\n",
		it.Depth, engine.ScoreString(it.Score), it.Nodes, ms, nps, it.Move)
}

// uciLoop reads commands until "quit" or end of input. At end of input a
// running search is allowed to finish, except an infinite one.
func (s *uciServer) uciLoop(in io.Reader) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := scanner.Text()
		tokens := strings.Fields(line)
		if len(tokens) == 0 { // ignore blank lines
			continue
		}
		switch strings.ToLower(tokens[0]) {
		case "uci":
			s.println("id name", engineName)
			s.println("id author", engineAuthor)
			s.printf("option name Hash type spin default %d min 1 max %d\n", defaultHashMB, maxHashMB)
			s.println("option name Clear Hash type button")
			s.printf("option name OwnBook type check default %t\n", s.ownBook)
			s.printf("option name MoveTime type spin default %d min 1 max 3600000\n", s.moveTime.Milliseconds())
			s.println("option name SyzygyEngine type string default <empty>")
			s.println("option name SyzygyPath type string default <empty>")
			s.println("uciok")
		case "isready":
			s.println("readyok")
		case "debug":
			if len(tokens) > 1 && strings.ToLower(tokens[1]) == "on" {
				s.log = s.log.Level(zerolog.DebugLevel)
			} else {
				s.log = s.log.Level(zerolog.WarnLevel)
			}
		case "ucinewgame":
			s.stopSearch()
			s.board = board.NewBoard()
			s.eng.NewGame()
		case "position":
			s.position(tokens[1:])
		case "go":
			s.stopSearch()
			s.goCommand(parseGo(tokens[1:], s))
		case "stop":
			s.stopSearch()
		case "setoption":
			s.stopSearch()
			s.setOption(tokens[1:])
		case "d":
			s.println(s.board.String())
			s.println("Fen:", s.board.FEN())
		case "quit":
			s.stopSearch()
			return
		default:
			s.println("info string Unknown command:", line)
		}
	}
	if s.infinite {
		s.stopSearch()
	}
	s.waitSearch()
}

func (s *uciServer) close() {
	s.stopSearch()
	if s.tb != nil {
		s.tb.Close()
	}
}

func (s *uciServer) position(tokens []string) {
	if len(tokens) == 0 {
		s.println("info string Malformed position command")
		return
	}
	var b *board.Board
	rest := tokens[1:]
	switch strings.ToLower(tokens[0]) {
	case "startpos":
		b = board.NewBoard()
	case "fen":
		n := 0
		for n < len(rest) && strings.ToLower(rest[n]) != "moves" {
			n++
		}
		var err error
		if b, err = board.ParseFEN(strings.Join(rest[:n], " ")); err != nil {
			s.println("info string Invalid fen position:", err)
			return
		}
		rest = rest[n:]
	default:
		s.println("info string Invalid position subcommand")
		return
	}
	if len(rest) > 0 && strings.ToLower(rest[0]) == "moves" {
		for _, ms := range rest[1:] {
			m, err := b.ParseMove(strings.ToLower(ms))
			if err != nil {
				s.println("info string Move", ms, "not legal in", b.FEN())
				break
			}
			b.Push(m)
		}
	}
	s.board = b
}

func parseGo(tokens []string, s *uciServer) goParams {
	var p goParams
	for i := 0; i < len(tokens); i++ {
		tok := strings.ToLower(tokens[i])
		var dst *int
		switch tok {
		case "infinite":
			p.infinite = true
			continue
		case "wtime":
			dst = &p.wtime
		case "btime":
			dst = &p.btime
		case "winc":
			dst = &p.winc
		case "binc":
			dst = &p.binc
		case "movestogo":
			dst = &p.movesToGo
		case "movetime":
			dst = &p.moveTime
		case "depth":
			dst = &p.depth
		default:
			if s != nil {
				s.println("info string Unknown go subcommand", tok)
			}
			continue
		}
		if i+1 >= len(tokens) {
			if s != nil {
				s.println("info string Malformed go command option", tok)
			}
			break
		}
		i++
		v, err := strconv.Atoi(tokens[i])
		if err != nil {
			if s != nil {
				s.println("info string Malformed go command option; could not convert", tok)
			}
			continue
		}
		*dst = v
	}
	return p
}

// deadline picks the search deadline for a go command; the zero time means
// search until the depth limit or "stop".
func (p goParams) deadline(now time.Time, b *board.Board, fallback time.Duration) time.Time {
	ms := func(v int) time.Duration { return time.Duration(v) * time.Millisecond }
	rem, inc := p.wtime, p.winc
	if b.SideToMove() == board.Black {
		rem, inc = p.btime, p.binc
	}
	switch {
	case p.moveTime > 0:
		return now.Add(ms(p.moveTime))
	case p.infinite:
		return time.Time{}
	case rem > 0:
		clock := engine.Clock{Remaining: ms(rem), Increment: ms(inc), MovesToGo: p.movesToGo}
		return clock.Deadline(now, b)
	case p.depth > 0:
		return time.Time{}
	}
	return now.Add(fallback)
}

func (s *uciServer) goCommand(p goParams) {
	// The engine is idle here, so a "debug" sent mid-search takes effect now.
	s.eng.SetLogger(s.log)
	s.loadBook()
	s.eng.SetMaxDepth(p.depth)
	b := s.board.Copy()
	deadline := p.deadline(time.Now(), b, s.moveTime)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	s.cancel, s.done, s.infinite = cancel, done, p.infinite
	go func() {
		defer close(done)
		m, err := s.eng.SelectMoveContext(ctx, b, deadline)
		if err != nil {
			s.println("info string", err)
			s.println("bestmove 0000")
			return
		}
		s.printf("bestmove %v\n", m)
	}()
}

func (s *uciServer) stopSearch() {
	if s.cancel != nil {
		s.cancel()
	}
	s.waitSearch()
}

func (s *uciServer) waitSearch() {
	if s.done == nil {
		return
	}
	<-s.done
	s.cancel()
	s.cancel, s.done, s.infinite = nil, nil, false
}

// loadBook builds the opening book the first time it is wanted.
func (s *uciServer) loadBook() {
	s.eng.SetUseBook(s.ownBook)
	if !s.ownBook || s.bookLoaded {
		return
	}
	s.bookLoaded = true
	bk, err := engine.NewECOBook()
	if err != nil {
		s.println("info string Opening book unavailable:", err)
		return
	}
	s.log.Debug().Int("positions", bk.Positions()).Msg("book-loaded")
	s.eng.SetBook(bk)
}

// setOption handles "name <id> [value <x>]"; ids may contain spaces.
func (s *uciServer) setOption(tokens []string) {
	var name, value []string
	cur := &name
	for _, tok := range tokens {
		switch strings.ToLower(tok) {
		case "name":
			cur = &name
		case "value":
			cur = &value
		default:
			*cur = append(*cur, tok)
		}
	}
	id := strings.ToLower(strings.Join(name, " "))
	val := strings.Join(value, " ")

	switch id {
	case "hash":
		mb, err := strconv.Atoi(val)
		if err != nil || mb < 1 || mb > maxHashMB {
			s.println("info string Invalid Hash value", val)
			return
		}
		s.eng.SetTTCapacity(mb * ttEntriesPerMB)
	case "clear hash":
		s.eng.NewGame()
	case "ownbook":
		s.ownBook = strings.EqualFold(val, "true")
		s.eng.SetUseBook(s.ownBook)
	case "movetime":
		ms, err := strconv.Atoi(val)
		if err != nil || ms < 1 {
			s.println("info string Invalid MoveTime value", val)
			return
		}
		s.moveTime = time.Duration(ms) * time.Millisecond
	case "syzygyengine":
		s.tbEngine = emptyOption(val)
		s.configureTablebase()
	case "syzygypath":
		s.tbPath = emptyOption(val)
		s.configureTablebase()
	default:
		s.println("info string Unknown option", strings.Join(name, " "))
	}
}

func emptyOption(v string) string {
	if v == "<empty>" {
		return ""
	}
	return v
}

func (s *uciServer) configureTablebase() {
	if s.tb != nil {
		s.tb.Close()
		s.tb = nil
		s.eng.SetTablebase(nil)
	}
	if s.tbEngine == "" {
		return
	}
	opts := map[string]string{}
	if s.tbPath != "" {
		opts["SyzygyPath"] = s.tbPath
	}
	tb, err := engine.NewUCITablebase(s.tbEngine, 1, opts)
	if err != nil {
		s.println("info string Tablebase unavailable:", err)
		return
	}
	s.tb = tb
	s.eng.SetTablebase(tb)
}
