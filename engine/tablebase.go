package engine

import (
	"fmt"

	"github.com/notnil/chess"
	"github.com/notnil/chess/uci"

	"negachess/board"
)

// WDL is a game-theoretic result for the side to move.
type WDL int

const (
	Loss WDL = -2
	Draw WDL = 0
	Win  WDL = 2
)

func (w WDL) String() string {
	switch w {
	case Loss:
		return "loss"
	case Win:
		return "win"
	}
	return "draw"
}

// Tablebase classifies positions with few pieces left.
type Tablebase interface {
	ProbeWDL(b *board.Board) (WDL, error)
}

// Centipawn scores past this are what UCI engines report for tablebase wins.
const tbWinCentipawns = 10_000

// UCITablebase asks an external UCI engine, typically Stockfish pointed at
// Syzygy files, for a fixed-depth verdict and reads the score as win, draw or
// loss.
type UCITablebase struct {
	eng   *uci.Engine
	depth int
}

// NewUCITablebase starts the engine binary at path. Options are sent as
// UCI setoption commands, e.g. {"SyzygyPath": "/tb"}.
func NewUCITablebase(path string, depth int, options map[string]string) (*UCITablebase, error) {
	eng, err := uci.New(path)
	if err != nil {
		return nil, fmt.Errorf("%w: start %s: %v", ErrServiceUnavailable, path, err)
	}
	cmds := []uci.Cmd{uci.CmdUCI}
	for name, value := range options {
		cmds = append(cmds, uci.CmdSetOption{Name: name, Value: value})
	}
	cmds = append(cmds, uci.CmdIsReady, uci.CmdUCINewGame)
	if err := eng.Run(cmds...); err != nil {
		eng.Close()
		return nil, fmt.Errorf("%w: initialise %s: %v", ErrServiceUnavailable, path, err)
	}
	return &UCITablebase{eng: eng, depth: Max(depth, 1)}, nil
}

func (t *UCITablebase) ProbeWDL(b *board.Board) (WDL, error) {
	if !b.HasLegalMoves() {
		if b.InCheck() {
			return Loss, nil
		}
		return Draw, nil
	}
	fen, err := chess.FEN(b.FEN())
	if err != nil {
		return Draw, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	pos := chess.NewGame(fen).Position()
	if err := t.eng.Run(uci.CmdPosition{Position: pos}, uci.CmdGo{Depth: t.depth}); err != nil {
		return Draw, fmt.Errorf("%w: probe: %v", ErrServiceUnavailable, err)
	}
	score := t.eng.SearchResults().Info.Score
	switch {
	case score.Mate > 0 || score.CP >= tbWinCentipawns:
		return Win, nil
	case score.Mate < 0 || score.CP <= -tbWinCentipawns:
		return Loss, nil
	}
	return Draw, nil
}

func (t *UCITablebase) Close() error {
	return t.eng.Close()
}
