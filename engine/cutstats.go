package engine

import (
	"fmt"

	"github.com/rs/zerolog"
)

// CutStatistics counts how often each pruning or cutoff mechanism fired.
type CutStatistics struct {
	TTCutoffs        uint64
	NullMoveCutoffs  uint64
	FutilityNodes    uint64
	LMRResearches    uint64
	BetaCutoffs      uint64
	QStandPatCutoffs uint64
	QDeltaPrunes     uint64
	QBetaCutoffs     uint64
}

func (c CutStatistics) MarshalZerologObject(ev *zerolog.Event) {
	ev.Uint64("tt", c.TTCutoffs).
		Uint64("null-move", c.NullMoveCutoffs).
		Uint64("futility", c.FutilityNodes).
		Uint64("lmr-research", c.LMRResearches).
		Uint64("beta", c.BetaCutoffs).
		Uint64("q-stand-pat", c.QStandPatCutoffs).
		Uint64("q-delta", c.QDeltaPrunes).
		Uint64("q-beta", c.QBetaCutoffs)
}

// String renders the counters on one line.
func (c CutStatistics) String() string {
	return fmt.Sprintf("cuts: tt %d, null-move %d, futility %d, lmr re-search %d, beta %d, q stand-pat %d, q delta %d, q beta %d",
		c.TTCutoffs, c.NullMoveCutoffs, c.FutilityNodes, c.LMRResearches,
		c.BetaCutoffs, c.QStandPatCutoffs, c.QDeltaPrunes, c.QBetaCutoffs)
}
