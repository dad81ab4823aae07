package engine

// Bound tells how a stored value relates to the true value of a node.
type Bound int8

const (
	// Exact values fell strictly inside the search window.
	Exact Bound = iota
	// Lower values failed high: the true value is at least this.
	Lower
	// Upper values failed low: the true value is at most this.
	Upper
)

func (b Bound) String() string {
	switch b {
	case Exact:
		return "exact"
	case Lower:
		return "lower"
	case Upper:
		return "upper"
	}
	return "?"
}

type TTEntry struct {
	Value int
	Bound Bound
	Depth int
}

// TranspositionTable maps position hashes to search results. Stores always
// overwrite, and the table is emptied in full when it outgrows its capacity.
type TranspositionTable struct {
	entries *Memo[uint64, TTEntry]
}

func NewTranspositionTable(capacity int) *TranspositionTable {
	return &TranspositionTable{entries: NewMemo[uint64, TTEntry](capacity)}
}

func (tt *TranspositionTable) Probe(hash uint64) (TTEntry, bool) {
	return tt.entries.Get(hash)
}

func (tt *TranspositionTable) Store(hash uint64, value int, bound Bound, depth int) {
	tt.entries.Put(hash, TTEntry{Value: value, Bound: bound, Depth: depth})
}

func (tt *TranspositionTable) Len() int      { return tt.entries.Len() }
func (tt *TranspositionTable) Capacity() int { return tt.entries.Capacity() }
func (tt *TranspositionTable) Clear()        { tt.entries.Clear() }

// Probes returns how many lookups were made and how many found an entry.
func (tt *TranspositionTable) Probes() (probes, hits uint64) {
	hits = tt.entries.Hits()
	return hits + tt.entries.Misses(), hits
}

// Cutoff applies an entry probed at a node searched to depth with window
// (alpha, beta). Entries from shallower searches are ignored. An exact entry
// decides the node; a lower bound raises alpha and an upper bound lowers
// beta. ok reports that the node can return value without searching, either
// because the entry was exact or because the narrowed window is empty.
func Cutoff(e TTEntry, depth, alpha, beta int) (value, newAlpha, newBeta int, ok bool) {
	if e.Depth < depth {
		return 0, alpha, beta, false
	}
	switch e.Bound {
	case Exact:
		return e.Value, alpha, beta, true
	case Lower:
		alpha = Max(alpha, e.Value)
	case Upper:
		beta = Min(beta, e.Value)
	}
	if alpha >= beta {
		return e.Value, alpha, beta, true
	}
	return 0, alpha, beta, false
}
