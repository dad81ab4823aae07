package board

import "sort"

// Perft counts the leaf nodes of the legal move tree to the given depth.
func Perft(b *Board, depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	bufs := make([][]Move, depth+1)
	for i := range bufs {
		bufs[i] = make([]Move, 0, 256)
	}
	return perft(b, depth, bufs)
}

func perft(b *Board, depth int, bufs [][]Move) uint64 {
	moves := b.LegalMovesInto(bufs[depth])
	bufs[depth] = moves
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		b.Push(m)
		nodes += perft(b, depth-1, bufs)
		b.Pop()
	}
	return nodes
}

// DivideEntry is the subtree size below one root move.
type DivideEntry struct {
	Move  Move
	Nodes uint64
}

// PerftDivide splits the perft count by root move, sorted by UCI string.
func PerftDivide(b *Board, depth int) []DivideEntry {
	var out []DivideEntry
	for _, m := range b.LegalMoves() {
		b.Push(m)
		out = append(out, DivideEntry{Move: m, Nodes: Perft(b, depth-1)})
		b.Pop()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Move.String() < out[j].Move.String() })
	return out
}
