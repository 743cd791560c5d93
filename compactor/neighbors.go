package compactor

import (
	"github.com/streamdbg/cdbg/alphabet"
	"github.com/streamdbg/cdbg/dbg"
	"github.com/streamdbg/cdbg/hashing"
)

// virtualDegree counts kmer's neighbors in dir, treating any hash present in
// extra as additionally "in the graph" even though it has not yet been
// inserted into the membership store. Step 2/3 of the compactor need this:
// they evaluate decision-ness against the dBG as it will exist once the
// whole sequence under construction is inserted (spec §4.6).
func virtualDegree(g *dbg.DBG, alpha *alphabet.Alphabet, kmer string, dir hashing.Direction, extra map[hashing.Hash]bool) (int, error) {
	n := 0
	for _, c := range alpha.ConcreteSymbols() {
		var candidate string
		if dir == hashing.Right {
			candidate = kmer[1:] + string(c)
		} else {
			candidate = string(c) + kmer[:len(kmer)-1]
		}
		h, err := g.HashKmer(candidate)
		if err != nil {
			return 0, err
		}
		if g.Query(h) > 0 || extra[h] {
			n++
		}
	}
	return n, nil
}

// virtualNeighbor returns the unique qualifying virtual neighbor of kmer in
// dir, if degree is exactly 1; used when walking away from a segment
// boundary towards an existing unitig end (edge case of Step 1's flank
// computation).
func virtualNeighbor(g *dbg.DBG, alpha *alphabet.Alphabet, kmer string, dir hashing.Direction, extra map[hashing.Hash]bool) (hashing.Hash, string, bool, error) {
	var foundHash hashing.Hash
	var foundKmer string
	count := 0
	for _, c := range alpha.ConcreteSymbols() {
		var candidate string
		if dir == hashing.Right {
			candidate = kmer[1:] + string(c)
		} else {
			candidate = string(c) + kmer[:len(kmer)-1]
		}
		h, err := g.HashKmer(candidate)
		if err != nil {
			return 0, "", false, err
		}
		if g.Query(h) > 0 || extra[h] {
			foundHash, foundKmer = h, candidate
			count++
		}
	}
	return foundHash, foundKmer, count == 1, nil
}
