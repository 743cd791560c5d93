package compactor

import (
	"github.com/streamdbg/cdbg/cdbg"
	"github.com/streamdbg/cdbg/hashing"
)

// kmerLocation pinpoints a k-mer's position inside a live unitig's
// sequence, by index into that unitig's own per-position hash list.
type kmerLocation struct {
	unitigID cdbg.UnitigID
	offset   int
}

// buildOffsetIndex replays every live unitig's stored sequence through a
// scratch rolling hasher, producing a hash -> location map plus each
// unitig's full per-position hash list. This trades a per-insert
// O(total existing unitig length) rebuild for an exact, non-directional
// way to locate a decision k-mer inside whichever unitig currently
// contains it (in place of the spec's walk-from-the-decision-kmer search),
// and to derive the new end hashes and tag partitions a split needs
// without any further hashing (see DESIGN.md, compactor section).
func buildOffsetIndex(store *cdbg.Store, kind hashing.Kind, k uint) (map[hashing.Hash]kmerLocation, map[cdbg.UnitigID][]hashing.Hash) {
	locations := make(map[hashing.Hash]kmerLocation)
	perUnitig := make(map[cdbg.UnitigID][]hashing.Hash)

	store.EachUnitig(func(n cdbg.UnitigNode) {
		hashes, err := rollSequence(n.Sequence, kind, k)
		if err != nil {
			return
		}
		perUnitig[n.ID] = hashes
		for offset, h := range hashes {
			locations[h] = kmerLocation{unitigID: n.ID, offset: offset}
		}
	})

	return locations, perUnitig
}

// rollSequence returns the hash of every k-mer of s, in order, via a fresh
// rolling hasher (no membership store involved).
func rollSequence(s string, kind hashing.Kind, k uint) ([]hashing.Hash, error) {
	if uint(len(s)) < k {
		return nil, nil
	}
	hasher := hashing.New(kind, k)
	first, err := hasher.HashBase(s[:k])
	if err != nil {
		return nil, err
	}
	n := len(s) - int(k) + 1
	out := make([]hashing.Hash, n)
	out[0] = first
	for i := 1; i < n; i++ {
		outSym := s[i-1]
		inSym := s[i+int(k)-1]
		shift, err := hasher.ShiftRight(outSym, inSym)
		if err != nil {
			return nil, err
		}
		out[i] = shift.Hash
	}
	return out, nil
}
