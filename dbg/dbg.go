// Package dbg composes a rolling hash with a membership store into a
// queryable de Bruijn graph: insert, query, and neighbor-expansion
// primitives (spec §4.4).
package dbg

import (
	"github.com/streamdbg/cdbg/alphabet"
	"github.com/streamdbg/cdbg/cdbgerr"
	"github.com/streamdbg/cdbg/hashing"
	"github.com/streamdbg/cdbg/storage"
)

// DBG is the de Bruijn graph: (K, MembershipStore, HashShifter). Its core
// invariant is that Query(h) > 0 iff the k-mer hashing to h has been
// inserted (spec §3), which holds as long as callers only ever insert
// through Insert/InsertSequence.
type DBG struct {
	k          uint
	hasherKind hashing.Kind
	store      storage.MembershipStore
	alpha      *alphabet.Alphabet
}

// New builds a DBG over the given membership store, using hasherKind to
// compute k-mer hashes.
func New(k uint, hasherKind hashing.Kind, store storage.MembershipStore, alpha *alphabet.Alphabet) *DBG {
	if alpha == nil {
		alpha = alphabet.New(alphabet.DNA)
	}
	return &DBG{k: k, hasherKind: hasherKind, store: store, alpha: alpha}
}

func (g *DBG) K() uint                          { return g.k }
func (g *DBG) Store() storage.MembershipStore   { return g.store }
func (g *DBG) HasherKind() hashing.Kind         { return g.hasherKind }

// HashKmer computes the configured hash of a length-K string.
func (g *DBG) HashKmer(kmer string) (hashing.Hash, error) {
	switch g.hasherKind {
	case hashing.CanonicalKind:
		return hashing.StaticCanonicalHash(kmer, g.k)
	default:
		return hashing.StaticHash(kmer, g.k)
	}
}

// Insert inserts a single hash, returning whether it was newly added.
func (g *DBG) Insert(h hashing.Hash) bool {
	return g.store.Insert(h)
}

// InsertSequence hashes every k-mer of s via rolling updates and inserts
// each, returning the count of newly-added k-mers.
func (g *DBG) InsertSequence(s string) (int, []hashing.Hash, error) {
	hashes, err := g.rollHashes(s)
	if err != nil {
		return 0, nil, err
	}
	newCount := 0
	for _, h := range hashes {
		if g.store.Insert(h) {
			newCount++
		}
	}
	return newCount, hashes, nil
}

// rollHashes returns the hash of every k-mer of s, in order, using an O(1)
// rolling hasher seeded once.
func (g *DBG) rollHashes(s string) ([]hashing.Hash, error) {
	if uint(len(s)) < g.k {
		return nil, cdbgerr.New(cdbgerr.KindSequenceTooShort, "sequence length %d < K=%d", len(s), g.k)
	}
	canon, err := g.alpha.ValidateSequence(s)
	if err != nil {
		return nil, err
	}
	s = canon
	hasher := hashing.New(g.hasherKind, g.k)
	first, err := hasher.HashBase(s[:g.k])
	if err != nil {
		return nil, err
	}
	n := len(s) - int(g.k) + 1
	out := make([]hashing.Hash, n)
	out[0] = first
	for i := 1; i < n; i++ {
		outSym := s[i-1]
		inSym := s[i+int(g.k)-1]
		shift, err := hasher.ShiftRight(outSym, inSym)
		if err != nil {
			return nil, err
		}
		out[i] = shift.Hash
	}
	return out, nil
}

// Query returns the current count for h.
func (g *DBG) Query(h hashing.Hash) uint64 {
	return g.store.Query(h)
}

// QuerySequence returns the hash and count of every k-mer of s, in order.
func (g *DBG) QuerySequence(s string) ([]hashing.Hash, []uint64, error) {
	hashes, err := g.rollHashes(s)
	if err != nil {
		return nil, nil, err
	}
	counts := make([]uint64, len(hashes))
	for i, h := range hashes {
		counts[i] = g.store.Query(h)
	}
	return hashes, counts, nil
}

// RightNeighbors returns, for each symbol c in the alphabet, the shift whose
// query is > 0: the k-mer formed by dropping kmer's first symbol and
// appending c.
func (g *DBG) RightNeighbors(kmer string) ([]hashing.Shift, error) {
	return g.neighbors(kmer, hashing.Right)
}

// LeftNeighbors returns, for each symbol c in the alphabet, the shift whose
// query is > 0: the k-mer formed by prepending c and dropping kmer's last
// symbol.
func (g *DBG) LeftNeighbors(kmer string) ([]hashing.Shift, error) {
	return g.neighbors(kmer, hashing.Left)
}

func (g *DBG) neighbors(kmer string, dir hashing.Direction) ([]hashing.Shift, error) {
	if uint(len(kmer)) != g.k {
		return nil, cdbgerr.New(cdbgerr.KindSequenceTooShort, "neighbor query requires a length-K kmer, got %d", len(kmer))
	}
	var out []hashing.Shift
	for _, c := range g.alpha.ConcreteSymbols() {
		var candidate string
		if dir == hashing.Right {
			candidate = kmer[1:] + string(c)
		} else {
			candidate = string(c) + kmer[:len(kmer)-1]
		}
		h, err := g.HashKmer(candidate)
		if err != nil {
			return nil, err
		}
		if g.store.Query(h) > 0 {
			out = append(out, hashing.Shift{Hash: h, Symbol: c, Direction: dir})
		}
	}
	return out, nil
}

// DegreeRight is the number of in-graph right neighbors of kmer.
func (g *DBG) DegreeRight(kmer string) (int, error) {
	n, err := g.RightNeighbors(kmer)
	return len(n), err
}

// DegreeLeft is the number of in-graph left neighbors of kmer.
func (g *DBG) DegreeLeft(kmer string) (int, error) {
	n, err := g.LeftNeighbors(kmer)
	return len(n), err
}

// IsDecision reports whether kmer has left-degree > 1 or right-degree > 1.
func (g *DBG) IsDecision(kmer string) (bool, error) {
	l, err := g.DegreeLeft(kmer)
	if err != nil {
		return false, err
	}
	r, err := g.DegreeRight(kmer)
	if err != nil {
		return false, err
	}
	return l > 1 || r > 1, nil
}
