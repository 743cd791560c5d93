package hashing

import (
	"github.com/streamdbg/cdbg/cdbgerr"
)

// Canonical is a rolling hash that maintains both the forward hash and the
// reverse-complement hash of the current window, exposing the lexicographic
// minimum of the two as Value() and which strand produced it as Sign().
//
// For any k-mer, Canonical.Value() computed over the k-mer equals
// Canonical.Value() computed over its reverse complement: the two strands
// converge on the same accumulator pair, just swapped.
type Canonical struct {
	k      uint
	fh, rh uint64
	seeded bool
}

func NewCanonical(k uint) *Canonical {
	return &Canonical{k: k}
}

func (c *Canonical) K() uint { return c.k }

// HashBase seeds both accumulators from the first k symbols of seq.
func (c *Canonical) HashBase(seq string) (Hash, error) {
	if uint(len(seq)) < c.k {
		return 0, cdbgerr.New(cdbgerr.KindSequenceTooShort, "sequence length %d < K=%d", len(seq), c.k)
	}
	var fh, rh uint64
	for i := uint(0); i < c.k; i++ {
		fwd := seq[i]
		rev := seq[c.k-1-i]
		if !validBase(fwd) || !validBase(rev) {
			return 0, cdbgerr.New(cdbgerr.KindInvalidSymbol, "symbol at index %d", i)
		}
		fh = rol(fh, 1)
		fh ^= code(fwd)
		rh = rol(rh, 1)
		rh ^= rcCodeOf(rev)
	}
	c.fh, c.rh = fh, rh
	c.seeded = true
	return c.Value(), nil
}

// ShiftRight rolls the window one symbol to the right (drop out at the
// left, append in at the right), maintaining both accumulators in lockstep.
func (c *Canonical) ShiftRight(out, in byte) (Shift, error) {
	if !validBase(out) || !validBase(in) {
		return Shift{}, cdbgerr.New(cdbgerr.KindInvalidSymbol, "symbol %q or %q invalid", rune(out), rune(in))
	}
	c.fh = rol(c.fh, 1) ^ rol(code(out), c.k) ^ code(in)
	c.rh = ror(c.rh, 1) ^ ror(rcCodeOf(out), 1) ^ rol(rcCodeOf(in), c.k-1)
	c.seeded = true
	return Shift{Hash: c.Value(), Symbol: in, Direction: Right}, nil
}

// ShiftLeft rolls the window one symbol to the left (prepend in at the
// left, drop out at the right), maintaining both accumulators in lockstep.
func (c *Canonical) ShiftLeft(in, out byte) (Shift, error) {
	if !validBase(out) || !validBase(in) {
		return Shift{}, cdbgerr.New(cdbgerr.KindInvalidSymbol, "symbol %q or %q invalid", rune(in), rune(out))
	}
	c.fh = ror(c.fh, 1) ^ ror(code(out), 1) ^ rol(code(in), c.k-1)
	c.rh = rol(c.rh, 1) ^ rol(rcCodeOf(out), c.k) ^ rcCodeOf(in)
	c.seeded = true
	return Shift{Hash: c.Value(), Symbol: in, Direction: Left}, nil
}

// Forward returns the forward-strand hash of the current window.
func (c *Canonical) Forward() Hash { return Hash(c.fh) }

// ReverseComplement returns the reverse-complement-strand hash of the
// current window.
func (c *Canonical) ReverseComplement() Hash { return Hash(c.rh) }

// Value returns the canonical hash: the lexicographic minimum of Forward()
// and ReverseComplement().
func (c *Canonical) Value() Hash {
	if c.rh < c.fh {
		return Hash(c.rh)
	}
	return Hash(c.fh)
}

// Sign reports true iff the forward hash is less than or equal to the
// reverse-complement hash, i.e. iff Value() came from the forward strand.
func (c *Canonical) Sign() bool {
	return c.fh <= c.rh
}

// Clone returns an independent copy of the canonical shifter's state.
func (c *Canonical) Clone() *Canonical {
	cc := *c
	return &cc
}

// StaticCanonicalHash computes the canonical hash of seq from a throwaway
// Canonical instance.
func StaticCanonicalHash(seq string, k uint) (Hash, error) {
	return NewCanonical(k).HashBase(seq)
}
