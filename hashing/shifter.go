package hashing

import (
	"github.com/streamdbg/cdbg/cdbgerr"
)

// Hash is the 64-bit rolling-hash value of a k-mer.
type Hash uint64

// Direction of a shift or a traversal step.
type Direction int

const (
	Right Direction = iota
	Left
)

func (d Direction) String() string {
	if d == Left {
		return "left"
	}
	return "right"
}

// Shift is the result of extending a rolling hash by one symbol.
type Shift struct {
	Hash      Hash
	Symbol    byte
	Direction Direction
}

// Shifter is a cyclic polynomial rolling hash over a fixed K. It must be
// seeded with HashBase before ShiftRight/ShiftLeft are called; the hash
// value of an un-seeded Shifter is unspecified.
type Shifter struct {
	k     uint
	value uint64
	seeded bool
}

// NewShifter constructs a forward-only rolling hash for k-mers of length k.
func NewShifter(k uint) *Shifter {
	return &Shifter{k: k}
}

func (s *Shifter) K() uint { return s.k }

// HashBase seeds the shifter from scratch with the first k symbols of s,
// failing with KindSequenceTooShort if s is shorter than K, and
// KindInvalidSymbol if any of the first K symbols is not A/C/G/T/N.
func (s *Shifter) HashBase(seq string) (Hash, error) {
	if uint(len(seq)) < s.k {
		return 0, cdbgerr.New(cdbgerr.KindSequenceTooShort, "sequence length %d < K=%d", len(seq), s.k)
	}
	var hv uint64
	for i := uint(0); i < s.k; i++ {
		c := seq[i]
		if !validBase(c) {
			return 0, cdbgerr.New(cdbgerr.KindInvalidSymbol, "symbol %q at index %d", rune(c), i)
		}
		hv = rol(hv, 1)
		hv ^= code(c)
	}
	s.value = hv
	s.seeded = true
	return Hash(hv), nil
}

func validBase(c byte) bool {
	switch c {
	case 'A', 'C', 'G', 'T', 'N':
		return true
	default:
		return false
	}
}

// ShiftRight transitions the hash of window [out, ...] to the hash of
// window [..., in], i.e. drops the symbol currently at the left (out) and
// appends in at the right. O(1).
func (s *Shifter) ShiftRight(out, in byte) (Shift, error) {
	if !validBase(out) || !validBase(in) {
		return Shift{}, cdbgerr.New(cdbgerr.KindInvalidSymbol, "symbol %q or %q invalid", rune(out), rune(in))
	}
	s.value = rol(s.value, 1) ^ rol(code(out), s.k) ^ code(in)
	s.seeded = true
	return Shift{Hash: Hash(s.value), Symbol: in, Direction: Right}, nil
}

// ShiftLeft transitions the hash of window [..., out] to the hash of window
// [in, ...], i.e. prepends in at the left and drops the symbol currently at
// the right (out). O(1). This is the inverse operation of ShiftRight.
func (s *Shifter) ShiftLeft(in, out byte) (Shift, error) {
	if !validBase(out) || !validBase(in) {
		return Shift{}, cdbgerr.New(cdbgerr.KindInvalidSymbol, "symbol %q or %q invalid", rune(in), rune(out))
	}
	s.value = ror(s.value, 1) ^ ror(code(out), 1) ^ rol(code(in), s.k-1)
	s.seeded = true
	return Shift{Hash: Hash(s.value), Symbol: in, Direction: Left}, nil
}

// Get returns the current hash value without shifting.
func (s *Shifter) Get() Hash {
	return Hash(s.value)
}

// Clone returns an independent copy of the shifter's state.
func (s *Shifter) Clone() *Shifter {
	c := *s
	return &c
}

// StaticHash computes hash_base(seq) from a throwaway Shifter, so that it is
// guaranteed (by sharing the same code path) to equal HashBase on any
// independent Shifter instance constructed with the same k.
func StaticHash(seq string, k uint) (Hash, error) {
	return NewShifter(k).HashBase(seq)
}
