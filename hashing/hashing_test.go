package hashing

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStaticHashMatchesFreshShifter(t *testing.T) {
	s := "ACGTACGTAC"
	var k uint = 5
	want, err := NewShifter(k).HashBase(s[:k])
	require.NoError(t, err)
	got, err := StaticHash(s[:k], k)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestHashBaseTooShort(t *testing.T) {
	_, err := NewShifter(10).HashBase("ACGT")
	require.Error(t, err)
}

func TestHashBaseInvalidSymbol(t *testing.T) {
	_, err := NewShifter(4).HashBase("ACXT")
	require.Error(t, err)
}

func TestShiftRightRollsAlongSequence(t *testing.T) {
	seq := "ACGTACGTACGT"
	var k uint = 5
	s := NewShifter(k)
	_, err := s.HashBase(seq[:k])
	require.NoError(t, err)

	for i := 1; i+int(k) <= len(seq); i++ {
		out := seq[i-1]
		in := seq[i+int(k)-1]
		_, err := s.ShiftRight(out, in)
		require.NoError(t, err)
		want, err := StaticHash(seq[i:i+int(k)], k)
		require.NoError(t, err)
		require.Equal(t, want, s.Get(), "mismatch at window starting %d", i)
	}
}

func TestShiftLeftInversesShiftRight(t *testing.T) {
	seq := "ACGTACGTACGT"
	var k uint = 5
	s := NewShifter(k)
	_, err := s.HashBase(seq[:k])
	require.NoError(t, err)
	before := s.Get()

	out := seq[0]
	in := seq[k]
	_, err = s.ShiftRight(out, in)
	require.NoError(t, err)

	_, err = s.ShiftLeft(out, in)
	require.NoError(t, err)
	require.Equal(t, before, s.Get())
}

func TestCanonicalInvolution(t *testing.T) {
	k := uint(6)
	fwd := "ACGTAC"
	rc := "GTACGT" // reverse complement of ACGTAC

	h1, err := StaticCanonicalHash(fwd, k)
	require.NoError(t, err)
	h2, err := StaticCanonicalHash(rc, k)
	require.NoError(t, err)
	require.Equal(t, h1, h2)
}

func TestCanonicalSignMatchesStrand(t *testing.T) {
	c := NewCanonical(5)
	_, err := c.HashBase("ACGTA")
	require.NoError(t, err)
	if c.Sign() {
		require.Equal(t, c.Forward(), c.Value())
	} else {
		require.Equal(t, c.ReverseComplement(), c.Value())
	}
}

func TestWindowMinimizersSizeOne(t *testing.T) {
	hs := []Hash{3, 1, 2}
	got := WindowMinimizers(hs, 1)
	require.Equal(t, []int{0, 1, 2}, got)
}

func TestWindowMinimizersDedup(t *testing.T) {
	hs := []Hash{5, 1, 1, 9, 2}
	got := WindowMinimizers(hs, 2)
	// windows: [5,1]->1, [1,1]->1 (dup, skipped), [1,9]->2, [9,2]->4
	require.Equal(t, []int{1, 2, 4}, got)
}

func TestNewDispatchesByKind(t *testing.T) {
	fh := New(Forward, 4)
	_, err := fh.HashBase("ACGT")
	require.NoError(t, err)

	ch := New(CanonicalKind, 4)
	_, err = ch.HashBase("ACGT")
	require.NoError(t, err)
}
