package filter

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/streamdbg/cdbg/alphabet"
	"github.com/streamdbg/cdbg/dbg"
	"github.com/streamdbg/cdbg/hashing"
	"github.com/streamdbg/cdbg/storage"
)

func newTestDBG(k uint) *dbg.DBG {
	return dbg.New(k, hashing.Forward, storage.NewHashMapStore(), alphabet.New(alphabet.DNA))
}

func TestNoneAlwaysAdmits(t *testing.T) {
	var f None
	ok, _, err := f.Admit("ACGTACGTAC")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestDiginormAdmitsUnseenThenRejectsRepeats(t *testing.T) {
	f := NewDiginorm(newTestDBG(5), 3)

	ok, n, err := f.Admit("ACGTACGTAC")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 6, n)

	// Same read again: median count is now 2, still below cutoff 3.
	ok, _, err = f.Admit("ACGTACGTAC")
	require.NoError(t, err)
	require.True(t, ok)

	// A third pass pushes the median to 4, at or above the cutoff.
	ok, _, err = f.Admit("ACGTACGTAC")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSolidRequiresMinimumProportion(t *testing.T) {
	g := newTestDBG(5)
	f := NewSolid(g, 1, 0.5)

	// Nothing in the graph yet: 0% solid, below the 50% threshold.
	ok, _, err := f.Admit("ACGTACGTAC")
	require.NoError(t, err)
	require.False(t, ok)

	// Prime the graph directly so every k-mer of the read is already solid.
	g.InsertSequence("ACGTACGTAC")
	ok, _, err = f.Admit("ACGTACGTAC")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestDiginormSkipsTooShortSequence(t *testing.T) {
	f := NewDiginorm(newTestDBG(10), 5)
	ok, n, err := f.Admit("ACGT")
	require.Error(t, err)
	require.False(t, ok)
	require.Equal(t, 0, n)
}
