package dbg

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/streamdbg/cdbg/alphabet"
	"github.com/streamdbg/cdbg/hashing"
	"github.com/streamdbg/cdbg/storage"
)

func newTestDBG(k uint) *DBG {
	return New(k, hashing.Forward, storage.NewHashSetStore(), alphabet.New(alphabet.DNA))
}

func TestInsertSequenceMatchesQuery(t *testing.T) {
	g := newTestDBG(5)
	n, hashes, err := g.InsertSequence("ACGTACGTAC")
	require.NoError(t, err)
	require.Equal(t, 4, n) // ACGTA and CGTAC each occur twice, so 4 of the 6 k-mers are new
	require.Len(t, hashes, 6)

	for _, h := range hashes {
		require.GreaterOrEqual(t, g.Query(h), uint64(1))
	}
}

func TestInsertSequenceTooShort(t *testing.T) {
	g := newTestDBG(10)
	_, _, err := g.InsertSequence("ACGT")
	require.Error(t, err)
}

func TestLinearChainHasNoDecisionKmers(t *testing.T) {
	g := newTestDBG(5)
	_, _, err := g.InsertSequence("ACGTACGTAC")
	require.NoError(t, err)

	// interior k-mer CGTAC
	isD, err := g.IsDecision("CGTAC")
	require.NoError(t, err)
	require.False(t, isD)
}

func TestBranchCreatesDecisionKmer(t *testing.T) {
	g := newTestDBG(5)
	_, _, err := g.InsertSequence("ACGTACGTAC")
	require.NoError(t, err)
	_, _, err = g.InsertSequence("GTACGTAG")
	require.NoError(t, err)

	// ACGTA now has two right neighbors: CGTAC (first read) and CGTAG
	// (second read).
	d, err := g.DegreeRight("ACGTA")
	require.NoError(t, err)
	require.Equal(t, 2, d)
}
