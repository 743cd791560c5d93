package traversal

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/streamdbg/cdbg/alphabet"
	"github.com/streamdbg/cdbg/dbg"
	"github.com/streamdbg/cdbg/hashing"
	"github.com/streamdbg/cdbg/storage"
)

func newGraph(k uint) *dbg.DBG {
	return dbg.New(k, hashing.Forward, storage.NewHashSetStore(), alphabet.New(alphabet.DNA))
}

func TestWalkDeadEndOnLinearIsland(t *testing.T) {
	g := newGraph(5)
	// No repeated 5-mers in this sequence, so the walk runs off the end
	// instead of looping back into the seen-set.
	_, _, err := g.InsertSequence("ACGTCCAGGT")
	require.NoError(t, err)

	res, err := Walk(g, "ACGTC", hashing.Right, nil)
	require.NoError(t, err)
	require.Equal(t, DeadEnd, res.EndState)
	require.Equal(t, "CAGGT", string(res.Path))
}

func TestWalkStopSeenOnSelfOverlap(t *testing.T) {
	g := newGraph(5)
	// ACGTACGTAC repeats the ACGTA/CGTAC 5-mers, so walking right from the
	// start eventually revisits the start hash.
	_, _, err := g.InsertSequence("ACGTACGTAC")
	require.NoError(t, err)

	res, err := Walk(g, "ACGTA", hashing.Right, nil)
	require.NoError(t, err)
	require.Equal(t, StopSeen, res.EndState)
}

func TestWalkDecisionFwdOnBranch(t *testing.T) {
	g := newGraph(5)
	_, _, err := g.InsertSequence("ACGTACGTAC")
	require.NoError(t, err)
	_, _, err = g.InsertSequence("GTACGTAG")
	require.NoError(t, err)

	res, err := Walk(g, "ACGTA", hashing.Right, nil)
	require.NoError(t, err)
	// ACGTA has two right neighbors, CGTAC and CGTAG.
	require.Equal(t, DecisionFwd, res.EndState)
}

func TestWalkStopMasked(t *testing.T) {
	g := newGraph(5)
	_, hashes, err := g.InsertSequence("ACGTACGTAC")
	require.NoError(t, err)

	masked := hashes[1]
	res, err := Walk(g, "ACGTA", hashing.Right, func(h hashing.Hash) bool {
		return h == masked
	})
	require.NoError(t, err)
	require.Equal(t, StopMasked, res.EndState)
}
