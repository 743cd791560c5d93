package compactor

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/streamdbg/cdbg/alphabet"
	"github.com/streamdbg/cdbg/cdbg"
	"github.com/streamdbg/cdbg/dbg"
	"github.com/streamdbg/cdbg/hashing"
	"github.com/streamdbg/cdbg/storage"
)

func newTestCompactor(k uint) (*Compactor, *cdbg.Store) {
	g := dbg.New(k, hashing.Forward, storage.NewHashSetStore(), alphabet.New(alphabet.DNA))
	store := cdbg.NewStore(k)
	return New(g, store, alphabet.New(alphabet.DNA), 8), store
}

func TestInsertSequenceSingleLinearRead(t *testing.T) {
	c, store := newTestCompactor(5)

	require.NoError(t, c.InsertSequence("ACGTACGTAC"))

	stats := store.Stats()
	require.Equal(t, 1, stats.NUnodes)
	require.Equal(t, 0, stats.NDnodes)
	require.Equal(t, 1, stats.NIslands)

	var found cdbg.UnitigNode
	store.EachUnitig(func(n cdbg.UnitigNode) { found = n })
	require.Equal(t, "ACGTACGTAC", found.Sequence)
}

func TestInsertSequenceExtendsExistingIsland(t *testing.T) {
	c, store := newTestCompactor(5)
	require.NoError(t, c.InsertSequence("ACGTACGTAC"))
	require.NoError(t, c.InsertSequence("CGTACGTACA"))

	stats := store.Stats()
	require.Equal(t, 1, stats.NUnodes)
	require.Equal(t, uint64(1), stats.NExtends)

	var found cdbg.UnitigNode
	store.EachUnitig(func(n cdbg.UnitigNode) { found = n })
	require.Equal(t, "ACGTACGTACA", found.Sequence)
	require.Equal(t, cdbg.Island, found.Meta)
}

func TestInsertSequenceInducesDecisionNodeOnBranch(t *testing.T) {
	c, store := newTestCompactor(5)
	require.NoError(t, c.InsertSequence("ACGTACGTAC"))
	require.NoError(t, c.InsertSequence("GTACGTAG"))

	stats := store.Stats()
	require.Equal(t, 1, stats.NDnodes)
	require.GreaterOrEqual(t, stats.NUnodes, 2)
}

func TestInsertSequenceMergesTwoIslands(t *testing.T) {
	c, store := newTestCompactor(5)
	require.NoError(t, c.InsertSequence("AAAAAT"))
	require.NoError(t, c.InsertSequence("ATTTTT"))
	require.Equal(t, 2, store.Stats().NUnodes)

	require.NoError(t, c.InsertSequence("AAAATATTTT"))

	stats := store.Stats()
	require.Equal(t, 1, stats.NUnodes)
	require.GreaterOrEqual(t, stats.NMerges, uint64(1))

	var found cdbg.UnitigNode
	store.EachUnitig(func(n cdbg.UnitigNode) { found = n })
	require.Contains(t, []cdbg.Meta{cdbg.Full, cdbg.Circular}, found.Meta)
}

func TestInsertSequenceCircularUnitig(t *testing.T) {
	c, store := newTestCompactor(5)
	require.NoError(t, c.InsertSequence("AAAAAAA"))

	stats := store.Stats()
	require.Equal(t, 1, stats.NUnodes)
	require.Equal(t, 1, stats.NCircular)

	var found cdbg.UnitigNode
	store.EachUnitig(func(n cdbg.UnitigNode) { found = n })
	require.Equal(t, found.LeftEnd, found.RightEnd)
	require.Equal(t, cdbg.Circular, found.Meta)
}

func TestInsertSequenceRejectsInvalidSymbol(t *testing.T) {
	c, _ := newTestCompactor(5)
	err := c.InsertSequence("ACGTZ")
	require.Error(t, err)
}

func TestInsertSequenceTooShortErrors(t *testing.T) {
	c, _ := newTestCompactor(5)
	require.Error(t, c.InsertSequence("ACG"))
}
