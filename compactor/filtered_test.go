package compactor

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/streamdbg/cdbg/alphabet"
	"github.com/streamdbg/cdbg/cdbg"
	"github.com/streamdbg/cdbg/dbg"
	"github.com/streamdbg/cdbg/filter"
	"github.com/streamdbg/cdbg/hashing"
	"github.com/streamdbg/cdbg/storage"
)

func TestFilteredCompactorSkipsRejectedReads(t *testing.T) {
	g := dbg.New(5, hashing.Forward, storage.NewHashSetStore(), alphabet.New(alphabet.DNA))
	store := cdbg.NewStore(5)
	c := New(g, store, alphabet.New(alphabet.DNA), 8)

	// Nothing solid yet: Solid rejects every read at a 50% threshold.
	fc := NewFiltered(c, filter.NewSolid(g, 1, 0.5))

	accepted, err := fc.InsertSequence("ACGTACGTAC")
	require.NoError(t, err)
	require.False(t, accepted)
	require.Equal(t, 0, store.Stats().NUnodes)
}

func TestFilteredCompactorInsertsAcceptedReads(t *testing.T) {
	g := dbg.New(5, hashing.Forward, storage.NewHashSetStore(), alphabet.New(alphabet.DNA))
	store := cdbg.NewStore(5)
	c := New(g, store, alphabet.New(alphabet.DNA), 8)

	// Prime g directly so all but the read's last k-mer are already solid;
	// only GTACA is new, and the compactor builds one unitig from it.
	_, _, err := g.InsertSequence("ACGTACGTAC")
	require.NoError(t, err)

	fc := NewFiltered(c, filter.NewSolid(g, 1, 0.5))
	accepted, err := fc.InsertSequence("ACGTACGTACA")
	require.NoError(t, err)
	require.True(t, accepted)
	require.Equal(t, 1, store.Stats().NUnodes)
}
