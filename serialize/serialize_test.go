package serialize

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/streamdbg/cdbg/alphabet"
	"github.com/streamdbg/cdbg/cdbg"
	"github.com/streamdbg/cdbg/dbg"
	"github.com/streamdbg/cdbg/hashing"
	"github.com/streamdbg/cdbg/storage"
)

func newTestStore(k uint) *cdbg.Store {
	s := cdbg.NewStore(k)
	s.BuildUnode("ACGTACGTAC", nil, 10, 20)
	s.BuildDnode(30, "CGTAC", 1, 2, 1)
	return s
}

func TestWriteFASTAIncludesMetaAndSequence(t *testing.T) {
	s := newTestStore(5)
	var buf bytes.Buffer
	require.NoError(t, WriteFASTA(&buf, s))
	out := buf.String()
	require.Contains(t, out, ">unitig_")
	require.Contains(t, out, "meta:ISLAND")
	require.Contains(t, out, "ACGTACGTAC")
}

func TestWriteGFA1EmitsHeaderAndSRecord(t *testing.T) {
	s := newTestStore(5)
	var buf bytes.Buffer
	require.NoError(t, WriteGFA1(&buf, s))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Equal(t, "H\tVN:Z:1.0", lines[0])
	require.True(t, strings.HasPrefix(lines[1], "S\t"))
}

func TestWriteLinksUsesNeighborExpansion(t *testing.T) {
	g := dbg.New(5, hashing.Forward, storage.NewHashSetStore(), alphabet.New(alphabet.DNA))
	s := cdbg.NewStore(5)
	var buf bytes.Buffer
	require.NoError(t, WriteLinks(&buf, s, g))
	require.Empty(t, buf.String())
}

func TestWriteGraphMLEmitsBothNodeKinds(t *testing.T) {
	s := newTestStore(5)
	var buf bytes.Buffer
	require.NoError(t, WriteGraphML(&buf, s))
	out := buf.String()
	require.Contains(t, out, "unitig_")
	require.Contains(t, out, "dnode_")
	require.NotContains(t, out, "<edge")
}

func TestSaveLoadStoreRoundTrips(t *testing.T) {
	orig := storage.NewHashSetStore()
	orig.Insert(1)
	orig.Insert(2)

	var buf bytes.Buffer
	require.NoError(t, SaveStore(&buf, orig))

	loaded, err := LoadStore(&buf)
	require.NoError(t, err)
	require.EqualValues(t, 1, loaded.Query(1))
}
