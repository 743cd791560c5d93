package cdbg

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/streamdbg/cdbg/hashing"
)

func TestBuildUnodeClassifiesMeta(t *testing.T) {
	s := NewStore(5)

	trivial := s.BuildUnode("ACGTA", nil, 1, 1)
	require.Equal(t, Trivial, trivial.Meta)

	circular := s.BuildUnode("AAAAAAA", nil, 7, 7)
	require.Equal(t, Circular, circular.Meta)

	island := s.BuildUnode("ACGTACGTAC", nil, 10, 20)
	require.Equal(t, Island, island.Meta)

	require.Equal(t, 3, s.Stats().NUnodes)
}

func TestBuildUnodeInstallsEndsAndTags(t *testing.T) {
	s := NewStore(5)
	n := s.BuildUnode("ACGTACGTAC", []hashing.Hash{11, 22}, 10, 20)

	byLeft, ok := s.UnitigByEnd(10)
	require.True(t, ok)
	require.Equal(t, n.ID, byLeft.ID)

	byRight, ok := s.UnitigByEnd(20)
	require.True(t, ok)
	require.Equal(t, n.ID, byRight.ID)

	byTag, ok := s.UnitigByTag(11)
	require.True(t, ok)
	require.Equal(t, n.ID, byTag.ID)
}

func TestBuildDnodeIsIdempotent(t *testing.T) {
	s := NewStore(5)
	_, created := s.BuildDnode(42, "ACGTA", 2, 1, 1)
	require.True(t, created)

	_, created = s.BuildDnode(42, "ACGTA", 2, 1, 1)
	require.False(t, created)

	d, ok := s.GetDnode(42)
	require.True(t, ok)
	require.True(t, d.IsDecision())
}

func TestExtendUnodeIslandBecomesTip(t *testing.T) {
	s := NewStore(5)
	n := s.BuildUnode("ACGTACGTAC", nil, 10, 20)
	require.Equal(t, Island, n.Meta)

	extended, ok := s.ExtendUnode(hashing.Right, "A", 20, 99, nil)
	require.True(t, ok)
	require.Equal(t, "ACGTACGTACA", extended.Sequence)
	require.Equal(t, hashing.Hash(99), extended.RightEnd)

	_, stillThere := s.UnitigByEnd(20)
	require.False(t, stillThere)
	_, nowThere := s.UnitigByEnd(99)
	require.True(t, nowThere)
}

func TestExtendUnodeMissingEndFailsSilently(t *testing.T) {
	s := NewStore(5)
	_, ok := s.ExtendUnode(hashing.Right, "A", 404, 405, nil)
	require.False(t, ok)
}

func TestSplitUnodeProducesTwoFragments(t *testing.T) {
	s := NewStore(5)
	// sequence of length 10 => kmers at offsets 0..5 (6 total)
	n := s.BuildUnode("ACGTACGTAC", nil, 10, 20)

	left, right, hasRight, err := s.SplitUnode(n.ID, 2, 999, 1000, nil, nil)
	require.NoError(t, err)
	require.True(t, hasRight)

	require.Equal(t, "ACGTACG", left.Sequence) // seq[:2+5]
	require.Equal(t, hashing.Hash(10), left.LeftEnd)
	require.Equal(t, hashing.Hash(999), left.RightEnd)

	require.Equal(t, "ACGTAC", right.Sequence) // seq[4:], excludes the decision kmer at offset 3
	require.Equal(t, hashing.Hash(1000), right.LeftEnd)
	require.Equal(t, hashing.Hash(20), right.RightEnd)

	_, gone := s.GetUnode(n.ID)
	require.False(t, gone)
}

func TestSplitUnodeOnCircularLinearizes(t *testing.T) {
	s := NewStore(5)
	n := s.BuildUnode("AAAAAAA", nil, 7, 7)
	require.Equal(t, Circular, n.Meta)

	left, _, hasRight, err := s.SplitUnode(n.ID, 0, 555, 556, nil, nil)
	require.NoError(t, err)
	require.False(t, hasRight)
	require.Equal(t, "AAAAAAA", left.Sequence)
}

func TestMergeUnodesJoinsTwoIslands(t *testing.T) {
	s := NewStore(5)
	s.BuildUnode("AAAAAT", nil, 1, 2)
	s.BuildUnode("ATTTTT", nil, 3, 4)

	merged, err := s.MergeUnodes("", 2, 3, nil)
	require.NoError(t, err)
	require.Equal(t, "AAAAATATTTTT", merged.Sequence)
	require.Equal(t, Full, merged.Meta)
}

func TestMergeUnodesSelfLoop(t *testing.T) {
	s := NewStore(5)
	n := s.BuildUnode("ACGTACGTAC", nil, 10, 20)
	_, err := s.MergeUnodes("", n.LeftEnd, n.LeftEnd, nil)
	require.NoError(t, err)

	merged, ok := s.UnitigByEnd(n.LeftEnd)
	require.True(t, ok)
	require.Equal(t, Loop, merged.Meta)
}

func TestMergeUnodesCircularizesSameUnitig(t *testing.T) {
	s := NewStore(5)
	n := s.BuildUnode("ACGTACGTAC", nil, 10, 20)

	merged, err := s.MergeUnodes("", n.LeftEnd, n.RightEnd, nil)
	require.NoError(t, err)
	require.Equal(t, Circular, merged.Meta)

	events := s.Events()
	require.NotEmpty(t, events)
	require.Equal(t, HistoryCircularMerge, events[len(events)-1].Kind)
}

func TestClipUnodeTrivialDeletes(t *testing.T) {
	s := NewStore(5)
	n := s.BuildUnode("ACGTA", nil, 1, 1)
	_, deleted, ok := s.ClipUnode(hashing.Right, 1, 2)
	require.True(t, ok)
	require.True(t, deleted)

	_, found := s.GetUnode(n.ID)
	require.False(t, found)
}

func TestClipUnodeNonTrivialTrims(t *testing.T) {
	s := NewStore(5)
	s.BuildUnode("ACGTACGTAC", nil, 10, 20)
	clipped, deleted, ok := s.ClipUnode(hashing.Right, 20, 21)
	require.True(t, ok)
	require.False(t, deleted)
	require.Equal(t, "ACGTACGTA", clipped.Sequence)
}

func TestDeleteUnodeClearsIndices(t *testing.T) {
	s := NewStore(5)
	n := s.BuildUnode("ACGTACGTAC", []hashing.Hash{7}, 10, 20)
	require.True(t, s.DeleteUnode(n.ID))

	_, ok := s.UnitigByEnd(10)
	require.False(t, ok)
	_, ok = s.UnitigByTag(7)
	require.False(t, ok)
	_, ok = s.GetUnode(n.ID)
	require.False(t, ok)
}

func TestStatsUpdateCounterMonotonic(t *testing.T) {
	s := NewStore(5)
	before := s.Stats().NUpdates
	s.BuildUnode("ACGTACGTAC", nil, 10, 20)
	after := s.Stats().NUpdates
	require.Greater(t, after, before)
}

func TestEventsDrainHistory(t *testing.T) {
	s := NewStore(5)
	s.BuildUnode("ACGTACGTAC", nil, 10, 20)
	events := s.Events()
	require.Len(t, events, 1)
	require.Equal(t, HistoryNew, events[0].Kind)

	require.Empty(t, s.Events())
}
