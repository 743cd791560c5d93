package storage

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/streamdbg/cdbg/hashing"
)

func allStores() map[string]MembershipStore {
	return map[string]MembershipStore{
		"bit":     NewBitStore(4096, 4),
		"nibble":  NewNibbleStore(4096, 4),
		"byte":    NewByteStore(4096, 4),
		"qf":      NewQFStore(12),
		"hashset": NewHashSetStore(),
		"hashmap": NewHashMapStore(),
	}
}

func TestInsertReportsNewlyAdded(t *testing.T) {
	for name, s := range allStores() {
		t.Run(name, func(t *testing.T) {
			h := hashing.Hash(12345)
			require.True(t, s.Insert(h), "first insert should be new")
			require.False(t, s.Insert(h), "second insert should not be new")
		})
	}
}

func TestQueryAfterInsertIsPositive(t *testing.T) {
	for name, s := range allStores() {
		t.Run(name, func(t *testing.T) {
			h := hashing.Hash(999)
			require.EqualValues(t, 0, s.Query(h))
			s.Insert(h)
			require.GreaterOrEqual(t, s.Query(h), uint64(1))
		})
	}
}

func TestExactStoresHaveZeroFP(t *testing.T) {
	require.Zero(t, NewHashSetStore().EstimatedFP())
	require.Zero(t, NewHashMapStore().EstimatedFP())
	require.Zero(t, NewQFStore(8).EstimatedFP())
}

func TestCountingStoresAccumulate(t *testing.T) {
	counting := map[string]MembershipStore{
		"nibble":  NewNibbleStore(4096, 2),
		"byte":    NewByteStore(4096, 2),
		"hashmap": NewHashMapStore(),
		"qf":      NewQFStore(10),
	}
	for name, s := range counting {
		t.Run(name, func(t *testing.T) {
			h := hashing.Hash(42)
			var last uint64
			for i := 0; i < 5; i++ {
				c := s.InsertAndQuery(h)
				require.GreaterOrEqual(t, c, last)
				last = c
			}
			require.GreaterOrEqual(t, last, uint64(1))
		})
	}
}

func TestByteStoreSpillBeyondSaturation(t *testing.T) {
	s := NewByteStore(64, 1)
	h := hashing.Hash(7)
	var last uint64
	for i := 0; i < 300; i++ {
		last = s.InsertAndQuery(h)
	}
	require.Greater(t, last, uint64(byteMax))
}

func TestHashSetSerializeWritesHeader(t *testing.T) {
	s := NewHashSetStore()
	s.Insert(1)
	s.Insert(2)
	var buf bytes.Buffer
	require.NoError(t, s.Serialize(&buf))
	require.Equal(t, "HSetStor", buf.String()[:8])
}

func TestQFStoreFullPanics(t *testing.T) {
	s := NewQFStore(2) // 4 slots
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected panic once capacity is exceeded")
	}()
	for i := 0; i < 10; i++ {
		s.InsertAndQuery(hashing.Hash(i + 1))
	}
}
