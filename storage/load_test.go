package storage

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/streamdbg/cdbg/hashing"
)

func TestLoadRoundTripsQuery(t *testing.T) {
	builders := map[string]func() MembershipStore{
		"bit":     func() MembershipStore { return NewBitStore(4096, 4) },
		"nibble":  func() MembershipStore { return NewNibbleStore(4096, 4) },
		"byte":    func() MembershipStore { return NewByteStore(4096, 4) },
		"qf":      func() MembershipStore { return NewQFStore(10) },
		"hashset": func() MembershipStore { return NewHashSetStore() },
		"hashmap": func() MembershipStore { return NewHashMapStore() },
	}

	hashes := []hashing.Hash{11, 22, 33, 44}

	for name, build := range builders {
		t.Run(name, func(t *testing.T) {
			orig := build()
			for _, h := range hashes {
				orig.Insert(h)
			}

			var buf bytes.Buffer
			require.NoError(t, orig.Serialize(&buf))

			loaded, err := Load(&buf)
			require.NoError(t, err)
			require.Equal(t, orig.Kind(), loaded.Kind())

			for _, h := range hashes {
				require.Equal(t, orig.Query(h), loaded.Query(h))
			}
		})
	}
}

func TestLoadRejectsUnknownHeader(t *testing.T) {
	_, err := Load(bytes.NewReader([]byte("garbage!")))
	require.Error(t, err)
}

func TestLoadRejectsTruncatedInput(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewHashSetStore().Serialize(&buf))
	truncated := buf.Bytes()[:len(buf.Bytes())-4]
	_, err := Load(bytes.NewReader(truncated))
	require.Error(t, err)
}
