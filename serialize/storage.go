package serialize

import (
	"io"

	"github.com/streamdbg/cdbg/storage"
)

// SaveStore writes s's binary format (spec §6: 8-byte type name, 8-byte ABI
// version, parameters, then raw table bytes) to w.
func SaveStore(w io.Writer, s storage.MembershipStore) error {
	return s.Serialize(w)
}

// LoadStore reads back whatever SaveStore wrote.
func LoadStore(r io.Reader) (storage.MembershipStore, error) {
	return storage.Load(r)
}
