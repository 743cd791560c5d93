package storage

import (
	"encoding/binary"
	"io"

	"github.com/streamdbg/cdbg/cdbgerr"
)

// Load reads back whatever a MembershipStore.Serialize wrote: the 8-byte
// type name and ABI version header, then dispatches to the matching
// kind-specific reader. The returned store is a fresh, independently usable
// value; the reader is fully drained on success.
func Load(r io.Reader) (MembershipStore, error) {
	kind, version, err := readHeader(r)
	if err != nil {
		return nil, err
	}
	if version != abiVersion {
		return nil, cdbgerr.New(cdbgerr.KindIO, "unsupported storage ABI version %d (want %d)", version, abiVersion)
	}

	switch kind {
	case Bit:
		return loadBitStore(r)
	case Nibble:
		return loadNibbleStore(r)
	case Byte:
		return loadByteStore(r)
	case QF:
		return loadQFStore(r)
	case HashSet:
		return loadHashSetStore(r)
	case HashMap:
		return loadHashMapStore(r)
	default:
		return nil, cdbgerr.New(cdbgerr.KindIO, "unknown storage kind %d in header", kind)
	}
}

func readHeader(r io.Reader) (Kind, uint64, error) {
	var nameBuf [8]byte
	if _, err := io.ReadFull(r, nameBuf[:]); err != nil {
		return 0, 0, cdbgerr.Wrap(err, cdbgerr.KindIO, "reading storage header name")
	}
	kind, ok := kindFromHeaderName(string(nameBuf[:]))
	if !ok {
		return 0, 0, cdbgerr.New(cdbgerr.KindIO, "unrecognized storage header %q", nameBuf[:])
	}
	var version uint64
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return 0, 0, cdbgerr.Wrap(err, cdbgerr.KindIO, "reading storage header version")
	}
	return kind, version, nil
}

func kindFromHeaderName(name string) (Kind, bool) {
	for _, k := range []Kind{Bit, Nibble, Byte, QF, HashSet, HashMap} {
		if k.String() == name {
			return k, true
		}
	}
	return 0, false
}

func loadBitStore(r io.Reader) (*BitStore, error) {
	var nTables int64
	var bits uint64
	if err := binary.Read(r, binary.LittleEndian, &nTables); err != nil {
		return nil, cdbgerr.Wrap(err, cdbgerr.KindIO, "reading bit store nTables")
	}
	if err := binary.Read(r, binary.LittleEndian, &bits); err != nil {
		return nil, cdbgerr.Wrap(err, cdbgerr.KindIO, "reading bit store bits")
	}
	s := &BitStore{nTables: int(nTables), bits: bits, mask: bits - 1}
	for i := int64(0); i < nTables; i++ {
		t := newBitTable(bits)
		if err := binary.Read(r, binary.LittleEndian, t.words); err != nil {
			return nil, cdbgerr.Wrap(err, cdbgerr.KindIO, "reading bit store table %d", i)
		}
		s.tables = append(s.tables, t)
	}
	s.recomputeOccupancy()
	return s, nil
}

// recomputeOccupancy re-derives nUnique/nOccupied from table contents after
// a load, since those running counters are not themselves serialized.
func (s *BitStore) recomputeOccupancy() {
	if len(s.tables) == 0 {
		return
	}
	var occupied uint64
	for _, t := range s.tables {
		for _, w := range t.words {
			occupied += uint64(popcount(w))
		}
	}
	s.nOccupied = occupied
	s.nUnique = occupied / uint64(s.nTables)
}

func popcount(v uint64) int {
	n := 0
	for v != 0 {
		v &= v - 1
		n++
	}
	return n
}

func loadNibbleStore(r io.Reader) (*NibbleStore, error) {
	var nTables int64
	var counters uint64
	if err := binary.Read(r, binary.LittleEndian, &nTables); err != nil {
		return nil, cdbgerr.Wrap(err, cdbgerr.KindIO, "reading nibble store nTables")
	}
	if err := binary.Read(r, binary.LittleEndian, &counters); err != nil {
		return nil, cdbgerr.Wrap(err, cdbgerr.KindIO, "reading nibble store counters")
	}
	s := &NibbleStore{nTables: int(nTables), counters: counters, mask: counters - 1}
	for i := int64(0); i < nTables; i++ {
		row := newNibbleRow(counters)
		if err := binary.Read(r, binary.LittleEndian, row.data); err != nil {
			return nil, cdbgerr.Wrap(err, cdbgerr.KindIO, "reading nibble store row %d", i)
		}
		s.rows = append(s.rows, row)
	}
	s.recomputeOccupancy()
	return s, nil
}

func (s *NibbleStore) recomputeOccupancy() {
	if len(s.rows) == 0 {
		return
	}
	var occupied uint64
	for n := uint64(0); n < s.counters; n++ {
		if s.rows[0].get(n) > 0 {
			occupied++
		}
	}
	s.nOccupied = occupied
	s.nUnique = occupied
}

func loadByteStore(r io.Reader) (*ByteStore, error) {
	var nTables int64
	var counters uint64
	if err := binary.Read(r, binary.LittleEndian, &nTables); err != nil {
		return nil, cdbgerr.Wrap(err, cdbgerr.KindIO, "reading byte store nTables")
	}
	if err := binary.Read(r, binary.LittleEndian, &counters); err != nil {
		return nil, cdbgerr.Wrap(err, cdbgerr.KindIO, "reading byte store counters")
	}
	s := &ByteStore{nTables: int(nTables), counters: counters, mask: counters - 1}
	for i := int64(0); i < nTables; i++ {
		row := newByteRow(counters)
		if err := binary.Read(r, binary.LittleEndian, row.data); err != nil {
			return nil, cdbgerr.Wrap(err, cdbgerr.KindIO, "reading byte store row %d", i)
		}
		s.rows = append(s.rows, row)
	}
	// The spill map is not serialized: a reloaded store treats any
	// previously-saturated counter as still saturated at byteMax, losing
	// only the exact overflow count above 255, per spec's "table bytes"
	// framing (the spill map is an in-memory refinement, not part of the
	// on-disk table).
	var occupied uint64
	for n := uint64(0); n < counters; n++ {
		if s.rows[0].get(n) > 0 {
			occupied++
		}
	}
	s.nOccupied = occupied
	s.nUnique = occupied
	return s, nil
}

func loadQFStore(r io.Reader) (*QFStore, error) {
	var n int64
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, cdbgerr.Wrap(err, cdbgerr.KindIO, "reading qf store slot count")
	}
	s := &QFStore{slots: make([]qfSlot, n), mask: uint64(n) - 1}
	var used uint64
	for i := int64(0); i < n; i++ {
		var hash uint64
		var count uint32
		if err := binary.Read(r, binary.LittleEndian, &hash); err != nil {
			return nil, cdbgerr.Wrap(err, cdbgerr.KindIO, "reading qf store slot %d hash", i)
		}
		if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
			return nil, cdbgerr.Wrap(err, cdbgerr.KindIO, "reading qf store slot %d count", i)
		}
		if count > 0 {
			s.slots[i] = qfSlot{occupied: true, hash: hash, count: count}
			used++
		}
	}
	s.used = used
	return s, nil
}

func loadHashSetStore(r io.Reader) (*HashSetStore, error) {
	var n int64
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, cdbgerr.Wrap(err, cdbgerr.KindIO, "reading hash set count")
	}
	s := NewHashSetStore()
	for i := int64(0); i < n; i++ {
		var h uint64
		if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
			return nil, cdbgerr.Wrap(err, cdbgerr.KindIO, "reading hash set entry %d", i)
		}
		s.data[h] = struct{}{}
	}
	s.nUnique = uint64(n)
	return s, nil
}

func loadHashMapStore(r io.Reader) (*HashMapStore, error) {
	var n int64
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, cdbgerr.Wrap(err, cdbgerr.KindIO, "reading hash map count")
	}
	s := NewHashMapStore()
	for i := int64(0); i < n; i++ {
		var h, c uint64
		if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
			return nil, cdbgerr.Wrap(err, cdbgerr.KindIO, "reading hash map entry %d hash", i)
		}
		if err := binary.Read(r, binary.LittleEndian, &c); err != nil {
			return nil, cdbgerr.Wrap(err, cdbgerr.KindIO, "reading hash map entry %d count", i)
		}
		s.data[h] = c
	}
	s.nUnique = uint64(n)
	return s, nil
}
