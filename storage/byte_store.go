package storage

import (
	"encoding/binary"
	"io"
	"math"
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	farm "github.com/dgryski/go-farm"

	"github.com/streamdbg/cdbg/hashing"
)

// byteMax is the saturating ceiling of an 8-bit counter before a hash spills
// into the overflow map.
const byteMax = 255

// ByteStore is a count-min sketch with 8-bit counters, one per byte, widened
// from NibbleStore's packed-nibble rows the same way the teacher's
// cmRow shape generalizes, plus a spill map (grounded on the teacher's
// store.go Map interface, reused here as the overflow table) so counts
// beyond 255 remain exact instead of saturating, giving ByteStore unbounded
// counting per spec §4.3.
type ByteStore struct {
	nTables   int
	counters  uint64
	mask      uint64
	rows      []*byteRow
	spill     sync.Map // hashing.Hash -> *uint64, hashes that saturated a row
	nUnique   uint64
	nOccupied uint64
}

type byteRow struct {
	mu   sync.Mutex
	data []byte
}

func newByteRow(counters uint64) *byteRow {
	return &byteRow{data: make([]byte, counters)}
}

func (r *byteRow) get(n uint64) byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.data[n]
}

// increment returns (wasZero, saturated); saturated reports that the counter
// was already at byteMax, so this increment did not fit in the row.
func (r *byteRow) increment(n uint64) (bool, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v := r.data[n]
	wasZero := v == 0
	if v < byteMax {
		r.data[n] = v + 1
	}
	return wasZero, v == byteMax
}

func NewByteStore(maxTableBytes uint64, nTables int) *ByteStore {
	if nTables < 1 {
		nTables = 1
	}
	counters := next2Power(maxTableBytes)
	s := &ByteStore{nTables: nTables, counters: counters, mask: counters - 1}
	for i := 0; i < nTables; i++ {
		s.rows = append(s.rows, newByteRow(counters))
	}
	return s
}

func (s *ByteStore) positions(h hashing.Hash) []uint64 {
	h1 := xxhash.Sum64(uint64ToBytes(uint64(h)))
	h2 := farm.Hash64(uint64ToBytes(uint64(h)))
	out := make([]uint64, s.nTables)
	for i := 0; i < s.nTables; i++ {
		out[i] = (h1 + uint64(i)*h2) & s.mask
	}
	return out
}

func (s *ByteStore) Insert(h hashing.Hash) bool {
	return s.InsertAndQuery(h) == 1
}

func (s *ByteStore) InsertAndQuery(h hashing.Hash) uint64 {
	positions := s.positions(h)
	anyNew := false
	allSaturated := true
	for i, p := range positions {
		wasZero, saturated := s.rows[i].increment(p)
		if wasZero {
			anyNew = true
		}
		if !saturated {
			allSaturated = false
		}
	}
	if anyNew {
		atomic.AddUint64(&s.nUnique, 1)
		atomic.AddUint64(&s.nOccupied, 1)
	}
	if allSaturated {
		s.bumpSpill(h)
	}
	return s.Query(h)
}

func (s *ByteStore) bumpSpill(h hashing.Hash) {
	v, _ := s.spill.LoadOrStore(h, new(uint64))
	atomic.AddUint64(v.(*uint64), 1)
}

func (s *ByteStore) Query(h hashing.Hash) uint64 {
	positions := s.positions(h)
	min := byte(byteMax)
	for i, p := range positions {
		if v := s.rows[i].get(p); v < min {
			min = v
		}
	}
	if min == byteMax {
		if v, ok := s.spill.Load(h); ok {
			return byteMax + atomic.LoadUint64(v.(*uint64))
		}
	}
	return uint64(min)
}

func (s *ByteStore) NUniqueKmers() uint64 { return atomic.LoadUint64(&s.nUnique) }
func (s *ByteStore) NOccupied() uint64    { return atomic.LoadUint64(&s.nOccupied) }
func (s *ByteStore) CMax() uint64         { return math.MaxUint64 }

func (s *ByteStore) EstimatedFP() float64 {
	occupied := float64(atomic.LoadUint64(&s.nOccupied))
	return math.Pow(occupied/float64(s.counters), float64(s.nTables))
}

func (s *ByteStore) Kind() Kind { return Byte }

func (s *ByteStore) Serialize(w io.Writer) error {
	if err := writeHeader(w, s.Kind()); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, int64(s.nTables)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, s.counters); err != nil {
		return err
	}
	for _, r := range s.rows {
		r.mu.Lock()
		err := binary.Write(w, binary.LittleEndian, r.data)
		r.mu.Unlock()
		if err != nil {
			return err
		}
	}
	return nil
}
