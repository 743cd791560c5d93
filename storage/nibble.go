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

// nibbleMax is the saturating ceiling of a 4-bit counter.
const nibbleMax = 15

// NibbleStore is a count-min sketch with 4-bit saturating counters packed
// two to a byte, directly grounded on the teacher's sketch.go (cmRow:
// get/increment/reset), generalized from the teacher's fixed cmDepth=1 to a
// configurable N tables (spec §4.3).
type NibbleStore struct {
	nTables   int
	counters  uint64 // counters per row, power of two
	mask      uint64
	rows      []*nibbleRow
	nUnique   uint64
	nOccupied uint64
}

type nibbleRow struct {
	mu   sync.Mutex
	data []byte
}

func newNibbleRow(counters uint64) *nibbleRow {
	return &nibbleRow{data: make([]byte, (counters+1)/2)}
}

func (r *nibbleRow) get(n uint64) byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	return (r.data[n/2] >> ((n & 1) * 4)) & 0x0f
}

// increment returns true if the counter transitioned from 0 (newly occupied).
func (r *nibbleRow) increment(n uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := n / 2
	shift := (n & 1) * 4
	v := (r.data[i] >> shift) & 0x0f
	wasZero := v == 0
	if v < nibbleMax {
		r.data[i] += 1 << shift
	}
	return wasZero
}

// NewNibbleStore builds a count-min sketch with nTables rows, each holding
// maxTableBytes*2 counters rounded up to a power of two, so a row's byte
// footprint is maxTableBytes rounded up to a power of two.
func NewNibbleStore(maxTableBytes uint64, nTables int) *NibbleStore {
	if nTables < 1 {
		nTables = 1
	}
	counters := next2Power(maxTableBytes * 2)
	s := &NibbleStore{nTables: nTables, counters: counters, mask: counters - 1}
	for i := 0; i < nTables; i++ {
		s.rows = append(s.rows, newNibbleRow(counters))
	}
	return s
}

func next2Power(x uint64) uint64 {
	if x < 2 {
		return 2
	}
	x--
	x |= x >> 1
	x |= x >> 2
	x |= x >> 4
	x |= x >> 8
	x |= x >> 16
	x |= x >> 32
	x++
	return x
}

func (s *NibbleStore) positions(h hashing.Hash) []uint64 {
	h1 := xxhash.Sum64(uint64ToBytes(uint64(h)))
	h2 := farm.Hash64(uint64ToBytes(uint64(h)))
	out := make([]uint64, s.nTables)
	for i := 0; i < s.nTables; i++ {
		out[i] = (h1 + uint64(i)*h2) & s.mask
	}
	return out
}

func (s *NibbleStore) Insert(h hashing.Hash) bool {
	return s.InsertAndQuery(h) == 1
}

func (s *NibbleStore) InsertAndQuery(h hashing.Hash) uint64 {
	positions := s.positions(h)
	anyNew := false
	for i, p := range positions {
		if s.rows[i].increment(p) {
			anyNew = true
		}
	}
	if anyNew {
		atomic.AddUint64(&s.nUnique, 1)
		atomic.AddUint64(&s.nOccupied, 1)
	}
	return s.Query(h)
}

func (s *NibbleStore) Query(h hashing.Hash) uint64 {
	positions := s.positions(h)
	min := byte(nibbleMax)
	for i, p := range positions {
		if v := s.rows[i].get(p); v < min {
			min = v
		}
	}
	return uint64(min)
}

func (s *NibbleStore) NUniqueKmers() uint64 { return atomic.LoadUint64(&s.nUnique) }
func (s *NibbleStore) NOccupied() uint64    { return atomic.LoadUint64(&s.nOccupied) }
func (s *NibbleStore) CMax() uint64         { return nibbleMax }

func (s *NibbleStore) EstimatedFP() float64 {
	occupied := float64(atomic.LoadUint64(&s.nOccupied))
	return math.Pow(occupied/float64(s.counters), float64(s.nTables))
}

func (s *NibbleStore) Kind() Kind { return Nibble }

func (s *NibbleStore) Serialize(w io.Writer) error {
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
