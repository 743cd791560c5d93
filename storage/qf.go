package storage

import (
	"encoding/binary"
	"io"
	"sync"
	"sync/atomic"

	"github.com/streamdbg/cdbg/cdbgerr"
	"github.com/streamdbg/cdbg/hashing"
)

// QFStore is a fixed-capacity, exact (0 false-positive, until full) counting
// store: an open-addressed table of (hash, count) slots probed linearly
// from h mod capacity, capturing the quotient filter's externally-visible
// contract (spec §4.3: "exact within capacity") without its internal
// variable-length run/bucket encoding.
//
// No example repo in the retrieval pack implements an open-addressing
// quotient filter (the pack's bloom/sketch structures, z/bbloom.go and
// sketch.go, are both probabilistic and unbounded in the number of distinct
// keys they accept); this is the one membership-store variant built on the
// standard library alone, recorded in DESIGN.md.
type QFStore struct {
	mu    sync.Mutex
	slots []qfSlot
	mask  uint64
	used  uint64
}

type qfSlot struct {
	occupied bool
	hash     uint64
	count    uint32
}

// NewQFStore builds a table of 2^log2Slots slots.
func NewQFStore(log2Slots uint) *QFStore {
	n := uint64(1) << log2Slots
	return &QFStore{slots: make([]qfSlot, n), mask: n - 1}
}

func (s *QFStore) find(h uint64) (idx int, found bool, firstFree int) {
	firstFree = -1
	start := h & s.mask
	for i := uint64(0); i < uint64(len(s.slots)); i++ {
		idx := int((start + i) & s.mask)
		slot := &s.slots[idx]
		if !slot.occupied {
			if firstFree < 0 {
				firstFree = idx
			}
			return -1, false, firstFree
		}
		if slot.hash == h {
			return idx, true, firstFree
		}
	}
	return -1, false, firstFree
}

func (s *QFStore) Insert(h hashing.Hash) bool {
	return s.InsertAndQuery(h) == 1
}

func (s *QFStore) InsertAndQuery(h hashing.Hash) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	hv := uint64(h)
	idx, found, free := s.find(hv)
	if found {
		s.slots[idx].count++
		return uint64(s.slots[idx].count)
	}
	if free < 0 {
		panic(cdbgerr.New(cdbgerr.KindStoreFull, "quotient filter exhausted at %d slots", len(s.slots)))
	}
	s.slots[free] = qfSlot{occupied: true, hash: hv, count: 1}
	atomic.AddUint64(&s.used, 1)
	return 1
}

func (s *QFStore) Query(h hashing.Hash) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, found, _ := s.find(uint64(h))
	if !found {
		return 0
	}
	return uint64(s.slots[idx].count)
}

func (s *QFStore) NUniqueKmers() uint64 { return atomic.LoadUint64(&s.used) }
func (s *QFStore) NOccupied() uint64    { return atomic.LoadUint64(&s.used) }
func (s *QFStore) EstimatedFP() float64 { return 0 }
func (s *QFStore) CMax() uint64         { return 1<<32 - 1 }
func (s *QFStore) Kind() Kind           { return QF }

func (s *QFStore) Serialize(w io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := writeHeader(w, s.Kind()); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, int64(len(s.slots))); err != nil {
		return err
	}
	for _, slot := range s.slots {
		if err := binary.Write(w, binary.LittleEndian, slot.hash); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, slot.count); err != nil {
			return err
		}
	}
	return nil
}
