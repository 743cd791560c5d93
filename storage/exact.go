package storage

import (
	"encoding/binary"
	"io"
	"sync"
	"sync/atomic"

	"github.com/streamdbg/cdbg/hashing"
)

// HashSetStore is an exact presence set, grounded directly on the teacher's
// LockedMap (store.go): a single RWMutex guarding a Go map, retargeted from
// string->interface{} to uint64->struct{}.
type HashSetStore struct {
	mu      sync.RWMutex
	data    map[uint64]struct{}
	nUnique uint64
}

func NewHashSetStore() *HashSetStore {
	return &HashSetStore{data: make(map[uint64]struct{})}
}

func (s *HashSetStore) Insert(h hashing.Hash) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	hv := uint64(h)
	if _, ok := s.data[hv]; ok {
		return false
	}
	s.data[hv] = struct{}{}
	atomic.AddUint64(&s.nUnique, 1)
	return true
}

func (s *HashSetStore) InsertAndQuery(h hashing.Hash) uint64 {
	s.Insert(h)
	return 1
}

func (s *HashSetStore) Query(h hashing.Hash) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.data[uint64(h)]; ok {
		return 1
	}
	return 0
}

func (s *HashSetStore) NUniqueKmers() uint64 { return atomic.LoadUint64(&s.nUnique) }
func (s *HashSetStore) NOccupied() uint64    { return atomic.LoadUint64(&s.nUnique) }
func (s *HashSetStore) EstimatedFP() float64 { return 0 }
func (s *HashSetStore) Kind() Kind           { return HashSet }

func (s *HashSetStore) Serialize(w io.Writer) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := writeHeader(w, s.Kind()); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, int64(len(s.data))); err != nil {
		return err
	}
	for h := range s.data {
		if err := binary.Write(w, binary.LittleEndian, h); err != nil {
			return err
		}
	}
	return nil
}

// HashMapStore is an exact counting map, grounded on the teacher's LockedMap
// the same way HashSetStore is, but retargeted to uint64->uint64 counts.
type HashMapStore struct {
	mu      sync.RWMutex
	data    map[uint64]uint64
	nUnique uint64
}

func NewHashMapStore() *HashMapStore {
	return &HashMapStore{data: make(map[uint64]uint64)}
}

func (s *HashMapStore) Insert(h hashing.Hash) bool {
	return s.InsertAndQuery(h) == 1
}

func (s *HashMapStore) InsertAndQuery(h hashing.Hash) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	hv := uint64(h)
	c, existed := s.data[hv]
	if !existed {
		atomic.AddUint64(&s.nUnique, 1)
	}
	c++
	s.data[hv] = c
	return c
}

func (s *HashMapStore) Query(h hashing.Hash) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data[uint64(h)]
}

func (s *HashMapStore) NUniqueKmers() uint64 { return atomic.LoadUint64(&s.nUnique) }
func (s *HashMapStore) NOccupied() uint64    { return atomic.LoadUint64(&s.nUnique) }
func (s *HashMapStore) EstimatedFP() float64 { return 0 }
func (s *HashMapStore) CMax() uint64         { return ^uint64(0) }
func (s *HashMapStore) Kind() Kind           { return HashMap }

func (s *HashMapStore) Serialize(w io.Writer) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := writeHeader(w, s.Kind()); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, int64(len(s.data))); err != nil {
		return err
	}
	for h, c := range s.data {
		if err := binary.Write(w, binary.LittleEndian, h); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, c); err != nil {
			return err
		}
	}
	return nil
}
