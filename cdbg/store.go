package cdbg

import (
	"sync"

	"github.com/streamdbg/cdbg/hashing"
)

// Stats is an immutable snapshot of the store's bookkeeping counters (spec
// §6's Report, minus the membership-store-owned n_unique). The metrics
// package turns this into prometheus gauges; cdbg itself stays free of any
// metrics-library dependency.
type Stats struct {
	NFull, NTips, NIslands, NTrivial, NCircular, NLoops int
	NDnodes, NUnodes                                    int
	NUpdates, NSplits, NMerges, NExtends, NClips         uint64
	NDeletes, NCircularMerges, NTags                     uint64
}

// Store holds the cDBG's four indices (spec §3) behind a single mutex: every
// mutation in mutations.go acquires it for the whole operation and leaves
// every index consistent before releasing it, so a caller never observes a
// half-applied split or merge.
type Store struct {
	mu sync.Mutex

	k uint

	unodes *unitigArena
	dnodes map[hashing.Hash]*DecisionNode
	endMap map[hashing.Hash]UnitigID
	tagMap map[hashing.Hash]UnitigID

	metaCounts [6]uint64

	nUpdates, nSplits, nMerges, nExtends uint64
	nClips, nDeletes, nCircularMerges    uint64
	nTags                                uint64

	history *historyRing
}

// NewStore builds an empty cDBG store for k-mer size k, with a 4096-event
// history ring (see history.go).
func NewStore(k uint) *Store {
	return &Store{
		k:       k,
		unodes:  newUnitigArena(),
		dnodes:  make(map[hashing.Hash]*DecisionNode),
		endMap:  make(map[hashing.Hash]UnitigID),
		tagMap:  make(map[hashing.Hash]UnitigID),
		history: newHistoryRing(4096),
	}
}

func (s *Store) K() uint { return s.k }

// GetUnode returns a copy of the live node at id, so callers never retain a
// pointer into the arena past the lock that produced it.
func (s *Store) GetUnode(id UnitigID) (UnitigNode, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.unodes.get(id)
	if n == nil {
		return UnitigNode{}, false
	}
	return *n, true
}

// EachUnitig calls fn with a copy of every live UnitigNode, in id order,
// while holding the store mutex. fn must not call back into the store.
func (s *Store) EachUnitig(fn func(UnitigNode)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unodes.each(func(n *UnitigNode) { fn(*n) })
}

// EachDnode calls fn with a copy of every DecisionNode, in map iteration
// order, while holding the store mutex. fn must not call back into the store.
func (s *Store) EachDnode(fn func(DecisionNode)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.dnodes {
		fn(*d)
	}
}

// GetDnode returns a copy of the DecisionNode keyed by hash, if present.
func (s *Store) GetDnode(hash hashing.Hash) (DecisionNode, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.dnodes[hash]
	if !ok {
		return DecisionNode{}, false
	}
	return *d, true
}

// UnitigByEnd resolves a unitig by one of its ends (spec §3's
// unitig_end_map).
func (s *Store) UnitigByEnd(hash hashing.Hash) (UnitigNode, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.endMap[hash]
	if !ok {
		return UnitigNode{}, false
	}
	n := s.unodes.get(id)
	if n == nil {
		return UnitigNode{}, false
	}
	return *n, true
}

// UnitigByTag resolves a unitig by one of its interior tags (spec §3's
// unitig_tag_map).
func (s *Store) UnitigByTag(hash hashing.Hash) (UnitigNode, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.tagMap[hash]
	if !ok {
		return UnitigNode{}, false
	}
	n := s.unodes.get(id)
	if n == nil {
		return UnitigNode{}, false
	}
	return *n, true
}

// Events drains the history ring: a bounded, lossy snapshot feed for a
// reporter goroutine (spec §5's shared-resource policy — never a live
// reference).
func (s *Store) Events() []HistoryEvent {
	return s.history.Drain()
}

// Stats snapshots the bookkeeping counters under the store mutex.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{
		NFull:           int(s.metaCounts[Full]),
		NTips:           int(s.metaCounts[Tip]),
		NIslands:        int(s.metaCounts[Island]),
		NTrivial:        int(s.metaCounts[Trivial]),
		NCircular:       int(s.metaCounts[Circular]),
		NLoops:          int(s.metaCounts[Loop]),
		NDnodes:         len(s.dnodes),
		NUnodes:         s.unodes.count(),
		NUpdates:        s.nUpdates,
		NSplits:         s.nSplits,
		NMerges:         s.nMerges,
		NExtends:        s.nExtends,
		NClips:          s.nClips,
		NDeletes:        s.nDeletes,
		NCircularMerges: s.nCircularMerges,
		NTags:           s.nTags,
	}
}

// recordMeta adjusts the per-meta gauge when a node transitions from one
// classification to another; newMeta may equal oldMeta for a freshly built
// node (pass Island, or whatever classifyMeta produced, as both).
func (s *Store) recordMeta(oldMeta, newMeta Meta, isNew bool) {
	if !isNew {
		s.metaCounts[oldMeta]--
	}
	s.metaCounts[newMeta]++
}

func (s *Store) bumpUpdates(ev HistoryKind, id UnitigID) {
	s.nUpdates++
	s.history.push(ev, id)
}
