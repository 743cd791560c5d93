// Package cdbg holds the compact de Bruijn graph store: UnitigNodes and
// DecisionNodes indexed by id, by end-hash, and by tag-hash, with the
// structural invariants of spec §3 enforced by every mutation in §4.5.
package cdbg

import (
	"github.com/streamdbg/cdbg/hashing"
)

// UnitigID is a small integer handle into the unitig arena, grounded on the
// teacher's arena.go/z/allocator.go slab-allocator pattern (an opaque
// integer packs an index, never a pointer) simplified to one append-only
// slice per node type, per the §9 redesign note.
type UnitigID uint32

// DecisionID is the hash of a DecisionNode's k-mer: spec §3 defines a
// DecisionNode's id as identical to its k-mer hash, so no separate arena
// indirection is needed for decision nodes.
type DecisionID = hashing.Hash

// Meta classifies a UnitigNode's topology (spec §3).
type Meta int

const (
	Island Meta = iota
	Tip
	Full
	Circular
	Loop
	Trivial
)

func (m Meta) String() string {
	switch m {
	case Island:
		return "ISLAND"
	case Tip:
		return "TIP"
	case Full:
		return "FULL"
	case Circular:
		return "CIRCULAR"
	case Loop:
		return "LOOP"
	case Trivial:
		return "TRIVIAL"
	default:
		return "UNKNOWN"
	}
}

// UnitigNode is a maximal linear chain collapsed into one node (spec §3).
type UnitigNode struct {
	ID       UnitigID
	Sequence string
	LeftEnd  hashing.Hash
	RightEnd hashing.Hash
	Tags     []hashing.Hash
	Meta     Meta
}

// IsCircular reports whether the node's Meta is Circular.
func (u *UnitigNode) IsCircular() bool {
	return u.Meta == Circular
}

// DecisionNode is a k-mer with in-degree or out-degree > 1 in the underlying
// dBG (spec §3).
type DecisionNode struct {
	ID          DecisionID
	Kmer        string
	LeftDegree  int
	RightDegree int
	Count       uint64
}

// IsDecision reports the invariant every DecisionNode must satisfy.
func (d *DecisionNode) IsDecision() bool {
	return d.LeftDegree > 1 || d.RightDegree > 1
}

// classifyMeta stamps the meta for a freshly built unitig, per spec §4.5:
// TRIVIAL if the sequence is exactly K long, else CIRCULAR if its ends
// coincide, else ISLAND.
func classifyMeta(seqLen int, k uint, left, right hashing.Hash) Meta {
	if seqLen == int(k) {
		return Trivial
	}
	if left == right {
		return Circular
	}
	return Island
}
