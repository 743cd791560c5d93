// Package storage implements the membership stores of spec §4.3: set- or
// counting-valued mappings from a 64-bit k-mer hash to a presence/count
// value, in variants trading space, accuracy, and whether counting is
// supported.
package storage

import (
	"io"

	"github.com/streamdbg/cdbg/hashing"
)

// MembershipStore is the common contract every variant implements. All
// methods must be safe for concurrent Insert calls against themselves;
// Query may observe any consistent value (spec §4.3, §5).
type MembershipStore interface {
	// Insert reports whether h was newly added (count transitioned 0 -> >=1).
	Insert(h hashing.Hash) bool
	// InsertAndQuery returns the post-insert count.
	InsertAndQuery(h hashing.Hash) uint64
	// Query returns the current count for h.
	Query(h hashing.Hash) uint64
	// NUniqueKmers returns the number of distinct hashes ever newly added.
	NUniqueKmers() uint64
	// NOccupied returns the number of occupied table slots/counters.
	NOccupied() uint64
	// EstimatedFP returns the estimated false-positive rate; 0 for exact stores.
	EstimatedFP() float64
	// Kind identifies the concrete variant, used in the serialized header.
	Kind() Kind
	// Serialize writes the store's parameters followed by its raw tables.
	Serialize(w io.Writer) error
}

// Counting is implemented by variants that support counts beyond 0/1.
type Counting interface {
	MembershipStore
	CMax() uint64
}

// Kind identifies a concrete MembershipStore variant for construction and
// for the serialized type-name header (spec §6).
type Kind int

const (
	Bit Kind = iota
	Nibble
	Byte
	QF
	HashSet
	HashMap
)

func (k Kind) String() string {
	switch k {
	case Bit:
		return "BitStor "
	case Nibble:
		return "NiblStor"
	case Byte:
		return "BytStor "
	case QF:
		return "QFStor  "
	case HashSet:
		return "HSetStor"
	case HashMap:
		return "HMapStor"
	default:
		return "Unknown "
	}
}

// abiVersion is the 8-byte ABI version stamped into every serialized store
// header (spec §6).
const abiVersion uint64 = 1
