// Package filter holds the pre-compactor admission front-ends of spec §4.7:
// interchangeable strategies the compactor consumes as plain
// (accepted, sequence) tuples, grounded on the teacher's always_admit_policy
// being swappable for the tinyLFU policy behind one shared interface.
package filter

// Filter decides whether a read should reach the compactor at all. Diginorm
// records each accepted read in its own counting dBG; Solid only queries the
// dBG it wraps and leaves inserting accepted reads to the compactor; None
// keeps no state.
type Filter interface {
	// Admit evaluates seq and returns whether it is accepted, plus the
	// number of k-mers it was evaluated over (0 if seq was too short).
	Admit(seq string) (accepted bool, nKmers int, err error)
}

// None always admits; it is the zero-config default of spec §6's
// filter_kind parameter.
type None struct{}

func (None) Admit(seq string) (bool, int, error) { return true, 0, nil }
