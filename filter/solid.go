package filter

import "github.com/streamdbg/cdbg/dbg"

// Solid implements the solid-kmer proportion filter (spec §4.7): a read is
// admitted iff the proportion of its k-mers already present at or above
// solidThreshold in the main dBG is at least minPropSolid. Solid only
// observes g; it never inserts into it itself. Admitted reads are counted
// into the main dBG by whatever consumes the (accepted, sequence) tuple
// next (compactor.FilteredCompactor runs the sequence through the ordinary
// compactor InsertSequence path on g, spec §4.7's "counted into the main
// dBG").
type Solid struct {
	g              *dbg.DBG
	solidThreshold uint64
	minPropSolid   float64
}

// NewSolid builds a Solid filter over the same main dBG g the compactor
// inserts accepted reads into, so its proportion check reflects exactly
// what the compactor has already built.
func NewSolid(g *dbg.DBG, solidThreshold uint64, minPropSolid float64) *Solid {
	return &Solid{g: g, solidThreshold: solidThreshold, minPropSolid: minPropSolid}
}

func (f *Solid) Admit(seq string) (bool, int, error) {
	_, counts, err := f.g.QuerySequence(seq)
	if err != nil {
		return false, 0, err
	}
	if len(counts) == 0 {
		return false, 0, nil
	}

	solid := 0
	for _, c := range counts {
		if c >= f.solidThreshold {
			solid++
		}
	}
	prop := float64(solid) / float64(len(counts))
	return prop >= f.minPropSolid, len(counts), nil
}
