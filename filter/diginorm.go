package filter

import (
	"sort"

	"github.com/streamdbg/cdbg/dbg"
)

// Diginorm implements digital normalization (spec §4.7): a read is admitted
// iff the median count of its k-mers in an auxiliary counting dBG is below
// cutoff (reads that are already well-represented are dropped). Admitted
// reads are inserted into the counting dBG so later, similar reads become
// less likely to pass.
type Diginorm struct {
	counts *dbg.DBG
	cutoff uint64
}

// NewDiginorm builds a Diginorm filter over its own counting dBG.
func NewDiginorm(counts *dbg.DBG, cutoff uint64) *Diginorm {
	return &Diginorm{counts: counts, cutoff: cutoff}
}

func (f *Diginorm) Admit(seq string) (bool, int, error) {
	hashes, counts, err := f.counts.QuerySequence(seq)
	if err != nil {
		return false, 0, err
	}
	if len(counts) == 0 {
		return false, 0, nil
	}

	if median(counts) < f.cutoff {
		for _, h := range hashes {
			f.counts.Insert(h)
		}
		return true, len(hashes), nil
	}
	return false, len(hashes), nil
}

func median(counts []uint64) uint64 {
	sorted := append([]uint64(nil), counts...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
