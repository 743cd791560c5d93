package metrics

import (
	"fmt"
	"math"
	"strings"
)

// LengthBounds returns power-of-two bucket bounds [2^minExp, ..., 2^maxExp],
// used to bucket unitig and segment lengths in base pairs.
func LengthBounds(minExp, maxExp uint32) []float64 {
	bounds := make([]float64, 0, maxExp-minExp+1)
	for e := minExp; e <= maxExp; e++ {
		bounds = append(bounds, float64(int(1)<<e))
	}
	return bounds
}

// LengthHistogram buckets a stream of lengths (unitig or segment, in bases)
// into power-of-two ranges. Grounded on the teacher's z.HistogramData, which
// buckets key/value byte sizes the same way; here it tracks sequence length
// distributions instead (spec.md's domain stack calls for this life-
// expectancy-style tracking, repurposed to unitig/segment lengths).
type LengthHistogram struct {
	Bounds         []float64
	Count          int64
	CountPerBucket []int64
	Min            int64
	Max            int64
	Sum            int64
}

// NewLengthHistogram builds an empty histogram over the given bounds.
func NewLengthHistogram(bounds []float64) *LengthHistogram {
	return &LengthHistogram{
		Bounds:         bounds,
		CountPerBucket: make([]int64, len(bounds)+1),
		Min:            math.MaxInt64,
	}
}

// Observe records one length. Nil-safe so a caller can pass a possibly-absent
// histogram through without a guard at every call site.
func (h *LengthHistogram) Observe(length int64) {
	if h == nil {
		return
	}
	if length > h.Max {
		h.Max = length
	}
	if length < h.Min {
		h.Min = length
	}
	h.Sum += length
	h.Count++

	for i := 0; i <= len(h.Bounds); i++ {
		if i == len(h.Bounds) {
			h.CountPerBucket[i]++
			break
		}
		if length < int64(h.Bounds[i]) {
			h.CountPerBucket[i]++
			break
		}
	}
}

// String renders a human-readable bucket breakdown.
func (h *LengthHistogram) String() string {
	if h == nil || h.Count == 0 {
		return "(no data)"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "min=%d max=%d mean=%.1f ", h.Min, h.Max, float64(h.Sum)/float64(h.Count))
	n := len(h.Bounds)
	for i, count := range h.CountPerBucket {
		if count == 0 {
			continue
		}
		lower := 0
		if i > 0 {
			lower = int(h.Bounds[i-1])
		}
		if i == len(h.CountPerBucket)-1 {
			fmt.Fprintf(&b, "[%d,inf):%d ", int(h.Bounds[n-1]), count)
			continue
		}
		fmt.Fprintf(&b, "[%d,%d):%d ", lower, int(h.Bounds[i]), count)
	}
	return b.String()
}
