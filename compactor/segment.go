package compactor

import "github.com/streamdbg/cdbg/hashing"

// segment is a maximal run of positions in an inserted sequence that share
// a classification relative to the cDBG's pre-insertion state: a run of
// novel k-mers, a single decision k-mer carved out of such a run, or a null
// separator between runs. Named after the reference implementation's
// compact_segment.
type segment struct {
	leftAnchor, rightAnchor hashing.Hash
	leftFlank, rightFlank   hashing.Hash
	hasLeftFlank            bool
	hasRightFlank           bool
	leftFlankKmer           string
	rightFlankKmer          string
	isDecisionKmer          bool
	startPos, length        int
	tags                    []hashing.Hash
}

// isNull reports whether this is a zero-value placeholder rather than a
// real segment; findSegments/scanDecisionKmers never materialize the gaps
// between segments, but downstream passes check this defensively.
func (seg segment) isNull() bool {
	return seg.length == 0 && !seg.isDecisionKmer
}
