package compactor

import "github.com/streamdbg/cdbg/filter"

// FilteredCompactor composes a pre-compactor admission filter with a
// Compactor (spec §4.7's saturating/solid compactor variants): every read
// is first run through Filter.Admit, and only forwarded to the wrapped
// Compactor's InsertSequence if accepted. "The compactor consumes only
// (accepted, sequence) tuples" (spec §4.7) is exactly this gate.
type FilteredCompactor struct {
	*Compactor
	Filter filter.Filter
}

// NewFiltered wraps c so every InsertSequence call first passes through f.
func NewFiltered(c *Compactor, f filter.Filter) *FilteredCompactor {
	return &FilteredCompactor{Compactor: c, Filter: f}
}

// InsertSequence runs seq through the filter and, if accepted, through the
// wrapped Compactor's normal six-step path. It reports whether seq was
// accepted so callers can tally accept/reject counts without re-deriving
// them from the filter directly.
func (fc *FilteredCompactor) InsertSequence(seq string) (accepted bool, err error) {
	ok, _, err := fc.Filter.Admit(seq)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	return true, fc.Compactor.InsertSequence(seq)
}
