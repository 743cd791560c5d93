package hashing

// RollingHasher is the capability set the dBG and compactor program against.
// New picks one of the two concrete implementations below by Kind at
// construction time; dbg.DBG then calls ShiftRight and ShiftLeft through
// this interface, so every shift in its per-sequence loops is an interface
// method call.
type RollingHasher interface {
	K() uint
	HashBase(seq string) (Hash, error)
	ShiftRight(out, in byte) (Shift, error)
	ShiftLeft(in, out byte) (Shift, error)
	Get() Hash
	CloneHasher() RollingHasher
}

// Kind selects which concrete RollingHasher a dBG is built with.
type Kind int

const (
	Forward Kind = iota
	CanonicalKind
)

func (k Kind) String() string {
	if k == CanonicalKind {
		return "canonical"
	}
	return "forward"
}

// New constructs the concrete RollingHasher selected by kind.
func New(kind Kind, k uint) RollingHasher {
	switch kind {
	case CanonicalKind:
		return &canonicalHasher{NewCanonical(k)}
	default:
		return &forwardHasher{NewShifter(k)}
	}
}

// forwardHasher adapts *Shifter to RollingHasher.
type forwardHasher struct{ *Shifter }

func (f *forwardHasher) Get() Hash                    { return f.Shifter.Get() }
func (f *forwardHasher) CloneHasher() RollingHasher    { return &forwardHasher{f.Shifter.Clone()} }

// canonicalHasher adapts *Canonical to RollingHasher.
type canonicalHasher struct{ *Canonical }

func (c *canonicalHasher) Get() Hash                 { return c.Canonical.Value() }
func (c *canonicalHasher) CloneHasher() RollingHasher { return &canonicalHasher{c.Canonical.Clone()} }
