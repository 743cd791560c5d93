// Package alphabet validates sequence symbols and computes complements for
// the three concrete alphabets the compactor supports: plain DNA, DNA with
// the ambiguity code N, and full IUPAC.
package alphabet

import (
	"github.com/streamdbg/cdbg/cdbgerr"
)

// Kind selects one of the three concrete alphabets.
type Kind int

const (
	DNA Kind = iota
	DNAN
	IUPAC
)

func (k Kind) String() string {
	switch k {
	case DNA:
		return "DNA"
	case DNAN:
		return "DNA+N"
	case IUPAC:
		return "IUPAC"
	default:
		return "unknown"
	}
}

// Alphabet is the per-kind validate/complement table.
type Alphabet struct {
	kind       Kind
	complement [256]byte
	valid      [256]bool
}

var (
	dnaComplement = map[byte]byte{
		'A': 'T', 'C': 'G', 'G': 'C', 'T': 'A',
	}
	dnanComplement = map[byte]byte{
		'A': 'T', 'C': 'G', 'G': 'C', 'T': 'A', 'N': 'N',
	}
	// IUPAC ambiguity codes, standard nucleotide complements.
	iupacComplement = map[byte]byte{
		'A': 'T', 'C': 'G', 'G': 'C', 'T': 'A', 'U': 'A',
		'R': 'Y', 'Y': 'R', 'S': 'S', 'W': 'W', 'K': 'M', 'M': 'K',
		'B': 'V', 'V': 'B', 'D': 'H', 'H': 'D', 'N': 'N',
	}
)

func build(kind Kind, table map[byte]byte) *Alphabet {
	a := &Alphabet{kind: kind}
	for c, comp := range table {
		a.valid[c] = true
		a.complement[c] = comp
		// lowercase input is accepted by Validate and normalized to upper.
	}
	return a
}

// New returns the Alphabet for the requested kind.
func New(kind Kind) *Alphabet {
	switch kind {
	case DNA:
		return build(DNA, dnaComplement)
	case DNAN:
		return build(DNAN, dnanComplement)
	case IUPAC:
		return build(IUPAC, iupacComplement)
	default:
		return build(DNA, dnaComplement)
	}
}

func (a *Alphabet) Kind() Kind { return a.kind }

// ConcreteSymbols returns the unambiguous bases used to enumerate shift
// extensions (spec §4.1): always A, C, G, T, regardless of alphabet kind,
// since ambiguity codes (N, IUPAC codes) do not correspond to single graph
// edges.
func (a *Alphabet) ConcreteSymbols() []byte {
	return []byte{'A', 'C', 'G', 'T'}
}

// Validate returns the canonical (uppercase) form of c if it belongs to the
// alphabet, or a KindInvalidSymbol error otherwise. Validate is total and
// idempotent on canonical symbols.
func (a *Alphabet) Validate(c byte) (byte, error) {
	if a.valid[c] {
		return c, nil
	}
	if c >= 'a' && c <= 'z' {
		upper := c - ('a' - 'A')
		if a.valid[upper] {
			return upper, nil
		}
	}
	return 0, cdbgerr.New(cdbgerr.KindInvalidSymbol, "symbol %q not in %s alphabet", rune(c), a.kind)
}

// ValidateSequence validates every symbol of s, returning the canonicalized
// sequence or the first error encountered (with its index in Context).
func (a *Alphabet) ValidateSequence(s string) (string, error) {
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		c, err := a.Validate(s[i])
		if err != nil {
			return "", cdbgerr.New(cdbgerr.KindInvalidSymbol, "symbol %q at index %d", rune(s[i]), i)
		}
		out[i] = c
	}
	return string(out), nil
}

// Complement returns the complement of canonical symbol c.
func (a *Alphabet) Complement(c byte) (byte, error) {
	canon, err := a.Validate(c)
	if err != nil {
		return 0, err
	}
	return a.complement[canon], nil
}

// ReverseComplement reverse-complements s. It is an involution on the DNA
// and DNA-with-N alphabets, and on IUPAC for every symbol except U, which
// complements to A: ReverseComplement(ReverseComplement(s)) == canonical(s)
// whenever s contains no U.
func (a *Alphabet) ReverseComplement(s string) (string, error) {
	out := make([]byte, len(s))
	n := len(s)
	for i := 0; i < n; i++ {
		c, err := a.Complement(s[n-1-i])
		if err != nil {
			return "", err
		}
		out[i] = c
	}
	return string(out), nil
}
