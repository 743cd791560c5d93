package alphabet

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateCanonicalAndLowercase(t *testing.T) {
	a := New(DNA)

	cases := []struct {
		name string
		in   byte
		want byte
		ok   bool
	}{
		{"upper A", 'A', 'A', true},
		{"lower a", 'a', 'A', true},
		{"upper T", 'T', 'T', true},
		{"invalid N on plain DNA", 'N', 0, false},
		{"invalid symbol", 'X', 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := a.Validate(tc.in)
			if tc.ok {
				require.NoError(t, err)
				require.Equal(t, tc.want, got)
			} else {
				require.Error(t, err)
			}
		})
	}
}

func TestValidateIdempotent(t *testing.T) {
	a := New(DNA)
	c, err := a.Validate('A')
	require.NoError(t, err)
	c2, err := a.Validate(c)
	require.NoError(t, err)
	require.Equal(t, c, c2)
}

func TestReverseComplementInvolution(t *testing.T) {
	a := New(DNA)
	seqs := []string{"ACGTACGTAC", "AAAAAAA", "ATATAT", "GCGCGC"}
	for _, s := range seqs {
		rc, err := a.ReverseComplement(s)
		require.NoError(t, err)
		back, err := a.ReverseComplement(rc)
		require.NoError(t, err)
		require.Equal(t, s, back)
	}
}

func TestReverseComplementKnownValues(t *testing.T) {
	a := New(DNA)
	rc, err := a.ReverseComplement("ACGT")
	require.NoError(t, err)
	require.Equal(t, "ACGT", rc)

	rc, err = a.ReverseComplement("AAAA")
	require.NoError(t, err)
	require.Equal(t, "TTTT", rc)
}

func TestDNANAllowsN(t *testing.T) {
	a := New(DNAN)
	_, err := a.Validate('N')
	require.NoError(t, err)
}

func TestIUPACAmbiguityCodes(t *testing.T) {
	a := New(IUPAC)
	for _, c := range []byte("RYSWKMBDHVN") {
		_, err := a.Validate(c)
		require.NoError(t, err, "symbol %c should validate", c)
	}
}
