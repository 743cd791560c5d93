package cdbgerr

import (
	"io"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestNewFormatsContext(t *testing.T) {
	err := New(KindInvalidSymbol, "symbol %q at index %d", 'Z', 3)
	require.Equal(t, "invalid-symbol: symbol 'Z' at index 3", err.Error())
}

func TestWrapPreservesCauseForUnwrap(t *testing.T) {
	err := Wrap(io.EOF, KindIO, "reading fasta record")
	require.ErrorIs(t, err, io.EOF)
	require.Equal(t, io.EOF, errors.Unwrap(err))
}

func TestIsKindMatchesThroughWrapping(t *testing.T) {
	err := New(KindStoreFull, "qf at capacity")
	wrapped := errors.Wrap(err, "inserting k-mer")

	require.True(t, IsKind(wrapped, KindStoreFull))
	require.False(t, IsKind(wrapped, KindIO))
	require.False(t, IsKind(io.EOF, KindIO))
}

func TestFatalClassifiesStoreInvariantAndConfigErrors(t *testing.T) {
	require.True(t, New(KindStoreFull, "x").Fatal())
	require.True(t, New(KindInvariantViolation, "x").Fatal())
	require.True(t, New(KindInvalidConfig, "x").Fatal())
	require.False(t, New(KindInvalidSymbol, "x").Fatal())
	require.False(t, New(KindSequenceTooShort, "x").Fatal())
	require.False(t, New(KindIO, "x").Fatal())
}

func TestKindStringNames(t *testing.T) {
	require.Equal(t, "invalid-symbol", KindInvalidSymbol.String())
	require.Equal(t, "sequence-too-short", KindSequenceTooShort.String())
	require.Equal(t, "store-full", KindStoreFull.String())
	require.Equal(t, "invariant-violation", KindInvariantViolation.String())
	require.Equal(t, "io-error", KindIO.String())
	require.Equal(t, "invalid-config", KindInvalidConfig.String())
	require.Equal(t, "unknown", Kind(99).String())
}
