package config

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/streamdbg/cdbg/alphabet"
	"github.com/streamdbg/cdbg/filter"
	"github.com/streamdbg/cdbg/hashing"
	"github.com/streamdbg/cdbg/storage"
)

func validConfig() Config {
	return Config{
		K:            21,
		AlphabetKind: alphabet.DNA,
		StorageKind:  storage.HashSet,
		HasherKind:   hashing.Forward,
	}
}

func TestBuildAcceptsValidConfig(t *testing.T) {
	built, err := Build(validConfig())
	require.NoError(t, err)
	require.NotNil(t, built.Compactor)
	require.NotNil(t, built.Graph)
	require.NotNil(t, built.CDBG)
	require.IsType(t, filter.None{}, built.Filter)
}

func TestBuildDefaultsMinimizerWindow(t *testing.T) {
	c := validConfig()
	c.MinimizerWindow = 0
	built, err := Build(c)
	require.NoError(t, err)
	require.NotNil(t, built.Compactor)
}

func TestBuildRejectsKOutOfRange(t *testing.T) {
	c := validConfig()
	c.K = 4
	_, err := Build(c)
	require.Error(t, err)

	c.K = 32
	_, err = Build(c)
	require.Error(t, err)
}

func TestBuildRejectsUnknownStorageKind(t *testing.T) {
	c := validConfig()
	c.StorageKind = storage.Kind(99)
	_, err := Build(c)
	require.Error(t, err)
}

func TestBuildRequiresTableParamsForBitStore(t *testing.T) {
	c := validConfig()
	c.StorageKind = storage.Bit
	_, err := Build(c)
	require.Error(t, err)

	c.StorageParams = StorageParams{MaxTableBytes: 4096, NTables: 4}
	_, err = Build(c)
	require.NoError(t, err)
}

func TestBuildRequiresLog2SlotsForQF(t *testing.T) {
	c := validConfig()
	c.StorageKind = storage.QF
	_, err := Build(c)
	require.Error(t, err)

	c.StorageParams = StorageParams{Log2Slots: 10}
	_, err = Build(c)
	require.NoError(t, err)
}

func TestBuildRejectsDiginormWithZeroCutoff(t *testing.T) {
	c := validConfig()
	c.FilterKind = FilterDiginorm
	_, err := Build(c)
	require.Error(t, err)

	c.FilterParams.Cutoff = 20
	built, err := Build(c)
	require.NoError(t, err)
	require.IsType(t, &filter.Diginorm{}, built.Filter)
}

func TestBuildRejectsSolidWithBadProportion(t *testing.T) {
	c := validConfig()
	c.FilterKind = FilterSolid
	c.FilterParams.SolidThreshold = 2
	c.FilterParams.MinPropSolid = 1.5
	_, err := Build(c)
	require.Error(t, err)

	c.FilterParams.MinPropSolid = 0.5
	built, err := Build(c)
	require.NoError(t, err)
	require.IsType(t, &filter.Solid{}, built.Filter)
}
