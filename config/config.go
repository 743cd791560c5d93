// Package config validates the explicit parameter set spec §6 requires
// before any membership store, dBG, or compactor is constructed, and builds
// those collaborators from a validated Config. Modeled on the teacher's
// Config/NewCache pair: a plain struct plus a constructor that returns the
// first validation error it finds.
package config

import (
	"go.uber.org/zap"

	"github.com/streamdbg/cdbg/alphabet"
	"github.com/streamdbg/cdbg/cdbg"
	"github.com/streamdbg/cdbg/cdbgerr"
	"github.com/streamdbg/cdbg/compactor"
	"github.com/streamdbg/cdbg/dbg"
	"github.com/streamdbg/cdbg/filter"
	"github.com/streamdbg/cdbg/hashing"
	"github.com/streamdbg/cdbg/storage"
)

// FilterKind selects the pre-compactor read filter (spec §6's filter_kind).
type FilterKind int

const (
	FilterNone FilterKind = iota
	FilterDiginorm
	FilterSolid
)

func (k FilterKind) String() string {
	switch k {
	case FilterNone:
		return "None"
	case FilterDiginorm:
		return "Diginorm"
	case FilterSolid:
		return "Solid"
	default:
		return "unknown"
	}
}

// StorageParams carries every variant-specific table-sizing knob. Only the
// fields relevant to StorageKind need be set; the rest are ignored.
type StorageParams struct {
	MaxTableBytes uint64
	NTables       int
	Log2Slots     uint
}

// FilterParams carries every variant-specific filter knob. Only the fields
// relevant to FilterKind need be set.
type FilterParams struct {
	Cutoff         uint64
	SolidThreshold uint64
	MinPropSolid   float64
}

// DefaultMinimizerWindow is used when MinimizerWindow is left at zero.
const DefaultMinimizerWindow = 8

// Config is the full explicit parameter set of spec §6.
type Config struct {
	K               uint
	AlphabetKind    alphabet.Kind
	StorageKind     storage.Kind
	StorageParams   StorageParams
	HasherKind      hashing.Kind
	MinimizerWindow int
	FilterKind      FilterKind
	FilterParams    FilterParams
	// Strict rejects a read outright on an invalid symbol; lenient (the
	// zero value) skips just that read.
	Strict bool
	// Logger receives Compactor diagnostics (split-retry exhaustion,
	// invariant violations). Defaults to zap.NewNop() when unset.
	Logger *zap.SugaredLogger
}

// Built holds the collaborators assembled from a validated Config: the
// membership store backing the main dBG, the dBG itself, the cDBG store,
// the compactor that mutates it, and the configured pre-compactor filter.
type Built struct {
	Store     storage.MembershipStore
	Graph     *dbg.DBG
	CDBG      *cdbg.Store
	Compactor *compactor.Compactor
	Filter    filter.Filter
}

// Build validates c and constructs every collaborator it names. It is the
// single entry point CLI front-ends use to turn a parsed configuration into
// a running compactor.
func Build(c Config) (*Built, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}

	window := c.MinimizerWindow
	if window == 0 {
		window = DefaultMinimizerWindow
	}

	store := newMembershipStore(c.StorageKind, c.StorageParams)

	log := c.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	alpha := alphabet.New(c.AlphabetKind)
	g := dbg.New(c.K, c.HasherKind, store, alpha)
	cs := cdbg.NewStore(c.K)
	comp := compactor.New(g, cs, alpha, window, compactor.WithLogger(log))

	f, err := newFilter(c, alpha, g)
	if err != nil {
		return nil, err
	}

	return &Built{Store: store, Graph: g, CDBG: cs, Compactor: comp, Filter: f}, nil
}

func (c Config) validate() error {
	switch {
	case c.K < 5 || c.K > 31:
		return cdbgerr.New(cdbgerr.KindInvalidConfig, "K must be in [5, 31], got %d", c.K)
	case c.MinimizerWindow < 0:
		return cdbgerr.New(cdbgerr.KindInvalidConfig, "minimizer_window must be >= 1 if set, got %d", c.MinimizerWindow)
	case c.AlphabetKind < alphabet.DNA || c.AlphabetKind > alphabet.IUPAC:
		return cdbgerr.New(cdbgerr.KindInvalidConfig, "unknown alphabet_kind %d", c.AlphabetKind)
	case c.HasherKind != hashing.Forward && c.HasherKind != hashing.CanonicalKind:
		return cdbgerr.New(cdbgerr.KindInvalidConfig, "unknown hasher_kind %d", c.HasherKind)
	}
	if err := c.validateStorage(); err != nil {
		return err
	}
	return c.validateFilter()
}

func (c Config) validateStorage() error {
	switch c.StorageKind {
	case storage.Bit, storage.Nibble, storage.Byte:
		if c.StorageParams.MaxTableBytes == 0 {
			return cdbgerr.New(cdbgerr.KindInvalidConfig, "%s storage requires MaxTableBytes > 0", c.StorageKind)
		}
		if c.StorageParams.NTables <= 0 {
			return cdbgerr.New(cdbgerr.KindInvalidConfig, "%s storage requires NTables > 0", c.StorageKind)
		}
	case storage.QF:
		if c.StorageParams.Log2Slots == 0 {
			return cdbgerr.New(cdbgerr.KindInvalidConfig, "QF storage requires Log2Slots > 0")
		}
	case storage.HashSet, storage.HashMap:
		// no required parameters
	default:
		return cdbgerr.New(cdbgerr.KindInvalidConfig, "unknown storage_kind %d", c.StorageKind)
	}
	return nil
}

func (c Config) validateFilter() error {
	switch c.FilterKind {
	case FilterNone:
	case FilterDiginorm:
		if c.FilterParams.Cutoff == 0 {
			return cdbgerr.New(cdbgerr.KindInvalidConfig, "Diginorm filter requires a non-zero cutoff")
		}
	case FilterSolid:
		if c.FilterParams.SolidThreshold == 0 {
			return cdbgerr.New(cdbgerr.KindInvalidConfig, "Solid filter requires a non-zero solid_threshold")
		}
		if c.FilterParams.MinPropSolid <= 0 || c.FilterParams.MinPropSolid > 1 {
			return cdbgerr.New(cdbgerr.KindInvalidConfig, "Solid filter requires 0 < min_prop_solid <= 1, got %v", c.FilterParams.MinPropSolid)
		}
	default:
		return cdbgerr.New(cdbgerr.KindInvalidConfig, "unknown filter_kind %d", c.FilterKind)
	}
	return nil
}

// newMembershipStore defers to storage.New; c.validateStorage has already
// rejected an unknown Kind by the time this is called.
func newMembershipStore(kind storage.Kind, p StorageParams) storage.MembershipStore {
	return storage.New(kind, storage.Params{
		MaxTableBytes: p.MaxTableBytes,
		NTables:       p.NTables,
		Log2Slots:     p.Log2Slots,
	})
}

// newFilter builds the configured pre-compactor filter. Diginorm keeps its
// own auxiliary counting dBG (spec §4.7: "holds an auxiliary counting dBG"),
// but Solid wraps the same main dBG g the compactor inserts accepted reads
// into (spec §4.7: "wraps the main dBG... accepted reads are counted into
// the main dBG") rather than a second, disconnected graph.
func newFilter(c Config, alpha *alphabet.Alphabet, g *dbg.DBG) (filter.Filter, error) {
	switch c.FilterKind {
	case FilterNone:
		return filter.None{}, nil
	case FilterDiginorm:
		counts := dbg.New(c.K, c.HasherKind, storage.NewHashMapStore(), alpha)
		return filter.NewDiginorm(counts, c.FilterParams.Cutoff), nil
	case FilterSolid:
		return filter.NewSolid(g, c.FilterParams.SolidThreshold, c.FilterParams.MinPropSolid), nil
	default:
		return nil, cdbgerr.New(cdbgerr.KindInvalidConfig, "unknown filter_kind %d", c.FilterKind)
	}
}
