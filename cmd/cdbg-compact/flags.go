package main

import (
	"github.com/urfave/cli/v2"

	"github.com/streamdbg/cdbg/alphabet"
	"github.com/streamdbg/cdbg/cdbgerr"
	"github.com/streamdbg/cdbg/config"
	"github.com/streamdbg/cdbg/hashing"
	"github.com/streamdbg/cdbg/storage"
)

// sharedFlags are the parameters common to both the compact and filter
// front-ends: K, storage kind/params, hasher kind, alphabet kind, and
// strictness (spec §6's configuration table).
func sharedFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{Name: "input", Aliases: []string{"i"}, Required: true, Usage: "FASTA input file (repeatable)"},
		&cli.UintFlag{Name: "k", Value: 21, Usage: "k-mer size, 5-31"},
		&cli.StringFlag{Name: "storage-kind", Value: "hashset", Usage: "bit|nibble|byte|qf|hashset|hashmap"},
		&cli.Uint64Flag{Name: "max-table-bytes", Value: 1 << 20, Usage: "Bit/Nibble/Byte table size"},
		&cli.IntFlag{Name: "n-tables", Value: 4, Usage: "Bit/Nibble/Byte table count"},
		&cli.UintFlag{Name: "log2-slots", Value: 20, Usage: "QF log2 slot count"},
		&cli.StringFlag{Name: "hasher-kind", Value: "canonical", Usage: "forward|canonical"},
		&cli.StringFlag{Name: "alphabet-kind", Value: "dna", Usage: "dna|dnan|iupac"},
		&cli.BoolFlag{Name: "strict", Usage: "abort a read on any invalid symbol instead of skipping it"},
	}
}

func storageKindFlag(c *cli.Context) (storage.Kind, error) {
	switch c.String("storage-kind") {
	case "bit":
		return storage.Bit, nil
	case "nibble":
		return storage.Nibble, nil
	case "byte":
		return storage.Byte, nil
	case "qf":
		return storage.QF, nil
	case "hashset":
		return storage.HashSet, nil
	case "hashmap":
		return storage.HashMap, nil
	default:
		return 0, cdbgerr.New(cdbgerr.KindInvalidConfig, "unknown --storage-kind %q", c.String("storage-kind"))
	}
}

func hasherKindFlag(c *cli.Context) (hashing.Kind, error) {
	switch c.String("hasher-kind") {
	case "forward":
		return hashing.Forward, nil
	case "canonical":
		return hashing.CanonicalKind, nil
	default:
		return 0, cdbgerr.New(cdbgerr.KindInvalidConfig, "unknown --hasher-kind %q", c.String("hasher-kind"))
	}
}

func alphabetKindFlag(c *cli.Context) (alphabet.Kind, error) {
	switch c.String("alphabet-kind") {
	case "dna":
		return alphabet.DNA, nil
	case "dnan":
		return alphabet.DNAN, nil
	case "iupac":
		return alphabet.IUPAC, nil
	default:
		return 0, cdbgerr.New(cdbgerr.KindInvalidConfig, "unknown --alphabet-kind %q", c.String("alphabet-kind"))
	}
}

// baseConfig builds a config.Config from the shared flags, leaving
// FilterKind/FilterParams for the caller to fill in.
func baseConfig(c *cli.Context) (config.Config, error) {
	storageKind, err := storageKindFlag(c)
	if err != nil {
		return config.Config{}, err
	}
	hasherKind, err := hasherKindFlag(c)
	if err != nil {
		return config.Config{}, err
	}
	alphaKind, err := alphabetKindFlag(c)
	if err != nil {
		return config.Config{}, err
	}
	return config.Config{
		K:            c.Uint("k"),
		AlphabetKind: alphaKind,
		StorageKind:  storageKind,
		StorageParams: config.StorageParams{
			MaxTableBytes: c.Uint64("max-table-bytes"),
			NTables:       c.Int("n-tables"),
			Log2Slots:     c.Uint("log2-slots"),
		},
		HasherKind: hasherKind,
		Strict:     c.Bool("strict"),
	}, nil
}
