package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/streamdbg/cdbg/cdbgerr"
	"github.com/streamdbg/cdbg/compactor"
	"github.com/streamdbg/cdbg/config"
	"github.com/streamdbg/cdbg/metrics"
	"github.com/streamdbg/cdbg/serialize"
)

func compactCommand(log *zap.SugaredLogger) *cli.Command {
	flags := append(sharedFlags(),
		&cli.IntFlag{Name: "minimizer-window", Value: config.DefaultMinimizerWindow, Usage: "tag minimizer window"},
		&cli.StringFlag{Name: "output-prefix", Aliases: []string{"o"}, Required: true, Usage: "output file prefix"},
		&cli.StringFlag{Name: "format", Value: "fasta", Usage: "fasta|gfa1|graphml"},
		&cli.BoolFlag{Name: "reverse-complement-pass", Usage: "re-insert every unitig's reverse complement after streaming (no-op under a canonical hasher)"},
		&cli.StringFlag{Name: "filter-kind", Value: "none", Usage: "none|diginorm|solid"},
		&cli.Uint64Flag{Name: "cutoff", Usage: "Diginorm median-count cutoff"},
		&cli.Uint64Flag{Name: "solid-threshold", Usage: "Solid per-kmer count threshold"},
		&cli.Float64Flag{Name: "min-prop-solid", Usage: "Solid minimum proportion of solid k-mers"},
	)
	return &cli.Command{
		Name:  "compact",
		Usage: "stream FASTA reads through the compactor and write the resulting cDBG",
		Flags: flags,
		Action: func(c *cli.Context) error {
			return runCompact(c, log)
		},
	}
}

func runCompact(c *cli.Context, log *zap.SugaredLogger) error {
	cfg, err := baseConfig(c)
	if err != nil {
		return err
	}
	cfg.MinimizerWindow = c.Int("minimizer-window")
	cfg.Logger = log
	if cfg.FilterKind, err = filterKindFlag(c); err != nil {
		return err
	}
	cfg.FilterParams = config.FilterParams{
		Cutoff:         c.Uint64("cutoff"),
		SolidThreshold: c.Uint64("solid-threshold"),
		MinPropSolid:   c.Float64("min-prop-solid"),
	}

	built, err := config.Build(cfg)
	if err != nil {
		return err
	}

	// When a filter is configured, gate every InsertSequence call behind its
	// Admit decision (spec §4.7's saturating/solid compactor variants)
	// instead of running the filter and the compactor as two disconnected
	// passes.
	nSkipped, nRejected := 0, 0
	insert := built.Compactor.InsertSequence
	if cfg.FilterKind != config.FilterNone {
		fc := compactor.NewFiltered(built.Compactor, built.Filter)
		insert = func(seq string) error {
			accepted, err := fc.InsertSequence(seq)
			if err != nil {
				return err
			}
			if !accepted {
				nRejected++
			}
			return nil
		}
	}

	for _, path := range c.StringSlice("input") {
		records, err := readFASTA(path)
		if err != nil {
			return err
		}
		for _, rec := range records {
			if err := insert(rec.Sequence); err != nil {
				if cdbgerr.IsKind(err, cdbgerr.KindInvalidSymbol) || cdbgerr.IsKind(err, cdbgerr.KindSequenceTooShort) {
					nSkipped++
					if cfg.Strict {
						return err
					}
					continue
				}
				return err
			}
		}
	}

	if c.Bool("reverse-complement-pass") {
		if err := built.Compactor.ReverseComplementPass(); err != nil {
			return err
		}
	}

	if err := writeOutput(c, built); err != nil {
		return err
	}

	report := metrics.FromStoreStats(built.CDBG.Stats(), built.Store.NUniqueKmers())
	fmt.Fprintln(os.Stdout, report.String())
	fmt.Fprintln(os.Stdout, "unitig lengths:", metrics.UnitigLengthHistogram(built.CDBG).String())
	log.Infow("compact finished", "skipped", nSkipped, "filteredOut", nRejected)
	return nil
}

func writeOutput(c *cli.Context, built *config.Built) error {
	prefix := c.String("output-prefix")
	var (
		path string
		f    *os.File
		err  error
	)
	switch c.String("format") {
	case "fasta":
		path = prefix + ".fasta"
	case "gfa1":
		path = prefix + ".gfa"
	case "graphml":
		path = prefix + ".graphml"
	default:
		return cdbgerr.New(cdbgerr.KindInvalidConfig, "unknown --format %q", c.String("format"))
	}

	f, err = os.Create(path)
	if err != nil {
		return cdbgerr.Wrap(err, cdbgerr.KindIO, "create %s", path)
	}
	defer f.Close()

	switch c.String("format") {
	case "fasta":
		err = serialize.WriteFASTA(f, built.CDBG)
	case "gfa1":
		err = serialize.WriteGFA1(f, built.CDBG)
	case "graphml":
		err = serialize.WriteGraphML(f, built.CDBG)
	}
	if err != nil {
		return cdbgerr.Wrap(err, cdbgerr.KindIO, "write %s", path)
	}
	return nil
}
