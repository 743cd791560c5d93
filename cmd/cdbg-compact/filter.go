package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/streamdbg/cdbg/cdbgerr"
	"github.com/streamdbg/cdbg/config"
)

func filterCommand(log *zap.SugaredLogger) *cli.Command {
	flags := append(sharedFlags(),
		&cli.StringFlag{Name: "filter-kind", Value: "none", Usage: "none|diginorm|solid"},
		&cli.Uint64Flag{Name: "cutoff", Usage: "Diginorm median-count cutoff"},
		&cli.Uint64Flag{Name: "solid-threshold", Usage: "Solid per-kmer count threshold"},
		&cli.Float64Flag{Name: "min-prop-solid", Usage: "Solid minimum proportion of solid k-mers"},
	)
	return &cli.Command{
		Name:  "filter",
		Usage: "run the pre-compactor admission filter over reads and report accept/reject counts",
		Flags: flags,
		Action: func(c *cli.Context) error {
			return runFilter(c, log)
		},
	}
}

func runFilter(c *cli.Context, log *zap.SugaredLogger) error {
	cfg, err := baseConfig(c)
	if err != nil {
		return err
	}
	filterKind, err := filterKindFlag(c)
	if err != nil {
		return err
	}
	cfg.FilterKind = filterKind
	cfg.FilterParams = config.FilterParams{
		Cutoff:         c.Uint64("cutoff"),
		SolidThreshold: c.Uint64("solid-threshold"),
		MinPropSolid:   c.Float64("min-prop-solid"),
	}
	cfg.Logger = log

	built, err := config.Build(cfg)
	if err != nil {
		return err
	}

	var nAccepted, nRejected, nSkipped int
	for _, path := range c.StringSlice("input") {
		records, err := readFASTA(path)
		if err != nil {
			return err
		}
		for _, rec := range records {
			accepted, _, err := built.Filter.Admit(rec.Sequence)
			if err != nil {
				if cdbgerr.IsKind(err, cdbgerr.KindSequenceTooShort) {
					nSkipped++
					continue
				}
				return err
			}
			if accepted {
				nAccepted++
			} else {
				nRejected++
			}
		}
	}

	fmt.Fprintf(os.Stdout, "accepted: %d rejected: %d skipped: %d\n", nAccepted, nRejected, nSkipped)
	return nil
}

func filterKindFlag(c *cli.Context) (config.FilterKind, error) {
	switch c.String("filter-kind") {
	case "none":
		return config.FilterNone, nil
	case "diginorm":
		return config.FilterDiginorm, nil
	case "solid":
		return config.FilterSolid, nil
	default:
		return 0, cdbgerr.New(cdbgerr.KindInvalidConfig, "unknown --filter-kind %q", c.String("filter-kind"))
	}
}
