// Command cdbg-compact is the CLI front-end for the streaming compactor and
// its pre-compactor filters (spec §6): "compact" builds a cDBG from FASTA
// input and writes it back out, "filter" runs just the admission filter and
// reports accept/reject counts without ever touching a cDBG.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/streamdbg/cdbg/cdbgerr"
)

// Exit codes per spec §6.
const (
	exitOK = iota
	exitIOError
	exitInvalidConfig
	exitInvariantViolation
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync() //nolint:errcheck

	app := &cli.App{
		Name:  "cdbg-compact",
		Usage: "streaming compact de Bruijn graph compactor",
		Commands: []*cli.Command{
			compactCommand(log.Sugar()),
			filterCommand(log.Sugar()),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}

// exitCodeFor maps an error to spec §6's CLI exit codes: 1 I/O, 2 invalid
// configuration, 3 internal invariant violation; anything else (a bad flag,
// a missing file checked before any collaborator is built) is also an I/O
// or configuration problem depending on its cdbgerr.Kind, defaulting to 1.
func exitCodeFor(err error) int {
	switch {
	case cdbgerr.IsKind(err, cdbgerr.KindInvalidConfig):
		return exitInvalidConfig
	case cdbgerr.IsKind(err, cdbgerr.KindInvariantViolation), cdbgerr.IsKind(err, cdbgerr.KindStoreFull):
		return exitInvariantViolation
	default:
		return exitIOError
	}
}
