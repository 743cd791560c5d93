package serialize

import (
	"bufio"
	"fmt"
	"io"

	"github.com/streamdbg/cdbg/cdbg"
	"github.com/streamdbg/cdbg/dbg"
)

// WriteGFA1 writes a GFA1 graph with a header line and one S record per
// live UnitigNode (sequence, length, and meta carried as an XM tag). No L
// (link) records are emitted; see WriteLinks.
func WriteGFA1(w io.Writer, store *cdbg.Store) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, "H\tVN:Z:1.0"); err != nil {
		return err
	}
	var writeErr error
	store.EachUnitig(func(n cdbg.UnitigNode) {
		if writeErr != nil {
			return
		}
		if _, err := fmt.Fprintf(bw, "S\t%d\t%s\tLN:i:%d\tXM:Z:%s\n", n.ID, n.Sequence, len(n.Sequence), n.Meta); err != nil {
			writeErr = err
		}
	})
	if writeErr != nil {
		return writeErr
	}
	return bw.Flush()
}

// WriteLinks writes one L record from a DecisionNode to each UnitigNode that
// has an end at one of the decision k-mer's right neighbors, found via g's
// neighbor expansion; left neighbors are not linked. This is the
// off-by-default edge emission spec §9 leaves out of the default writers;
// callers opt in explicitly by calling it alongside WriteGFA1.
func WriteLinks(w io.Writer, store *cdbg.Store, g *dbg.DBG) error {
	bw := bufio.NewWriter(w)
	var writeErr error
	store.EachDnode(func(d cdbg.DecisionNode) {
		if writeErr != nil {
			return
		}
		right, err := g.RightNeighbors(d.Kmer)
		if err != nil {
			writeErr = err
			return
		}
		for _, shift := range right {
			n, ok := store.UnitigByEnd(shift.Hash)
			if !ok {
				continue
			}
			if _, err := fmt.Fprintf(bw, "L\tdnode_%d\t+\tunitig_%d\t+\t0M\n", d.ID, n.ID); err != nil {
				writeErr = err
				return
			}
		}
	})
	if writeErr != nil {
		return writeErr
	}
	return bw.Flush()
}
