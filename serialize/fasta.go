// Package serialize writes a cDBG's nodes out in the interchange formats
// spec §6 names: FASTA, GFA1, and GraphML. Per spec §9's Open Question
// resolution, every writer here emits nodes only — no decision-node edges —
// since the reference implementation's own edge-emission code paths were
// partial and ambiguous; edge emission is left a deliberately separate,
// off-by-default concern (see gfa.go's WriteLinks).
package serialize

import (
	"bufio"
	"fmt"
	"io"

	"github.com/streamdbg/cdbg/cdbg"
)

// WriteFASTA writes one record per live UnitigNode: a header carrying the
// node's id and meta classification, then its sequence on a single line.
func WriteFASTA(w io.Writer, store *cdbg.Store) error {
	bw := bufio.NewWriter(w)
	var writeErr error
	store.EachUnitig(func(n cdbg.UnitigNode) {
		if writeErr != nil {
			return
		}
		if _, err := fmt.Fprintf(bw, ">unitig_%d meta:%s length:%d\n%s\n", n.ID, n.Meta, len(n.Sequence), n.Sequence); err != nil {
			writeErr = err
		}
	})
	if writeErr != nil {
		return writeErr
	}
	return bw.Flush()
}
