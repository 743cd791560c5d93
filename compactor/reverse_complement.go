package compactor

import "github.com/streamdbg/cdbg/cdbg"

// ReverseComplementPass implements spec.md §4.6's optional reverse-complement
// pass: snapshot every live unitig under the store's lock, then re-insert
// each one's reverse complement through the normal InsertSequence path with
// the lock released (the §9 redesign's two-phase walk, grounded on the same
// snapshot-then-mutate split Step 4/5 already use via the offset index).
//
// Under a canonical hasher every k-mer already hashes identically to its
// reverse complement, so the re-insertion observes nothing new and the pass
// is a no-op; under a forward-only hasher it doubles the graph by adding the
// opposite strand. Ids are captured before any insertion runs, so unitigs
// created by the pass itself are never fed back into it.
func (c *Compactor) ReverseComplementPass() error {
	var sequences []string
	c.store.EachUnitig(func(n cdbg.UnitigNode) {
		sequences = append(sequences, n.Sequence)
	})

	for _, seq := range sequences {
		rc, err := c.alpha.ReverseComplement(seq)
		if err != nil {
			return err
		}
		if err := c.InsertSequence(rc); err != nil {
			return err
		}
	}
	return nil
}
