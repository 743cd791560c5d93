// Package compactor implements the streaming compactor: per inserted
// sequence, it computes segments of novel k-mers, induces new decision
// k-mers, and applies unitig-level edits to a cdbg.Store (spec §4.6).
package compactor

import (
	"go.uber.org/zap"

	"github.com/streamdbg/cdbg/alphabet"
	"github.com/streamdbg/cdbg/cdbg"
	"github.com/streamdbg/cdbg/cdbgerr"
	"github.com/streamdbg/cdbg/dbg"
	"github.com/streamdbg/cdbg/hashing"
)

// DefaultMinimizerWindow mirrors hashing.DefaultMinimizerWindow for callers
// that build a Compactor directly rather than through config.
const DefaultMinimizerWindow = hashing.DefaultMinimizerWindow

// Compactor holds everything Steps 1-6 need: the dBG to query, the cDBG
// store to mutate, and the alphabet used for neighbor expansion.
type Compactor struct {
	g               *dbg.DBG
	store           *cdbg.Store
	alpha           *alphabet.Alphabet
	minimizerWindow int
	log             *zap.SugaredLogger
}

// Option configures optional Compactor behavior.
type Option func(*Compactor)

// WithLogger attaches a logger for invariant-violation and split-retry
// diagnostics. Unset, a Compactor logs nothing (zap.NewNop()).
func WithLogger(log *zap.SugaredLogger) Option {
	return func(c *Compactor) { c.log = log }
}

// New builds a Compactor over an existing dBG and cDBG store. Both must
// already agree on K and hasher kind.
func New(g *dbg.DBG, store *cdbg.Store, alpha *alphabet.Alphabet, minimizerWindow int, opts ...Option) *Compactor {
	if minimizerWindow < 1 {
		minimizerWindow = DefaultMinimizerWindow
	}
	c := &Compactor{g: g, store: store, alpha: alpha, minimizerWindow: minimizerWindow, log: zap.NewNop().Sugar()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Compactor) k() int { return int(c.g.K()) }

// InsertSequence runs the full six-step algorithm for one read. Steps 1-5
// observe the pre-insertion state of the dBG; Step 6 inserts every k-mer
// only after every cDBG mutation has succeeded (spec §4.6).
func (c *Compactor) InsertSequence(s string) error {
	err := c.insertSequence(s)
	if err != nil && cdbgerr.IsKind(err, cdbgerr.KindInvariantViolation) {
		c.log.Errorw("invariant violation inserting sequence", "length", len(s), "error", err)
	}
	return err
}

func (c *Compactor) insertSequence(s string) error {
	canon, err := c.alpha.ValidateSequence(s)
	if err != nil {
		return err
	}
	hashes, counts, err := c.g.QuerySequence(canon)
	if err != nil {
		return err
	}
	if len(hashes) == 0 {
		return nil
	}

	allHashes := make(map[hashing.Hash]bool, len(hashes))
	for _, h := range hashes {
		allHashes[h] = true
	}

	// Step 1: segment identification.
	segs, err := c.findSegments(canon, hashes, counts)
	if err != nil {
		return err
	}

	// Step 2: decision-kmer scan, cutting segments around newly-decision
	// positions.
	segs, newDecisions, err := c.scanDecisionKmers(canon, hashes, segs, allHashes)
	if err != nil {
		return err
	}

	// Step 3: induction of pre-existing decision k-mers at segment
	// boundaries.
	decisionSet := make(map[hashing.Hash]bool, len(newDecisions))
	for _, d := range newDecisions {
		decisionSet[d.hash] = true
	}
	induced, err := c.induceDecisions(segs, allHashes, decisionSet)
	if err != nil {
		return err
	}

	// Step 4: build decision nodes and split the unitigs that contained
	// any induced (pre-existing) decision k-mer.
	all := append(append([]decisionKmer(nil), newDecisions...), induced...)
	if err := c.createAndSplit(all, allHashes); err != nil {
		return err
	}

	// Step 5: install/extend/merge unitigs for every remaining non-null,
	// non-decision segment.
	if err := c.installSegments(canon, segs); err != nil {
		return err
	}

	// Step 6: insert every hash into the membership store.
	for _, h := range hashes {
		c.g.Insert(h)
	}
	return nil
}

// decisionKmer is a k-mer discovered (new or induced) to have left-degree or
// right-degree > 1 once this sequence's new k-mers are accounted for.
type decisionKmer struct {
	hash hashing.Hash
	kmer string
}

// tagsFor computes the interior window-minimizer tags of hashes[start:end+1]
// (absolute, inclusive indices), excluding the two boundary positions.
func (c *Compactor) tagsFor(hashes []hashing.Hash, start, end int) []hashing.Hash {
	sub := hashes[start : end+1]
	idxs := hashing.WindowMinimizers(sub, c.minimizerWindow)
	var tags []hashing.Hash
	for _, idx := range idxs {
		if idx == 0 || idx == len(sub)-1 {
			continue
		}
		tags = append(tags, sub[idx])
	}
	return tags
}

// findSegments implements Step 1: maximal runs of NEW (count == 0)
// positions become segments, separated by (implicit) null segments.
func (c *Compactor) findSegments(canon string, hashes []hashing.Hash, counts []uint64) ([]segment, error) {
	k := c.k()
	n := len(hashes)
	var segs []segment

	i := 0
	for i < n {
		if counts[i] > 0 {
			i++
			continue
		}
		start := i
		for i < n && counts[i] == 0 {
			i++
		}
		end := i - 1

		seg := segment{
			leftAnchor: hashes[start],
			rightAnchor: hashes[end],
			startPos:   start,
			length:     (end - start) + k,
			tags:       c.tagsFor(hashes, start, end),
		}

		if start > 0 {
			seg.leftFlank = hashes[start-1]
			seg.leftFlankKmer = canon[start-1 : start-1+k]
			seg.hasLeftFlank = true
		} else {
			h, kmer, ok, err := virtualNeighbor(c.g, c.alpha, canon[0:k], hashing.Left, nil)
			if err != nil {
				return nil, err
			}
			if ok {
				seg.leftFlank, seg.leftFlankKmer, seg.hasLeftFlank = h, kmer, true
			}
		}

		if end < n-1 {
			seg.rightFlank = hashes[end+1]
			seg.rightFlankKmer = canon[end+1 : end+1+k]
			seg.hasRightFlank = true
		} else {
			h, kmer, ok, err := virtualNeighbor(c.g, c.alpha, canon[end:end+k], hashing.Right, nil)
			if err != nil {
				return nil, err
			}
			if ok {
				seg.rightFlank, seg.rightFlankKmer, seg.hasRightFlank = h, kmer, true
			}
		}

		segs = append(segs, seg)
	}
	return segs, nil
}

// scanDecisionKmers implements Step 2: re-walk every non-null segment and
// carve out a 1-kmer decision segment at every position whose degree
// (evaluated against the dBG extended with this sequence's own new k-mers)
// exceeds 1 in either direction.
func (c *Compactor) scanDecisionKmers(canon string, hashes []hashing.Hash, segs []segment, extra map[hashing.Hash]bool) ([]segment, []decisionKmer, error) {
	k := c.k()
	var out []segment
	var found []decisionKmer

	for _, seg := range segs {
		numKmers := seg.length - k + 1
		var decisionPositions []int
		for j := 0; j < numKmers; j++ {
			p := seg.startPos + j
			kmer := canon[p : p+k]
			ld, err := virtualDegree(c.g, c.alpha, kmer, hashing.Left, extra)
			if err != nil {
				return nil, nil, err
			}
			rd, err := virtualDegree(c.g, c.alpha, kmer, hashing.Right, extra)
			if err != nil {
				return nil, nil, err
			}
			if ld > 1 || rd > 1 {
				decisionPositions = append(decisionPositions, p)
			}
		}

		if len(decisionPositions) == 0 {
			out = append(out, seg)
			continue
		}

		cur := seg.startPos
		segEnd := seg.startPos + numKmers - 1
		for _, p := range decisionPositions {
			if p > cur {
				piece := c.buildPiece(canon, hashes, cur, p-1, seg, cur == seg.startPos, false)
				out = append(out, piece)
			}
			dseg := segment{
				isDecisionKmer: true,
				startPos:       p,
				length:         k,
				leftAnchor:     hashes[p],
				rightAnchor:    hashes[p],
			}
			out = append(out, dseg)
			found = append(found, decisionKmer{hash: hashes[p], kmer: canon[p : p+k]})
			cur = p + 1
		}
		if cur <= segEnd {
			piece := c.buildPiece(canon, hashes, cur, segEnd, seg, false, segEnd == seg.startPos+numKmers-1)
			out = append(out, piece)
		}
	}
	return out, found, nil
}

// buildPiece reconstructs a non-decision segment fragment spanning absolute
// kmer indices [start, end], inheriting the original segment's flank at
// whichever side is still a true sequence boundary.
func (c *Compactor) buildPiece(canon string, hashes []hashing.Hash, start, end int, orig segment, keepLeftFlank, keepRightFlank bool) segment {
	k := c.k()
	piece := segment{
		leftAnchor:  hashes[start],
		rightAnchor: hashes[end],
		startPos:    start,
		length:      (end - start) + k,
		tags:        c.tagsFor(hashes, start, end),
	}
	if keepLeftFlank {
		piece.leftFlank, piece.leftFlankKmer, piece.hasLeftFlank = orig.leftFlank, orig.leftFlankKmer, orig.hasLeftFlank
	} else {
		piece.leftFlank = hashes[start-1]
		piece.leftFlankKmer = canon[start-1 : start-1+k]
		piece.hasLeftFlank = true
	}
	if keepRightFlank {
		piece.rightFlank, piece.rightFlankKmer, piece.hasRightFlank = orig.rightFlank, orig.rightFlankKmer, orig.hasRightFlank
	} else {
		piece.rightFlank = hashes[end+1]
		piece.rightFlankKmer = canon[end+1 : end+1+k]
		piece.hasRightFlank = true
	}
	return piece
}

// induceDecisions implements Step 3: for every non-null, non-decision
// segment, check whether its flank k-mers (already present in the dBG)
// have become decision k-mers now that this segment's k-mers exist.
func (c *Compactor) induceDecisions(segs []segment, extra map[hashing.Hash]bool, seen map[hashing.Hash]bool) ([]decisionKmer, error) {
	var out []decisionKmer
	check := func(hash hashing.Hash, kmer string) error {
		if seen[hash] {
			return nil
		}
		ld, err := virtualDegree(c.g, c.alpha, kmer, hashing.Left, extra)
		if err != nil {
			return err
		}
		rd, err := virtualDegree(c.g, c.alpha, kmer, hashing.Right, extra)
		if err != nil {
			return err
		}
		if ld > 1 || rd > 1 {
			seen[hash] = true
			out = append(out, decisionKmer{hash: hash, kmer: kmer})
		}
		return nil
	}

	for _, seg := range segs {
		if seg.isNull() || seg.isDecisionKmer {
			continue
		}
		if seg.hasLeftFlank {
			if err := check(seg.leftFlank, seg.leftFlankKmer); err != nil {
				return nil, err
			}
		}
		if seg.hasRightFlank {
			if err := check(seg.rightFlank, seg.rightFlankKmer); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// createAndSplit implements Step 4. For every discovered decision k-mer,
// build_dnode is called unconditionally; if the k-mer pre-existed in the
// dBG (i.e. it is not one of this sequence's own new k-mers), the unitig
// that currently contains it is located and split. The offset index is
// rebuilt before each attempt so that a split earlier in the loop is always
// visible to the next lookup, which is what resolves the dependency between
// decision k-mers that flank each other (spec's bounded-retry requirement).
func (c *Compactor) createAndSplit(all []decisionKmer, newHashes map[hashing.Hash]bool) error {
	maxAttempts := 4*len(all) + 1
	attempts := 0

	for _, d := range all {
		attempts++
		if attempts > maxAttempts {
			c.log.Warnw("split-retry loop exceeded bound", "maxAttempts", maxAttempts, "decisionKmers", len(all))
			return cdbgerr.New(cdbgerr.KindInvariantViolation, "split-retry loop exceeded bound of %d attempts", maxAttempts)
		}

		ld, err := virtualDegree(c.g, c.alpha, d.kmer, hashing.Left, newHashes)
		if err != nil {
			return err
		}
		rd, err := virtualDegree(c.g, c.alpha, d.kmer, hashing.Right, newHashes)
		if err != nil {
			return err
		}
		c.store.BuildDnode(d.hash, d.kmer, ld, rd, 1)

		if c.g.Query(d.hash) == 0 {
			// Brand new this sequence: no pre-existing unitig contains it.
			continue
		}

		idx, unitigHashes := buildOffsetIndex(c.store, c.g.HasherKind(), c.g.K())
		loc, ok := idx[d.hash]
		if !ok {
			// Already resolved by an earlier split in this same loop, or
			// was never part of any unitig (e.g. an isolated k-mer).
			continue
		}
		if err := c.splitAt(loc, unitigHashes); err != nil {
			return err
		}
	}
	return nil
}

// splitAt performs the clip/split that removes loc's k-mer from its
// containing unitig: a clip if the k-mer sits at either end, a full split
// otherwise.
func (c *Compactor) splitAt(loc kmerLocation, unitigHashes map[cdbg.UnitigID][]hashing.Hash) error {
	hashesForUnitig := unitigHashes[loc.unitigID]
	n := len(hashesForUnitig)

	unitig, ok := c.store.GetUnode(loc.unitigID)
	if !ok {
		return nil
	}

	if n == 1 {
		c.store.DeleteUnode(loc.unitigID)
		return nil
	}
	if loc.offset == 0 {
		_, _, ok := c.store.ClipUnode(hashing.Left, unitig.LeftEnd, hashesForUnitig[1])
		if !ok {
			return cdbgerr.New(cdbgerr.KindInvariantViolation, "clip_unode(left) failed for unitig %d", loc.unitigID)
		}
		return nil
	}
	if loc.offset == n-1 {
		_, _, ok := c.store.ClipUnode(hashing.Right, unitig.RightEnd, hashesForUnitig[n-2])
		if !ok {
			return cdbgerr.New(cdbgerr.KindInvariantViolation, "clip_unode(right) failed for unitig %d", loc.unitigID)
		}
		return nil
	}

	localPos := make(map[hashing.Hash]int, len(hashesForUnitig))
	for i, h := range hashesForUnitig {
		localPos[h] = i
	}
	var leftTags, rightTags []hashing.Hash
	for _, t := range unitig.Tags {
		if p, ok := localPos[t]; ok {
			if p < loc.offset {
				leftTags = append(leftTags, t)
			} else if p > loc.offset {
				rightTags = append(rightTags, t)
			}
		}
	}

	newLeftRightEnd := hashesForUnitig[loc.offset-1]
	newRightLeftEnd := hashesForUnitig[loc.offset+1]
	_, _, _, err := c.store.SplitUnode(loc.unitigID, loc.offset-1, newLeftRightEnd, newRightLeftEnd, leftTags, rightTags)
	return err
}

// installSegments implements Step 5: classify each remaining non-null,
// non-decision segment by whether its flanks correspond to existing unitig
// ends, and build/extend/merge accordingly (spec's table).
func (c *Compactor) installSegments(canon string, segs []segment) error {
	k := c.k()
	for _, seg := range segs {
		if seg.isNull() || seg.isDecisionKmer {
			continue
		}

		hasLeft, hasRight := false, false
		if seg.hasLeftFlank {
			_, hasLeft = c.store.UnitigByEnd(seg.leftFlank)
		}
		if seg.hasRightFlank {
			_, hasRight = c.store.UnitigByEnd(seg.rightFlank)
		}

		full := canon[seg.startPos : seg.startPos+seg.length]

		switch {
		case !hasLeft && !hasRight:
			c.store.BuildUnode(full, seg.tags, seg.leftAnchor, seg.rightAnchor)
		case hasLeft && !hasRight:
			start := seg.startPos + (k - 1)
			newSeq := safeSlice(canon, start, seg.startPos+seg.length)
			c.store.ExtendUnode(hashing.Right, newSeq, seg.leftFlank, seg.rightAnchor, seg.tags)
		case !hasLeft && hasRight:
			end := seg.startPos + seg.length - (k - 1)
			newSeq := safeSlice(canon, seg.startPos, end)
			c.store.ExtendUnode(hashing.Left, newSeq, seg.rightFlank, seg.leftAnchor, seg.tags)
		default:
			start := seg.startPos + (k - 1)
			end := seg.startPos + seg.length - (k - 1)
			bridge := safeSlice(canon, start, end)
			if _, err := c.store.MergeUnodes(bridge, seg.leftFlank, seg.rightFlank, seg.tags); err != nil {
				return err
			}
		}
	}
	return nil
}

func safeSlice(s string, start, end int) string {
	if end < start {
		end = start
	}
	if start < 0 {
		start = 0
	}
	if end > len(s) {
		end = len(s)
	}
	return s[start:end]
}
