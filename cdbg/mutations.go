package cdbg

import (
	"github.com/streamdbg/cdbg/cdbgerr"
	"github.com/streamdbg/cdbg/hashing"
)

// Tag re-partitioning (spec §4.5's "tags are re-partitioned by position")
// is done by the caller, which knows each tag's offset in the original
// sequence before it ever reaches the store; BuildUnode/SplitUnode/
// ExtendUnode/MergeUnodes each simply install whatever tag list they are
// given. This mirrors build_unode's own contract, which already takes a
// precomputed tag list rather than deriving one from the sequence.

// BuildUnode allocates a fresh UnitigNode, stamps its meta, and installs its
// end-map and tag-map entries (spec §4.5). Emits HistoryNew.
func (s *Store) BuildUnode(sequence string, tags []hashing.Hash, leftEnd, rightEnd hashing.Hash) UnitigNode {
	s.mu.Lock()
	defer s.mu.Unlock()

	meta := classifyMeta(len(sequence), s.k, leftEnd, rightEnd)
	n := UnitigNode{
		Sequence: sequence,
		LeftEnd:  leftEnd,
		RightEnd: rightEnd,
		Tags:     append([]hashing.Hash(nil), tags...),
		Meta:     meta,
	}
	id := s.unodes.alloc(n)
	s.installEnds(id, leftEnd, rightEnd, meta == Circular)
	s.installTags(id, tags)

	s.recordMeta(meta, meta, true)
	s.bumpUpdates(HistoryNew, id)
	return *s.unodes.get(id)
}

func (s *Store) installEnds(id UnitigID, leftEnd, rightEnd hashing.Hash, circular bool) {
	s.endMap[leftEnd] = id
	if !circular {
		s.endMap[rightEnd] = id
	}
}

func (s *Store) installTags(id UnitigID, tags []hashing.Hash) {
	for _, t := range tags {
		s.tagMap[t] = id
		s.nTags++
	}
}

func (s *Store) removeTags(tags []hashing.Hash) {
	for _, t := range tags {
		delete(s.tagMap, t)
		if s.nTags > 0 {
			s.nTags--
		}
	}
}

// BuildDnode inserts a DecisionNode if absent; idempotent (spec §4.5: "no-op
// if already present"). leftDegree/rightDegree/count are supplied by the
// caller, which has already evaluated the underlying dBG.
func (s *Store) BuildDnode(hash hashing.Hash, kmer string, leftDegree, rightDegree int, count uint64) (DecisionNode, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if d, ok := s.dnodes[hash]; ok {
		return *d, false
	}
	d := &DecisionNode{ID: hash, Kmer: kmer, LeftDegree: leftDegree, RightDegree: rightDegree, Count: count}
	s.dnodes[hash] = d
	s.bumpUpdates(HistoryNew, 0)
	return *d, true
}

// ExtendUnode appends (RIGHT) or prepends (LEFT) newSeq to the unitig whose
// end-map entry is oldEnd, moves that end entry to newEnd, and installs
// newTags. Fails silently (ok=false) if no such unitig exists, per spec.
func (s *Store) ExtendUnode(dir hashing.Direction, newSeq string, oldEnd, newEnd hashing.Hash, newTags []hashing.Hash) (UnitigNode, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.endMap[oldEnd]
	if !ok {
		return UnitigNode{}, false
	}
	n := s.unodes.get(id)
	if n == nil {
		return UnitigNode{}, false
	}

	oldMeta := n.Meta
	delete(s.endMap, oldEnd)
	if dir == hashing.Right {
		n.Sequence += newSeq
		n.RightEnd = newEnd
	} else {
		n.Sequence = newSeq + n.Sequence
		n.LeftEnd = newEnd
	}
	s.endMap[newEnd] = id
	n.Tags = append(n.Tags, newTags...)
	s.installTags(id, newTags)

	n.Meta = reclassifyAfterExtend(oldMeta, len(n.Sequence), s.k, n.LeftEnd, n.RightEnd)
	s.recordMeta(oldMeta, n.Meta, false)
	s.nExtends++
	s.bumpUpdates(HistoryExtend, id)
	return *n, true
}

// reclassifyAfterExtend re-derives meta after an extend: ISLAND -> TIP once
// one end now abuts a decision node (the caller only calls extend when that
// is the case, since a free end by definition has no decision neighbor to
// extend towards until this call), TIP -> FULL once both ends do, and
// CIRCULAR/TRIVIAL/LOOP are recomputed from scratch since an extend can
// only ever be called on a still-linear ISLAND or TIP.
func reclassifyAfterExtend(oldMeta Meta, seqLen int, k uint, left, right hashing.Hash) Meta {
	fresh := classifyMeta(seqLen, k, left, right)
	if fresh == Circular || fresh == Trivial {
		return fresh
	}
	switch oldMeta {
	case Island:
		return Tip
	case Tip:
		return Full
	default:
		return fresh
	}
}

// SplitUnode splits the unitig at id at splitPoint (the 0-based offset at
// which the left fragment's last k-mer begins), per spec §4.5. The k-mer at
// offset splitPoint+1 is the decision k-mer itself: it is excluded from both
// fragments entirely (the left fragment ends one k-mer before it, the right
// fragment starts one k-mer after it) and is expected to already exist as a
// DecisionNode, built separately by the caller before this call. Returns
// the left and right fragments; hasRight is false only for the CIRCULAR
// special case, which yields a single linearized fragment.
func (s *Store) SplitUnode(id UnitigID, splitPoint int, newLeftRightEnd, newRightLeftEnd hashing.Hash, leftTags, rightTags []hashing.Hash) (left, right UnitigNode, hasRight bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.unodes.get(id)
	if n == nil {
		return UnitigNode{}, UnitigNode{}, false, cdbgerr.New(cdbgerr.KindInvariantViolation, "split_unode: unitig %d not found", id)
	}
	seq := n.Sequence
	k := int(s.k)
	oldMeta := n.Meta
	if splitPoint < 0 || splitPoint+k > len(seq) {
		return UnitigNode{}, UnitigNode{}, false, cdbgerr.New(cdbgerr.KindInvariantViolation, "split_unode: split point %d out of range for unitig %d of length %d", splitPoint, id, len(seq))
	}
	if oldMeta != Circular && splitPoint+2+k > len(seq) {
		return UnitigNode{}, UnitigNode{}, false, cdbgerr.New(cdbgerr.KindInvariantViolation, "split_unode: split point %d leaves no room for a right fragment in unitig %d of length %d", splitPoint, id, len(seq))
	}
	oldLeftEnd, oldRightEnd := n.LeftEnd, n.RightEnd
	s.removeEnds(id, oldLeftEnd, oldRightEnd, oldMeta == Circular)
	s.removeTags(n.Tags)
	s.unodes.free(id)
	s.metaCounts[oldMeta]--

	if oldMeta == Circular {
		// split_point = 0 on a CIRCULAR unitig converts it to a single
		// linear fragment (spec §4.5 special case).
		fresh := UnitigNode{
			Sequence: seq,
			LeftEnd:  newRightLeftEnd,
			RightEnd: newLeftRightEnd,
			Tags:     append([]hashing.Hash(nil), leftTags...),
		}
		fresh.Meta = classifyMeta(len(fresh.Sequence), s.k, fresh.LeftEnd, fresh.RightEnd)
		newID := s.unodes.alloc(fresh)
		s.installEnds(newID, fresh.LeftEnd, fresh.RightEnd, fresh.Meta == Circular)
		s.installTags(newID, fresh.Tags)
		s.recordMeta(fresh.Meta, fresh.Meta, true)
		s.nSplits++
		s.bumpUpdates(HistorySplit, newID)
		return *s.unodes.get(newID), UnitigNode{}, false, nil
	}

	leftSeq := seq[:splitPoint+k]
	rightSeq := seq[splitPoint+2:]

	leftNode := UnitigNode{Sequence: leftSeq, LeftEnd: oldLeftEnd, RightEnd: newLeftRightEnd, Tags: append([]hashing.Hash(nil), leftTags...)}
	leftNode.Meta = classifyMeta(len(leftNode.Sequence), s.k, leftNode.LeftEnd, leftNode.RightEnd)
	leftID := s.unodes.alloc(leftNode)
	s.installEnds(leftID, leftNode.LeftEnd, leftNode.RightEnd, leftNode.Meta == Circular)
	s.installTags(leftID, leftNode.Tags)
	s.recordMeta(leftNode.Meta, leftNode.Meta, true)

	rightNode := UnitigNode{Sequence: rightSeq, LeftEnd: newRightLeftEnd, RightEnd: oldRightEnd, Tags: append([]hashing.Hash(nil), rightTags...)}
	rightNode.Meta = classifyMeta(len(rightNode.Sequence), s.k, rightNode.LeftEnd, rightNode.RightEnd)
	rightID := s.unodes.alloc(rightNode)
	s.installEnds(rightID, rightNode.LeftEnd, rightNode.RightEnd, rightNode.Meta == Circular)
	s.installTags(rightID, rightNode.Tags)
	s.recordMeta(rightNode.Meta, rightNode.Meta, true)

	s.nSplits++
	s.bumpUpdates(HistorySplit, leftID)
	s.bumpUpdates(HistorySplit, rightID)

	return *s.unodes.get(leftID), *s.unodes.get(rightID), true, nil
}

func (s *Store) removeEnds(id UnitigID, leftEnd, rightEnd hashing.Hash, circular bool) {
	if s.endMap[leftEnd] == id {
		delete(s.endMap, leftEnd)
	}
	if !circular && s.endMap[rightEnd] == id {
		delete(s.endMap, rightEnd)
	}
}

// MergeUnodes joins the unitig ending at leftFlank with the unitig starting
// at rightFlank via bridgeSeq (spec §4.5). Equal flanks collapse to a LOOP
// (self-loop through one shared end); equal unitig ids with distinct flanks
// collapse to CIRCULAR; otherwise the result is classified normally (FULL
// in the common case).
func (s *Store) MergeUnodes(bridgeSeq string, leftFlank, rightFlank hashing.Hash, tags []hashing.Hash) (UnitigNode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	leftID, ok := s.endMap[leftFlank]
	if !ok {
		return UnitigNode{}, cdbgerr.New(cdbgerr.KindInvariantViolation, "merge_unodes: no unitig ends at %x", leftFlank)
	}
	rightID, ok := s.endMap[rightFlank]
	if !ok {
		return UnitigNode{}, cdbgerr.New(cdbgerr.KindInvariantViolation, "merge_unodes: no unitig starts at %x", rightFlank)
	}
	left := s.unodes.get(leftID)
	right := s.unodes.get(rightID)
	if left == nil || right == nil {
		return UnitigNode{}, cdbgerr.New(cdbgerr.KindInvariantViolation, "merge_unodes: dangling end-map entry")
	}

	selfLoop := leftFlank == rightFlank
	sameUnitig := leftID == rightID

	oldLeftMeta := left.Meta
	var mergedSeq string
	var newLeft, newRight hashing.Hash

	if sameUnitig {
		mergedSeq = left.Sequence + bridgeSeq
		newLeft, newRight = left.LeftEnd, left.RightEnd
		s.removeEnds(leftID, left.LeftEnd, left.RightEnd, oldLeftMeta == Circular)
		s.removeTags(left.Tags)
		allTags := append(append([]hashing.Hash(nil), left.Tags...), tags...)
		s.unodes.free(leftID)
		s.metaCounts[oldLeftMeta]--

		merged := UnitigNode{Sequence: mergedSeq, LeftEnd: newLeft, RightEnd: newRight, Tags: allTags}
		if selfLoop {
			merged.Meta = Loop
		} else {
			merged.Meta = Circular
		}
		id := s.unodes.alloc(merged)
		s.installEnds(id, merged.LeftEnd, merged.RightEnd, true)
		s.installTags(id, merged.Tags)
		s.recordMeta(merged.Meta, merged.Meta, true)
		s.nMerges++
		historyKind := HistoryMerge
		if merged.Meta == Circular {
			s.nCircularMerges++
			historyKind = HistoryCircularMerge
		}
		s.bumpUpdates(historyKind, id)
		return *s.unodes.get(id), nil
	}

	oldRightMeta := right.Meta
	mergedSeq = left.Sequence + bridgeSeq + right.Sequence
	newLeft = left.LeftEnd
	newRight = right.RightEnd

	s.removeEnds(leftID, left.LeftEnd, left.RightEnd, oldLeftMeta == Circular)
	s.removeEnds(rightID, right.LeftEnd, right.RightEnd, oldRightMeta == Circular)
	s.removeTags(left.Tags)
	s.removeTags(right.Tags)
	allTags := append(append(append([]hashing.Hash(nil), left.Tags...), tags...), right.Tags...)
	s.unodes.free(leftID)
	s.unodes.free(rightID)
	s.metaCounts[oldLeftMeta]--
	s.metaCounts[oldRightMeta]--

	merged := UnitigNode{Sequence: mergedSeq, LeftEnd: newLeft, RightEnd: newRight, Tags: allTags}
	merged.Meta = classifyMeta(len(merged.Sequence), s.k, merged.LeftEnd, merged.RightEnd)
	if merged.Meta == Island {
		merged.Meta = Full
	}
	id := s.unodes.alloc(merged)
	s.installEnds(id, merged.LeftEnd, merged.RightEnd, merged.Meta == Circular)
	s.installTags(id, merged.Tags)
	s.recordMeta(merged.Meta, merged.Meta, true)
	s.nMerges++
	historyKind := HistoryMerge
	if merged.Meta == Circular {
		s.nCircularMerges++
		historyKind = HistoryCircularMerge
	}
	s.bumpUpdates(historyKind, id)
	return *s.unodes.get(id), nil
}

// ClipUnode trims one k-mer off the given end (moving oldEnd -> newEnd). A
// TRIVIAL unitig (length exactly K) has nothing left after clipping and is
// deleted instead (deleted=true).
func (s *Store) ClipUnode(dir hashing.Direction, oldEnd, newEnd hashing.Hash) (result UnitigNode, deleted bool, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, found := s.endMap[oldEnd]
	if !found {
		return UnitigNode{}, false, false
	}
	n := s.unodes.get(id)
	if n == nil {
		return UnitigNode{}, false, false
	}

	if n.Meta == Trivial {
		s.deleteUnodeLocked(id)
		s.nClips++
		return UnitigNode{}, true, true
	}

	oldMeta := n.Meta
	delete(s.endMap, oldEnd)
	if dir == hashing.Right {
		n.Sequence = n.Sequence[:len(n.Sequence)-1]
		n.RightEnd = newEnd
	} else {
		n.Sequence = n.Sequence[1:]
		n.LeftEnd = newEnd
	}
	s.endMap[newEnd] = id
	n.Meta = classifyMeta(len(n.Sequence), s.k, n.LeftEnd, n.RightEnd)
	s.recordMeta(oldMeta, n.Meta, false)
	s.nClips++
	s.bumpUpdates(HistoryClip, id)
	return *n, false, true
}

// DeleteUnode erases every index entry for id and frees its slot.
func (s *Store) DeleteUnode(id UnitigID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteUnodeLocked(id)
}

func (s *Store) deleteUnodeLocked(id UnitigID) bool {
	n := s.unodes.get(id)
	if n == nil {
		return false
	}
	s.removeEnds(id, n.LeftEnd, n.RightEnd, n.Meta == Circular)
	s.removeTags(n.Tags)
	meta := n.Meta
	s.unodes.free(id)
	s.metaCounts[meta]--
	s.nDeletes++
	s.bumpUpdates(HistoryDelete, id)
	return true
}

// DeleteDnode erases the DecisionNode at hash.
func (s *Store) DeleteDnode(hash hashing.Hash) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.dnodes[hash]; !ok {
		return false
	}
	delete(s.dnodes, hash)
	s.nDeletes++
	s.bumpUpdates(HistoryDelete, 0)
	return true
}
