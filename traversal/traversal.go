// Package traversal implements directional walks over a dbg.DBG, respecting
// stop conditions: a decision k-mer reached, a seen-set hit, or a masked
// node (spec §4.4).
package traversal

import (
	"github.com/streamdbg/cdbg/dbg"
	"github.com/streamdbg/cdbg/hashing"
)

// EndState classifies why a Walk stopped.
type EndState int

const (
	Step EndState = iota
	StopSeen
	StopMasked
	DecisionFwd
	DecisionBwd
	DeadEnd
)

func (e EndState) String() string {
	switch e {
	case StopSeen:
		return "stop-seen"
	case StopMasked:
		return "stop-masked"
	case DecisionFwd:
		return "decision-fwd"
	case DecisionBwd:
		return "decision-bwd"
	case DeadEnd:
		return "dead-end"
	default:
		return "step"
	}
}

// StopPredicate is evaluated against each candidate neighbor hash; if it
// returns true the walk stops with StopMasked before stepping onto that
// node.
type StopPredicate func(h hashing.Hash) bool

// Result is the outcome of a single Walk call.
type Result struct {
	Path     []byte
	EndState EndState
	TailHash hashing.Hash
}

// defaultMaxSteps bounds a walk so a bug in seen-set bookkeeping cannot spin
// forever; the expectation is that StopSeen fires first on any real cycle.
const defaultMaxSteps = 1 << 20

// Walk steps from start in direction dir until a terminal condition is
// reached: DeadEnd (no neighbors), DecisionFwd (the current node has >1
// neighbor ahead), DecisionBwd (the single neighbor ahead has >1 neighbor
// behind it, i.e. is itself an in-decision node), StopSeen (the candidate
// hash is already in this walk's seen-set), or StopMasked (stop accepts the
// candidate).
func Walk(g *dbg.DBG, start string, dir hashing.Direction, stop StopPredicate) (Result, error) {
	startHash, err := g.HashKmer(start)
	if err != nil {
		return Result{}, err
	}
	seen := map[hashing.Hash]bool{startHash: true}
	cursor := start
	tailHash := startHash
	var path []byte

	for step := 0; step < defaultMaxSteps; step++ {
		var neighbors []hashing.Shift
		if dir == hashing.Right {
			neighbors, err = g.RightNeighbors(cursor)
		} else {
			neighbors, err = g.LeftNeighbors(cursor)
		}
		if err != nil {
			return Result{}, err
		}

		if len(neighbors) == 0 {
			return Result{Path: path, EndState: DeadEnd, TailHash: tailHash}, nil
		}
		if len(neighbors) > 1 {
			return Result{Path: path, EndState: DecisionFwd, TailHash: tailHash}, nil
		}

		next := neighbors[0]
		nextKmer := extend(cursor, next.Symbol, dir)

		oppDegree, err := oppositeDegree(g, nextKmer, dir)
		if err != nil {
			return Result{}, err
		}
		if oppDegree > 1 {
			return Result{Path: path, EndState: DecisionBwd, TailHash: tailHash}, nil
		}
		if seen[next.Hash] {
			return Result{Path: path, EndState: StopSeen, TailHash: tailHash}, nil
		}
		if stop != nil && stop(next.Hash) {
			return Result{Path: path, EndState: StopMasked, TailHash: tailHash}, nil
		}

		path = append(path, next.Symbol)
		cursor = nextKmer
		tailHash = next.Hash
		seen[next.Hash] = true
	}
	return Result{Path: path, EndState: Step, TailHash: tailHash}, nil
}

func extend(kmer string, c byte, dir hashing.Direction) string {
	if dir == hashing.Right {
		return kmer[1:] + string(c)
	}
	return string(c) + kmer[:len(kmer)-1]
}

// oppositeDegree is the degree of kmer in the direction opposite to dir:
// used to detect that the node the walk is about to step onto is itself a
// decision k-mer from behind.
func oppositeDegree(g *dbg.DBG, kmer string, dir hashing.Direction) (int, error) {
	if dir == hashing.Right {
		return g.DegreeLeft(kmer)
	}
	return g.DegreeRight(kmer)
}
