// Package metrics exposes the cDBG store's bookkeeping counters (spec.md
// §6's Report) as prometheus gauges, and drains its history ring into a
// bounded channel (HistoryReporter). Grounded on the teacher's metrics.go, translated
// from the teacher's sharded-atomic-counter design (hit/miss/keyAdd/...) to
// prometheus.GaugeVec/CounterVec, since this port is meant to be scraped
// externally rather than read in-process only.
package metrics

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/streamdbg/cdbg/cdbg"
)

// Report is a point-in-time snapshot of a cDBG store plus its membership
// store, matching spec.md §6's Report shape.
type Report struct {
	NFull, NTips, NIslands, NTrivial, NCircular, NLoops int
	NDnodes, NUnodes                                    int
	NUpdates, NSplits, NMerges, NExtends                uint64
	NClips, NDeletes, NCircularMerges, NTags             uint64
	NUnique                                              uint64
}

// FromStoreStats builds a Report from a cdbg.Stats snapshot plus the
// membership store's unique-kmer count (tracked separately, per spec.md
// §3's dBG/cDBG split).
func FromStoreStats(s cdbg.Stats, nUnique uint64) Report {
	return Report{
		NFull:           s.NFull,
		NTips:           s.NTips,
		NIslands:        s.NIslands,
		NTrivial:        s.NTrivial,
		NCircular:       s.NCircular,
		NLoops:          s.NLoops,
		NDnodes:         s.NDnodes,
		NUnodes:         s.NUnodes,
		NUpdates:        s.NUpdates,
		NSplits:         s.NSplits,
		NMerges:         s.NMerges,
		NExtends:        s.NExtends,
		NClips:          s.NClips,
		NDeletes:        s.NDeletes,
		NCircularMerges: s.NCircularMerges,
		NTags:           s.NTags,
		NUnique:         nUnique,
	}
}

// String renders the report the way the teacher's Metrics.String() does:
// one "label: value" pair per field on a single line, with the unique k-mer
// count comma-grouped by go-humanize.
func (r Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "full: %d ", r.NFull)
	fmt.Fprintf(&b, "tips: %d ", r.NTips)
	fmt.Fprintf(&b, "islands: %d ", r.NIslands)
	fmt.Fprintf(&b, "trivial: %d ", r.NTrivial)
	fmt.Fprintf(&b, "circular: %d ", r.NCircular)
	fmt.Fprintf(&b, "loops: %d ", r.NLoops)
	fmt.Fprintf(&b, "dnodes: %d ", r.NDnodes)
	fmt.Fprintf(&b, "unodes: %d ", r.NUnodes)
	fmt.Fprintf(&b, "updates: %d ", r.NUpdates)
	fmt.Fprintf(&b, "splits: %d merges: %d extends: %d clips: %d deletes: %d circular-merges: %d ",
		r.NSplits, r.NMerges, r.NExtends, r.NClips, r.NDeletes, r.NCircularMerges)
	fmt.Fprintf(&b, "tags: %d ", r.NTags)
	fmt.Fprintf(&b, "unique-kmers: %s", humanize.Comma(int64(r.NUnique)))
	return b.String()
}

// UnitigLengthHistogram snapshots every live unitig's sequence length into a
// fresh LengthHistogram. Spec.md §5's shared-resource policy requires
// background reporters see only snapshots, never live references; EachUnitig
// already copies each node under the store's lock, so the resulting
// histogram owns its own counts.
func UnitigLengthHistogram(store *cdbg.Store) *LengthHistogram {
	h := NewLengthHistogram(LengthBounds(4, 20))
	store.EachUnitig(func(n cdbg.UnitigNode) {
		h.Observe(int64(len(n.Sequence)))
	})
	return h
}

// metaLabel names match spec.md §3's per-node-type gauge set.
var metaLabels = []string{"full", "tip", "island", "trivial", "circular", "loop"}

// opLabels match spec.md §3's per-operation gauge set.
var opLabels = []string{"split", "merge", "extend", "clip", "delete", "circular_merge"}

// Collector registers and maintains the prometheus gauges/counters a
// running compactor reports through. One Collector is built per process;
// Observe should be called after every InsertSequence.
type Collector struct {
	nodeCount   *prometheus.GaugeVec
	opCount     *prometheus.CounterVec
	updates     prometheus.Counter
	uniqueKmers prometheus.Gauge
}

// NewCollector registers its metrics with reg (pass prometheus.NewRegistry()
// in tests to avoid colliding with the default registry).
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		nodeCount: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "cdbg",
			Name:      "nodes",
			Help:      "Current count of cDBG nodes by meta classification.",
		}, []string{"meta"}),
		opCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cdbg",
			Name:      "mutations_total",
			Help:      "Total cDBG store mutations by operation.",
		}, []string{"op"}),
		updates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cdbg",
			Name:      "updates_total",
			Help:      "Total successful cDBG store mutations of any kind.",
		}),
		uniqueKmers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "cdbg",
			Name:      "unique_kmers",
			Help:      "Distinct k-mers observed by the membership store.",
		}),
	}
	reg.MustRegister(c.nodeCount, c.opCount, c.updates, c.uniqueKmers)
	return c
}

// Observe pushes a fresh Report's values into the registered gauges/counters.
// Counters (opCount, updates) are set via Add against the delta from the
// previous observation, since prometheus counters must be monotonic and the
// Report carries cumulative totals.
func (c *Collector) Observe(prev, cur Report) {
	c.nodeCount.WithLabelValues("full").Set(float64(cur.NFull))
	c.nodeCount.WithLabelValues("tip").Set(float64(cur.NTips))
	c.nodeCount.WithLabelValues("island").Set(float64(cur.NIslands))
	c.nodeCount.WithLabelValues("trivial").Set(float64(cur.NTrivial))
	c.nodeCount.WithLabelValues("circular").Set(float64(cur.NCircular))
	c.nodeCount.WithLabelValues("loop").Set(float64(cur.NLoops))
	c.nodeCount.WithLabelValues("decision").Set(float64(cur.NDnodes))

	addDelta(c.opCount.WithLabelValues("split"), prev.NSplits, cur.NSplits)
	addDelta(c.opCount.WithLabelValues("merge"), prev.NMerges, cur.NMerges)
	addDelta(c.opCount.WithLabelValues("extend"), prev.NExtends, cur.NExtends)
	addDelta(c.opCount.WithLabelValues("clip"), prev.NClips, cur.NClips)
	addDelta(c.opCount.WithLabelValues("delete"), prev.NDeletes, cur.NDeletes)
	addDelta(c.opCount.WithLabelValues("circular_merge"), prev.NCircularMerges, cur.NCircularMerges)

	if cur.NUpdates > prev.NUpdates {
		c.updates.Add(float64(cur.NUpdates - prev.NUpdates))
	}
	c.uniqueKmers.Set(float64(cur.NUnique))
}

func addDelta(c prometheus.Counter, prev, cur uint64) {
	if cur > prev {
		c.Add(float64(cur - prev))
	}
}
