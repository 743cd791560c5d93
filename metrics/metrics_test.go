package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/streamdbg/cdbg/cdbg"
)

func TestReportStringIncludesAllFields(t *testing.T) {
	r := Report{NFull: 1, NTips: 2, NUnique: 1234567}
	s := r.String()
	require.Contains(t, s, "full: 1")
	require.Contains(t, s, "tips: 2")
	require.Contains(t, s, "unique-kmers: 1,234,567")
}

func TestFromStoreStatsRoundTrips(t *testing.T) {
	store := cdbg.NewStore(5)
	store.BuildUnode("ACGTACGTAC", nil, 10, 20)

	r := FromStoreStats(store.Stats(), 42)
	require.Equal(t, 1, r.NUnodes)
	require.Equal(t, uint64(42), r.NUnique)
}

func TestCollectorObserveRegistersMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	prev := Report{}
	cur := Report{NFull: 3, NSplits: 2, NUpdates: 5}
	c.Observe(prev, cur)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, mfs)
}

func TestUnitigLengthHistogramObservesLiveUnitigs(t *testing.T) {
	store := cdbg.NewStore(5)
	store.BuildUnode("ACGTACGTAC", nil, 10, 20)
	store.BuildUnode("ACGTACGTACGTACGTACGT", nil, 30, 40)

	h := UnitigLengthHistogram(store)
	require.EqualValues(t, 2, h.Count)
	require.EqualValues(t, 10, h.Min)
	require.EqualValues(t, 20, h.Max)
	require.Contains(t, h.String(), "min=10")
}

func TestLengthHistogramObserveIsNilSafe(t *testing.T) {
	var h *LengthHistogram
	h.Observe(5)
	require.Equal(t, "(no data)", h.String())
}

func TestHistoryReporterDrainsEvents(t *testing.T) {
	store := cdbg.NewStore(5)
	store.BuildUnode("ACGTACGTAC", nil, 10, 20)

	r := NewHistoryReporter(store, 16)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		r.Run(ctx, 5*time.Millisecond)
		close(done)
	}()

	var got cdbg.HistoryEvent
	select {
	case got = <-r.Events():
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for history event")
	}
	require.Equal(t, cdbg.HistoryNew, got.Kind)

	cancel()
	<-done
}
