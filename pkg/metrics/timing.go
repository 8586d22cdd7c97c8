// Package metrics records in-memory timings for the hot paths of mb: model
// loading, tree rebuilds and branch materialization.
//
// Collection is on by default and can be switched off with MB_METRICS=0.
//
//	func rebuild() {
//	    defer metrics.Timer(metrics.TreeRebuild)()
//	    ...
//	}
package metrics

import (
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"text/tabwriter"
	"time"
)

var enabled atomic.Bool

func init() {
	enabled.Store(os.Getenv("MB_METRICS") != "0")
}

// Enabled reports whether timings are recorded.
func Enabled() bool {
	return enabled.Load()
}

// SetEnabled switches collection on or off.
func SetEnabled(e bool) {
	enabled.Store(e)
}

// TimingMetric accumulates durations of one named operation. It is safe for
// concurrent use.
type TimingMetric struct {
	name    string
	count   atomic.Int64
	totalNs atomic.Int64
	maxNs   atomic.Int64
	minNs   atomic.Int64 // 0 until the first sample
}

func newTimingMetric(name string) *TimingMetric {
	return &TimingMetric{name: name}
}

// Record adds one sample.
func (m *TimingMetric) Record(d time.Duration) {
	if !Enabled() {
		return
	}
	ns := d.Nanoseconds()
	m.count.Add(1)
	m.totalNs.Add(ns)

	for {
		old := m.maxNs.Load()
		if ns <= old || m.maxNs.CompareAndSwap(old, ns) {
			break
		}
	}
	for {
		old := m.minNs.Load()
		if old != 0 && ns >= old {
			break
		}
		if m.minNs.CompareAndSwap(old, ns) {
			break
		}
	}
}

// Name returns the metric name.
func (m *TimingMetric) Name() string { return m.name }

// Count returns the number of samples.
func (m *TimingMetric) Count() int64 { return m.count.Load() }

// Stats returns a snapshot of the samples so far.
func (m *TimingMetric) Stats() TimingStats {
	count := m.count.Load()
	total := m.totalNs.Load()
	var avg int64
	if count > 0 {
		avg = total / count
	}
	return TimingStats{
		Name:    m.name,
		Count:   count,
		TotalMs: float64(total) / 1e6,
		AvgMs:   float64(avg) / 1e6,
		MaxMs:   float64(m.maxNs.Load()) / 1e6,
		MinMs:   float64(m.minNs.Load()) / 1e6,
	}
}

// Reset drops all samples.
func (m *TimingMetric) Reset() {
	m.count.Store(0)
	m.totalNs.Store(0)
	m.maxNs.Store(0)
	m.minNs.Store(0)
}

// TimingStats is a snapshot of one metric.
type TimingStats struct {
	Name    string  `json:"name"`
	Count   int64   `json:"count"`
	TotalMs float64 `json:"total_ms"`
	AvgMs   float64 `json:"avg_ms"`
	MaxMs   float64 `json:"max_ms"`
	MinMs   float64 `json:"min_ms,omitempty"`
}

// Timer returns a function that records the time elapsed since Timer was
// called. A nil metric records nothing.
func Timer(m *TimingMetric) func() {
	if !Enabled() || m == nil {
		return func() {}
	}
	start := time.Now()
	return func() {
		m.Record(time.Since(start))
	}
}

var (
	ModelLoad         = newTimingMetric("model_load")
	ModelReload       = newTimingMetric("model_reload")
	TreeRebuild       = newTimingMetric("tree_rebuild")
	BranchMaterialize = newTimingMetric("branch_materialize")
	TreeExport        = newTimingMetric("tree_export")
)

// All returns every registered metric.
func All() []*TimingMetric {
	return []*TimingMetric{ModelLoad, ModelReload, TreeRebuild, BranchMaterialize, TreeExport}
}

// ResetAll drops the samples of every metric.
func ResetAll() {
	for _, m := range All() {
		m.Reset()
	}
}

// AllStats returns snapshots of the metrics that have samples.
func AllStats() []TimingStats {
	var stats []TimingStats
	for _, m := range All() {
		if m.Count() > 0 {
			stats = append(stats, m.Stats())
		}
	}
	return stats
}

// WriteSummary prints a table of AllStats to w.
func WriteSummary(w io.Writer) error {
	stats := AllStats()
	if len(stats) == 0 {
		_, err := fmt.Fprintln(w, "no timings recorded")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "METRIC\tCOUNT\tAVG ms\tMAX ms\tTOTAL ms")
	for _, s := range stats {
		fmt.Fprintf(tw, "%s\t%d\t%.2f\t%.2f\t%.2f\n", s.Name, s.Count, s.AvgMs, s.MaxMs, s.TotalMs)
	}
	return tw.Flush()
}
