// Package profiler times the stages of a pipeline run.
package profiler

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Profiler records durations per stage, remembering the order in which
// stages first ran.
type Profiler struct {
	mu    sync.RWMutex
	order []string
	times map[string][]time.Duration
}

// NewProfiler creates a new profiler
func NewProfiler() *Profiler {
	return &Profiler{
		times: make(map[string][]time.Duration),
	}
}

// Timer represents a running stage
type Timer struct {
	profiler *Profiler
	name     string
	start    time.Time
}

// Start begins timing a stage
func (p *Profiler) Start(name string) *Timer {
	return &Timer{
		profiler: p,
		name:     name,
		start:    time.Now(),
	}
}

// Stop completes the timing and records the duration
func (t *Timer) Stop() time.Duration {
	duration := time.Since(t.start)
	t.profiler.Record(t.name, duration)
	return duration
}

// Record manually records a timing
func (p *Profiler) Record(name string, duration time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, seen := p.times[name]; !seen {
		p.order = append(p.order, name)
	}
	p.times[name] = append(p.times[name], duration)
}

// Stage runs fn as a named stage. The duration is recorded even when fn fails.
func (p *Profiler) Stage(name string, fn func() error) error {
	timer := p.Start(name)
	defer timer.Stop()
	return fn()
}

// Stats contains timing statistics for one stage
type Stats struct {
	Name    string
	Count   int
	Total   time.Duration
	Average time.Duration
	Min     time.Duration
	Max     time.Duration
}

// GetStats returns timing statistics for a stage
func (p *Profiler) GetStats(name string) *Stats {
	p.mu.RLock()
	times := p.times[name]
	p.mu.RUnlock()

	stats := &Stats{Name: name, Count: len(times)}
	if len(times) == 0 {
		return stats
	}

	stats.Min, stats.Max = times[0], times[0]
	for _, t := range times {
		stats.Total += t
		stats.Min = min(stats.Min, t)
		stats.Max = max(stats.Max, t)
	}
	stats.Average = stats.Total / time.Duration(len(times))

	return stats
}

// GetAllStats returns statistics for every stage in first-run order
func (p *Profiler) GetAllStats() []*Stats {
	p.mu.RLock()
	names := make([]string, len(p.order))
	copy(names, p.order)
	p.mu.RUnlock()

	stats := make([]*Stats, 0, len(names))
	for _, name := range names {
		stats = append(stats, p.GetStats(name))
	}
	return stats
}

// Total returns the summed duration of all stages
func (p *Profiler) Total() time.Duration {
	var total time.Duration
	for _, s := range p.GetAllStats() {
		total += s.Total
	}
	return total
}

// Reset clears all timing data
func (p *Profiler) Reset() {
	p.mu.Lock()
	p.order = nil
	p.times = make(map[string][]time.Duration)
	p.mu.Unlock()
}

// PrintReport writes a formatted timing table
func (p *Profiler) PrintReport(w io.Writer) {
	stats := p.GetAllStats()
	if len(stats) == 0 {
		fmt.Fprintln(w, "No timing data available")
		return
	}

	total := p.Total()

	fmt.Fprintf(w, "⏱️  Stage Timings\n")
	fmt.Fprintf(w, "═══════════════════════════════════════════════════════\n")
	fmt.Fprintf(w, "%-22s %6s %10s %10s %8s\n", "Stage", "Runs", "Total", "Avg", "Share")
	fmt.Fprintf(w, "───────────────────────────────────────────────────────\n")

	for _, stat := range stats {
		share := 0.0
		if total > 0 {
			share = float64(stat.Total) / float64(total) * 100
		}
		fmt.Fprintf(w, "%-22s %6d %10s %10s %7.1f%%\n",
			truncate(stat.Name, 22),
			stat.Count,
			formatDuration(stat.Total),
			formatDuration(stat.Average),
			share,
		)
	}

	fmt.Fprintf(w, "───────────────────────────────────────────────────────\n")
	fmt.Fprintf(w, "%-22s %6s %10s\n", "total", "", formatDuration(total))
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Microsecond:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	case d < time.Millisecond:
		return fmt.Sprintf("%.1fμs", float64(d.Nanoseconds())/1000)
	case d < time.Second:
		return fmt.Sprintf("%.2fms", float64(d.Nanoseconds())/1e6)
	default:
		return fmt.Sprintf("%.3fs", d.Seconds())
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
