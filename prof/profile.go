// Package prof collects wall-clock timings by label for the analysis tools.
package prof

import (
	"sort"
	"sync"
	"time"
)

// Entry is a single timing measurement.
type Entry struct {
	Label string
	Dur   time.Duration
}

var (
	mu     sync.Mutex
	record []Entry
)

// Track records the time elapsed since start under label. Use as
// defer prof.Track(time.Now(), "label").
func Track(start time.Time, label string) {
	elapsed := time.Since(start)
	mu.Lock()
	record = append(record, Entry{Label: label, Dur: elapsed})
	mu.Unlock()
}

// SnapshotAndReset returns the collected entries and clears them.
func SnapshotAndReset() []Entry {
	mu.Lock()
	defer mu.Unlock()
	out := record
	record = nil
	return out
}

// Summary aggregates the entries of one label.
type Summary struct {
	Label string
	Count int
	Total time.Duration
	Min   time.Duration
	Max   time.Duration
}

// Mean returns Total/Count.
func (s Summary) Mean() time.Duration {
	if s.Count == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Count)
}

// Summarize groups entries by label, sorted by label.
func Summarize(entries []Entry) []Summary {
	byLabel := make(map[string]*Summary)
	for _, e := range entries {
		s, ok := byLabel[e.Label]
		if !ok {
			s = &Summary{Label: e.Label, Min: e.Dur, Max: e.Dur}
			byLabel[e.Label] = s
		}
		s.Count++
		s.Total += e.Dur
		s.Min = min(s.Min, e.Dur)
		s.Max = max(s.Max, e.Dur)
	}
	out := make([]Summary, 0, len(byLabel))
	for _, s := range byLabel {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}
