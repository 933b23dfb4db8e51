package models

import (
	"fmt"
	"time"
)

// Trial is the outcome of one successful invocation of the solver.
type Trial struct {
	Configuration Configuration `json:"configuration"`
	File          BenchmarkFile `json:"file"`
	Repetition    int           `json:"repetition"`
	Elapsed       time.Duration `json:"elapsed_ns"`
}

// Aggregate holds every duration recorded for a single configuration.
type Aggregate struct {
	Configuration Configuration              `json:"configuration"`
	Total         time.Duration              `json:"total_ns"`
	Durations     map[string][]time.Duration `json:"durations_ns"`
}

func newAggregate(c Configuration) *Aggregate {
	return &Aggregate{
		Configuration: c,
		Durations:     make(map[string][]time.Duration),
	}
}

// Record appends d to the sequence for file and adds it to the running total.
func (a *Aggregate) Record(file string, d time.Duration) {
	a.Durations[file] = append(a.Durations[file], d)
	a.Total += d
}

// Count returns the number of durations recorded across all files.
func (a *Aggregate) Count() int {
	n := 0
	for _, ds := range a.Durations {
		n += len(ds)
	}
	return n
}

// ResultSet maps configuration labels to aggregates. Aggregates keep the
// order in which their configurations were run, sequential first.
type ResultSet struct {
	Files       []string     `json:"files"`
	Repetitions int          `json:"repetitions"`
	Aggregates  []*Aggregate `json:"aggregates"`
}

// NewResultSet creates an empty result set for the given files and repetition count.
func NewResultSet(files []BenchmarkFile, repetitions int) *ResultSet {
	return &ResultSet{
		Files:       FilePaths(files),
		Repetitions: repetitions,
	}
}

// Add registers an aggregate for c and returns it. Adding the same
// configuration twice returns the existing aggregate.
func (rs *ResultSet) Add(c Configuration) *Aggregate {
	if agg, ok := rs.Get(c.Label()); ok {
		return agg
	}
	agg := newAggregate(c)
	rs.Aggregates = append(rs.Aggregates, agg)
	return agg
}

// Record stores one trial under its configuration.
func (rs *ResultSet) Record(t Trial) {
	rs.Add(t.Configuration).Record(t.File.Path, t.Elapsed)
}

// Get looks up the aggregate for a configuration label.
func (rs *ResultSet) Get(label string) (*Aggregate, bool) {
	for _, agg := range rs.Aggregates {
		if agg.Configuration.Label() == label {
			return agg, true
		}
	}
	return nil, false
}

// Labels returns the configuration labels in run order.
func (rs *ResultSet) Labels() []string {
	labels := make([]string, len(rs.Aggregates))
	for i, agg := range rs.Aggregates {
		labels[i] = agg.Configuration.Label()
	}
	return labels
}

// Baseline returns the sequential aggregate.
func (rs *ResultSet) Baseline() (*Aggregate, bool) {
	return rs.Get(SequentialLabel)
}

// Validate checks the completed-run invariants: a sequential baseline exists
// and every aggregate holds files x repetitions durations summing to its total.
func (rs *ResultSet) Validate() error {
	if _, ok := rs.Baseline(); !ok {
		return fmt.Errorf("result set has no %q configuration", SequentialLabel)
	}
	want := len(rs.Files) * rs.Repetitions
	for _, agg := range rs.Aggregates {
		label := agg.Configuration.Label()
		if got := agg.Count(); got != want {
			return fmt.Errorf("configuration %s has %d durations, want %d", label, got, want)
		}
		var sum time.Duration
		for _, f := range rs.Files {
			ds := agg.Durations[f]
			if len(ds) != rs.Repetitions {
				return fmt.Errorf("configuration %s file %s has %d durations, want %d", label, f, len(ds), rs.Repetitions)
			}
			for _, d := range ds {
				sum += d
			}
		}
		if sum != agg.Total {
			return fmt.Errorf("configuration %s total %v does not match recorded durations %v", label, agg.Total, sum)
		}
	}
	return nil
}

// Clone returns a deep copy of rs so reporting cannot mutate the orchestrator's data.
func (rs *ResultSet) Clone() *ResultSet {
	out := &ResultSet{
		Files:       append([]string(nil), rs.Files...),
		Repetitions: rs.Repetitions,
		Aggregates:  make([]*Aggregate, len(rs.Aggregates)),
	}
	for i, agg := range rs.Aggregates {
		c := newAggregate(agg.Configuration)
		c.Total = agg.Total
		for f, ds := range agg.Durations {
			c.Durations[f] = append([]time.Duration(nil), ds...)
		}
		out.Aggregates[i] = c
	}
	return out
}
