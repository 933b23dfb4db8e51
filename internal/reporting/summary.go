package reporting

import (
	"fmt"
	"runtime"

	"github.com/spboyer/parbench/internal/metrics"
	"github.com/spboyer/parbench/internal/models"
)

// ConfigStats is the aggregate line for one configuration.
type ConfigStats struct {
	Configuration models.Configuration `json:"configuration"`
	Label         string               `json:"label"`
	Name          string               `json:"name"`
	Executions    int                  `json:"executions"`
	TotalSeconds  float64              `json:"total_seconds"`
	AvgSeconds    float64              `json:"avg_seconds"`
	Speedup       float64              `json:"speedup"`
}

// Statistics summarizes a completed ResultSet.
type Statistics struct {
	Configs     []ConfigStats `json:"configs"`
	Files       int           `json:"files"`
	Repetitions int           `json:"repetitions"`
	Processors  int           `json:"processors"`

	BaselineTotalSeconds float64 `json:"baseline_total_seconds"`
	BaselineAvgSeconds   float64 `json:"baseline_avg_seconds"`
}

// Summarize computes per-configuration totals, averages and speedups.
// Speedup is the sequential total divided by the configuration's total;
// the sequential entry is exactly 1.0 and a zero total yields 0.
func Summarize(rs *models.ResultSet, fileCount, repetitions int) (*Statistics, error) {
	if rs == nil {
		return nil, models.ErrNoBaseline
	}
	if fileCount <= 0 || repetitions <= 0 {
		return nil, fmt.Errorf("cannot summarize %d files x %d repetitions", fileCount, repetitions)
	}
	seq, ok := rs.Baseline()
	if !ok {
		return nil, models.ErrNoBaseline
	}

	executions := fileCount * repetitions
	stats := &Statistics{
		Files:                fileCount,
		Repetitions:          repetitions,
		Processors:           runtime.NumCPU(),
		BaselineTotalSeconds: metrics.Seconds(seq.Total),
		BaselineAvgSeconds:   metrics.Seconds(seq.Total) / float64(executions),
	}

	for _, agg := range rs.Aggregates {
		c := agg.Configuration
		cs := ConfigStats{
			Configuration: c,
			Label:         c.Label(),
			Name:          c.DisplayName(),
			Executions:    executions,
			TotalSeconds:  metrics.Seconds(agg.Total),
			AvgSeconds:    metrics.Seconds(agg.Total) / float64(executions),
		}
		if c.IsSequential() {
			cs.Speedup = 1.0
		} else {
			cs.Speedup = metrics.Ratio(seq.Total, agg.Total)
		}
		stats.Configs = append(stats.Configs, cs)
	}
	return stats, nil
}

// Get returns the stats line for a configuration label.
func (s *Statistics) Get(label string) (ConfigStats, bool) {
	for _, cs := range s.Configs {
		if cs.Label == label {
			return cs, true
		}
	}
	return ConfigStats{}, false
}

// Fastest returns the configuration with the lowest total time.
func (s *Statistics) Fastest() (ConfigStats, bool) {
	if len(s.Configs) == 0 {
		return ConfigStats{}, false
	}
	best := s.Configs[0]
	for _, cs := range s.Configs[1:] {
		if cs.TotalSeconds < best.TotalSeconds {
			best = cs
		}
	}
	return best, true
}

// BestSpeedup returns the parallel configuration with the highest speedup.
func (s *Statistics) BestSpeedup() (ConfigStats, bool) {
	var best ConfigStats
	found := false
	for _, cs := range s.Configs {
		if cs.Configuration.IsSequential() {
			continue
		}
		if !found || cs.Speedup > best.Speedup {
			best = cs
			found = true
		}
	}
	return best, found
}

// Names returns the display names in run order.
func (s *Statistics) Names() []string {
	names := make([]string, len(s.Configs))
	for i, cs := range s.Configs {
		names[i] = cs.Name
	}
	return names
}

// Efficiency is speedup divided by thread count. The sequential baseline is 1.0.
func (cs ConfigStats) Efficiency() float64 {
	if cs.Configuration.IsSequential() {
		return 1.0
	}
	if cs.Configuration.Threads <= 0 {
		return 0
	}
	return cs.Speedup / float64(cs.Configuration.Threads)
}
