package models

import (
	"fmt"
	"strings"
)

// Mode selects how the external solver is invoked for a trial.
type Mode string

const (
	ModeSequential Mode = "sequential"
	ModeParallel   Mode = "parallel"
)

// SequentialLabel is the label of the baseline configuration every speedup is
// computed against.
const SequentialLabel = "seq"

// ThreadConfig is an ascending list of distinct worker counts, each >= 1.
type ThreadConfig []int

// Configuration is either the sequential baseline or a parallel run at a
// fixed thread count. Threads is zero for sequential configurations.
type Configuration struct {
	Mode    Mode `json:"mode" yaml:"mode"`
	Threads int  `json:"threads,omitempty" yaml:"threads,omitempty"`
}

// Sequential returns the baseline configuration.
func Sequential() Configuration {
	return Configuration{Mode: ModeSequential}
}

// Parallel returns a parallel configuration using the given thread count.
func Parallel(threads int) Configuration {
	return Configuration{Mode: ModeParallel, Threads: threads}
}

// IsSequential reports whether c is the baseline configuration.
func (c Configuration) IsSequential() bool {
	return c.Mode == ModeSequential
}

// Label is the short identifier used as the ResultSet key: "seq" or "p<N>".
func (c Configuration) Label() string {
	if c.IsSequential() {
		return SequentialLabel
	}
	return fmt.Sprintf("p%d", c.Threads)
}

// DisplayName is the upper-cased label used on charts and tables.
func (c Configuration) DisplayName() string {
	return strings.ToUpper(c.Label())
}

// Description is the human-readable name printed in progress output.
func (c Configuration) Description() string {
	if c.IsSequential() {
		return "Sequential"
	}
	return fmt.Sprintf("Parallel (%d threads)", c.Threads)
}

func (c Configuration) String() string {
	return c.Label()
}

// BuildConfigurations returns the full run matrix for a thread config: the
// sequential baseline first, then one parallel entry per thread count in
// ascending order.
func BuildConfigurations(threads ThreadConfig) []Configuration {
	configs := make([]Configuration, 0, len(threads)+1)
	configs = append(configs, Sequential())
	for _, t := range threads {
		configs = append(configs, Parallel(t))
	}
	return configs
}
