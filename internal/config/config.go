// Package config holds the immutable parameters of a single benchmark run.
package config

import (
	"fmt"
	"maps"
	"slices"

	"github.com/spboyer/parbench/internal/models"
)

// DefaultRepetitions is the number of executions per file per configuration.
const DefaultRepetitions = 10

// RunConfig is built once at startup and read by the orchestrator. All
// accessors return copies so callers cannot mutate a run in flight.
type RunConfig struct {
	threads     models.ThreadConfig
	files       []models.BenchmarkFile
	stems       map[string]string
	repetitions int
	binary      string
	outputDir   string
	verbose     bool
}

// Option configures a RunConfig.
type Option func(*RunConfig)

// WithRepetitions sets the executions per file per configuration.
func WithRepetitions(n int) Option {
	return func(c *RunConfig) {
		c.repetitions = n
	}
}

// WithBinary records the solver path for display.
func WithBinary(path string) Option {
	return func(c *RunConfig) {
		c.binary = path
	}
}

// WithOutputDir records the trial output directory for display.
func WithOutputDir(dir string) Option {
	return func(c *RunConfig) {
		c.outputDir = dir
	}
}

// WithVerbose enables verbose progress output.
func WithVerbose(v bool) Option {
	return func(c *RunConfig) {
		c.verbose = v
	}
}

// New builds a RunConfig and validates it. A non-positive repetition count
// is a *models.ConfigurationError.
func New(threads models.ThreadConfig, files []models.BenchmarkFile, opts ...Option) (*RunConfig, error) {
	c := &RunConfig{
		threads:     slices.Clone(threads),
		files:       slices.Clone(files),
		repetitions: DefaultRepetitions,
	}
	for _, o := range opts {
		o(c)
	}

	if c.repetitions <= 0 {
		return nil, &models.ConfigurationError{
			Field:  "number of executions",
			Value:  fmt.Sprint(c.repetitions),
			Reason: "must be a positive integer",
		}
	}
	if len(c.files) == 0 {
		return nil, &models.ResolutionError{}
	}
	c.stems = models.OutputStems(c.files)
	return c, nil
}

// Threads returns the parsed thread counts.
func (c *RunConfig) Threads() models.ThreadConfig { return slices.Clone(c.threads) }

// Files returns the resolved benchmark files in iteration order.
func (c *RunConfig) Files() []models.BenchmarkFile { return slices.Clone(c.files) }

// OutputStems maps each file path to the stem its trial outputs are named after.
func (c *RunConfig) OutputStems() map[string]string { return maps.Clone(c.stems) }

// Repetitions returns the executions per file per configuration.
func (c *RunConfig) Repetitions() int { return c.repetitions }

// Binary returns the solver path.
func (c *RunConfig) Binary() string { return c.binary }

// OutputDir returns the trial output directory.
func (c *RunConfig) OutputDir() string { return c.outputDir }

// Verbose reports whether verbose progress output is enabled.
func (c *RunConfig) Verbose() bool { return c.verbose }

// Configurations returns the sequential baseline followed by one parallel
// configuration per thread count.
func (c *RunConfig) Configurations() []models.Configuration {
	return models.BuildConfigurations(c.threads)
}

// TotalTrials is configurations x files x repetitions.
func (c *RunConfig) TotalTrials() int {
	return (len(c.threads) + 1) * len(c.files) * c.repetitions
}
