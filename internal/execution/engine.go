package execution

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spboyer/parbench/internal/models"
)

// Executor runs a single trial of the solver under test.
type Executor interface {
	// Initialize validates the executor before the first trial runs.
	Initialize(ctx context.Context) error

	// Execute runs one trial and returns its wall-clock duration. A failed
	// trial returns a *models.ExecutionError.
	Execute(ctx context.Context, req TrialRequest) (time.Duration, error)
}

// TrialRequest identifies one trial: a configuration applied to a file.
type TrialRequest struct {
	Configuration models.Configuration
	File          models.BenchmarkFile

	// OutputStem names the file's outputs, as assigned by
	// models.OutputStems. Empty falls back to File.Stem().
	OutputStem string
}

// OutputName is the per-trial output file name. It is unique per
// (file, configuration) pair so trials never overwrite each other.
func (r TrialRequest) OutputName() string {
	stem := r.OutputStem
	if stem == "" {
		stem = r.File.Stem()
	}
	if r.Configuration.IsSequential() {
		return fmt.Sprintf("%s_s.output", stem)
	}
	return fmt.Sprintf("%s_p%d.output", stem, r.Configuration.Threads)
}

// OutputPath joins OutputName onto dir.
func (r TrialRequest) OutputPath(dir string) string {
	return filepath.Join(dir, r.OutputName())
}

// Args builds the solver argument vector:
//
//	-s -f <input> -o <output>
//	-p -f <input> -o <output> -t <threads>
func (r TrialRequest) Args(outputPath string) []string {
	if r.Configuration.IsSequential() {
		return []string{"-s", "-f", r.File.Path, "-o", outputPath}
	}
	return []string{
		"-p",
		"-f", r.File.Path,
		"-o", outputPath,
		"-t", strconv.Itoa(r.Configuration.Threads),
	}
}
