package execution

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/spboyer/parbench/internal/models"
)

// DefaultBinary is the solver path relative to the working directory.
const DefaultBinary = "bin/main"

// DefaultOutputDir receives one output file per trial.
const DefaultOutputDir = "output"

// ErrInterrupted marks a trial whose solver was stopped by SIGINT or SIGTERM.
// Ctrl-C reaches the whole process group, so the solver can exit before the
// run's context is cancelled.
var ErrInterrupted = errors.New("solver interrupted by signal")

// ProcessExecutor runs the solver as a child process, one trial at a time.
type ProcessExecutor struct {
	binary    string
	outputDir string
	waitDelay time.Duration

	// interruptGrace is how long a signal-terminated trial waits for ctx to
	// be cancelled before reporting ErrInterrupted.
	interruptGrace time.Duration
}

// NewProcessExecutor creates an executor for the solver at binary, writing
// trial outputs into outputDir.
func NewProcessExecutor(binary, outputDir string) *ProcessExecutor {
	if binary == "" {
		binary = DefaultBinary
	}
	if outputDir == "" {
		outputDir = DefaultOutputDir
	}
	return &ProcessExecutor{
		binary:         binary,
		outputDir:      outputDir,
		waitDelay:      2 * time.Second,
		interruptGrace: 500 * time.Millisecond,
	}
}

// Binary returns the solver path.
func (p *ProcessExecutor) Binary() string { return p.binary }

// OutputDir returns the directory trial outputs are written to.
func (p *ProcessExecutor) OutputDir() string { return p.outputDir }

// Initialize checks that the solver can be launched and creates the output
// directory if it does not exist.
func (p *ProcessExecutor) Initialize(_ context.Context) error {
	if _, err := exec.LookPath(p.binary); err != nil {
		return &models.ConfigurationError{Field: "solver binary", Value: p.binary, Reason: err.Error()}
	}
	if err := os.MkdirAll(p.outputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory %s: %w", p.outputDir, err)
	}
	return nil
}

// Execute launches the solver for req and blocks until it exits. The
// measured window spans process start through exit.
func (p *ProcessExecutor) Execute(ctx context.Context, req TrialRequest) (time.Duration, error) {
	outputPath := req.OutputPath(p.outputDir)
	args := req.Args(outputPath)

	//nolint:gosec // the solver path is operator-supplied, not untrusted input
	cmd := exec.CommandContext(ctx, p.binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	cmd.WaitDelay = p.waitDelay

	slog.Debug("launching trial", "binary", p.binary, "args", args)

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	if err == nil {
		return elapsed, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return 0, fmt.Errorf("trial %s on %s: %w", req.Configuration.Label(), req.File.Path, ctxErr)
	}

	execErr := &models.ExecutionError{
		Configuration: req.Configuration,
		File:          req.File.Path,
		Stderr:        stderr.String(),
		Err:           err,
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		execErr.ExitCode = exitErr.ExitCode()
		if interruptedBySignal(exitErr) {
			return 0, p.interruption(ctx, req)
		}
	}
	return 0, execErr
}

// interruption waits briefly for ctx to observe the same signal, so the
// caller sees the context error when there is one.
func (p *ProcessExecutor) interruption(ctx context.Context, req TrialRequest) error {
	timer := time.NewTimer(p.interruptGrace)
	defer timer.Stop()

	cause := ErrInterrupted
	select {
	case <-ctx.Done():
		cause = ctx.Err()
	case <-timer.C:
	}
	return fmt.Errorf("trial %s on %s: %w", req.Configuration.Label(), req.File.Path, cause)
}

// interruptedBySignal reports whether the solver died from SIGINT or SIGTERM,
// either directly or through a shell exiting with 128+signal.
func interruptedBySignal(err *exec.ExitError) bool {
	if ws, ok := err.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		sig := ws.Signal()
		return sig == syscall.SIGINT || sig == syscall.SIGTERM
	}
	code := err.ExitCode()
	return code == 128+int(syscall.SIGINT) || code == 128+int(syscall.SIGTERM)
}
