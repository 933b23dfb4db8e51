package models

import (
	"errors"
	"fmt"
	"strings"
)

// ConfigurationError reports an invalid run parameter, such as a malformed
// thread specification term or a non-positive repetition count. It is raised
// before any trial runs.
type ConfigurationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// ResolutionWarning describes an input candidate or pattern that was skipped.
type ResolutionWarning struct {
	Pattern string
	Path    string
	Reason  string
}

func (w ResolutionWarning) String() string {
	if w.Path == "" {
		return fmt.Sprintf("%s: %s", w.Reason, w.Pattern)
	}
	return fmt.Sprintf("%s: %s", w.Reason, w.Path)
}

// ResolutionError is returned when no valid input file remains after all
// patterns have been applied.
type ResolutionError struct {
	Patterns []string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("no valid %s files found (patterns: %s)",
		strings.Join(AcceptedExtensions, "/"), strings.Join(e.Patterns, ", "))
}

// ExecutionError is returned when the solver exits non-zero or cannot be
// started for a trial. It aborts the whole benchmark.
type ExecutionError struct {
	Configuration Configuration
	File          string
	ExitCode      int
	Stderr        string
	Err           error
}

func (e *ExecutionError) Error() string {
	var b strings.Builder
	if e.Configuration.IsSequential() {
		b.WriteString("Sequential execution")
	} else {
		fmt.Fprintf(&b, "Parallel execution with %d threads", e.Configuration.Threads)
	}
	fmt.Fprintf(&b, " failed for %s", e.File)
	if e.ExitCode > 0 {
		fmt.Fprintf(&b, " (exit code %d)", e.ExitCode)
	} else if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		b.WriteString(" with error:\n")
		b.WriteString(stderr)
	}
	return b.String()
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// InterruptedError is returned when the run is cancelled before completion.
type InterruptedError struct {
	Completed int
	Total     int
	Cause     error
}

func (e *InterruptedError) Error() string {
	return fmt.Sprintf("benchmark interrupted after %d/%d trials", e.Completed, e.Total)
}

func (e *InterruptedError) Unwrap() error {
	return e.Cause
}

// ErrNoBaseline is returned by reporting when a result set lacks the
// sequential configuration.
var ErrNoBaseline = errors.New("result set has no sequential baseline")
