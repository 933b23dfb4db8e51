// Package hooks runs user-configured shell commands around a benchmark run,
// typically to build the solver before the first trial.
package hooks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"slices"
	"strings"
)

// Stage names a point in the run lifecycle.
type Stage string

const (
	BeforeRun Stage = "before_run"
	AfterRun  Stage = "after_run"
)

// Hook is a single command. The command line is split on whitespace; no
// shell is involved.
type Hook struct {
	Command   string `yaml:"command" json:"command"`
	Dir       string `yaml:"dir,omitempty" json:"dir,omitempty"`
	ExitCodes []int  `yaml:"exit_codes,omitempty" json:"exit_codes,omitempty"`
	Required  bool   `yaml:"required,omitempty" json:"required,omitempty"`
}

// Config holds the hooks for every stage.
type Config struct {
	BeforeRun []Hook `yaml:"before_run,omitempty" json:"before_run,omitempty"`
	AfterRun  []Hook `yaml:"after_run,omitempty" json:"after_run,omitempty"`
}

// For returns the hooks registered for stage.
func (c Config) For(stage Stage) []Hook {
	switch stage {
	case BeforeRun:
		return c.BeforeRun
	case AfterRun:
		return c.AfterRun
	default:
		return nil
	}
}

// Error reports a required hook that did not finish acceptably.
type Error struct {
	Stage    Stage
	Index    int
	Command  string
	ExitCode int
	Output   string
	Err      error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("hook %s[%d] %q", e.Stage, e.Index, e.Command)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	} else {
		msg += fmt.Sprintf(": exited with code %d", e.ExitCode)
	}
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += "\n" + out
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Runner executes hooks. Command output is copied to Out when Verbose is set.
type Runner struct {
	Out     io.Writer
	Verbose bool
	// BaseDir is used for hooks without their own Dir.
	BaseDir string
}

// Run executes the hooks cfg registers for stage, in order. Optional hooks
// that fail are logged and skipped; the first failing required hook stops the
// stage.
func (r *Runner) Run(ctx context.Context, stage Stage, cfg Config) error {
	for i, h := range cfg.For(stage) {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("hook %s: %w", stage, err)
		}
		if err := r.runHook(ctx, stage, i, h); err != nil {
			if !h.Required {
				slog.Warn("hook failed, continuing", "stage", stage, "index", i, "error", err)
				continue
			}
			return err
		}
	}
	return nil
}

func (r *Runner) runHook(ctx context.Context, stage Stage, index int, h Hook) error {
	parts := strings.Fields(h.Command)
	if len(parts) == 0 {
		return &Error{Stage: stage, Index: index, Err: errors.New("empty command")}
	}

	//nolint:gosec // hook commands come from the user's project file
	cmd := exec.CommandContext(ctx, parts[0], parts[1:]...)
	cmd.Dir = h.Dir
	if cmd.Dir == "" {
		cmd.Dir = r.BaseDir
	}

	slog.Debug("running hook", "stage", stage, "index", index, "command", h.Command, "dir", cmd.Dir)
	output, err := cmd.CombinedOutput()
	if r.Verbose && r.Out != nil && len(output) > 0 {
		fmt.Fprintf(r.Out, "[hook:%s] %s", stage, output)
	}

	exitCode := 0
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return &Error{Stage: stage, Index: index, Command: h.Command, Output: string(output), Err: err}
		}
		exitCode = exitErr.ExitCode()
	}

	if !acceptable(exitCode, h.ExitCodes) {
		return &Error{Stage: stage, Index: index, Command: h.Command, ExitCode: exitCode, Output: string(output)}
	}
	return nil
}

// acceptable reports whether exitCode is allowed. An empty list allows only 0.
func acceptable(exitCode int, allowed []int) bool {
	if len(allowed) == 0 {
		return exitCode == 0
	}
	return slices.Contains(allowed, exitCode)
}
