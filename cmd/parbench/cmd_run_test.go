package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spboyer/parbench/internal/config"
	"github.com/spboyer/parbench/internal/execution"
	"github.com/spboyer/parbench/internal/export"
	"github.com/spboyer/parbench/internal/hooks"
	"github.com/spboyer/parbench/internal/models"
)

// fakeSolver writes its arguments to the -o file; inputs named "bad" fail.
const fakeSolver = `#!/bin/sh
all="$*"
in=""
out=""
while [ $# -gt 0 ]; do
  case "$1" in
    -f) in="$2"; shift 2 ;;
    -o) out="$2"; shift 2 ;;
    *) shift ;;
  esac
done
case "$in" in
  *bad*) echo "boom: cannot parse $in" >&2; exit 3 ;;
esac
printf '%s\n' "$all" > "$out"
`

// setupWorkspace creates a temp project with the given input files under
// data/ and makes it the working directory.
func setupWorkspace(t *testing.T, inputs ...string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "data"), 0o755))
	for _, name := range inputs {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "data", name), []byte("3 3\n"), 0o644))
	}
	t.Chdir(dir)
	return dir
}

func writeFakeSolver(t *testing.T, dir string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake solver is a POSIX shell script")
	}
	path := filepath.Join(dir, "solver.sh")
	require.NoError(t, os.WriteFile(path, []byte(fakeSolver), 0o755))
	return path
}

func runCmd(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return runCmdContext(t, context.Background(), args...)
}

func runCmdContext(t *testing.T, ctx context.Context, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRunCommand()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.ExecuteContext(ctx)
	return stdout.String(), stderr.String(), err
}

func TestRunCommand_SimulatedWithExports(t *testing.T) {
	setupWorkspace(t, "a.jss", "b.fss", "notes.txt")

	stdout, stderr, err := runCmd(t,
		"-t", "2,4", "-n", "2",
		"--executor", "simulate", "--simulated-duration", "10ms",
		"--no-chart",
		"--json", "results.json.zst",
		"--junit", "results.xml",
		"--metrics-textfile", "parbench.prom",
		"--interpret",
		"data/*.jss", "data/*.fss", "data/*.txt",
	)
	require.NoError(t, err)

	assert.Contains(t, stderr, "Warning: skipping file with unsupported extension")
	assert.Contains(t, stdout, "Benchmark Configuration:")
	assert.Contains(t, stdout, "Files:          2")
	assert.Contains(t, stdout, "Threads:        2,4")
	assert.Contains(t, stdout, "Total trials:   12")
	assert.Contains(t, stdout, "[1/3] Running Sequential")
	assert.Contains(t, stdout, "[3/3] Running Parallel (4 threads)")
	assert.Contains(t, stdout, "Summary Statistics:")
	assert.Contains(t, stdout, "4.00x")
	assert.Contains(t, stdout, "=== Interpretation ===")
	assert.Contains(t, stdout, "Results saved to: results.json.zst")
	assert.Contains(t, stdout, "JUnit XML saved to: results.xml")
	assert.Contains(t, stdout, "Metrics saved to: parbench.prom")
	assert.NotContains(t, stdout, "\rFile:")

	doc, err := export.Load("results.json.zst")
	require.NoError(t, err)
	assert.Equal(t, []string{"seq", "p2", "p4"}, doc.Results.Labels())
	assert.Equal(t, []string{filepath.Join("data", "a.jss"), filepath.Join("data", "b.fss")}, doc.Results.Files)

	assert.FileExists(t, "results.xml")
	prom, err := os.ReadFile("parbench.prom")
	require.NoError(t, err)
	assert.Contains(t, string(prom), "parbench_trials_total")
}

func TestRunCommand_ProcessExecutor(t *testing.T) {
	dir := setupWorkspace(t, "ft06.jss")
	solver := writeFakeSolver(t, dir)

	stdout, _, err := runCmd(t, "--bin", solver, "-t", "2", "-n", "1", "--no-chart", "--output-dir", "out", "--verbose")
	require.NoError(t, err)

	assert.Contains(t, stdout, "data/ft06.jss (1/1) run 1/1...")
	assert.Contains(t, stdout, "Benchmark completed in")

	seq, err := os.ReadFile(filepath.Join("out", "ft06_s.output"))
	require.NoError(t, err)
	assert.Equal(t, "-s -f data/ft06.jss -o out/ft06_s.output\n", string(seq))

	par, err := os.ReadFile(filepath.Join("out", "ft06_p2.output"))
	require.NoError(t, err)
	assert.Equal(t, "-p -f data/ft06.jss -o out/ft06_p2.output -t 2\n", string(par))
}

func TestRunCommand_SolverFailureAborts(t *testing.T) {
	dir := setupWorkspace(t, "bad.jss")
	solver := writeFakeSolver(t, dir)

	stdout, _, err := runCmd(t, "--bin", solver, "-t", "2", "-n", "3", "--no-chart")
	require.Error(t, err)

	var execErr *models.ExecutionError
	require.True(t, errors.As(err, &execErr))
	assert.Equal(t, 3, execErr.ExitCode)
	assert.True(t, execErr.Configuration.IsSequential())
	assert.Contains(t, err.Error(), "boom: cannot parse")
	assert.NotContains(t, stdout, "Summary Statistics:")
	assert.Equal(t, ExitFailure, handleError(&bytes.Buffer{}, err))
}

func TestRunCommand_MissingBinary(t *testing.T) {
	setupWorkspace(t, "a.jss")

	_, _, err := runCmd(t, "--bin", "./no-such-solver", "-t", "2", "-n", "1", "--no-chart")
	var cfgErr *models.ConfigurationError
	require.True(t, errors.As(err, &cfgErr), "got %v", err)
	assert.Equal(t, "solver binary", cfgErr.Field)
}

func TestRunCommand_ConfigurationErrors(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		field string
	}{
		{"zero threads", []string{"-t", "0"}, "thread term"},
		{"descending range", []string{"-t", "4:2"}, "thread term"},
		{"not a number", []string{"-t", "two"}, "thread term"},
		{"zero repetitions", []string{"-n", "0"}, "number of executions"},
		{"negative repetitions", []string{"--num=-3"}, "number of executions"},
		{"unknown executor", []string{"--executor", "nope"}, "executor"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupWorkspace(t, "a.jss")

			_, _, err := runCmd(t, append(tt.args, "--no-chart")...)
			var cfgErr *models.ConfigurationError
			require.True(t, errors.As(err, &cfgErr), "got %v", err)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestRunCommand_NoFiles(t *testing.T) {
	setupWorkspace(t)

	_, stderr, err := runCmd(t, "--executor", "simulate", "--no-chart")
	var resErr *models.ResolutionError
	require.True(t, errors.As(err, &resErr), "got %v", err)
	assert.Contains(t, stderr, "no files found matching pattern")
}

func TestRunCommand_ProjectConfigDefaults(t *testing.T) {
	dir := setupWorkspace(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "inputs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "inputs", "x.jss"), []byte("1"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".parbench.yaml"), []byte(`
paths:
  data: "inputs/*.jss"
defaults:
  threads: "3"
  repetitions: 1
`), 0o644))

	stdout, _, err := runCmd(t, "--executor", "simulate", "--simulated-duration", "1ms", "--no-chart")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Threads:        3")
	assert.Contains(t, stdout, "Total trials:   2")

	// Flags win over the file.
	stdout, _, err = runCmd(t, "-t", "1:2", "--executor", "simulate", "--simulated-duration", "1ms", "--no-chart")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Threads:        1,2")
	assert.Contains(t, stdout, "Total trials:   3")
}

func TestRunCommand_BeforeRunHookBuildsSolver(t *testing.T) {
	dir := setupWorkspace(t, "a.jss")
	if runtime.GOOS == "windows" {
		t.Skip("hook uses cp and a POSIX shell solver")
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "solver.src"), []byte(fakeSolver), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".parbench.yaml"), []byte(`
paths:
  binary: ./solver
hooks:
  before_run:
    - command: cp -p solver.src solver
      required: true
  after_run:
    - command: touch finished
`), 0o644))

	_, _, err := runCmd(t, "-t", "2", "-n", "1", "--no-chart")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "output", "a_p2.output"))
	assert.FileExists(t, filepath.Join(dir, "finished"))
}

func TestRunCommand_RequiredHookFailureStopsRun(t *testing.T) {
	dir := setupWorkspace(t, "a.jss")
	if runtime.GOOS == "windows" {
		t.Skip("hook uses POSIX false")
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".parbench.yaml"), []byte(`
hooks:
  before_run:
    - command: "false"
      required: true
`), 0o644))

	stdout, _, err := runCmd(t, "-t", "2", "-n", "1", "--executor", "simulate", "--no-chart")
	var hookErr *hooks.Error
	require.True(t, errors.As(err, &hookErr), "got %v", err)
	assert.NotContains(t, stdout, "[1/2] Running")

	_, _, err = runCmd(t, "-t", "2", "-n", "1", "--executor", "simulate", "--no-chart", "--no-hooks")
	assert.NoError(t, err)
}

func TestRunCommand_SequentialOnly(t *testing.T) {
	setupWorkspace(t, "a.jss")

	stdout, _, err := runCmd(t, "-t", "", "-n", "2", "--executor", "simulate", "--simulated-duration", "1ms", "--no-chart")
	require.NoError(t, err)
	assert.Contains(t, stdout, "(none, sequential only)")
	assert.Contains(t, stdout, "SEQ")
	assert.NotContains(t, stdout, "P1")
}

func TestRunCommand_ChartRendered(t *testing.T) {
	setupWorkspace(t, "a.jss")

	stdout, stderr, err := runCmd(t, "-t", "2", "-n", "1", "--executor", "simulate", "--simulated-duration", "5ms",
		"--chart", "charts/bench.png", "--no-display")
	require.NoError(t, err)
	assert.Empty(t, stderr)
	assert.Contains(t, stdout, "Plot saved as charts/bench.png")
	assert.FileExists(t, filepath.Join("charts", "bench.png"))
}

func TestRunCommand_Interrupted(t *testing.T) {
	setupWorkspace(t, "a.jss")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stdout, _, err := runCmdContext(t, ctx, "-t", "2", "-n", "1", "--executor", "simulate", "--no-chart")
	var interrupted *models.InterruptedError
	require.True(t, errors.As(err, &interrupted), "got %v", err)
	assert.Equal(t, 0, interrupted.Completed)
	assert.Equal(t, 2, interrupted.Total)
	assert.NotContains(t, stdout, "Summary Statistics:")

	var msg bytes.Buffer
	assert.Equal(t, ExitFailure, handleError(&msg, err))
	assert.Contains(t, msg.String(), InterruptedMessage)
}

func TestNewExecutor(t *testing.T) {
	t.Cleanup(func() {
		executorName = executorProcess
		simulatedDuration = 100 * time.Millisecond
	})

	cfg, err := config.New(nil, []models.BenchmarkFile{{Path: "a.jss"}}, config.WithBinary("tools/solver"))
	require.NoError(t, err)

	executorName = executorProcess
	e, err := newExecutor(cfg)
	require.NoError(t, err)
	proc, ok := e.(*execution.ProcessExecutor)
	require.True(t, ok)
	assert.Equal(t, "tools/solver", proc.Binary())

	executorName = executorSimulate
	simulatedDuration = 5 * time.Millisecond
	e, err = newExecutor(cfg)
	require.NoError(t, err)
	sim, ok := e.(*execution.SimulatedExecutor)
	require.True(t, ok)
	assert.Equal(t, 5*time.Millisecond, sim.Base)

	executorName = "docker"
	_, err = newExecutor(cfg)
	var cfgErr *models.ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestProgressListeners(t *testing.T) {
	c := models.Parallel(4)
	events := []models.ProgressEvent{
		{EventType: models.EventBenchmarkStart, TotalTrials: 1200},
		{EventType: models.EventConfigStart, Configuration: c, ConfigNum: 2, TotalConfigs: 3},
		{EventType: models.EventTrialStart, Configuration: c, File: "data/a.jss", FileNum: 1, TotalFiles: 2, Repetition: 3, Repetitions: 10, TrialNum: 1003, TotalTrials: 1200},
		{EventType: models.EventTrialComplete, Configuration: c, ElapsedNs: 250_000_000},
		{EventType: models.EventConfigComplete, Configuration: c, ElapsedNs: 1_500_000_000},
	}

	t.Run("simple on a terminal", func(t *testing.T) {
		var out bytes.Buffer
		l := simpleProgressListener(&out, true)
		for _, e := range events {
			l(e)
		}
		got := out.String()
		assert.Contains(t, got, "[2/3] Running Parallel (4 threads)\n")
		assert.Contains(t, got, "\rFile: 1/2 | Execution: 3/10 | Progress: (1,003/1,200)")
		assert.Contains(t, got, "\n  P4 total: 1.500s\n")
	})

	t.Run("simple without a terminal", func(t *testing.T) {
		var out bytes.Buffer
		l := simpleProgressListener(&out, false)
		for _, e := range events {
			l(e)
		}
		assert.NotContains(t, out.String(), "\r")
		assert.Contains(t, out.String(), "P4 total: 1.500s")
	})

	t.Run("verbose", func(t *testing.T) {
		var out bytes.Buffer
		l := verboseProgressListener(&out)
		for _, e := range events {
			l(e)
		}
		got := out.String()
		assert.Contains(t, got, "Starting benchmark with 1,200 trial(s)")
		assert.Contains(t, got, "  data/a.jss (1/2) run 3/10... 0.250s\n")
		assert.True(t, strings.HasSuffix(got, "P4 total: 1.500s\n\n"))
	})
}
