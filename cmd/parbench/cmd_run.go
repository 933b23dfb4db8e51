package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/spboyer/parbench/internal/config"
	"github.com/spboyer/parbench/internal/discovery"
	"github.com/spboyer/parbench/internal/execution"
	"github.com/spboyer/parbench/internal/export"
	"github.com/spboyer/parbench/internal/hooks"
	"github.com/spboyer/parbench/internal/models"
	"github.com/spboyer/parbench/internal/orchestration"
	"github.com/spboyer/parbench/internal/projectconfig"
	"github.com/spboyer/parbench/internal/reporting"
	"github.com/spboyer/parbench/internal/telemetry"
	"github.com/spboyer/parbench/internal/threadspec"
	"github.com/spboyer/parbench/internal/utils"
)

// Executor names accepted by --executor.
const (
	executorProcess  = "process"
	executorSimulate = "simulate"
)

var (
	threadsSpec       string
	repetitions       int
	binaryPath        string
	outputDir         string
	chartPath         string
	noChart           bool
	noDisplay         bool
	jsonPath          string
	junitPath         string
	metricsPath       string
	interpret         bool
	verbose           bool
	executorName      string
	simulatedDuration time.Duration
	noHooks           bool
)

func newRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [patterns...]",
		Short: "Run the benchmark",
		Long: `Run the solver over every input file matched by the given glob patterns
(default: data/*.jss, or paths.data from .parbench.yaml).

Every file is run --num times sequentially, then --num times in parallel mode
for each thread count in --threads. Thread specs accept integers and inclusive
ranges, e.g. "1,2,4" or "2:8" or "1,4:6,16".`,
		RunE: runCommandE,
	}

	cmd.Flags().StringVarP(&threadsSpec, "threads", "t", projectconfig.DefaultThreads, "Thread counts to test, e.g. 1,2,4 or 2:8")
	cmd.Flags().IntVarP(&repetitions, "num", "n", projectconfig.DefaultRepetitions, "Executions per file per configuration")
	cmd.Flags().StringVar(&binaryPath, "bin", projectconfig.DefaultBinary, "Solver executable")
	cmd.Flags().StringVar(&outputDir, "output-dir", projectconfig.DefaultOutputDir, "Directory for solver output files")
	cmd.Flags().StringVar(&chartPath, "chart", projectconfig.DefaultChart, "Chart PNG output path")
	cmd.Flags().BoolVar(&noChart, "no-chart", false, "Skip chart rendering")
	cmd.Flags().BoolVar(&noDisplay, "no-display", false, "Do not open the chart after rendering")
	cmd.Flags().StringVar(&jsonPath, "json", "", "Export results as JSON (a .zst suffix compresses with zstd)")
	cmd.Flags().StringVar(&junitPath, "junit", "", "Export results as JUnit XML")
	cmd.Flags().StringVar(&metricsPath, "metrics-textfile", "", "Export aggregates in Prometheus textfile format")
	cmd.Flags().BoolVar(&interpret, "interpret", false, "Print a plain-language interpretation of the results")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print every trial as it completes")
	cmd.Flags().StringVar(&executorName, "executor", executorProcess, "Trial executor: process or simulate")
	cmd.Flags().BoolVar(&noHooks, "no-hooks", false, "Skip before_run and after_run hooks from .parbench.yaml")
	cmd.Flags().DurationVar(&simulatedDuration, "simulated-duration", 100*time.Millisecond, "Sequential trial duration reported by --executor simulate")

	return cmd
}

// runSettings is the merged view of project config and flags.
type runSettings struct {
	threads     string
	repetitions int
	binary      string
	dataPattern string
	outputDir   string
	chart       string
	verbose     bool
	display     bool
	hooks       hooks.Config
	projectDir  string
}

func resolveRunSettings(cmd *cobra.Command) (runSettings, error) {
	pc, err := projectconfig.Load(".")
	if err != nil {
		return runSettings{}, err
	}

	s := runSettings{
		threads:     pc.Defaults.Threads,
		repetitions: pc.Defaults.Repetitions,
		binary:      pc.Paths.Binary,
		dataPattern: pc.Paths.DataPattern,
		outputDir:   pc.Paths.OutputDir,
		chart:       pc.Paths.Chart,
		verbose:     *pc.Defaults.Verbose,
		display:     *pc.Defaults.Display,
		hooks:       pc.Hooks,
		projectDir:  pc.Dir,
	}

	// CLI flags override project config when set explicitly
	flags := cmd.Flags()
	if flags.Changed("threads") {
		s.threads = threadsSpec
	}
	if flags.Changed("num") {
		s.repetitions = repetitions
	}
	if flags.Changed("bin") {
		s.binary = binaryPath
	}
	if flags.Changed("output-dir") {
		s.outputDir = outputDir
	}
	if flags.Changed("chart") {
		s.chart = chartPath
	}
	if verbose {
		s.verbose = true
	}
	if noDisplay {
		s.display = false
	}
	if noHooks {
		s.hooks = hooks.Config{}
	}
	return s, nil
}

func runCommandE(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	settings, err := resolveRunSettings(cmd)
	if err != nil {
		return err
	}

	threads, err := threadspec.Parse(settings.threads)
	if err != nil {
		return err
	}
	if settings.repetitions <= 0 {
		return &models.ConfigurationError{
			Field:  "number of executions",
			Value:  fmt.Sprintf("%d", settings.repetitions),
			Reason: "must be greater than 0",
		}
	}

	files, err := discovery.Resolve(args,
		discovery.WithDefaultPattern(settings.dataPattern),
		discovery.WithWarningHandler(func(w models.ResolutionWarning) {
			fmt.Fprintln(errOut, discovery.FormatWarning(w))
		}),
	)
	if err != nil {
		return err
	}

	cfg, err := config.New(threads, files,
		config.WithRepetitions(settings.repetitions),
		config.WithBinary(settings.binary),
		config.WithOutputDir(settings.outputDir),
		config.WithVerbose(settings.verbose),
	)
	if err != nil {
		return err
	}

	executor, err := newExecutor(cfg)
	if err != nil {
		return err
	}

	runner := orchestration.NewRunner(cfg, executor)
	runner.OnProgress(utils.ProgressToSlog)
	if cfg.Verbose() {
		runner.OnProgress(verboseProgressListener(out))
	} else {
		runner.OnProgress(simpleProgressListener(out, isTerminal(out)))
	}

	var exporter *telemetry.Exporter
	if metricsPath != "" {
		exporter, err = telemetry.NewExporter()
		if err != nil {
			return err
		}
		runner.OnProgress(exporter.ObserveProgress)
	}

	printBanner(out, runner.Plan(), cfg.Threads(), cfg.Binary())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hookRunner := &hooks.Runner{Out: out, Verbose: cfg.Verbose(), BaseDir: settings.projectDir}
	if err := hookRunner.Run(ctx, hooks.BeforeRun, settings.hooks); err != nil {
		return err
	}

	rs, err := runner.RunBenchmark(ctx)
	if err != nil {
		return err
	}
	stop()

	stats, err := reporting.Summarize(rs.Clone(), len(files), cfg.Repetitions())
	if err != nil {
		return fmt.Errorf("summarizing results: %w", err)
	}

	report := reportOptions{
		chart:     settings.chart,
		noChart:   noChart,
		display:   settings.display,
		interpret: interpret,
		junit:     junitPath,
	}
	var exportErrs []error
	if err := printReport(cmd.Context(), out, errOut, rs, stats, report); err != nil {
		exportErrs = append(exportErrs, err)
	}

	if jsonPath != "" {
		doc := export.NewDocument(rs, stats, cfg.Threads(), cfg.Binary())
		if err := export.Write(jsonPath, doc); err != nil {
			exportErrs = append(exportErrs, err)
		} else {
			fmt.Fprintf(out, "Results saved to: %s\n", jsonPath)
		}
	}
	if exporter != nil {
		exporter.RecordStatistics(stats)
		if err := exporter.WriteTextfile(metricsPath); err != nil {
			exportErrs = append(exportErrs, err)
		} else {
			fmt.Fprintf(out, "Metrics saved to: %s\n", metricsPath)
		}
	}

	if err := hookRunner.Run(cmd.Context(), hooks.AfterRun, settings.hooks); err != nil {
		exportErrs = append(exportErrs, err)
	}

	return errors.Join(exportErrs...)
}

func newExecutor(cfg *config.RunConfig) (execution.Executor, error) {
	switch executorName {
	case executorProcess:
		return execution.NewProcessExecutor(cfg.Binary(), cfg.OutputDir()), nil
	case executorSimulate:
		return execution.NewSimulatedExecutor(simulatedDuration), nil
	default:
		return nil, &models.ConfigurationError{
			Field:  "executor",
			Value:  executorName,
			Reason: fmt.Sprintf("must be %q or %q", executorProcess, executorSimulate),
		}
	}
}

func printBanner(w io.Writer, plan orchestration.Plan, threads models.ThreadConfig, binary string) {
	threadList := threadspec.Format(threads)
	if threadList == "" {
		threadList = "(none, sequential only)"
	}

	fmt.Fprintln(w, "Benchmark Configuration:")
	printer.Fprintf(w, "  Files:          %d\n", len(plan.Files))
	printer.Fprintf(w, "  Executions:     %d per file per configuration\n", plan.Repetitions)
	fmt.Fprintf(w, "  Threads:        %s\n", threadList)
	printer.Fprintf(w, "  Configurations: %d (sequential + %d parallel)\n", len(plan.Configurations), len(plan.Configurations)-1)
	printer.Fprintf(w, "  Total trials:   %d\n", plan.TotalTrials)
	fmt.Fprintf(w, "  Binary:         %s\n", binary)
	fmt.Fprintln(w)
}

// reportOptions selects the outputs produced after a successful run.
type reportOptions struct {
	chart     string
	noChart   bool
	display   bool
	interpret bool
	junit     string
}

// printReport prints the summary table and renders the chart. Chart and
// display problems are printed as notices; only an explicitly requested
// JUnit export can fail the command.
func printReport(ctx context.Context, out, errOut io.Writer, rs *models.ResultSet, stats *reporting.Statistics, opts reportOptions) error {
	styled := isTerminal(out)

	fmt.Fprintln(out)
	fmt.Fprint(out, reporting.FormatSummary(stats, styled))

	if opts.interpret {
		fmt.Fprintln(out)
		fmt.Fprint(out, reporting.FormatInterpretation(stats))
	}
	fmt.Fprintln(out)

	var renderer reporting.Renderer = reporting.NoopRenderer{}
	if !opts.noChart {
		renderer = reporting.NewChartRenderer(opts.chart)
	}

	stopSpinner := func() {}
	if styled && !opts.noChart {
		stopSpinner = startSpinner(out, "Rendering chart...")
	}
	res := renderer.Render(ctx, stats)
	stopSpinner()

	switch {
	case res.Degraded && !opts.noChart:
		fmt.Fprintf(errOut, "Warning: %s\n", res.Notice)
	case !res.Degraded:
		fmt.Fprintln(out, res.Notice)
		if opts.display {
			if shown := reporting.Display(ctx, res.Artifact); shown.Degraded {
				fmt.Fprintln(out, shown.Notice)
			}
		}
	}

	if opts.junit != "" {
		if err := reporting.WriteJUnitXML(rs, stats, opts.junit); err != nil {
			return fmt.Errorf("writing JUnit XML: %w", err)
		}
		fmt.Fprintf(out, "JUnit XML saved to: %s\n", opts.junit)
	}
	return nil
}
