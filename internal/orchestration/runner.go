package orchestration

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/spboyer/parbench/internal/config"
	"github.com/spboyer/parbench/internal/execution"
	"github.com/spboyer/parbench/internal/models"
)

//go:generate go tool mockgen -destination executor_mock_test.go -package orchestration github.com/spboyer/parbench/internal/execution Executor

// Runner drives the benchmark matrix: every configuration, every file, every
// repetition, strictly one trial at a time.
type Runner struct {
	cfg      *config.RunConfig
	executor execution.Executor

	// Progress tracking
	progressMu sync.Mutex
	listeners  []ProgressListener
}

// ProgressListener receives progress updates. Listeners are called between
// trials, never while a trial is being timed.
type ProgressListener func(event models.ProgressEvent)

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithProgressListener registers a listener at construction time.
func WithProgressListener(l ProgressListener) RunnerOption {
	return func(r *Runner) {
		r.listeners = append(r.listeners, l)
	}
}

// NewRunner creates a runner for cfg using executor for every trial.
func NewRunner(cfg *config.RunConfig, executor execution.Executor, opts ...RunnerOption) *Runner {
	r := &Runner{
		cfg:       cfg,
		executor:  executor,
		listeners: []ProgressListener{},
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// OnProgress registers a progress listener
func (r *Runner) OnProgress(listener ProgressListener) {
	r.progressMu.Lock()
	defer r.progressMu.Unlock()
	r.listeners = append(r.listeners, listener)
}

func (r *Runner) notifyProgress(event models.ProgressEvent) {
	r.progressMu.Lock()
	listeners := make([]ProgressListener, len(r.listeners))
	copy(listeners, r.listeners)
	r.progressMu.Unlock()

	for _, listener := range listeners {
		listener(event)
	}
}

// Plan is the fully determined run matrix.
type Plan struct {
	Configurations []models.Configuration
	Files          []models.BenchmarkFile
	OutputStems    map[string]string
	Repetitions    int
	TotalTrials    int
}

// Plan returns the matrix RunBenchmark will execute, in execution order.
func (r *Runner) Plan() Plan {
	return Plan{
		Configurations: r.cfg.Configurations(),
		Files:          r.cfg.Files(),
		OutputStems:    r.cfg.OutputStems(),
		Repetitions:    r.cfg.Repetitions(),
		TotalTrials:    r.cfg.TotalTrials(),
	}
}

// RunBenchmark executes the whole matrix and returns the completed result
// set. The first failed trial stops the run and its error is returned with
// no result set; so does cancellation of ctx, as a *models.InterruptedError.
func (r *Runner) RunBenchmark(ctx context.Context) (*models.ResultSet, error) {
	plan := r.Plan()

	if err := r.executor.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("initializing executor: %w", err)
	}

	startTime := time.Now()
	rs := models.NewResultSet(plan.Files, plan.Repetitions)

	r.notifyProgress(models.ProgressEvent{
		EventType:    models.EventBenchmarkStart,
		TotalConfigs: len(plan.Configurations),
		TotalFiles:   len(plan.Files),
		Repetitions:  plan.Repetitions,
		TotalTrials:  plan.TotalTrials,
	})

	completed := 0
	for ci, c := range plan.Configurations {
		agg := rs.Add(c)

		r.notifyProgress(models.ProgressEvent{
			EventType:     models.EventConfigStart,
			Configuration: c,
			ConfigNum:     ci + 1,
			TotalConfigs:  len(plan.Configurations),
			TotalTrials:   plan.TotalTrials,
		})

		for fi, f := range plan.Files {
			for rep := 0; rep < plan.Repetitions; rep++ {
				event := models.ProgressEvent{
					Configuration: c,
					ConfigNum:     ci + 1,
					TotalConfigs:  len(plan.Configurations),
					File:          f.Path,
					FileNum:       fi + 1,
					TotalFiles:    len(plan.Files),
					Repetition:    rep + 1,
					Repetitions:   plan.Repetitions,
					TrialNum:      completed + 1,
					TotalTrials:   plan.TotalTrials,
				}

				if err := ctx.Err(); err != nil {
					return nil, r.interrupted(event, completed, plan.TotalTrials, err)
				}

				event.EventType = models.EventTrialStart
				r.notifyProgress(event)

				elapsed, err := r.executor.Execute(ctx, execution.TrialRequest{
					Configuration: c,
					File:          f,
					OutputStem:    plan.OutputStems[f.Path],
				})
				if err != nil {
					if ctxErr := ctx.Err(); ctxErr != nil {
						return nil, r.interrupted(event, completed, plan.TotalTrials, ctxErr)
					}
					if errors.Is(err, execution.ErrInterrupted) {
						return nil, r.interrupted(event, completed, plan.TotalTrials, err)
					}
					event.EventType = models.EventBenchmarkStopped
					event.Details = map[string]any{"reason": "trial failed", "error": err.Error()}
					r.notifyProgress(event)
					return nil, err
				}

				rs.Record(models.Trial{Configuration: c, File: f, Repetition: rep + 1, Elapsed: elapsed})
				completed++

				event.EventType = models.EventTrialComplete
				event.ElapsedNs = elapsed.Nanoseconds()
				r.notifyProgress(event)
			}
		}

		r.notifyProgress(models.ProgressEvent{
			EventType:     models.EventConfigComplete,
			Configuration: c,
			ConfigNum:     ci + 1,
			TotalConfigs:  len(plan.Configurations),
			TrialNum:      completed,
			TotalTrials:   plan.TotalTrials,
			ElapsedNs:     agg.Total.Nanoseconds(),
		})
	}

	if err := rs.Validate(); err != nil {
		return nil, fmt.Errorf("incomplete result set: %w", err)
	}

	r.notifyProgress(models.ProgressEvent{
		EventType:    models.EventBenchmarkComplete,
		TotalConfigs: len(plan.Configurations),
		TrialNum:     completed,
		TotalTrials:  plan.TotalTrials,
		ElapsedNs:    time.Since(startTime).Nanoseconds(),
	})

	return rs, nil
}

func (r *Runner) interrupted(event models.ProgressEvent, completed, total int, cause error) error {
	event.EventType = models.EventBenchmarkStopped
	event.Details = map[string]any{"reason": "interrupted"}
	r.notifyProgress(event)
	return &models.InterruptedError{Completed: completed, Total: total, Cause: cause}
}
