package execution

import (
	"context"
	"time"

	"github.com/spboyer/parbench/internal/models"
)

// SimulatedExecutor is an in-process executor for dry runs and tests. It never
// spawns a process: sequential trials take Base and parallel trials take
// Base divided by the thread count.
type SimulatedExecutor struct {
	Base time.Duration

	// FailAt makes the Nth call (1-based) fail with an ExecutionError.
	// Zero disables failure injection.
	FailAt int

	// Record keeps every request for Requests. Off by default so long dry
	// runs do not accumulate the whole matrix.
	Record bool

	calls    int
	requests []TrialRequest
}

// NewSimulatedExecutor creates a simulated executor with the given base duration.
func NewSimulatedExecutor(base time.Duration) *SimulatedExecutor {
	if base <= 0 {
		base = 100 * time.Millisecond
	}
	return &SimulatedExecutor{Base: base}
}

func (s *SimulatedExecutor) Initialize(_ context.Context) error {
	return nil
}

func (s *SimulatedExecutor) Execute(ctx context.Context, req TrialRequest) (time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.calls++
	if s.Record {
		s.requests = append(s.requests, req)
	}

	if s.FailAt > 0 && s.calls == s.FailAt {
		return 0, &models.ExecutionError{
			Configuration: req.Configuration,
			File:          req.File.Path,
			ExitCode:      1,
			Stderr:        "simulated failure",
		}
	}

	if req.Configuration.IsSequential() || req.Configuration.Threads <= 1 {
		return s.Base, nil
	}
	return s.Base / time.Duration(req.Configuration.Threads), nil
}

// Requests returns every request received while Record was set, in call order.
func (s *SimulatedExecutor) Requests() []TrialRequest {
	return append([]TrialRequest(nil), s.requests...)
}
