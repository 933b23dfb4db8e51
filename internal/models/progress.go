package models

// EventType represents the type of progress event.
type EventType string

// EventType constants
const (
	EventBenchmarkStart    EventType = "benchmark_start"
	EventBenchmarkComplete EventType = "benchmark_complete"
	EventBenchmarkStopped  EventType = "benchmark_stopped"
	EventConfigStart       EventType = "config_start"
	EventConfigComplete    EventType = "config_complete"
	EventTrialStart        EventType = "trial_start"
	EventTrialComplete     EventType = "trial_complete"
)

// ProgressEvent is emitted by the orchestrator between trials. Indices are
// 1-based so they can be printed directly.
type ProgressEvent struct {
	EventType     EventType
	Configuration Configuration
	ConfigNum     int
	TotalConfigs  int
	File          string
	FileNum       int
	TotalFiles    int
	Repetition    int
	Repetitions   int
	TrialNum      int
	TotalTrials   int
	ElapsedNs     int64
	Details       map[string]any
}
