package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/term"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/spboyer/parbench/internal/models"
	"github.com/spboyer/parbench/internal/orchestration"
	"github.com/spboyer/parbench/internal/spinner"
)

// printer formats counts with thousands separators.
var printer = message.NewPrinter(language.English)

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func startSpinner(w io.Writer, msg string) (stop func()) {
	return spinner.Start(w, msg)
}

func formatSeconds(ns int64) string {
	return fmt.Sprintf("%.3fs", time.Duration(ns).Seconds())
}

// simpleProgressListener prints a header per configuration and, on a
// terminal, a progress line rewritten in place before every trial.
func simpleProgressListener(w io.Writer, tty bool) orchestration.ProgressListener {
	return func(event models.ProgressEvent) {
		switch event.EventType {
		case models.EventConfigStart:
			fmt.Fprintf(w, "[%d/%d] Running %s\n", event.ConfigNum, event.TotalConfigs, event.Configuration.Description())
		case models.EventTrialStart:
			if tty {
				printer.Fprintf(w, "\rFile: %d/%d | Execution: %d/%d | Progress: (%d/%d)",
					event.FileNum, event.TotalFiles, event.Repetition, event.Repetitions, event.TrialNum, event.TotalTrials)
			}
		case models.EventConfigComplete:
			if tty {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "  %s total: %s\n", event.Configuration.DisplayName(), formatSeconds(event.ElapsedNs))
		case models.EventBenchmarkStopped:
			if tty {
				fmt.Fprintln(w)
			}
		}
	}
}

func verboseProgressListener(w io.Writer) orchestration.ProgressListener {
	return func(event models.ProgressEvent) {
		switch event.EventType {
		case models.EventBenchmarkStart:
			printer.Fprintf(w, "Starting benchmark with %d trial(s)...\n\n", event.TotalTrials)
		case models.EventConfigStart:
			fmt.Fprintf(w, "[%d/%d] Running %s\n", event.ConfigNum, event.TotalConfigs, event.Configuration.Description())
		case models.EventTrialStart:
			fmt.Fprintf(w, "  %s (%d/%d) run %d/%d...", event.File, event.FileNum, event.TotalFiles, event.Repetition, event.Repetitions)
		case models.EventTrialComplete:
			fmt.Fprintf(w, " %s\n", formatSeconds(event.ElapsedNs))
		case models.EventConfigComplete:
			fmt.Fprintf(w, "  %s total: %s\n\n", event.Configuration.DisplayName(), formatSeconds(event.ElapsedNs))
		case models.EventBenchmarkStopped:
			reason, _ := event.Details["reason"].(string)
			fmt.Fprintf(w, " stopped (%s)\n", reason)
		case models.EventBenchmarkComplete:
			fmt.Fprintf(w, "Benchmark completed in %s\n", formatSeconds(event.ElapsedNs))
		}
	}
}
