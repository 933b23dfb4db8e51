package utils

import (
	"context"
	"log/slog"
	"time"

	"github.com/spboyer/parbench/internal/models"
)

// ProgressToSlog logs a progress event at debug level. It is registered as a
// progress listener when --debug is set.
func ProgressToSlog(event models.ProgressEvent) {
	if !slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		return
	}

	attrs := []any{
		"type", event.EventType,
	}

	if event.Configuration.Mode != "" {
		attrs = append(attrs, "config", event.Configuration.Label())
	}
	attrs = addIf(attrs, "configNum", event.ConfigNum)
	attrs = addIf(attrs, "file", event.File)
	attrs = addIf(attrs, "fileNum", event.FileNum)
	attrs = addIf(attrs, "repetition", event.Repetition)
	attrs = addIf(attrs, "trial", event.TrialNum)
	attrs = addIf(attrs, "totalTrials", event.TotalTrials)
	if event.ElapsedNs > 0 {
		attrs = append(attrs, "elapsed", time.Duration(event.ElapsedNs))
	}
	for k, v := range event.Details {
		attrs = append(attrs, k, v)
	}

	slog.Debug("Progress", attrs...)
}

func addIf[T comparable](attrs []any, name string, v T) []any {
	var zero T
	if v != zero {
		attrs = append(attrs, name, v)
	}

	return attrs
}
