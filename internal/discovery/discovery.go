// Package discovery turns file-path patterns into the validated, sorted list
// of benchmark instances a run iterates over.
package discovery

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/spboyer/parbench/internal/models"
)

// DefaultPattern selects every instance in the conventional data directory.
const DefaultPattern = "data/*" + models.ExtJSS

// Warning reasons reported for skipped patterns and candidates.
const (
	ReasonNoMatches      = "no files found matching pattern"
	ReasonBadPattern     = "invalid pattern"
	ReasonNotRegularFile = "file not found"
	ReasonBadExtension   = "skipping file with unsupported extension"
)

// WarningHandler receives every non-fatal resolution problem.
type WarningHandler func(models.ResolutionWarning)

// Option configures a resolution.
type Option func(*resolver)

type resolver struct {
	defaultPattern string
	onWarning      WarningHandler
}

// WithDefaultPattern replaces DefaultPattern when no patterns are given.
func WithDefaultPattern(pattern string) Option {
	return func(r *resolver) {
		if pattern != "" {
			r.defaultPattern = pattern
		}
	}
}

// WithWarningHandler routes warnings to h instead of the default logger.
func WithWarningHandler(h WarningHandler) Option {
	return func(r *resolver) {
		r.onWarning = h
	}
}

func logWarning(w models.ResolutionWarning) {
	attrs := []any{"reason", w.Reason, "pattern", w.Pattern}
	if w.Path != "" {
		attrs = append(attrs, "path", w.Path)
	}
	slog.Warn("skipping benchmark input", attrs...)
}

// Resolve expands patterns into benchmark files. Patterns that match nothing
// and candidates that are not regular files or lack an accepted extension are
// reported as warnings and skipped. A *models.ResolutionError is returned
// when no valid file remains.
func Resolve(patterns []string, opts ...Option) ([]models.BenchmarkFile, error) {
	files, _, err := ResolveWithWarnings(patterns, opts...)
	return files, err
}

// ResolveWithWarnings is Resolve but also returns the warnings it emitted.
func ResolveWithWarnings(patterns []string, opts ...Option) ([]models.BenchmarkFile, []models.ResolutionWarning, error) {
	r := &resolver{
		defaultPattern: DefaultPattern,
		onWarning:      logWarning,
	}
	for _, o := range opts {
		o(r)
	}

	if len(patterns) == 0 {
		slog.Info("no files specified, using default pattern", "pattern", r.defaultPattern)
		patterns = []string{r.defaultPattern}
	}

	var warnings []models.ResolutionWarning
	warn := func(w models.ResolutionWarning) {
		warnings = append(warnings, w)
		if r.onWarning != nil {
			r.onWarning(w)
		}
	}

	seen := make(map[string]struct{})
	var paths []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			warn(models.ResolutionWarning{Pattern: pattern, Reason: ReasonBadPattern})
			continue
		}
		if len(matches) == 0 {
			warn(models.ResolutionWarning{Pattern: pattern, Reason: ReasonNoMatches})
			continue
		}

		for _, path := range matches {
			if !isRegularFile(path) {
				warn(models.ResolutionWarning{Pattern: pattern, Path: path, Reason: ReasonNotRegularFile})
				continue
			}
			if !models.HasAcceptedExtension(path) {
				warn(models.ResolutionWarning{Pattern: pattern, Path: path, Reason: ReasonBadExtension})
				continue
			}
			if _, dup := seen[path]; dup {
				continue
			}
			seen[path] = struct{}{}
			paths = append(paths, path)
		}
	}

	if len(paths) == 0 {
		return nil, warnings, &models.ResolutionError{Patterns: patterns}
	}

	slices.Sort(paths)
	files := make([]models.BenchmarkFile, len(paths))
	for i, p := range paths {
		files[i] = models.BenchmarkFile{Path: p}
	}
	return files, warnings, nil
}

// isRegularFile follows symlinks and reports whether path is a regular file.
func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// FormatWarning renders w the way it is printed on stderr.
func FormatWarning(w models.ResolutionWarning) string {
	return fmt.Sprintf("Warning: %s", w)
}
