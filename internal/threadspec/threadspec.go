// Package threadspec parses thread-count specifications such as "4",
// "2,4,8" or "1:8" into a sorted, deduplicated list of worker counts.
package threadspec

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/spboyer/parbench/internal/models"
)

// MaxThreads bounds a single thread count so a typo like "1:100000" cannot
// schedule an unbounded matrix.
const MaxThreads = 4096

// Parse expands spec into a ThreadConfig. Terms are separated by commas and
// are either an integer or an inclusive start:end range; any mix of terms is
// allowed. An empty spec yields an empty ThreadConfig.
func Parse(spec string) (models.ThreadConfig, error) {
	if strings.TrimSpace(spec) == "" {
		return models.ThreadConfig{}, nil
	}

	seen := make(map[int]struct{})
	for _, raw := range strings.Split(spec, ",") {
		term := strings.TrimSpace(raw)
		values, err := parseTerm(term)
		if err != nil {
			return nil, err
		}
		for _, v := range values {
			seen[v] = struct{}{}
		}
	}

	threads := make(models.ThreadConfig, 0, len(seen))
	for v := range seen {
		threads = append(threads, v)
	}
	slices.Sort(threads)
	return threads, nil
}

// Format renders threads in the comma-separated form accepted by Parse.
func Format(threads models.ThreadConfig) string {
	parts := make([]string, len(threads))
	for i, t := range threads {
		parts[i] = strconv.Itoa(t)
	}
	return strings.Join(parts, ",")
}

func parseTerm(term string) ([]int, error) {
	if term == "" {
		return nil, termError(term, "empty term")
	}

	startStr, endStr, isRange := strings.Cut(term, ":")
	if !isRange {
		v, err := parseCount(term, term)
		if err != nil {
			return nil, err
		}
		return []int{v}, nil
	}

	if strings.Contains(endStr, ":") {
		return nil, termError(term, "range must have the form start:end")
	}
	start, err := parseCount(term, strings.TrimSpace(startStr))
	if err != nil {
		return nil, err
	}
	end, err := parseCount(term, strings.TrimSpace(endStr))
	if err != nil {
		return nil, err
	}
	if start > end {
		return nil, termError(term, fmt.Sprintf("range start %d is greater than end %d", start, end))
	}

	values := make([]int, 0, end-start+1)
	for v := start; v <= end; v++ {
		values = append(values, v)
	}
	return values, nil
}

func parseCount(term, s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, termError(term, fmt.Sprintf("%q is not an integer", s))
	}
	if v < 1 {
		return 0, termError(term, fmt.Sprintf("thread count %d must be at least 1", v))
	}
	if v > MaxThreads {
		return 0, termError(term, fmt.Sprintf("thread count %d exceeds maximum of %d", v, MaxThreads))
	}
	return v, nil
}

func termError(term, reason string) *models.ConfigurationError {
	return &models.ConfigurationError{Field: "thread term", Value: term, Reason: reason}
}
