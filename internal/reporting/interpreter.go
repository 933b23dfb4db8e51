package reporting

import (
	"fmt"
	"strings"
)

// InterpretSpeedup returns a plain-language label for a speedup factor.
func InterpretSpeedup(speedup float64) string {
	switch {
	case speedup <= 0:
		return "no measurable time"
	case speedup < 0.95:
		return "slower than sequential"
	case speedup < 1.05:
		return "about the same as sequential"
	case speedup < 2:
		return "modest gain"
	default:
		return "strong gain"
	}
}

// InterpretEfficiency explains how well a configuration uses its threads.
func InterpretEfficiency(eff float64) string {
	pct := eff * 100
	switch {
	case pct >= 90:
		return fmt.Sprintf("Near-linear scaling (%.0f%%)", pct)
	case pct >= 60:
		return fmt.Sprintf("Good scaling (%.0f%%)", pct)
	case pct >= 30:
		return fmt.Sprintf("Diminishing returns (%.0f%%)", pct)
	default:
		return fmt.Sprintf("Poor scaling (%.0f%%)", pct)
	}
}

// FormatInterpretation produces a plain-language reading of the statistics.
func FormatInterpretation(stats *Statistics) string {
	var b strings.Builder

	b.WriteString("=== Interpretation ===\n\n")

	if fastest, ok := stats.Fastest(); ok {
		fmt.Fprintf(&b, "Fastest configuration: %s (%.3fs total)\n", fastest.Name, fastest.TotalSeconds)
	}
	best, ok := stats.BestSpeedup()
	if !ok {
		b.WriteString("Only the sequential baseline was run; no speedup to report.\n")
		return b.String()
	}
	fmt.Fprintf(&b, "Best speedup:          %s at %.2fx, %s\n", best.Name, best.Speedup, InterpretSpeedup(best.Speedup))

	b.WriteString("\nParallel efficiency:\n")
	for _, cs := range stats.Configs {
		if cs.Configuration.IsSequential() {
			continue
		}
		fmt.Fprintf(&b, "  %s: %.2fx on %d threads, %s\n",
			cs.Name, cs.Speedup, cs.Configuration.Threads, InterpretEfficiency(cs.Efficiency()))
	}
	if best.Configuration.Threads > stats.Processors && stats.Processors > 0 {
		fmt.Fprintf(&b, "\nNote: %s uses more threads than the %d available processors.\n", best.Name, stats.Processors)
	}
	return b.String()
}
