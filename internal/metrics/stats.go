package metrics

import "time"

// NanosPerSecond converts recorded nanosecond durations to seconds.
const NanosPerSecond = 1_000_000_000

// SumDurations adds a sequence of durations.
func SumDurations(ds []time.Duration) time.Duration {
	var total time.Duration
	for _, d := range ds {
		total += d
	}
	return total
}

// MeanDuration returns the mean of ds, or 0 for empty input.
func MeanDuration(ds []time.Duration) time.Duration {
	if len(ds) == 0 {
		return 0
	}
	return SumDurations(ds) / time.Duration(len(ds))
}

// Seconds converts d to floating-point seconds.
func Seconds(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / NanosPerSecond
}

// Ratio divides num by den, returning 0 when den is zero.
func Ratio(num, den time.Duration) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

// Max returns the largest value, or 0 for empty input.
func Max(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
