// Package safeconv provides overflow-safe conversions between the integer
// widths used for shapes, element counts and timing counters.
package safeconv

import (
	"math"
	"time"

	"golang.org/x/exp/constraints"
)

// Clamp limits v to the inclusive range [lo, hi].
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Int64ToInt converts an element count to int with clamping to [0, MaxInt].
func Int64ToInt(v int64) int {
	if v < 0 {
		return 0
	}
	if v > math.MaxInt {
		return math.MaxInt
	}
	return int(v)
}

// IntSliceToInt64Slice converts dimension sizes to int64 with negative values
// clamped to 0.
func IntSliceToInt64Slice(input []int) []int64 {
	out := make([]int64, len(input))
	for i, v := range input {
		if v < 0 {
			out[i] = 0
		} else {
			out[i] = int64(v)
		}
	}
	return out
}

// DurationToU64 converts a duration to an unsigned nanoseconds counter safely.
// Negative durations are mapped to 0.
func DurationToU64(d time.Duration) uint64 {
	if d <= 0 {
		return 0
	}
	// Conversion from time.Duration (int64) to uint64 is safe here because negatives are handled above.
	return uint64(d) // #nosec G115
}

// U64ToDuration converts an unsigned nanoseconds count to time.Duration safely.
// Values larger than MaxInt64 are clamped to time.Duration(math.MaxInt64).
func U64ToDuration(u uint64) time.Duration {
	if u > math.MaxInt64 {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(int64(u))
}
