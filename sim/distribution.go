// Weighted-draw helpers for cook time, cure time, and oven-clean duration.
// All samplers are pure functions of the configured weight tables and the
// supplied RNG stream; malformed tables degrade to uniform behavior rather
// than erroring (see Config.normalize for length repairs).

package sim

import "math/rand"

// fallbackCookTime is used when a cook-time table is empty.
const fallbackCookTime = 10.0

// weightedIndex draws an index from weights proportionally to their values.
// Returns -1 when the weights sum to zero or less, signalling the caller to
// fall back to a uniform draw.
func weightedIndex(rng *rand.Rand, weights []float64) int {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return -1
	}
	r := rng.Float64() * total
	cumulative := 0.0
	for i, w := range weights {
		cumulative += w
		if r <= cumulative {
			return i
		}
	}
	return len(weights) - 1
}

// sampleCookTime draws a cook time from the weighted table.
// Zero-sum weights degrade to a uniform choice over the times.
func sampleCookTime(rng *rand.Rand, times, weights []float64) float64 {
	if len(times) == 0 {
		return fallbackCookTime
	}
	i := weightedIndex(rng, weights)
	if i < 0 {
		return times[rng.Intn(len(times))]
	}
	return times[i]
}

// sampleCureTime draws a WB cure time from per-hour buckets in [min, max].
// The chosen bucket gets uniform jitter inside its hour, so a nominal
// [24,36] table can produce values up to just under 37.
// Zero-sum weights degrade to a uniform draw over [min, max].
func sampleCureTime(rng *rand.Rand, min, max float64, weights []float64) float64 {
	i := weightedIndex(rng, weights)
	if i < 0 {
		return min + rng.Float64()*(max-min)
	}
	return min + float64(i) + rng.Float64()
}

// sampleOvenCleanTime draws an oven-clean duration from per-hour buckets in
// [min, max]. A degenerate range (min >= max) is a fixed duration.
func sampleOvenCleanTime(rng *rand.Rand, min, max float64, weights []float64) float64 {
	if min >= max {
		return min
	}
	i := weightedIndex(rng, weights)
	if i < 0 {
		return min + rng.Float64()*(max-min)
	}
	return min + float64(i) + rng.Float64()
}
