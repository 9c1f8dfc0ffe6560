// Package progress computes key-result progress and assembles check-in
// drafts. It is advisory: the server recomputes and stores the real values.
package progress

import (
	"math"

	"github.com/okrdesk/okrdesk/internal/domain"
)

// ComputeProgress returns the percentage of the way actual has moved from
// start towards target. Every metric type uses the same normalisation.
func ComputeProgress(actual, start, target float64, metric domain.MetricType) float64 {
	span := target - start
	if span == 0 {
		if actual >= target {
			return 100
		}
		return 0
	}
	return (actual - start) / span * 100
}

// ClampEdit decides whether a proposed actual value is accepted.
// Values strictly below currentActual are rejected and currentActual is
// returned unchanged, as are NaN and infinities. Percentage metrics are
// clamped into [start, target].
func ClampEdit(metric domain.MetricType, proposed, currentActual, start, target float64) (float64, bool) {
	if math.IsNaN(proposed) || math.IsInf(proposed, 0) || proposed < currentActual {
		return currentActual, false
	}
	if metric == domain.MetricPercentage {
		lo, hi := start, target
		if lo > hi {
			lo, hi = hi, lo
		}
		proposed = max(lo, min(hi, proposed))
		// Clamping must never move the value backwards.
		if proposed < currentActual {
			return currentActual, false
		}
	}
	return proposed, true
}
