// Package aggregate holds the pure statistics behind every salary view:
// summary metrics, marker positions on the market scale and distribution buckets.
package aggregate

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
)

const (
	// PositionFloor and PositionCeil keep a marker inside the drawn scale bar.
	PositionFloor = 2.0
	PositionCeil  = 98.0
	// PositionFallback is used when the scale has no width (min == max).
	PositionFallback = 50.0
)

// SummaryMetrics is the count/avg/median/min/max record computed from a salary list.
// Derived fields are nil when Count is zero.
type SummaryMetrics struct {
	Count  int      `json:"count"`
	Avg    *float64 `json:"avg,omitempty"`
	Median *float64 `json:"median,omitempty"`
	Min    *float64 `json:"min,omitempty"`
	Max    *float64 `json:"max,omitempty"`
}

// Empty reports whether the metrics were computed from an empty list
func (m SummaryMetrics) Empty() bool {
	return m.Count == 0 || m.Min == nil || m.Max == nil
}

// HasRange reports whether a comparison point can be placed against these metrics
func (m SummaryMetrics) HasRange() bool {
	return !m.Empty() && *m.Min < *m.Max
}

// ComputeSummary computes summary metrics over values without modifying them.
//
// The median is the lower-middle element for even-length lists
// ([10 20 30 40] -> 20), not the mean of the two middle values.
func ComputeSummary(values []float64) SummaryMetrics {
	if len(values) == 0 {
		return SummaryMetrics{}
	}

	data := stats.Float64Data(values)
	avg, _ := stats.Mean(data)
	min, _ := stats.Min(data)
	max, _ := stats.Max(data)
	median := LowerMedian(values)

	// float summation can drift a hair past the bounds on constant lists
	avg = math.Min(math.Max(avg, min), max)

	return SummaryMetrics{
		Count:  len(values),
		Avg:    &avg,
		Median: &median,
		Min:    &min,
		Max:    &max,
	}
}

// LowerMedian returns the middle element of the sorted values, taking the
// lower of the two middle elements when the length is even. Returns 0 for no values.
func LowerMedian(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return sorted[(len(sorted)-1)/2]
}

// ComputePosition maps value linearly onto a 0-100 scale between min and max and
// clamps the result to [PositionFloor, PositionCeil]. A degenerate scale
// (max <= min) or a NaN input yields PositionFallback.
func ComputePosition(value, min, max float64) float64 {
	if max <= min {
		return PositionFallback
	}
	pos := (value - min) / (max - min) * 100
	if math.IsNaN(pos) {
		return PositionFallback
	}
	if pos < PositionFloor {
		return PositionFloor
	}
	if pos > PositionCeil {
		return PositionCeil
	}
	return pos
}

// ScaleTicks are the labels printed under the market comparison scale
type ScaleTicks struct {
	P25    float64 `json:"p25"`
	Median float64 `json:"median"`
	P75    float64 `json:"p75"`
	Max    float64 `json:"max"`
}

// Ticks places the quarter marks linearly between min and max. ok is false for empty metrics.
func Ticks(m SummaryMetrics) (ScaleTicks, bool) {
	if m.Empty() || m.Median == nil {
		return ScaleTicks{}, false
	}
	span := *m.Max - *m.Min
	return ScaleTicks{
		P25:    *m.Min + span*0.25,
		Median: *m.Median,
		P75:    *m.Min + span*0.75,
		Max:    *m.Max,
	}, true
}
