// Package stats contains keystroke timing statistics and reporting.
package stats

import (
	"errors"
	"math"

	"github.com/verte-zerg/pwtrain/internal/model"
)

// ErrEmpty is returned when a statistic is requested over no samples.
var ErrEmpty = errors.New("no samples")

// Mean returns the arithmetic mean of values.
func Mean(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, ErrEmpty
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values)), nil
}

// Std returns the population standard deviation of values.
func Std(values []float64) (float64, error) {
	m, err := Mean(values)
	if err != nil {
		return 0, err
	}
	var total float64
	for _, v := range values {
		total += (v - m) * (v - m)
	}
	return math.Sqrt(total / float64(len(values))), nil
}

// Aggregate computes per-position statistics over a history of delta lists.
// A position only counts the attempts long enough to reach it.
func Aggregate(history [][]float64) []model.PositionStat {
	width := 0
	for _, deltas := range history {
		if len(deltas) > width {
			width = len(deltas)
		}
	}
	out := make([]model.PositionStat, 0, width)
	column := make([]float64, 0, len(history))
	for pos := 0; pos < width; pos++ {
		column = column[:0]
		for _, deltas := range history {
			if pos < len(deltas) {
				column = append(column, deltas[pos])
			}
		}
		out = append(out, positionStat(column))
	}
	return out
}

// positionStat expects a non-empty column; Aggregate only builds columns for
// positions some attempt reaches.
func positionStat(column []float64) model.PositionStat {
	m, _ := Mean(column)
	s, _ := Std(column)
	minVal, maxVal := column[0], column[0]
	for _, v := range column[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	return model.PositionStat{Mean: m, Min: minVal, Max: maxVal, Std: s}
}

// IsConverged reports whether recent typing is fast and steady enough to stop
// training. It needs at least window attempts; it then averages the mean and
// std of the last window positions of the aggregate (all of them when the
// password is shorter than the window).
func IsConverged(history [][]float64, meanLimit, stdLimit float64, window int) bool {
	if window <= 0 || len(history) < window {
		return false
	}
	agg := Aggregate(history)
	if len(agg) == 0 {
		return false
	}
	tail := agg
	if len(agg) > window {
		tail = agg[len(agg)-window:]
	}
	var meanSum, stdSum float64
	for _, ps := range tail {
		meanSum += ps.Mean
		stdSum += ps.Std
	}
	n := float64(len(tail))
	return stdSum/n < stdLimit && meanSum/n < meanLimit
}
