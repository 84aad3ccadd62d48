package stats

import (
	"errors"
	"math"
	"testing"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestMeanAndStd(t *testing.T) {
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	m, err := Mean(values)
	if err != nil {
		t.Fatalf("mean: %v", err)
	}
	if !approx(m, 5) {
		t.Fatalf("expected mean 5, got %f", m)
	}
	s, err := Std(values)
	if err != nil {
		t.Fatalf("std: %v", err)
	}
	if !approx(s, 2) {
		t.Fatalf("expected std 2, got %f", s)
	}
}

func TestMeanStdSingleSample(t *testing.T) {
	m, err := Mean([]float64{0.3})
	if err != nil || !approx(m, 0.3) {
		t.Fatalf("expected mean 0.3, got %f (%v)", m, err)
	}
	s, err := Std([]float64{0.3})
	if err != nil || s != 0 {
		t.Fatalf("expected std 0, got %f (%v)", s, err)
	}
}

func TestMeanStdEmpty(t *testing.T) {
	if _, err := Mean(nil); !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty from Mean, got %v", err)
	}
	if _, err := Std([]float64{}); !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty from Std, got %v", err)
	}
}

func TestAggregateEmpty(t *testing.T) {
	if got := Aggregate(nil); len(got) != 0 {
		t.Fatalf("expected no rows, got %d", len(got))
	}
	if got := Aggregate([][]float64{{}, {}}); len(got) != 0 {
		t.Fatalf("expected no rows for empty attempts, got %d", len(got))
	}
}

func TestAggregatePerPosition(t *testing.T) {
	history := [][]float64{
		{0.1, 0.4},
		{0.3, 0.2},
	}
	got := Aggregate(history)
	if len(got) != 2 {
		t.Fatalf("expected 2 positions, got %d", len(got))
	}
	if !approx(got[0].Mean, 0.2) || !approx(got[0].Min, 0.1) || !approx(got[0].Max, 0.3) || !approx(got[0].Std, 0.1) {
		t.Fatalf("unexpected position 0: %+v", got[0])
	}
	if !approx(got[1].Mean, 0.3) || !approx(got[1].Min, 0.2) || !approx(got[1].Max, 0.4) || !approx(got[1].Std, 0.1) {
		t.Fatalf("unexpected position 1: %+v", got[1])
	}
}

func TestAggregateRaggedHistory(t *testing.T) {
	history := [][]float64{
		{0.2, 0.4, 0.6},
		{0.4},
	}
	got := Aggregate(history)
	if len(got) != 3 {
		t.Fatalf("expected 3 positions, got %d", len(got))
	}
	if !approx(got[0].Mean, 0.3) {
		t.Fatalf("expected first position over both attempts, got %+v", got[0])
	}
	if !approx(got[2].Mean, 0.6) || got[2].Std != 0 {
		t.Fatalf("expected last position from the longer attempt only, got %+v", got[2])
	}
}

func TestIsConvergedNeedsWindowAttempts(t *testing.T) {
	history := [][]float64{{0.01, 0.01}, {0.01, 0.01}}
	if IsConverged(history, 100, 100, 3) {
		t.Fatalf("expected false with fewer attempts than the window")
	}
	if IsConverged(nil, 100, 100, 1) {
		t.Fatalf("expected false for empty history")
	}
	if IsConverged(history, 100, 100, 0) {
		t.Fatalf("expected false for a zero window")
	}
}

func TestIsConvergedThresholds(t *testing.T) {
	history := [][]float64{
		{0.2, 0.3, 0.2},
		{0.2, 0.3, 0.2},
		{0.2, 0.3, 0.2},
	}
	if !IsConverged(history, 0.4, 0.1, 3) {
		t.Fatalf("expected steady fast typing to converge")
	}
	if IsConverged(history, 0.2, 0.1, 3) {
		t.Fatalf("expected mean above limit to fail")
	}
	if IsConverged(history, 0.4, 0, 3) {
		t.Fatalf("expected std limit of zero to fail")
	}
}

// The window selects trailing positions of the aggregate, not attempts.
func TestIsConvergedWindowCountsPositions(t *testing.T) {
	history := [][]float64{
		{2.0, 2.0, 0.1, 0.1},
		{2.0, 2.0, 0.1, 0.1},
	}
	if !IsConverged(history, 0.5, 0.5, 2) {
		t.Fatalf("expected only the last two positions to be considered")
	}
	if !IsConverged(history, 0.5, 0.5, 1) {
		t.Fatalf("expected last position alone to converge")
	}
}

func TestIsConvergedShortPasswordUsesAllPositions(t *testing.T) {
	history := [][]float64{{0.1, 0.3}, {0.1, 0.3}, {0.1, 0.3}}
	if !IsConverged(history, 0.25, 0.1, 3) {
		t.Fatalf("expected average over both positions (0.2) to pass")
	}
	if IsConverged(history, 0.15, 0.1, 3) {
		t.Fatalf("expected average over both positions to fail a 0.15 limit")
	}
}

func TestIsConvergedMonotonicInLimits(t *testing.T) {
	history := [][]float64{
		{0.31, 0.52, 0.18, 0.44},
		{0.28, 0.61, 0.22, 0.39},
		{0.35, 0.47, 0.19, 0.41},
	}
	limits := []float64{0.01, 0.05, 0.1, 0.2, 0.3, 0.4, 0.5, 1}
	for i, meanLim := range limits {
		for j, stdLim := range limits {
			if !IsConverged(history, meanLim, stdLim, 3) {
				continue
			}
			for _, looserMean := range limits[i:] {
				for _, looserStd := range limits[j:] {
					if !IsConverged(history, looserMean, looserStd, 3) {
						t.Fatalf("loosening limits (%.2f,%.2f)->(%.2f,%.2f) flipped result", meanLim, stdLim, looserMean, looserStd)
					}
				}
			}
		}
	}
}
