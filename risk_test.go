package fundfolio

import (
	"math"
	"testing"

	"github.com/etnz/fundfolio/date"
	"github.com/google/go-cmp/cmp"
)

func TestPeriodReturns(t *testing.T) {
	twr := history(t,
		"2024-01-01", 0,
		"2024-01-31", 10,
		"2024-02-29", -1,
		"2024-03-31", 9.89,
	)
	got := PeriodReturns(twr, date.Monthly)
	want := []float64{0.1, -0.1, 0.11}
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("PeriodReturns() mismatch (-want +got):\n%s", diff)
	}
}

func TestMaxDrawdown(t *testing.T) {
	twr := history(t,
		"2024-01-01", 0,
		"2024-01-02", 20,
		"2024-01-03", -4,
		"2024-01-04", 30,
	)
	if got := MaxDrawdown(twr); !near(got, -0.2, 1e-9) {
		t.Errorf("MaxDrawdown() = %v, want -0.2", got)
	}
}

func TestRisk(t *testing.T) {
	twr := history(t,
		"2024-01-01", 0,
		"2024-01-31", 10,
		"2024-02-29", -1,
		"2024-03-31", 9.89,
	)
	r := Risk(twr, date.Monthly)
	if r.Periods != 3 {
		t.Errorf("Periods = %d, want 3", r.Periods)
	}
	if r.Best == nil || !near(float64(*r.Best), 11, 1e-6) {
		t.Errorf("Best = %v, want 11%%", r.Best)
	}
	if r.Worst == nil || !near(float64(*r.Worst), -10, 1e-6) {
		t.Errorf("Worst = %v, want -10%%", r.Worst)
	}
	if r.Median == nil || !near(float64(*r.Median), 10, 1e-6) {
		t.Errorf("Median = %v, want 10%%", r.Median)
	}
	// sample standard deviation of 10%, -10%, 11%, annualized over 12 months.
	mean := (0.1 - 0.1 + 0.11) / 3
	variance := (math.Pow(0.1-mean, 2) + math.Pow(-0.1-mean, 2) + math.Pow(0.11-mean, 2)) / 2
	want := math.Sqrt(variance) * math.Sqrt(12) * 100
	if r.Volatility == nil || !near(float64(*r.Volatility), want, 1e-6) {
		t.Errorf("Volatility = %v, want %v", r.Volatility, want)
	}
	if r.MaxDrawdown == nil || !near(float64(*r.MaxDrawdown), -10, 1e-6) {
		t.Errorf("MaxDrawdown = %v, want -10%%", r.MaxDrawdown)
	}

	if r := Risk(history(t, "2024-01-01", 0), date.Monthly); r.Volatility != nil {
		t.Errorf("Risk() on one point should be undefined")
	}
}
