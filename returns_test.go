package fundfolio

import (
	"math"
	"testing"

	"github.com/etnz/fundfolio/date"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func TestTWR(t *testing.T) {
	tests := []struct {
		name   string
		values *date.History[float64]
		flows  *date.History[float64]
		want   []pt
	}{
		{
			name:   "no flow",
			values: history(t, "2024-01-01", 100, "2024-01-02", 110, "2024-01-03", 99),
			flows:  history(t, "2024-01-01", -100),
			want:   []pt{{"2024-01-01", 0}, {"2024-01-02", 10}, {"2024-01-03", -1}},
		},
		{
			// the 1000 bought on the 3rd is not performance.
			name:   "reset on flow",
			values: history(t, "2024-01-01", 100, "2024-01-02", 110, "2024-01-03", 1110, "2024-01-04", 1221),
			flows:  history(t, "2024-01-01", -100, "2024-01-03", -1000),
			want:   []pt{{"2024-01-01", 0}, {"2024-01-02", 10}, {"2024-01-03", 10}, {"2024-01-04", 21}},
		},
		{
			name:   "single point",
			values: history(t, "2024-01-01", 100),
			flows:  history(t, "2024-01-01", -100),
			want:   nil,
		},
		{
			name:   "value back from zero",
			values: history(t, "2024-01-01", 100, "2024-01-02", 0, "2024-01-03", 50),
			flows:  history(t, "2024-01-01", -100),
			want:   []pt{{"2024-01-01", 0}, {"2024-01-02", -100}, {"2024-01-03", -100}},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := TWR(test.values, test.flows)
			if diff := cmp.Diff(test.want, pts(got), approx); diff != "" {
				t.Errorf("TWR() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTWR_Idempotent(t *testing.T) {
	values := history(t, "2024-01-01", 100, "2024-01-02", 110, "2024-01-03", 1110)
	flows := history(t, "2024-01-01", -100, "2024-01-03", -1000)
	first, second := TWR(values, flows), TWR(values, flows)
	if diff := cmp.Diff(pts(first), pts(second)); diff != "" {
		t.Errorf("TWR() is not idempotent (-first +second):\n%s", diff)
	}
}

func TestWeightedReturn(t *testing.T) {
	values := history(t,
		"2024-01-15", 0,
		"2024-02-10", 1000,
		"2024-02-28", 1100,
		"2024-03-31", 1320,
	)
	cumInv := history(t,
		"2024-01-15", 0,
		"2024-02-10", 1000,
		"2024-03-15", 1200,
	).Fill(date.New(2024, 1, 15), date.New(2024, 3, 31), 0)

	got := WeightedReturn(values, cumInv, date.Monthly)
	// January has no investment: it is left out rather than dividing by zero.
	want := []pt{{"2024-02-29", 10}, {"2024-03-31", 10}}
	if diff := cmp.Diff(want, pts(got), approx); diff != "" {
		t.Errorf("WeightedReturn() mismatch (-want +got):\n%s", diff)
	}
	for _, v := range got.Values() {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			t.Errorf("WeightedReturn() produced %v", v)
		}
	}
}

func TestResampleReturns(t *testing.T) {
	twr := history(t,
		"2024-01-01", 0,
		"2024-01-03", 1.5,
		"2024-01-08", 2,
		"2024-01-09", -1,
	)
	got := ResampleReturns(twr, date.Weekly)
	want := []pt{{"2024-01-07", 1.5}, {"2024-01-14", -1}}
	if diff := cmp.Diff(want, pts(got)); diff != "" {
		t.Errorf("ResampleReturns() mismatch (-want +got):\n%s", diff)
	}
}

func TestCAGR(t *testing.T) {
	got, ok := CAGR(100, 121, 2*365+1)
	if !ok || !near(got, 10, 0.01) {
		t.Errorf("CAGR(100, 121, 2y) = %v, %v, want 10, true", got, ok)
	}
	if _, ok := CAGR(0, 121, 100); ok {
		t.Errorf("CAGR(0, ...) should be undefined")
	}
	if got, ok := Annualize(21, 2*365+1); !ok || !near(got, 10, 0.01) {
		t.Errorf("Annualize(21%%, 2y) = %v, %v, want 10, true", got, ok)
	}
	if _, ok := Annualize(-100, 365); ok {
		t.Errorf("Annualize(-100%%) should be undefined")
	}
}

var approxNaN = cmpopts.EquateNaNs()
