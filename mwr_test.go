package fundfolio

import (
	"math"
	"testing"

	"github.com/etnz/fundfolio/date"
)

func TestXIRR(t *testing.T) {
	tests := []struct {
		name   string
		flows  []Flow
		want   float64
		wantOk bool
	}{
		{
			name: "one year 10%",
			flows: []Flow{
				{date.New(2023, 1, 1), -1000},
				{date.New(2024, 1, 1), 1100},
			},
			want:   0.1,
			wantOk: true,
		},
		{
			name: "loss",
			flows: []Flow{
				{date.New(2022, 1, 1), -1000},
				{date.New(2023, 1, 1), -1000},
				{date.New(2024, 1, 1), 1500},
			},
			want:   -0.1772,
			wantOk: true,
		},
		{
			name:  "only outflows",
			flows: []Flow{{date.New(2023, 1, 1), -1000}, {date.New(2024, 1, 1), -10}},
		},
		{
			name:  "same day",
			flows: []Flow{{date.New(2023, 1, 1), -1000}, {date.New(2023, 1, 1), 1000}},
		},
		{
			name:  "single flow",
			flows: []Flow{{date.New(2023, 1, 1), -1000}},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, ok := XIRR(test.flows)
			if ok != test.wantOk {
				t.Fatalf("XIRR() ok = %v, want %v", ok, test.wantOk)
			}
			if ok && !near(got, test.want, 1e-3) {
				t.Errorf("XIRR() = %v, want %v", got, test.want)
			}
		})
	}
}

// A single investment of 1000 worth 1100 a year later is a 10% money-weighted return.
func TestMWR_Sanity(t *testing.T) {
	values := new(date.History[float64])
	values.Append(date.New(2023, 1, 1), 1000)
	values.Append(date.New(2024, 1, 1), 1100)
	values = values.Fill(date.New(2023, 1, 1), date.New(2024, 1, 1), 0)
	flows := history(t, "2023-01-01", -1000)

	got, ok := MWR(values, flows, date.New(2024, 1, 1))
	if !ok || !near(got, 10, 0.01) {
		t.Errorf("MWR() = %v, %v, want 10%%, true", got, ok)
	}
}

func TestMWRSeries(t *testing.T) {
	values := history(t,
		"2023-01-01", 1000,
		"2023-07-01", 1050,
		"2024-01-01", 1100,
	)
	flows := history(t, "2023-01-01", -1000)
	got := MWRSeries(values, flows)

	if got.Len() != 3 {
		t.Fatalf("MWRSeries() has %d points, want 3", got.Len())
	}
	// nothing can be measured on the day of the first flow, and it is not
	// solved again before the last valuation.
	for _, day := range []date.Date{date.New(2023, 1, 1), date.New(2023, 7, 1)} {
		if v, _ := got.Get(day); !math.IsNaN(v) {
			t.Errorf("MWRSeries()[%v] = %v, want undefined", day, v)
		}
	}
	if v, _ := got.Get(date.New(2024, 1, 1)); !near(v, 10, 0.01) {
		t.Errorf("MWRSeries()[last] = %v, want 10", v)
	}
}

func TestMWRPeriodic(t *testing.T) {
	values := history(t,
		"2022-12-15", 1000,
		"2023-01-01", 1000,
		"2024-01-01", 1100,
	)
	flows := history(t, "2023-01-01", -1000)
	got := MWRPeriodic(values, flows, date.Yearly)

	// 2022 closes before the first flow.
	if got.Len() != 2 {
		t.Fatalf("MWRPeriodic() has %d points, want 2", got.Len())
	}
	if v, _ := got.Get(date.New(2023, 12, 31)); !math.IsNaN(v) {
		t.Errorf("MWRPeriodic()[2023] = %v, want undefined", v)
	}
	if v, _ := got.Get(date.New(2024, 12, 31)); !near(v, 10, 0.01) {
		t.Errorf("MWRPeriodic()[2024] = %v, want 10", v)
	}
}
