package fundfolio

import (
	"testing"

	"github.com/etnz/fundfolio/date"
)

func TestLatestQuotes(t *testing.T) {
	rows := map[string][]PriceRow{
		fundA: {
			{Date: date.New(2024, 1, 1), Close: 100},
			{Date: date.New(2024, 1, 2), Close: 102},
			{Date: date.New(2024, 1, 9), Close: 200}, // after today
		},
		fundB: {
			{Date: date.New(2024, 1, 2), Close: 10, ChangePct: "-0,50%"},
		},
	}
	quotes := LatestQuotes(rows, date.New(2024, 1, 3))
	a := quotes[fundA]
	if a.NAV != 102 || a.Date != date.New(2024, 1, 2) || a.DayChange == nil || !near(*a.DayChange, 2, 1e-9) {
		t.Errorf("LatestQuotes(%s) = %+v", fundA, a)
	}
	if b := quotes[fundB]; b.DayChange == nil || *b.DayChange != -0.5 {
		t.Errorf("LatestQuotes(%s) = %+v", fundB, b)
	}
}

func TestOverview(t *testing.T) {
	l := NewLedger(
		buy("2024-01-01", fundA, 10, 100, 0),
		buy("2024-01-01", fundB, 10, 100, 0),
		buy("2024-01-01", "FR0000000000", 1, 1, 0),
		sell("2024-01-02", "FR0000000000", 1, 1, 0),
	)
	up, down := 2.0, -1.0
	quotes := map[string]PriceQuote{
		fundA: {NAV: 150, DayChange: &up},
		fundB: {NAV: 50, DayChange: &down},
	}
	r := Overview(Positions(l), quotes)
	if len(r.Rows) != 2 {
		t.Fatalf("Overview() has %d rows, want 2", len(r.Rows))
	}
	if r.Value != 2000 {
		t.Errorf("Overview() value = %v, want 2000", r.Value)
	}
	// B is first (sorted by key), a quarter of the value.
	if w := r.Rows[0].Weight; w == nil || !w.Equal(25) {
		t.Errorf("weight of %s = %v, want 25%%", fundB, w)
	}
	// (1500×2 + 500×-1) / 2000
	if r.DayChange == nil || !r.DayChange.Equal(1.25) {
		t.Errorf("Overview() day change = %v, want 1.25%%", r.DayChange)
	}
}
