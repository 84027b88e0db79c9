package fundfolio

import (
	"testing"

	"github.com/etnz/fundfolio/date"
)

// threeYears is a price worth 100 from 2021 to the end of 2023, then 133.1.
func threeYears(t *testing.T) *date.History[float64] {
	t.Helper()
	return history(t, "2021-01-01", 100, "2024-01-01", 133.1).
		Fill(date.New(2021, 1, 1), date.New(2024, 1, 1), 0)
}

func TestHorizonReturn(t *testing.T) {
	series := threeYears(t)
	today := date.New(2024, 1, 1)
	tests := []struct {
		h      Horizon
		want   float64
		wantOk bool
	}{
		{Horizon7D, 33.1, true},
		{Horizon30D, 33.1, true},
		{HorizonYTD, 33.1, true},
		{Horizon1Y, 33.1, true},
		{Horizon3Y, 10, true},
		{Horizon5Y, 0, false},
		{Horizon10Y, 0, false},
		{HorizonSinceInception, 10, true},
	}
	for _, test := range tests {
		got, ok := HorizonReturn(series, test.h, today)
		if ok != test.wantOk {
			t.Errorf("HorizonReturn(%s) ok = %v, want %v", test.h, ok, test.wantOk)
			continue
		}
		if ok && !near(got, test.want, 0.05) {
			t.Errorf("HorizonReturn(%s) = %v, want %v", test.h, got, test.want)
		}
	}
}

func TestHorizonReturn_Undefined(t *testing.T) {
	today := date.New(2024, 1, 1)
	short := history(t, "2023-12-29", 100, "2024-01-01", 110)
	if _, ok := HorizonReturn(short, Horizon7D, today); ok {
		t.Errorf("HorizonReturn(7D) on 3 days of history should be undefined")
	}
	if _, ok := HorizonReturn(short, HorizonSinceInception, today); ok {
		t.Errorf("HorizonReturn(SinceInception) under 2 years should be undefined")
	}
	if _, ok := HorizonReturn(new(date.History[float64]), Horizon1Y, today); ok {
		t.Errorf("HorizonReturn() on empty series should be undefined")
	}
	zero := history(t, "2023-01-01", 0, "2024-01-01", 10)
	if _, ok := HorizonReturn(zero, Horizon1Y, today); ok {
		t.Errorf("HorizonReturn() from a zero base should be undefined")
	}
}

// A 10 year return over 3 years of history is undefined, not extrapolated.
func TestRollingReturns_TenYears(t *testing.T) {
	l := NewLedger(buy("2021-01-01", fundA, 10, 100, 0))
	today := date.New(2024, 1, 1)
	navs := NavSeries{fundA: threeYears(t)}
	hs := Holdings(l, today)
	values := Value(hs, navs)
	flows := CashFlows(l)
	twr := TWR(values, flows)
	cumInv := CumulativeInvestment(InvestmentFlows(l), l.First(), today)
	weighted := WeightedReturn(values, cumInv, date.Monthly)

	rows := RollingReturns(l, hs, navs, twr, weighted, today)
	if len(rows) != 2 {
		t.Fatalf("RollingReturns() has %d rows, want 2", len(rows))
	}
	if rows[0].Name != "Total" || rows[1].ISIN != fundA {
		t.Errorf("RollingReturns() rows = %q %q, want Total then %s", rows[0].Name, rows[1].ISIN, fundA)
	}
	for _, row := range rows {
		if p := row.Get(Horizon10Y); p != nil {
			t.Errorf("%s: 10Y = %v, want undefined", row.Name, *p)
		}
		if p := row.Get(Horizon3Y); p == nil || !near(float64(*p), 10, 0.05) {
			t.Errorf("%s: 3Y = %v, want 10%%", row.Name, p)
		}
	}
	if p := rows[0].Get(HorizonSinceInception); p == nil || !near(float64(*p), 10, 0.1) {
		t.Errorf("Total SinceInception = %v, want about 10%%", p)
	}
}
