package fundfolio

import (
	"github.com/etnz/fundfolio/date"
)

// Horizon is a lookback window of the rolling returns table.
type Horizon string

// Horizons of the rolling returns table, in display order.
const (
	Horizon7D             Horizon = "7D"
	Horizon30D            Horizon = "30D"
	Horizon90D            Horizon = "90D"
	Horizon180D           Horizon = "180D"
	HorizonYTD            Horizon = "YTD"
	Horizon1Y             Horizon = "1Y"
	Horizon3Y             Horizon = "3Y"
	Horizon5Y             Horizon = "5Y"
	Horizon10Y            Horizon = "10Y"
	HorizonSinceInception Horizon = "SinceInception"
)

// Horizons lists all horizons in display order.
var Horizons = []Horizon{
	Horizon7D, Horizon30D, Horizon90D, Horizon180D, HorizonYTD,
	Horizon1Y, Horizon3Y, Horizon5Y, Horizon10Y, HorizonSinceInception,
}

const (
	// minCoverage is the share of a multi-year window that must be covered by
	// actual history before it is annualized.
	minCoverage = 0.9
	// minInceptionYears is the span required to report an annualized return since inception.
	minInceptionYears = 2
)

var shortWindows = map[Horizon]int{Horizon7D: 7, Horizon30D: 30, Horizon90D: 90, Horizon180D: 180}

var multiYears = map[Horizon]int{Horizon3Y: 3, Horizon5Y: 5, Horizon10Y: 10}

// RollingRow is the rolling returns of one subject: the portfolio total or one asset.
//
// Returns are in percent. Windows up to one year are total returns, longer ones
// are annualized. A nil value is undefined.
type RollingRow struct {
	Name    string               `json:"name"`
	ISIN    string               `json:"isin"`
	Returns map[Horizon]*Percent `json:"returns"`
}

// Get returns the return for horizon h, or nil.
func (r RollingRow) Get(h Horizon) *Percent { return r.Returns[h] }

// HorizonReturn computes the return of series over horizon h ending on today.
//
// The series is a price or a value index: it must not include external cash
// flows (use a TWR index or a NAV series). SinceInception is the CAGR between
// the first point and today.
func HorizonReturn(series *date.History[float64], h Horizon, today date.Date) (float64, bool) {
	endDay, end, ok := series.PointAsOf(today)
	if !ok {
		return 0, false
	}
	simple := func(target date.Date) (float64, bool) {
		_, base, ok := series.PointAsOf(target)
		if !ok || base <= 0 {
			return 0, false
		}
		return (end/base - 1) * 100, true
	}

	if w, ok := shortWindows[h]; ok {
		return simple(today.Add(-w))
	}
	switch h {
	case HorizonYTD:
		return simple(today.StartOf(date.Yearly).Add(-1))
	case Horizon1Y:
		return simple(today.AddYears(-1))
	case HorizonSinceInception:
		startDay, start := series.First()
		if date.Years(startDay, endDay) < minInceptionYears {
			return 0, false
		}
		return CAGR(start, end, date.Days(startDay, endDay))
	}

	years, ok := multiYears[h]
	if !ok {
		return 0, false
	}
	target := today.AddYears(-years)
	startDay, start, ok := series.PointAsOf(target)
	if !ok {
		if startDay, start, ok = series.PointAfter(target); !ok {
			return 0, false
		}
	}
	days := date.Days(startDay, endDay)
	if float64(days) < minCoverage*float64(years)*date.DaysPerYear {
		return 0, false
	}
	return CAGR(start, end, days)
}

// inceptionReturn is the annualized monthly weighted return of the portfolio
// from its first investment to today.
func inceptionReturn(weighted *date.History[float64], first, today date.Date) (float64, bool) {
	last, wr := weighted.Latest()
	if weighted.Len() == 0 || first.IsZero() {
		return 0, false
	}
	// the last month is labelled with its end, which may be after today.
	last = date.Min(last, today)
	years := date.Years(first, last)
	if years < minInceptionYears {
		return 0, false
	}
	return Annualize(wr, date.Days(first, last))
}

// RollingReturns builds the rolling returns table: the portfolio total first,
// then each asset currently held that has a NAV history, sorted by key.
//
// The total uses the flow-neutral TWR index built from twr (cumulative TWR in
// percent), and the monthly weighted return since inception. Assets use their
// NAV series.
func RollingReturns(l *Ledger, hs HoldingsSeries, navs NavSeries, twr, monthlyWeighted *date.History[float64], today date.Date) []RollingRow {
	index := twr.Map(func(_ date.Date, v float64) float64 { return 100 + v })
	total := RollingRow{Name: "Total", Returns: make(map[Horizon]*Percent)}
	for _, h := range Horizons {
		if h == HorizonSinceInception {
			total.Returns[h] = Defined(inceptionReturn(monthlyWeighted, l.First(), today))
			continue
		}
		total.Returns[h] = Defined(HorizonReturn(index, h, today))
	}
	rows := []RollingRow{total}

	names := l.Names()
	ids := l.Identifiers()
	for _, key := range hs.Current(today) {
		prices, ok := navs[key]
		if !ok {
			continue
		}
		row := RollingRow{Name: names[key], ISIN: ids[key].ISIN(), Returns: make(map[Horizon]*Percent)}
		for _, h := range Horizons {
			row.Returns[h] = Defined(HorizonReturn(prices, h, today))
		}
		rows = append(rows, row)
	}
	return rows
}
