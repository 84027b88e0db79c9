package fundfolio

import (
	"math"

	"github.com/etnz/fundfolio/date"
)

// TWR computes the cumulative time-weighted return of a value series, in percent.
//
// Sub-period returns are chained from one valuation to the next. A day with an
// external cash flow starts a new sub-period: its value becomes the new base and
// the change across that day is not counted as performance. Flows are assumed to
// happen exactly at the valuation of their day.
//
// The first point is 0. Fewer than two valuations give an empty series.
func TWR(values, flows *date.History[float64]) *date.History[float64] {
	res := new(date.History[float64])
	if values.Len() < 2 {
		return res
	}
	factor := 1.0
	var last float64
	first := true
	for day, v := range values.Values() {
		switch {
		case first:
			first = false
		case flows.Has(day) || last <= 0:
			// reset: the new base includes the flow.
		default:
			factor *= v / last
		}
		last = v
		res.Append(day, (factor-1)*100)
	}
	return res
}

// ResampleReturns keeps the last cumulative return of each period.
func ResampleReturns(series *date.History[float64], p date.Period) *date.History[float64] {
	return series.Resample(p)
}

// WeightedReturn computes (value / cumulative investment - 1) in percent, on the
// last observation of each period. Periods where the cumulative investment is
// zero are left out.
func WeightedReturn(values, cumulativeInvestment *date.History[float64], p date.Period) *date.History[float64] {
	res := new(date.History[float64])
	invested := cumulativeInvestment.Resample(p)
	for day, v := range values.Resample(p).Values() {
		ci, ok := invested.Get(day)
		if !ok || ci == 0 {
			continue
		}
		res.Append(day, (v/ci-1)*100)
	}
	return res
}

// Annualize converts a total return in percent over a number of days into a
// compound annual growth rate in percent.
func Annualize(totalReturn float64, days int) (float64, bool) {
	if days <= 0 || totalReturn <= -100 {
		return 0, false
	}
	r := math.Pow(1+totalReturn/100, date.DaysPerYear/float64(days)) - 1
	return r * 100, finite(r)
}

// CAGR returns the compound annual growth rate, in percent, of going from start
// to end in 'days' days.
func CAGR(start, end float64, days int) (float64, bool) {
	if start <= 0 || end <= 0 || days <= 0 {
		return 0, false
	}
	r := math.Pow(end/start, date.DaysPerYear/float64(days)) - 1
	return r * 100, finite(r)
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }
