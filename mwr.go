package fundfolio

import (
	"math"
	"sort"

	"github.com/etnz/fundfolio/date"
)

// Flow is a dated cash flow, negative when money leaves the investor.
type Flow struct {
	Date   date.Date
	Amount float64
}

const (
	xirrGuess   = 0.1
	xirrMaxIter = 100
	xirrTol     = 1e-7
	xirrMinRate = -0.999
)

// XIRR solves the annual rate r such that Σ amount / (1+r)^t = 0, where t is the
// time in years (365.25 days) since the first flow.
//
// Newton's method starts from 10%; when it does not converge a bisection on
// [-99%, 1000%] is tried. The result is undefined (ok is false) unless there is
// both an outflow and a later inflow, or when no root is found. It is never
// defaulted to 0.
func XIRR(flows []Flow) (rate float64, ok bool) {
	if len(flows) < 2 {
		return 0, false
	}
	flows = append([]Flow(nil), flows...)
	sort.SliceStable(flows, func(i, j int) bool { return flows[i].Date.Before(flows[j].Date) })

	hasNeg, hasPos := false, false
	for _, f := range flows {
		hasNeg = hasNeg || f.Amount < 0
		hasPos = hasPos || f.Amount > 0
	}
	if !hasNeg || !hasPos {
		return 0, false
	}
	if flows[0].Date == flows[len(flows)-1].Date {
		// no time elapsed: every rate is a root.
		return 0, false
	}

	years := make([]float64, len(flows))
	for i, f := range flows {
		years[i] = date.Years(flows[0].Date, f.Date)
	}

	if r, ok := newtonXIRR(flows, years); ok {
		return r, true
	}
	r := bisectXIRR(flows, years)
	return r, finite(r)
}

// npv returns the net present value of the flows at rate and its derivative.
func npv(flows []Flow, years []float64, rate float64) (v, dv float64) {
	base := 1 + rate
	for i, f := range flows {
		discount := math.Pow(base, years[i])
		v += f.Amount / discount
		if years[i] != 0 {
			dv -= years[i] * f.Amount / (discount * base)
		}
	}
	return v, dv
}

func newtonXIRR(flows []Flow, years []float64) (float64, bool) {
	rate := xirrGuess
	for range xirrMaxIter {
		v, dv := npv(flows, years, rate)
		if !finite(v) || !finite(dv) {
			return 0, false
		}
		if math.Abs(v) < xirrTol {
			return rate, true
		}
		if dv == 0 {
			return 0, false
		}
		next := rate - v/dv
		if next <= xirrMinRate {
			next = xirrMinRate
		}
		if math.Abs(next-rate) < 1e-12 {
			// stalled: accept only if the residual is small relative to the flows.
			return next, math.Abs(v) < 1e-6*scale(flows)
		}
		rate = next
	}
	return 0, false
}

func bisectXIRR(flows []Flow, years []float64) float64 {
	lo, hi := -0.99, 10.0
	vlo, _ := npv(flows, years, lo)
	vhi, _ := npv(flows, years, hi)
	if !finite(vlo) || !finite(vhi) || vlo*vhi > 0 {
		return math.NaN()
	}
	for range 200 {
		mid := (lo + hi) / 2
		vmid, _ := npv(flows, years, mid)
		if !finite(vmid) {
			return math.NaN()
		}
		if math.Abs(vmid) < xirrTol || (hi-lo)/2 < 1e-10 {
			return mid
		}
		if vmid*vlo < 0 {
			hi = mid
		} else {
			lo, vlo = mid, vmid
		}
	}
	return math.NaN()
}

func scale(flows []Flow) float64 {
	s := 1.0
	for _, f := range flows {
		s = math.Max(s, math.Abs(f.Amount))
	}
	return s
}

// mwrFlows returns the external flows up to cutoff, plus the value of the portfolio
// at cutoff as a final inflow (a hypothetical full liquidation).
func mwrFlows(values, flows *date.History[float64], cutoff date.Date) ([]Flow, bool) {
	on, value, ok := values.PointAsOf(cutoff)
	if !ok {
		return nil, false
	}
	var res []Flow
	for day, amount := range flows.Values() {
		if day.After(cutoff) {
			break
		}
		res = append(res, Flow{Date: day, Amount: amount})
	}
	if len(res) == 0 {
		return nil, false
	}
	return append(res, Flow{Date: date.Max(on, res[len(res)-1].Date), Amount: value}), true
}

// MWR returns the money-weighted return (annualized XIRR, in percent) of the
// portfolio from its first flow to cutoff.
func MWR(values, flows *date.History[float64], cutoff date.Date) (float64, bool) {
	cf, ok := mwrFlows(values, flows, cutoff)
	if !ok {
		return 0, false
	}
	r, ok := XIRR(cf)
	return r * 100, ok
}

// MWRSeries computes the MWR at each cash flow date and at the last valuation
// date, and spreads it over the valuation dates (forward fill).
//
// An undefined MWR is NaN and stays so until the next cash flow.
func MWRSeries(values, flows *date.History[float64]) *date.History[float64] {
	res := new(date.History[float64])
	if values.Len() == 0 || flows.Len() == 0 {
		return res
	}
	solved := new(date.History[float64])
	solve := func(day date.Date) {
		v := math.NaN()
		if values.Has(day) {
			if r, ok := MWR(values, flows, day); ok {
				v = r
			}
		}
		solved.Append(day, v)
	}
	for day := range flows.Values() {
		solve(day)
	}
	last, _ := values.Latest()
	if !solved.Has(last) {
		solve(last)
	}

	for day := range values.Values() {
		if v, ok := solved.ValueAsOf(day); ok {
			res.Append(day, v)
		}
	}
	return res
}

// MWRPeriodic computes the MWR accumulated up to the end of each period, using the
// last valuation of the period. Undefined points are NaN.
func MWRPeriodic(values, flows *date.History[float64], p date.Period) *date.History[float64] {
	res := new(date.History[float64])
	if flows.Len() == 0 {
		return res
	}
	firstFlow, _ := flows.First()
	for end := range values.Resample(p).Values() {
		on, _, _ := values.PointAsOf(end)
		if on.Before(firstFlow) {
			continue
		}
		cf, ok := mwrFlows(values, flows, on)
		r := math.NaN()
		if ok {
			if x, ok := XIRR(cf); ok {
				r = x * 100
			}
		}
		res.Append(end, r)
	}
	return res
}
