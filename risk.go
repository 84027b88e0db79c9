package fundfolio

import (
	"math"

	"github.com/etnz/fundfolio/date"
	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// RiskStats summarizes the periodic returns of the flow-neutral (TWR) index.
//
// All values are in percent. Nil is undefined (fewer than two periods).
type RiskStats struct {
	Period      date.Period `json:"period"`
	Periods     int         `json:"periods"`
	Volatility  *Percent    `json:"volatility"` // annualized
	MaxDrawdown *Percent    `json:"max_drawdown"`
	Best        *Percent    `json:"best"`
	Worst       *Percent    `json:"worst"`
	Median      *Percent    `json:"median"`
}

// PeriodReturns returns the return of each period of the TWR series (cumulative,
// in percent), as fractions. The first period is measured from the first valuation.
func PeriodReturns(twr *date.History[float64], p date.Period) []float64 {
	if twr.Len() == 0 {
		return nil
	}
	_, first := twr.First()
	last := 1 + first/100
	var res []float64
	for _, v := range twr.Resample(p).Values() {
		f := 1 + v/100
		if last > 0 {
			res = append(res, f/last-1)
		}
		last = f
	}
	return res
}

// MaxDrawdown returns the largest peak to trough decline of the TWR index, as a
// negative fraction (or 0).
func MaxDrawdown(twr *date.History[float64]) float64 {
	peak, dd := math.Inf(-1), 0.0
	for _, v := range twr.Values() {
		f := 1 + v/100
		peak = math.Max(peak, f)
		if peak > 0 {
			dd = math.Min(dd, f/peak-1)
		}
	}
	return dd
}

// Risk computes the volatility, drawdown and best/worst/median period return
// of the TWR series resampled on p.
func Risk(twr *date.History[float64], p date.Period) RiskStats {
	returns := PeriodReturns(twr, p)
	r := RiskStats{Period: p, Periods: len(returns)}
	if len(returns) < 2 {
		return r
	}
	pct := func(v float64, err error) *Percent { return Defined(v*100, err == nil) }

	vol := stat.StdDev(returns, nil) * math.Sqrt(float64(p.PerYear()))
	r.Volatility = Defined(vol*100, true)
	r.MaxDrawdown = Defined(MaxDrawdown(twr)*100, true)
	r.Best = pct(stats.Max(returns))
	r.Worst = pct(stats.Min(returns))
	r.Median = pct(stats.Median(returns))
	return r
}
