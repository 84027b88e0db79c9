package fundfolio

import (
	"fmt"

	"github.com/etnz/fundfolio/date"
)

// Engine computes the reports of a portfolio.
//
// Compute is synchronous and has no side effect other than reading Navs (and
// Memo when set): equal ledgers and Today give equal reports.
type Engine struct {
	Today     date.Date
	Navs      NavHistory
	Benchmark []BenchmarkPoint
	// Memo, when not nil, stores the returns series to skip their computation
	// when the ledger did not change.
	Memo *Memo
}

// ReturnSeries are the return series of a portfolio, the costly part of a Report.
type ReturnSeries struct {
	TWR             *date.History[float64] `json:"twr" msgpack:"twr"`
	MWR             *date.History[float64] `json:"mwr" msgpack:"mwr"`
	MWRWeekly       *date.History[float64] `json:"mwr_weekly" msgpack:"mwr_weekly"`
	WeightedWeekly  *date.History[float64] `json:"weighted_weekly" msgpack:"weighted_weekly"`
	WeightedMonthly *date.History[float64] `json:"weighted_monthly" msgpack:"weighted_monthly"`
}

// Report is everything computed about a portfolio as of Today.
type Report struct {
	Today    date.Date `json:"today"`
	Currency string    `json:"currency"`

	Positions []AssetPosition `json:"positions"`
	Holdings  HoldingsSeries  `json:"-"`
	Navs      NavSeries       `json:"-"`

	Value                *date.History[float64] `json:"value"`
	CashFlows            *date.History[float64] `json:"cash_flows"`
	InvestmentFlows      *date.History[float64] `json:"investment_flows"`
	CumulativeInvestment *date.History[float64] `json:"cumulative_investment"`

	ReturnSeries
	MWRToday *Percent `json:"mwr_today"`

	Rolling   []RollingRow           `json:"rolling"`
	Risk      RiskStats              `json:"risk"`
	Coverage  []AssetCoverage        `json:"coverage"`
	Gains     GainsReport            `json:"gains"`
	Overview  OverviewReport         `json:"overview"`
	Flows     []PeriodFlows          `json:"flows"`
	Benchmark *Comparison            `json:"benchmark,omitempty"`
	Simulated *date.History[float64] `json:"simulated_benchmark"`

	Warnings []Warning `json:"warnings"`
}

// Compute runs the whole valuation of the ledger.
//
// Only a failure to read the NAV histories is an error. Missing prices, short
// histories or solver failures give undefined values and warnings.
func (e *Engine) Compute(l *Ledger) (*Report, error) {
	today := e.Today
	if today.IsZero() {
		today = date.Today()
	}
	r := &Report{Today: today, Warnings: append([]Warning(nil), l.Warnings()...)}
	if l.Len() > 0 {
		r.Currency = l.Transactions()[0].Currency
	}

	rows := make(map[string][]PriceRow)
	for _, key := range l.Assets() {
		if !IsISIN(key) || e.Navs == nil {
			r.Warnings = append(r.Warnings, Warning{Asset: key, Message: "no ISIN, the asset is not valued"})
			continue
		}
		rs, err := e.Navs.History(key)
		if err != nil {
			return nil, fmt.Errorf("cannot read NAV history of %s: %w", key, err)
		}
		if len(rs) == 0 {
			r.Warnings = append(r.Warnings, Warning{Asset: key, Message: "no NAV history, the asset is not valued"})
			continue
		}
		rows[key] = rs
	}
	r.Navs = make(NavSeries)
	for key, rs := range rows {
		if h := FillNav(rs, today); h.Len() > 0 {
			r.Navs[key] = h
		}
	}

	// accounting
	r.Positions = Positions(l)
	r.Holdings = Holdings(l, today)
	r.Value = Value(r.Holdings, r.Navs)
	r.CashFlows = CashFlows(l)
	r.InvestmentFlows = InvestmentFlows(l)
	r.CumulativeInvestment = CumulativeInvestment(r.InvestmentFlows, l.First(), today)

	// returns
	series, err := e.returnSeries(r, today)
	if err != nil {
		r.Warnings = append(r.Warnings, Warning{Message: fmt.Sprintf("cannot use memo: %v", err)})
	}
	r.ReturnSeries = series
	r.MWRToday = Defined(MWR(r.Value, r.CashFlows, today))

	// tables
	r.Rolling = RollingReturns(l, r.Holdings, r.Navs, r.TWR, r.WeightedMonthly, today)
	r.Risk = Risk(r.TWR, date.Monthly)
	r.Coverage = Coverage(l, rows)
	r.Gains = Gains(l, r.Navs, today)
	r.Overview = Overview(r.Positions, LatestQuotes(rows, today))
	r.Flows = QuarterlyFlows(l)
	if len(e.Benchmark) > 0 {
		c := RelativePerformance(r.Value, BenchmarkHistory(e.Benchmark))
		r.Benchmark = &c
	}
	r.Simulated = SimulatedBenchmark(r.Value, DefaultBenchmarkGrowth)

	return r, nil
}

// returnSeries loads the return series from the memo, or computes and saves them.
// The error is a memo failure only: the series are always returned.
func (e *Engine) returnSeries(r *Report, today date.Date) (ReturnSeries, error) {
	if e.Memo == nil {
		return computeReturnSeries(r.Value, r.CashFlows, r.CumulativeInvestment), nil
	}
	digest, err := InputsDigest(r.Value, r.CashFlows)
	if err != nil {
		return computeReturnSeries(r.Value, r.CashFlows, r.CumulativeInvestment), err
	}
	if series, ok := e.Memo.Load(today, digest); ok {
		return series, nil
	}
	series := computeReturnSeries(r.Value, r.CashFlows, r.CumulativeInvestment)
	return series, e.Memo.Save(today, digest, series)
}

func computeReturnSeries(values, flows, cumInv *date.History[float64]) ReturnSeries {
	return ReturnSeries{
		TWR:             TWR(values, flows),
		MWR:             MWRSeries(values, flows),
		MWRWeekly:       MWRPeriodic(values, flows, date.Weekly),
		WeightedWeekly:  WeightedReturn(values, cumInv, date.Weekly),
		WeightedMonthly: WeightedReturn(values, cumInv, date.Monthly),
	}
}
