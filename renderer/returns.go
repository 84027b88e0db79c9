package renderer

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/etnz/fundfolio"
	"github.com/etnz/fundfolio/date"
	md "github.com/nao1215/markdown"
)

// recentPeriods is the number of periods shown in series tables.
const recentPeriods = 12

func last(h *date.History[float64]) (float64, bool) {
	if h == nil || h.Len() == 0 {
		return math.NaN(), false
	}
	_, v := h.Latest()
	return v, true
}

func renderReturnsSummary(w io.Writer, r *fundfolio.Report) bool {
	if r.Value == nil || r.Value.Len() == 0 {
		return false
	}
	doc := section(w, "Returns")
	value, _ := last(r.Value)
	invested, _ := last(r.CumulativeInvestment)
	twr, ok := last(r.TWR)
	doc.BulletList(
		fmt.Sprintf("Value: %s", money(value, r.Currency)),
		fmt.Sprintf("Net invested: %s", money(invested, r.Currency)),
		fmt.Sprintf("Time-weighted return: %s", signedPct(fundfolio.Defined(twr, ok))),
		fmt.Sprintf("Money-weighted return (annualized): %s", signedPct(r.MWRToday)),
	)
	return build(doc)
}

func renderValue(w io.Writer, r *fundfolio.Report) bool {
	if r.Value == nil || r.Value.Len() == 0 {
		return false
	}
	doc := section(w, "Monthly Value")
	values := r.Value.Resample(date.Monthly)
	invested := r.CumulativeInvestment.Resample(date.Monthly)
	set := md.TableSet{
		Header:    []string{"Month", "Value", "Net Invested", "Weighted Return"},
		Alignment: right(4),
	}
	for day, v := range values.Values() {
		ci, _ := invested.Get(day)
		wr, ok := r.WeightedMonthly.Get(day)
		set.Rows = append(set.Rows, []string{
			day.Format("2006-01"),
			money(v, r.Currency),
			money(ci, r.Currency),
			signedPct(fundfolio.Defined(wr, ok)),
		})
	}
	doc.Table(set)
	return build(doc)
}

func renderReturns(w io.Writer, r *fundfolio.Report) bool {
	if !renderReturnsSummary(w, r) {
		return false
	}
	doc := section(w, "Weekly Returns")
	set := md.TableSet{
		Header:    []string{"Week", "TWR", "MWR", "Weighted"},
		Alignment: right(4),
	}
	twr := fundfolio.ResampleReturns(r.TWR, date.Weekly)
	days := twr.Dates()
	if len(days) > recentPeriods {
		days = days[len(days)-recentPeriods:]
	}
	for _, day := range days {
		t, _ := twr.Get(day)
		m, ok := r.MWRWeekly.Get(day)
		if !ok {
			m = math.NaN()
		}
		wr, ok := r.WeightedWeekly.Get(day)
		if !ok {
			wr = math.NaN()
		}
		year, week := day.ISOWeek()
		set.Rows = append(set.Rows, []string{fmt.Sprintf("%d-W%02d", year, week), percent(t), percent(m), percent(wr)})
	}
	doc.Table(set)
	return build(doc)
}

func renderRolling(w io.Writer, r *fundfolio.Report) bool {
	if len(r.Rolling) == 0 {
		return false
	}
	doc := section(w, "Rolling Returns")
	header := []string{"Asset"}
	for _, h := range fundfolio.Horizons {
		header = append(header, string(h))
	}
	set := md.TableSet{Header: header, Alignment: right(len(header))}
	for _, row := range r.Rolling {
		cells := []string{label(row.Name, row.ISIN)}
		for _, h := range fundfolio.Horizons {
			cells = append(cells, signedPct(row.Get(h)))
		}
		set.Rows = append(set.Rows, cells)
	}
	doc.Table(set)
	doc.PlainText("").PlainText("Windows longer than one year are annualized.")
	return build(doc)
}

func renderRisk(w io.Writer, r *fundfolio.Report) bool {
	s := r.Risk
	if s.Periods == 0 {
		return false
	}
	doc := section(w, "Risk")
	doc.Table(md.TableSet{
		Header:    []string{"Statistic", "Value"},
		Alignment: right(2),
		Rows: [][]string{
			{"Periods", fmt.Sprintf("%d (%s)", s.Periods, strings.ToLower(s.Period.String()))},
			{"Volatility (annualized)", pct(s.Volatility)},
			{"Max drawdown", signedPct(s.MaxDrawdown)},
			{"Best period", signedPct(s.Best)},
			{"Worst period", signedPct(s.Worst)},
			{"Median period", signedPct(s.Median)},
		},
	})
	return build(doc)
}

func renderBenchmark(w io.Writer, r *fundfolio.Report) bool {
	doc := section(w, "Benchmark")
	wrote := false
	if c := r.Benchmark; c != nil && c.PortfolioRebased.Len() > 0 {
		set := md.TableSet{
			Header:    []string{"Date", "Portfolio", "Benchmark", "Relative"},
			Alignment: right(4),
		}
		for day, p := range c.PortfolioRebased.Values() {
			b, _ := c.BenchmarkRebased.Get(day)
			rel, _ := c.Relative.Get(day)
			set.Rows = append(set.Rows, []string{day.String(), fmt.Sprintf("%.2f", p), fmt.Sprintf("%.2f", b), signedMoney(rel, r.Currency)})
		}
		doc.Table(set)
		wrote = true
	}
	if s := r.Simulated; s != nil && s.Len() > 0 {
		if wrote {
			doc.PlainText("")
		}
		doc.PlainTextf("Simulated benchmark growing %.0f%% a year:", fundfolio.DefaultBenchmarkGrowth*100).PlainText("")
		values := r.Value.Resample(date.Monthly)
		set := md.TableSet{
			Header:    []string{"Month", "Portfolio", "Simulated"},
			Alignment: right(3),
		}
		for day, v := range s.Values() {
			p, _ := values.Get(day)
			set.Rows = append(set.Rows, []string{day.Format("2006-01"), money(p, r.Currency), money(v, r.Currency)})
		}
		doc.Table(set)
		wrote = true
	}
	return wrote && build(doc)
}

func renderCoverage(w io.Writer, r *fundfolio.Report) bool {
	if len(r.Coverage) == 0 {
		return false
	}
	doc := section(w, "NAV Coverage")
	set := md.TableSet{
		Header:    []string{"Asset", "First", "Last", "Intervals", "Missing"},
		Alignment: right(5),
	}
	for _, c := range r.Coverage {
		first, lastDay := undefined, undefined
		if !c.First.IsZero() {
			first, lastDay = c.First.String(), c.Last.String()
		}
		missing := "none"
		if len(c.Missing) > 0 {
			days := make([]string, len(c.Missing))
			for i, d := range c.Missing {
				days[i] = d.String()
			}
			missing = strings.Join(days, ", ")
		}
		set.Rows = append(set.Rows, []string{label(c.Name, c.Key), first, lastDay, fmt.Sprint(len(c.Intervals)), missing})
	}
	doc.Table(set)
	return build(doc)
}
