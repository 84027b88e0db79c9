package renderer

import (
	"io"

	"github.com/etnz/fundfolio"
	md "github.com/nao1215/markdown"
)

func renderPositions(w io.Writer, r *fundfolio.Report) bool {
	if len(r.Positions) == 0 {
		return false
	}
	doc := section(w, "Positions")
	set := md.TableSet{
		Header:    []string{"Asset", "Quantity", "Cost of Remaining", "Average Cost", "Realized Gain"},
		Alignment: right(5),
	}
	for _, p := range r.Positions {
		set.Rows = append(set.Rows, []string{
			label(p.AssetName, p.ISIN),
			p.QuantityRemaining.String(),
			p.CostOfRemaining.String(),
			p.AverageCost().String(),
			p.RealizedGain().SignedString(),
		})
	}
	doc.Table(set)
	return build(doc)
}

func renderOverview(w io.Writer, r *fundfolio.Report) bool {
	o := r.Overview
	if len(o.Rows) == 0 {
		return false
	}
	doc := section(w, "Overview")
	doc.PlainTextf("Total value: **%s**, day change: **%s**", money(o.Value, r.Currency), signedPct(o.DayChange)).PlainText("")
	set := md.TableSet{
		Header:    []string{"Asset", "Quantity", "Average Cost", "NAV", "NAV Date", "Value", "Weight", "Day"},
		Alignment: right(8),
	}
	for _, row := range o.Rows {
		navDate := undefined
		if !row.NAVDate.IsZero() {
			navDate = row.NAVDate.String()
		}
		set.Rows = append(set.Rows, []string{
			label(row.Name, row.Key),
			quantity(row.Quantity),
			money(row.AverageCost, r.Currency),
			optMoney(row.NAV, r.Currency),
			navDate,
			money(row.Value, r.Currency),
			pct(row.Weight),
			signedPct(row.DayChange),
		})
	}
	doc.Table(set)
	return build(doc)
}

func renderGains(w io.Writer, r *fundfolio.Report) bool {
	g := r.Gains
	if len(g.Assets) == 0 {
		return false
	}
	doc := section(w, "Gains")
	set := md.TableSet{
		Header:    []string{"Asset", "Quantity", "Average Cost", "NAV", "Invested", "Withdrawn", "Market Value", "Gain", "Gain %"},
		Alignment: right(9),
	}
	row := func(name string, a fundfolio.AssetGain) []string {
		return []string{
			name,
			quantity(a.Quantity),
			money(a.AverageCost, r.Currency),
			optMoney(a.NAV, r.Currency),
			money(a.Invested, r.Currency),
			money(a.Withdrawn, r.Currency),
			money(a.MarketValue, r.Currency),
			signedMoney(a.Gain, r.Currency),
			signedPct(a.GainPct),
		}
	}
	for _, a := range g.Assets {
		set.Rows = append(set.Rows, row(label(a.Name, a.Key), a))
	}
	total := row("**Total**", g.Total)
	total[1], total[2], total[3] = "", "", ""
	set.Rows = append(set.Rows, total)
	doc.Table(set)
	return build(doc)
}

func renderFlows(w io.Writer, r *fundfolio.Report) bool {
	if len(r.Flows) == 0 {
		return false
	}
	doc := section(w, "Quarterly Flows")
	set := md.TableSet{
		Header:    []string{"Quarter", "Invested", "Withdrawn", "Fees", "Net"},
		Alignment: right(5),
	}
	for _, f := range r.Flows {
		set.Rows = append(set.Rows, []string{
			f.Name,
			money(f.Invested, r.Currency),
			money(f.Withdrawn, r.Currency),
			money(f.Fees, r.Currency),
			signedMoney(f.Net, r.Currency),
		})
	}
	doc.Table(set)
	return build(doc)
}
