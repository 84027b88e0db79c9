package fundfolio

import (
	"github.com/etnz/fundfolio/date"
)

// PeriodFlows is the money moved in and out of the portfolio during a period.
//
// Invested counts purchases with their fees, Withdrawn counts sales net of their
// fees. Net is Invested - Withdrawn: the capital committed during the period.
type PeriodFlows struct {
	Range     date.Range `json:"-"`
	Name      string     `json:"period"`
	Invested  float64    `json:"invested"`
	Withdrawn float64    `json:"withdrawn"`
	Fees      float64    `json:"fees"`
	Net       float64    `json:"net"`
}

// PeriodicFlows groups the transactions of the ledger by period, in
// chronological order. Periods without transactions are absent.
func PeriodicFlows(l *Ledger, p date.Period) []PeriodFlows {
	var res []PeriodFlows
	for _, tx := range l.Transactions() {
		r := p.Range(tx.Date)
		if n := len(res); n == 0 || res[n-1].Range != r {
			res = append(res, PeriodFlows{Range: r, Name: r.Identifier()})
		}
		f := &res[len(res)-1]
		if flow := tx.CashFlow().Float(); flow < 0 {
			f.Invested -= flow
		} else {
			f.Withdrawn += flow
		}
		f.Fees += tx.Fee.Float()
		f.Net = f.Invested - f.Withdrawn
	}
	return res
}

// QuarterlyFlows groups the transactions by quarter.
func QuarterlyFlows(l *Ledger) []PeriodFlows { return PeriodicFlows(l, date.Quarterly) }
