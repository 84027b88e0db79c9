package fundfolio

import "github.com/etnz/fundfolio/date"

// CashFlows returns the daily net external cash flow of the ledger.
//
// A Buy is money leaving the investor (negative, fee added), a Sell is money
// coming back (positive, fee subtracted). Same-day flows are netted.
func CashFlows(l *Ledger) *date.History[float64] {
	flows := new(date.History[float64])
	for _, tx := range l.Transactions() {
		flows.AppendAdd(tx.Date, tx.CashFlow().Float())
	}
	return flows
}

// InvestmentFlows returns the daily capital committed: the opposite of CashFlows
// (a Buy is positive).
func InvestmentFlows(l *Ledger) *date.History[float64] {
	return CashFlows(l).Map(func(_ date.Date, v float64) float64 { return -v })
}

// CumulativeInvestment returns the running total of investment flows, dense from
// 'from' to 'to'. It is the capital ever committed net of withdrawals, not the
// capital currently at risk. Without flows, or without a start, it is empty.
func CumulativeInvestment(flows *date.History[float64], from, to date.Date) *date.History[float64] {
	if flows.Len() == 0 || from.IsZero() {
		return new(date.History[float64])
	}
	return flows.Cumulative().Fill(from, to, 0)
}
