// Package fundfolio computes the valuation and the performance of a personal
// portfolio of funds from its transaction ledger and NAV histories.
//
// The engine is stateless and synchronous. Each computation reads a full ledger
// snapshot and the NAV series it needs, and produces new derived tables:
//   - FIFO positions: remaining quantity, cost of remaining, realized proceeds
//     and cost of goods sold, per asset.
//   - Holdings: a dense daily series of held quantity per asset, from the first
//     transaction to "today".
//   - Valuation: the daily total value of the portfolio, summing only the assets
//     with a known price on that day.
//   - Cash flows: external flows (buys negative) and invested capital (buys
//     positive).
//   - Returns: time-weighted return, money-weighted return (XIRR), weighted
//     return, rolling and annualized returns.
//
// Data quality problems in the ledger never abort a computation: they are
// returned as Warnings and the offending rows are skipped. Numbers that cannot
// be computed (not enough history, a root-finder that does not converge) are
// reported as undefined, never as zero.
//
// Price acquisition, persistence and presentation live in the oracle, store and
// renderer packages; the folio command wires everything together.
package fundfolio
