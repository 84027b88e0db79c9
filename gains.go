package fundfolio

import (
	"slices"
	"strings"

	"github.com/etnz/fundfolio/date"
)

// AssetGain is the overall gain of one asset since the first purchase.
//
// Invested is what was paid for purchases, fees included. Withdrawn is what
// sales returned, net of fees. Gain is MarketValue + Withdrawn - Invested.
type AssetGain struct {
	Key         string   `json:"key"`
	Name        string   `json:"name"`
	ISIN        string   `json:"isin"`
	Quantity    float64  `json:"quantity"`
	AverageCost float64  `json:"average_cost"`
	NAV         *float64 `json:"nav"`
	Invested    float64  `json:"invested"`
	Withdrawn   float64  `json:"withdrawn"`
	MarketValue float64  `json:"market_value"`
	Gain        float64  `json:"gain"`
	GainPct     *Percent `json:"gain_pct"`
}

// GainsReport lists the gain of every asset and their total.
type GainsReport struct {
	Assets []AssetGain `json:"assets"`
	Total  AssetGain   `json:"total"`
}

// Gains computes the gain of each asset of the ledger, valued at the NAV known
// on day. An asset without a NAV, or not held anymore, has no market value.
func Gains(l *Ledger, navs NavSeries, day date.Date) GainsReport {
	var r GainsReport
	r.Total.Name = "Total"
	positions := make(map[string]AssetPosition)
	for _, p := range Positions(l) {
		positions[p.ISIN] = p
	}
	names, ids := l.Names(), l.Identifiers()
	for key, txs := range l.ByAsset() {
		g := AssetGain{Key: key, Name: names[key], ISIN: ids[key].ISIN()}
		for _, tx := range txs {
			if flow := tx.CashFlow().Float(); flow < 0 {
				g.Invested -= flow
			} else {
				g.Withdrawn += flow
			}
		}
		pos := positions[key]
		g.Quantity = pos.QuantityRemaining.Float()
		g.AverageCost = pos.AverageCost().Float()
		if nav, ok := navs.PriceAsOf(key, day); ok {
			g.NAV = &nav
			if g.Quantity > 0 {
				g.MarketValue = g.Quantity * nav
			}
		}
		g.Gain = g.MarketValue + g.Withdrawn - g.Invested
		g.GainPct = gainPct(g.Gain, g.Invested)
		r.Assets = append(r.Assets, g)

		r.Total.Invested += g.Invested
		r.Total.Withdrawn += g.Withdrawn
		r.Total.MarketValue += g.MarketValue
	}
	slices.SortFunc(r.Assets, func(a, b AssetGain) int { return strings.Compare(a.Key, b.Key) })
	r.Total.Gain = r.Total.MarketValue + r.Total.Withdrawn - r.Total.Invested
	r.Total.GainPct = gainPct(r.Total.Gain, r.Total.Invested)
	return r
}

func gainPct(gain, invested float64) *Percent {
	return Defined(gain/invested*100, invested > 0)
}
