package fundfolio

import (
	"errors"
	"strings"

	"github.com/etnz/fundfolio/date"
)

// PriceQuote is the latest known price of an asset.
type PriceQuote struct {
	NAV       float64
	Date      date.Date
	DayChange *float64 // percent, nil if unknown
}

// LatestQuotes derives the latest price and its daily change from the raw NAV
// rows of each asset. The change is the source's when provided, otherwise it is
// computed against the previous row.
func LatestQuotes(rows map[string][]PriceRow, today date.Date) map[string]PriceQuote {
	res := make(map[string]PriceQuote)
	for key, rs := range rows {
		known := new(date.History[float64])
		changes := make(map[date.Date]string)
		for _, r := range rs {
			if r.Date.After(today) || r.Close <= 0 {
				continue
			}
			known.Append(r.Date, r.Close)
			changes[r.Date] = r.ChangePct
		}
		if known.Len() == 0 {
			continue
		}
		day, nav := known.Latest()
		q := PriceQuote{NAV: nav, Date: day}
		if c, err := parseChangePct(changes[day]); err == nil {
			q.DayChange = &c
		} else if _, prev, ok := known.PointAsOf(day.Add(-1)); ok && prev > 0 {
			c := (nav/prev - 1) * 100
			q.DayChange = &c
		}
		res[key] = q
	}
	return res
}

// OverviewRow is the current state of one asset.
type OverviewRow struct {
	Key         string    `json:"key"`
	Name        string    `json:"name"`
	Quantity    float64   `json:"quantity"`
	AverageCost float64   `json:"average_cost"`
	NAV         *float64  `json:"nav"`
	NAVDate     date.Date `json:"nav_date"`
	Value       float64   `json:"value"`
	Weight      *Percent  `json:"weight"`
	DayChange   *Percent  `json:"day_change"`
}

// OverviewReport is the current composition of the portfolio.
type OverviewReport struct {
	Rows  []OverviewRow `json:"rows"`
	Value float64       `json:"value"`
	// DayChange is the value weighted daily change of the priced assets.
	DayChange *Percent `json:"day_change"`
}

// Overview lists the assets still held with their weight in the portfolio and
// their daily change. Assets without a quote count for nothing in the total.
func Overview(positions []AssetPosition, quotes map[string]PriceQuote) OverviewReport {
	var r OverviewReport
	var weighted, changeBase float64
	for _, p := range positions {
		if !p.QuantityRemaining.IsPositive() {
			continue
		}
		row := OverviewRow{
			Key:         p.ISIN,
			Name:        p.AssetName,
			Quantity:    p.QuantityRemaining.Float(),
			AverageCost: p.AverageCost().Float(),
		}
		if q, ok := quotes[p.ISIN]; ok {
			nav := q.NAV
			row.NAV, row.NAVDate = &nav, q.Date
			row.Value = row.Quantity * nav
			if q.DayChange != nil {
				row.DayChange = Defined(*q.DayChange, true)
				weighted += row.Value * *q.DayChange
				changeBase += row.Value
			}
		}
		r.Value += row.Value
		r.Rows = append(r.Rows, row)
	}
	for i := range r.Rows {
		r.Rows[i].Weight = Defined(r.Rows[i].Value/r.Value*100, r.Value > 0)
	}
	r.DayChange = Defined(weighted/changeBase, changeBase > 0)
	return r
}

var errEmpty = errors.New("empty value")

// parseChangePct parses a daily change such as "-0,35%" or "+1.2 %".
func parseChangePct(s string) (float64, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if s == "" {
		return 0, errEmpty
	}
	d, err := parseDecimal(strings.TrimPrefix(s, "+"))
	if err != nil {
		return 0, err
	}
	return d.InexactFloat64(), nil
}
