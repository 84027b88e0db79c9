package fundfolio

import (
	"fmt"

	"github.com/etnz/fundfolio/date"
)

// PriceRow is one day of a NAV history.
//
// Close is the NAV of the day. Open, High and Low are kept when the source
// provides them, ChangePct is the raw daily change text ("-0.35%").
type PriceRow struct {
	Date      date.Date
	Close     float64
	Open      float64
	High      float64
	Low       float64
	ChangePct string
}

// NavHistory gives access to the known historical prices of an asset.
//
// Unknown assets return an empty history, not an error.
type NavHistory interface {
	History(isin string) ([]PriceRow, error)
}

// NavSeries holds the daily filled NAV of each asset, by asset key.
type NavSeries map[string]*date.History[float64]

// FillNav turns price rows into a daily series forward-filled from the first known
// date to today. Nothing is extrapolated before the first row; rows after today
// and non positive prices are ignored.
func FillNav(rows []PriceRow, today date.Date) *date.History[float64] {
	known := new(date.History[float64])
	for _, r := range rows {
		if r.Date.After(today) || r.Close <= 0 {
			continue
		}
		known.Append(r.Date, r.Close)
	}
	if known.Len() == 0 {
		return known
	}
	first, _ := known.First()
	return known.Fill(first, today, 0)
}

// LoadNavs reads and fills the NAV history of each asset key.
//
// Keys without a valid ISIN or without any history are absent from the result.
func LoadNavs(store NavHistory, keys []string, today date.Date) (NavSeries, error) {
	navs := make(NavSeries)
	for _, key := range keys {
		if !IsISIN(key) {
			continue
		}
		rows, err := store.History(key)
		if err != nil {
			return nil, fmt.Errorf("cannot read NAV history of %s: %w", key, err)
		}
		if h := FillNav(rows, today); h.Len() > 0 {
			navs[key] = h
		}
	}
	return navs, nil
}

// PriceAsOf returns the NAV of an asset on day.
func (n NavSeries) PriceAsOf(key string, day date.Date) (float64, bool) {
	h, ok := n[key]
	if !ok {
		return 0, false
	}
	return h.ValueAsOf(day)
}
