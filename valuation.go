package fundfolio

import "github.com/etnz/fundfolio/date"

// Value computes the daily total value of the portfolio.
//
// It is an inner join of holdings and prices on (date, asset): an asset without a
// price on a date contributes nothing to that date, and a date where no asset
// has a price is absent from the result. Missing prices are surfaced by
// Coverage, not here.
func Value(hs HoldingsSeries, navs NavSeries) *date.History[float64] {
	total := new(date.History[float64])
	for _, key := range hs.Assets() {
		prices, ok := navs[key]
		if !ok {
			continue
		}
		for day, q := range hs.Series(key).Values() {
			if p, ok := prices.Get(day); ok {
				total.AppendAdd(day, q*p)
			}
		}
	}
	return total
}

// AssetValue is the market value of one asset on a given day.
type AssetValue struct {
	Key      string
	Quantity float64
	Price    float64
	Priced   bool // false when no NAV is known on that day
	Value    float64
}

// AssetValues returns the value of each asset held on day, sorted by key.
func AssetValues(hs HoldingsSeries, navs NavSeries, day date.Date) []AssetValue {
	var res []AssetValue
	for _, key := range hs.Current(day) {
		av := AssetValue{Key: key, Quantity: hs.QuantityAsOf(key, day)}
		if h, ok := navs[key]; ok {
			av.Price, av.Priced = h.Get(day)
		}
		av.Value = av.Quantity * av.Price
		res = append(res, av)
	}
	return res
}
