package fundfolio

import (
	"math"
	"testing"

	"github.com/etnz/fundfolio/date"
)

const (
	fundA = "LU0000000009"
	fundB = "IE00B4L5Y983"
)

// EUR is a helper for test to create euro money from const
func EUR(v float64) Money { return M(v, "EUR") }

// NO is a helper for test to create money from const wit no currency set
func NO(v float64) Money { return M(v, "") }

// buy returns a Buy of an ISIN asset in EUR.
func buy(on string, isin string, q, price, fee float64) Transaction {
	return Transaction{
		AssetName: "Fund " + isin,
		ID:        Isin(isin),
		Kind:      Buy,
		Quantity:  Q(q),
		Date:      date.MustParse(on),
		Currency:  "EUR",
		Price:     EUR(price),
		Fee:       EUR(fee),
	}
}

// sell is like buy for a Sell.
func sell(on string, isin string, q, price, fee float64) Transaction {
	tx := buy(on, isin, q, price, fee)
	tx.Kind = Sell
	return tx
}

// history builds a History from alternating date strings and values.
func history(t *testing.T, pairs ...any) *date.History[float64] {
	t.Helper()
	h := new(date.History[float64])
	for i := 0; i+1 < len(pairs); i += 2 {
		h.Append(date.MustParse(pairs[i].(string)), toFloat(pairs[i+1]))
	}
	return h
}

func toFloat(v any) float64 {
	switch v := v.(type) {
	case int:
		return float64(v)
	case float64:
		return v
	}
	panic("not a number")
}

// near reports whether a and b differ by less than tol.
func near(a, b, tol float64) bool { return math.Abs(a-b) < tol }

// navStore is an in memory NavHistory.
type navStore map[string][]PriceRow

func (s navStore) History(isin string) ([]PriceRow, error) { return s[isin], nil }

// dailyRows returns one row per day from 'from' for len(prices) days.
func dailyRows(from string, prices ...float64) []PriceRow {
	start := date.MustParse(from)
	rows := make([]PriceRow, len(prices))
	for i, p := range prices {
		rows[i] = PriceRow{Date: start.Add(i), Close: p}
	}
	return rows
}

// pt is a comparable History point.
type pt struct {
	Day string
	V   float64
}

// pts flattens a History for cmp.Diff.
func pts(h *date.History[float64]) []pt {
	var res []pt
	for day, v := range h.Values() {
		res = append(res, pt{day.String(), v})
	}
	return res
}
