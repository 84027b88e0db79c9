package fundfolio

import "github.com/etnz/fundfolio/date"

// HoldingsSeries is the daily quantity held per asset.
//
// Each asset series is dense from its first transaction to "today", forward
// filled between transactions. There is no value before the first transaction.
type HoldingsSeries struct {
	assets map[string]*date.History[float64]
}

// Holdings reconstructs the daily quantity held of each asset of the ledger.
//
// Same-day transactions are netted, then accumulated and spread over the
// calendar up to today.
func Holdings(l *Ledger, today date.Date) HoldingsSeries {
	hs := HoldingsSeries{assets: make(map[string]*date.History[float64])}
	for key, txs := range l.ByAsset() {
		deltas := new(date.History[float64])
		for _, tx := range txs {
			deltas.AppendAdd(tx.Date, tx.Delta().Float())
		}
		first, _ := deltas.First()
		hs.assets[key] = deltas.Cumulative().Fill(first, today, 0)
	}
	return hs
}

// Assets returns the sorted asset keys.
func (hs HoldingsSeries) Assets() []string { return sortedKeys(hs.assets) }

// Series returns the daily quantity of an asset, or nil.
func (hs HoldingsSeries) Series(key string) *date.History[float64] { return hs.assets[key] }

// QuantityAsOf returns the quantity held of an asset at the end of day.
// It is 0 before the first transaction.
func (hs HoldingsSeries) QuantityAsOf(key string, day date.Date) float64 {
	h, ok := hs.assets[key]
	if !ok {
		return 0
	}
	q, _ := h.ValueAsOf(day)
	return q
}

// Current returns the assets held (quantity > 0) on day, sorted.
func (hs HoldingsSeries) Current(day date.Date) []string {
	var res []string
	for _, key := range hs.Assets() {
		if hs.QuantityAsOf(key, day) > heldEpsilon {
			res = append(res, key)
		}
	}
	return res
}

// heldEpsilon is the quantity under which an asset is considered not held anymore.
const heldEpsilon = 1e-9
