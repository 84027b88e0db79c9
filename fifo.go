package fundfolio

import "github.com/etnz/fundfolio/date"

// lot represents a single purchase of an asset, used for cost basis calculations.
type lot struct {
	Date     date.Date
	Quantity Quantity // remaining
	UnitCost Money    // including the purchase fee
}

// lots is a FIFO queue, oldest first.
type lots []lot

// buy appends a new lot. The fee is spread over the units.
func (l lots) buy(tx Transaction) lots {
	cost := tx.Gross().Add(tx.Fee)
	return append(l, lot{Date: tx.Date, Quantity: tx.Quantity, UnitCost: cost.Div(tx.Quantity)})
}

// sell consumes quantityToSell from the oldest lots and returns the remaining
// lots and the cost of the units sold.
//
// Units sold beyond the available stock have no cost.
func (l lots) sell(quantityToSell Quantity, currency string) (lots, Money) {
	cost := M(0, currency)
	for len(l) > 0 && quantityToSell.IsPositive() {
		head := &l[0]
		consumed := head.Quantity.Min(quantityToSell)
		cost = cost.Add(head.UnitCost.Mul(consumed))
		quantityToSell = quantityToSell.Sub(consumed)
		head.Quantity = head.Quantity.Sub(consumed)
		if head.Quantity.IsZero() {
			l = l[1:]
		}
	}
	return l, cost
}

// quantity returns the total quantity of the lots.
func (l lots) quantity() Quantity {
	var q Quantity
	for _, lot := range l {
		q = q.Add(lot.Quantity)
	}
	return q
}

// cost returns the cost of the remaining units.
func (l lots) cost(currency string) Money {
	c := M(0, currency)
	for _, lot := range l {
		c = c.Add(lot.UnitCost.Mul(lot.Quantity))
	}
	return c
}

// AssetPosition summarizes the FIFO accounting of one asset.
type AssetPosition struct {
	ISIN                    string   `json:"isin"`
	AssetName               string   `json:"asset_name"`
	Currency                string   `json:"currency,omitempty"`
	QuantityRemaining       Quantity `json:"quantity_remaining"`
	CostOfRemaining         Money    `json:"cost_of_remaining"`
	RealizedProceeds        Money    `json:"realized_proceeds"`
	RealizedCostOfGoodsSold Money    `json:"realized_cost_of_goods_sold"`
}

// RealizedGain returns the proceeds of sales minus the cost of what was sold.
func (p AssetPosition) RealizedGain() Money {
	return p.RealizedProceeds.Sub(p.RealizedCostOfGoodsSold)
}

// AverageCost returns the average unit cost of the remaining units, or zero.
func (p AssetPosition) AverageCost() Money {
	if !p.QuantityRemaining.IsPositive() {
		return M(0, p.Currency)
	}
	return p.CostOfRemaining.Div(p.QuantityRemaining)
}

// FIFO computes the position of a single asset from its transactions, sorted by
// date. Every transaction must be a concrete Buy or Sell of the same asset.
func FIFO(txs []Transaction) AssetPosition {
	var pos AssetPosition
	if len(txs) > 0 {
		pos.ISIN = txs[0].Key()
		pos.Currency = txs[0].Currency
	}
	pos.RealizedProceeds = M(0, pos.Currency)
	pos.RealizedCostOfGoodsSold = M(0, pos.Currency)

	var queue lots
	for _, tx := range txs {
		if tx.AssetName != "" {
			pos.AssetName = tx.AssetName
		}
		switch tx.Kind {
		case Buy:
			queue = queue.buy(tx)
		case Sell, SellAll:
			var cogs Money
			queue, cogs = queue.sell(tx.Quantity, pos.Currency)
			pos.RealizedCostOfGoodsSold = pos.RealizedCostOfGoodsSold.Add(cogs)
			pos.RealizedProceeds = pos.RealizedProceeds.Add(tx.Gross().Sub(tx.Fee))
		}
	}
	if pos.AssetName == "" {
		pos.AssetName = pos.ISIN
	}
	pos.QuantityRemaining = queue.quantity()
	pos.CostOfRemaining = queue.cost(pos.Currency)
	return pos
}

// Positions runs FIFO on every asset of the ledger, sorted by asset key.
func Positions(l *Ledger) []AssetPosition {
	byAsset := l.ByAsset()
	res := make([]AssetPosition, 0, len(byAsset))
	for _, key := range sortedKeys(byAsset) {
		res = append(res, FIFO(byAsset[key]))
	}
	return res
}
