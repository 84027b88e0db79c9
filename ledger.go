package fundfolio

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/etnz/fundfolio/date"
	"github.com/shopspring/decimal"
)

// stockTolerance is how negative a held quantity may get before it is reported.
var stockTolerance = decimal.RequireFromString("-0.0001")

// Ledger is a cleaned, chronologically sorted list of transactions of one portfolio.
type Ledger struct {
	transactions []Transaction
	warnings     []Warning
}

// NewLedger returns a ledger of already cleaned transactions. SellAll
// transactions must have been resolved already.
func NewLedger(txs ...Transaction) *Ledger {
	l := &Ledger{transactions: slices.Clone(txs)}
	sort.SliceStable(l.transactions, func(i, j int) bool {
		return l.transactions[i].Date.Before(l.transactions[j].Date)
	})
	return l
}

// Ingest cleans raw ledger records into a Ledger.
//
// Invalid rows are skipped and reported as warnings. SellAll rows are resolved
// to the quantity held at that point. Oversells are reported, not fixed.
func Ingest(records []Record) (*Ledger, []Warning) {
	var warnings []Warning
	warn := func(row int, asset, format string, args ...any) {
		warnings = append(warnings, Warning{Row: row, Asset: asset, Message: fmt.Sprintf(format, args...)})
	}

	type row struct {
		n  int
		tx Transaction
	}
	rows := make([]row, 0, len(records))
	currencies := make(map[string]string)

	for i, r := range records {
		n := i + 1
		id := ParseIdentifier(r.ISIN, r.Position)
		if id.IsZero() {
			warn(n, "", "no ISIN nor asset name, row skipped")
			continue
		}
		if raw := strings.TrimSpace(r.ISIN); raw != "" && !id.IsISIN() {
			warn(n, id.Key(), "ISIN %q is not valid, using the asset name", raw)
		}
		if id.IsISIN() {
			if err := ValidateISIN(id.ISIN()); err != nil {
				warn(n, id.Key(), "%v", err)
			}
		}
		kind, err := ParseKind(r.Kind)
		if err != nil {
			warn(n, id.Key(), "%v, row skipped", err)
			continue
		}
		on, err := date.Parse(r.Date)
		if err != nil {
			warn(n, id.Key(), "%v, row skipped", err)
			continue
		}

		cur := strings.ToUpper(strings.TrimSpace(r.Currency))
		if prev, ok := currencies[id.Key()]; !ok {
			currencies[id.Key()] = cur
		} else if prev != cur {
			warn(n, id.Key(), "currency %q differs from %q used earlier, %q assumed", cur, prev, prev)
			cur = prev
		}

		qty, err := ParseQuantity(r.Quantity)
		if err != nil || (kind != SellAll && !qty.IsPositive()) {
			warn(n, id.Key(), "quantity %q must be a positive number, row skipped", r.Quantity)
			continue
		}
		price, err := ParseMoney(r.Price, cur)
		if err != nil || price.IsNegative() || (kind != SellAll && strings.TrimSpace(r.Price) == "") {
			warn(n, id.Key(), "price %q must be a non negative number, row skipped", r.Price)
			continue
		}
		fee, err := ParseMoney(r.Fee, cur)
		if err != nil || fee.IsNegative() {
			warn(n, id.Key(), "fee %q must be a non negative number, 0 assumed", r.Fee)
			fee = M(0, cur)
		}

		rows = append(rows, row{n: n, tx: Transaction{
			AssetName: strings.TrimSpace(r.Position),
			ID:        id,
			Kind:      kind,
			Quantity:  qty,
			Date:      on,
			Currency:  cur,
			Price:     price,
			Fee:       fee,
		}})
	}

	txs := make([]Transaction, len(rows))
	for i, r := range rows {
		txs[i] = r.tx
	}
	warnings = append(warnings, nameConflicts(txs)...)

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].tx.Date.Before(rows[j].tx.Date) })

	l := &Ledger{transactions: make([]Transaction, 0, len(rows))}
	held := make(map[string]Quantity)
	for _, r := range rows {
		tx := r.tx
		key := tx.Key()
		if tx.Kind == SellAll {
			q := held[key]
			if !q.IsPositive() {
				warn(r.n, key, "nothing held on %v to sell, row skipped", tx.Date)
				continue
			}
			tx.Kind = Sell
			tx.Quantity = q
		}
		balance := held[key].Add(tx.Delta())
		if balance.value.LessThan(stockTolerance) {
			warn(r.n, key, "negative stock %v after selling %v on %v", balance, tx.Quantity, tx.Date)
		}
		held[key] = balance
		l.transactions = append(l.transactions, tx)
	}
	l.warnings = warnings
	return l, warnings
}

// Warnings returns the data quality problems found by Ingest.
func (l *Ledger) Warnings() []Warning { return l.warnings }

// nameConflicts reports the ISINs associated with more than one asset name.
func nameConflicts(txs []Transaction) []Warning {
	names := make(map[string][]string)
	for _, tx := range txs {
		if !tx.ID.IsISIN() || tx.AssetName == "" {
			continue
		}
		if !slices.Contains(names[tx.ID.ISIN()], tx.AssetName) {
			names[tx.ID.ISIN()] = append(names[tx.ID.ISIN()], tx.AssetName)
		}
	}
	var warnings []Warning
	for _, isin := range sortedKeys(names) {
		if n := names[isin]; len(n) > 1 {
			warnings = append(warnings, Warning{
				Asset:   isin,
				Message: fmt.Sprintf("ISIN is associated with several names: %s", strings.Join(n, ", ")),
			})
		}
	}
	return warnings
}

// Transactions returns all transactions, sorted by date, ties in ledger order.
func (l *Ledger) Transactions() []Transaction { return l.transactions }

// Len returns the number of transactions.
func (l *Ledger) Len() int { return len(l.transactions) }

// First returns the date of the first transaction, or the zero Date.
func (l *Ledger) First() date.Date {
	if len(l.transactions) == 0 {
		return date.Date{}
	}
	return l.transactions[0].Date
}

// ByAsset groups the transactions per asset key, keeping their order.
func (l *Ledger) ByAsset() map[string][]Transaction {
	res := make(map[string][]Transaction)
	for _, tx := range l.transactions {
		res[tx.Key()] = append(res[tx.Key()], tx)
	}
	return res
}

// Assets returns the sorted asset keys present in the ledger.
func (l *Ledger) Assets() []string { return sortedKeys(l.ByAsset()) }

// Names returns the last asset name used for each asset key.
func (l *Ledger) Names() map[string]string {
	res := make(map[string]string)
	for _, tx := range l.transactions {
		if tx.AssetName != "" {
			res[tx.Key()] = tx.AssetName
		} else if _, ok := res[tx.Key()]; !ok {
			res[tx.Key()] = tx.ID.String()
		}
	}
	return res
}

// Identifiers returns the identifier of each asset key.
func (l *Ledger) Identifiers() map[string]Identifier {
	res := make(map[string]Identifier)
	for _, tx := range l.transactions {
		res[tx.Key()] = tx.ID
	}
	return res
}

// Currency returns the currency of an asset.
func (l *Ledger) Currency(key string) string {
	for _, tx := range l.transactions {
		if tx.Key() == key {
			return tx.Currency
		}
	}
	return ""
}

// HoldingAsOf returns the quantity of an asset held at the end of day.
func (l *Ledger) HoldingAsOf(key string, day date.Date) Quantity {
	var q Quantity
	for _, tx := range l.transactions {
		if tx.Date.After(day) {
			break
		}
		if tx.Key() == key {
			q = q.Add(tx.Delta())
		}
	}
	return q
}

// ValidateStock replays the ledger and reports every transaction leaving a
// negative quantity held.
func (l *Ledger) ValidateStock() []Warning {
	var warnings []Warning
	held := make(map[string]Quantity)
	for _, tx := range l.transactions {
		held[tx.Key()] = held[tx.Key()].Add(tx.Delta())
		if q := held[tx.Key()]; q.value.LessThan(stockTolerance) {
			warnings = append(warnings, Warning{
				Asset:   tx.Key(),
				Message: fmt.Sprintf("negative stock %v on %v", q, tx.Date),
			})
		}
	}
	return warnings
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
