package fundfolio

import (
	"errors"
	"fmt"
	"strings"

	"github.com/etnz/fundfolio/date"
)

// Kind is the kind of a ledger transaction.
type Kind int

const (
	Buy Kind = iota
	Sell
	// SellAll sells everything held on that date. It is resolved to a Sell of an
	// explicit quantity when the ledger is ingested.
	SellAll
)

// ErrUnknownKind is returned when a transaction kind cannot be parsed.
var ErrUnknownKind = errors.New("unknown transaction kind")

// ParseKind parses the ledger "Tipo" column, in Spanish or English.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "compra", "buy":
		return Buy, nil
	case "venta", "sell":
		return Sell, nil
	case "venta total", "sellall", "sell all", "sell-all":
		return SellAll, nil
	default:
		return Buy, fmt.Errorf("%w %q", ErrUnknownKind, s)
	}
}

func (k Kind) String() string {
	switch k {
	case Buy:
		return "Compra"
	case Sell:
		return "Venta"
	case SellAll:
		return "Venta total"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// MarshalText writes the ledger name of the kind.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Transaction is a cleaned ledger event.
//
// Quantity is always positive. The engine never mutates a Transaction.
type Transaction struct {
	AssetName string
	ID        Identifier
	Kind      Kind
	Quantity  Quantity
	Date      date.Date
	Currency  string
	Price     Money // unit price
	Fee       Money
}

// Key returns the asset key of the transaction.
func (tx Transaction) Key() string { return tx.ID.Key() }

// Gross returns quantity × price.
func (tx Transaction) Gross() Money { return tx.Price.Mul(tx.Quantity) }

// CashFlow returns the external cash flow of the transaction from the investor's
// point of view: a Buy is negative, a Sell positive, and the fee always reduces it.
func (tx Transaction) CashFlow() Money {
	if tx.Kind == Buy {
		return tx.Gross().Add(tx.Fee).Neg()
	}
	return tx.Gross().Sub(tx.Fee)
}

// Record returns the ledger row of the transaction. A SellAll is written with
// the quantity it resolved to.
func (tx Transaction) Record() Record {
	return Record{
		Position: tx.AssetName,
		ISIN:     tx.ID.ISIN(),
		Kind:     tx.Kind.String(),
		Quantity: tx.Quantity.String(),
		Date:     tx.Date.String(),
		Currency: tx.Currency,
		Price:    tx.Price.value.String(),
		Fee:      tx.Fee.value.String(),
	}
}

// Delta returns the signed quantity change of the transaction.
func (tx Transaction) Delta() Quantity {
	if tx.Kind == Buy {
		return tx.Quantity
	}
	return tx.Quantity.Neg()
}

// Record is a raw ledger row, as stored in the portfolio CSV files.
type Record struct {
	Position string `csv:"Posición"`
	ISIN     string `csv:"ISIN"`
	Kind     string `csv:"Tipo"`
	Quantity string `csv:"Participaciones"`
	Date     string `csv:"Fecha"`
	Currency string `csv:"Moneda"`
	Price    string `csv:"Precio"`
	Fee      string `csv:"Gasto"`
}

// Warning is a data quality problem found while reading a ledger.
//
// Warnings never abort a computation.
type Warning struct {
	Row     int    `json:"row,omitempty"` // 1-based row in the ledger, 0 when not row related
	Asset   string `json:"asset,omitempty"`
	Message string `json:"message"`
}

func (w Warning) String() string {
	var b strings.Builder
	if w.Row > 0 {
		fmt.Fprintf(&b, "row %d: ", w.Row)
	}
	if w.Asset != "" {
		fmt.Fprintf(&b, "%s: ", w.Asset)
	}
	b.WriteString(w.Message)
	return b.String()
}
