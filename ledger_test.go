package fundfolio

import (
	"errors"
	"strings"
	"testing"

	"github.com/etnz/fundfolio/date"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
	}{
		{"Compra", Buy},
		{"buy", Buy},
		{"VENTA", Sell},
		{"Sell", Sell},
		{"Venta total", SellAll},
		{"sellall", SellAll},
	}
	for _, test := range tests {
		got, err := ParseKind(test.in)
		if err != nil {
			t.Errorf("ParseKind(%q) unexpected error: %v", test.in, err)
			continue
		}
		if got != test.want {
			t.Errorf("ParseKind(%q) = %v, want %v", test.in, got, test.want)
		}
	}
	if _, err := ParseKind("dividend"); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("ParseKind(dividend) error = %v, want ErrUnknownKind", err)
	}
}

func TestParseMoney(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"12.5", 12.5},
		{"12,5", 12.5},
		{"1.234,56", 1234.56},
		{"1,234.56", 1234.56},
		{"", 0},
		{" 3 ", 3},
	}
	for _, test := range tests {
		got, err := ParseMoney(test.in, "EUR")
		if err != nil {
			t.Errorf("ParseMoney(%q) unexpected error: %v", test.in, err)
			continue
		}
		if got.Float() != test.want {
			t.Errorf("ParseMoney(%q) = %v, want %v", test.in, got.Float(), test.want)
		}
	}
	if _, err := ParseMoney("abc", "EUR"); err == nil {
		t.Errorf("ParseMoney(abc) expected an error")
	}
}

func record(kind, on, q, price string) Record {
	return Record{Position: "Fund A", ISIN: fundA, Kind: kind, Quantity: q, Date: on, Currency: "EUR", Price: price, Fee: "0"}
}

func TestIngest(t *testing.T) {
	records := []Record{
		record("Compra", "2024-03-01", "10", "100"),
		record("Compra", "2024-01-01", "5", "90"),
		record("Venta total", "2024-04-01", "0", ""),
		record("Compra", "not a date", "1", "1"),
		record("Compra", "2024-05-01", "-3", "1"),
	}
	l, warnings := Ingest(records)

	if got, want := l.Len(), 3; got != want {
		t.Fatalf("Ingest() kept %d transactions, want %d", got, want)
	}
	if got, want := len(warnings), 2; got != want {
		t.Errorf("Ingest() got %d warnings, want %d: %v", got, want, warnings)
	}
	txs := l.Transactions()
	if got, want := txs[0].Date, date.New(2024, 1, 1); got != want {
		t.Errorf("first transaction on %v, want %v", got, want)
	}
	last := txs[2]
	if last.Kind != Sell || !last.Quantity.Equal(Q(15)) {
		t.Errorf("SellAll resolved to %v %v, want Sell 15", last.Kind, last.Quantity)
	}
	if q := l.HoldingAsOf(fundA, date.New(2024, 4, 1)); !q.IsZero() {
		t.Errorf("HoldingAsOf() = %v after SellAll, want 0", q)
	}
}

func TestIngest_SellAllNothingHeld(t *testing.T) {
	l, warnings := Ingest([]Record{record("Venta total", "2024-04-01", "", "")})
	if l.Len() != 0 {
		t.Errorf("Ingest() kept %d transactions, want 0", l.Len())
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0].Message, "nothing held") {
		t.Errorf("Ingest() warnings = %v, want one 'nothing held'", warnings)
	}
}

func TestIngest_Warnings(t *testing.T) {
	oversell := record("Venta", "2024-02-01", "20", "100")
	renamed := record("Compra", "2024-01-02", "1", "100")
	renamed.Position = "Fund A bis"
	otherCurrency := record("Compra", "2024-01-03", "1", "100")
	otherCurrency.Currency = "USD"

	l, warnings := Ingest([]Record{
		record("Compra", "2024-01-01", "10", "100"),
		renamed,
		otherCurrency,
		oversell,
	})
	if l.Len() != 4 {
		t.Errorf("Ingest() kept %d transactions, want 4", l.Len())
	}
	var messages []string
	for _, w := range warnings {
		messages = append(messages, w.Message)
	}
	all := strings.Join(messages, "\n")
	for _, want := range []string{"several names", "currency", "negative stock"} {
		if !strings.Contains(all, want) {
			t.Errorf("Ingest() warnings %q do not mention %q", all, want)
		}
	}
	for _, tx := range l.Transactions() {
		if tx.Currency != "EUR" {
			t.Errorf("transaction on %v has currency %q, want EUR", tx.Date, tx.Currency)
		}
	}
}

func TestIngest_FreeText(t *testing.T) {
	r := record("Compra", "2024-01-01", "1", "10")
	r.ISIN = ""
	r.Position = "My local fund"
	l, warnings := Ingest([]Record{r})
	if len(warnings) != 0 {
		t.Errorf("Ingest() unexpected warnings %v", warnings)
	}
	if got, want := l.Assets(), []string{"SINISIN-MYLOCAL"}; len(got) != 1 || got[0] != want[0] {
		t.Errorf("Assets() = %v, want %v", got, want)
	}
}

func TestTransactionRecord(t *testing.T) {
	l, _ := Ingest([]Record{
		record("Compra", "2024-01-01", "5,5", "90"),
		record("Venta total", "2024-04-01", "", "95"),
	})
	var records []Record
	for _, tx := range l.Transactions() {
		records = append(records, tx.Record())
	}
	if records[1].Kind != "Venta" || records[1].Quantity != "5.5" {
		t.Errorf("Record() = %+v, want a sale of 5.5", records[1])
	}

	again, warnings := Ingest(records)
	if len(warnings) > 0 {
		t.Fatalf("Ingest(Record()) warnings = %v", warnings)
	}
	for i, tx := range again.Transactions() {
		if tx.Record() != records[i] {
			t.Errorf("row %d = %+v, want %+v", i, tx.Record(), records[i])
		}
	}
}
