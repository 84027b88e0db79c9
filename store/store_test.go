package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/etnz/fundfolio"
	"github.com/etnz/fundfolio/date"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fund = "IE00B4L5Y983"

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLedgerCSV(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "main.csv"),
		"Posición,ISIN,Tipo,Participaciones,Fecha,Moneda,Precio,Gasto\n"+
			"World Fund,"+fund+",Compra,10,2024-01-02,EUR,\"100,5\",1\n"+
			"World Fund,"+fund+",Venta,SellAll,2024-06-03,EUR,110,0\n")
	writeFile(t, filepath.Join(dir, "other.csv"), "")
	writeFile(t, filepath.Join(dir, "notes.txt"), "x")
	s := LedgerCSV{Dir: dir}

	records, err := s.Load("main")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "World Fund", records[0].Position)
	assert.Equal(t, "100,5", records[0].Price)
	assert.Equal(t, "SellAll", records[1].Quantity)

	empty, err := s.Load("other")
	require.NoError(t, err)
	assert.Empty(t, empty)

	missing, err := s.Load("nope")
	require.NoError(t, err)
	assert.Empty(t, missing)

	mt, err := s.ModTime("nope")
	require.NoError(t, err)
	assert.True(t, mt.IsZero())

	names, err := s.Portfolios()
	require.NoError(t, err)
	assert.Equal(t, []string{"main", "other"}, names)
}

func TestLedgerCSV_SaveLoad(t *testing.T) {
	s := LedgerCSV{Dir: filepath.Join(t.TempDir(), "tx")}
	in := []fundfolio.Record{{Position: "A", ISIN: fund, Kind: "Compra", Quantity: "1", Date: "2024-01-02", Currency: "EUR", Price: "10", Fee: "0"}}
	require.NoError(t, s.Save("p", in))

	out, err := s.Load("p")
	require.NoError(t, err)
	assert.Equal(t, in, out)

	l, err := s.Ledger("p")
	require.NoError(t, err)
	assert.Equal(t, 1, l.Len())
}

func TestBenchmarkCSV(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "main.csv"), "Fecha,BenchmarkValue\n2024-01-31,100\n2024-02-29,101.5\n")
	s := BenchmarkCSV{Dir: dir}

	points, err := s.Load("main")
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, date.New(2024, 2, 29), points[1].Date)
	assert.Equal(t, 101.5, points[1].Value)

	none, err := s.Load("nope")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestReadInvesting(t *testing.T) {
	in := "\ufeff\"Date\",\"Price\",\"Open\",\"High\",\"Low\",\"Vol.\",\"Change %\"\n" +
		"\"01/03/2024\",\"1,234.50\",\"1,230.00\",\"1,240.00\",\"1,229.00\",\"\",\"0.37%\"\n" +
		"\"01/02/2024\",\"1,230.00\",\"1,225.00\",\"1,231.00\",\"1,220.00\",\"\",\"-0.10%\"\n" +
		"\"bad\",\"1\",\"1\",\"1\",\"1\",\"\",\"\"\n"

	rows, err := ReadInvesting(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, date.New(2024, 1, 2), rows[0].Date, "sorted by date")
	assert.Equal(t, 1234.5, rows[1].Close)
	assert.Equal(t, 1240.0, rows[1].High)
	assert.Equal(t, "0.37%", rows[1].ChangePct)
}

func TestReadInvesting_MissingColumn(t *testing.T) {
	_, err := ReadInvesting(strings.NewReader("Date,Price\n2024-01-02,10\n"))
	assert.ErrorIs(t, err, ErrMissingColumn)
}

// testNavStore runs the NavStore contract against s.
func testNavStore(t *testing.T, s NavStore) {
	t.Helper()
	none, err := s.History(fund)
	require.NoError(t, err)
	assert.Empty(t, none)

	require.NoError(t, s.Merge(fund, []fundfolio.PriceRow{
		{Date: date.New(2024, 1, 3), Close: 11, ChangePct: "10%"},
		{Date: date.New(2024, 1, 2), Close: 10, Open: 9.5, High: 10.5, Low: 9},
	}))
	require.NoError(t, s.Merge(fund, []fundfolio.PriceRow{
		{Date: date.New(2024, 1, 3), Close: 12},
		{Date: date.New(2024, 1, 4), Close: 13},
	}))

	rows, err := s.History(fund)
	require.NoError(t, err)
	want := []fundfolio.PriceRow{
		{Date: date.New(2024, 1, 2), Close: 10, Open: 9.5, High: 10.5, Low: 9},
		{Date: date.New(2024, 1, 3), Close: 12},
		{Date: date.New(2024, 1, 4), Close: 13},
	}
	assert.Equal(t, want, rows)

	isins, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, []string{fund}, isins)
}

func TestNavCSV(t *testing.T) {
	testNavStore(t, NewNavCSV(t.TempDir(), zerolog.Nop()))
}

func TestSQLiteNavStore(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "nav.db"), zerolog.Nop())
	require.NoError(t, err)
	defer s.Close()
	testNavStore(t, s)
}

type fakeHistory []fundfolio.PriceRow

func (f fakeHistory) History(ctx context.Context, isin string, from, to date.Date) ([]fundfolio.PriceRow, error) {
	return f, nil
}

func TestDownload(t *testing.T) {
	dst := NewNavCSV(t.TempDir(), zerolog.Nop())
	src := fakeHistory{{Date: date.New(2024, 1, 2), Close: 10}}

	n, err := Download(context.Background(), src, dst, fund, date.New(2024, 1, 1), date.New(2024, 1, 31))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	rows, err := dst.History(fund)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
