package store

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/etnz/fundfolio"
	"github.com/etnz/fundfolio/date"
	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// navRecord is a row of a NAV history file, in the Investing.com layout.
type navRecord struct {
	Date   string `csv:"Date"`
	Price  string `csv:"Price"`
	Open   string `csv:"Open"`
	High   string `csv:"High"`
	Low    string `csv:"Low"`
	Change string `csv:"Change %"`
}

var navColumns = []string{"Date", "Price", "Open", "High", "Low", "Change %"}

// NavCSV keeps the history of each ISIN in <Dir>/<ISIN>.csv.
type NavCSV struct {
	Dir string

	log zerolog.Logger
}

// NewNavCSV returns a NAV store in dir.
func NewNavCSV(dir string, log zerolog.Logger) *NavCSV {
	return &NavCSV{Dir: dir, log: log.With().Str("component", "nav_csv").Logger()}
}

func (s *NavCSV) path(isin string) string { return filepath.Join(s.Dir, isin+".csv") }

// History returns the rows of isin sorted by date, none if the file is missing.
func (s *NavCSV) History(isin string) ([]fundfolio.PriceRow, error) {
	f, err := os.Open(s.path(isin))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	rows, err := ReadInvesting(f)
	if err != nil {
		return nil, fmt.Errorf("cannot read NAV history of %s: %w", isin, err)
	}
	return rows, nil
}

// Merge adds rows to the history file of isin, replacing the rows of the same
// dates, and rewrites it sorted by date.
func (s *NavCSV) Merge(isin string, rows []fundfolio.PriceRow) error {
	known, err := s.History(isin)
	if err != nil {
		return err
	}
	merged := MergeRows(known, rows)
	records := make([]navRecord, len(merged))
	for i, r := range merged {
		records[i] = navRecord{
			Date:   r.Date.String(),
			Price:  formatPrice(r.Close),
			Open:   formatPrice(r.Open),
			High:   formatPrice(r.High),
			Low:    formatPrice(r.Low),
			Change: r.ChangePct,
		}
	}
	data, err := gocsv.MarshalBytes(records)
	if err != nil {
		return fmt.Errorf("cannot encode NAV history of %s: %w", isin, err)
	}
	if err := writeAtomic(s.path(isin), data); err != nil {
		return err
	}
	s.log.Debug().Str("isin", isin).Int("rows", len(rows)).Int("total", len(merged)).Msg("NAV history merged")
	return nil
}

// List returns the ISINs that have a history file.
func (s *NavCSV) List() ([]string, error) {
	names, err := csvNames(s.Dir)
	if err != nil {
		return nil, err
	}
	res := names[:0]
	for _, n := range names {
		if fundfolio.IsISIN(n) {
			res = append(res, n)
		}
	}
	return res, nil
}

// MergeRows merges two histories. Rows of b replace rows of a on the same date.
// The result is sorted by date.
func MergeRows(a, b []fundfolio.PriceRow) []fundfolio.PriceRow {
	byDate := make(map[date.Date]fundfolio.PriceRow, len(a)+len(b))
	for _, r := range a {
		byDate[r.Date] = r
	}
	for _, r := range b {
		byDate[r.Date] = r
	}
	res := make([]fundfolio.PriceRow, 0, len(byDate))
	for _, r := range byDate {
		res = append(res, r)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Date.Before(res[j].Date) })
	return res
}

func formatPrice(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// trimmedHeader trims spaces around the header names of a CSV file.
type trimmedHeader struct {
	*csv.Reader
	header []string
}

func (r *trimmedHeader) Read() ([]string, error) {
	rec, err := r.Reader.Read()
	if err != nil || r.header != nil {
		return rec, err
	}
	for i, h := range rec {
		rec[i] = strings.TrimSpace(h)
	}
	r.header = rec
	return rec, nil
}

func (r *trimmedHeader) ReadAll() ([][]string, error) {
	var res [][]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			return res, nil
		}
		if err != nil {
			return nil, err
		}
		res = append(res, rec)
	}
}

// ReadInvesting reads a NAV history in the Investing.com export layout:
// columns Date, Price, Open, High, Low and Change %. Numbers may have thousands
// separators, dates may use several layouts. Rows with an invalid date are
// skipped. The result is sorted by date.
func ReadInvesting(r io.Reader) ([]fundfolio.PriceRow, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, []byte("\ufeff"))
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	in := &trimmedHeader{Reader: cr}

	var records []navRecord
	if err := gocsv.UnmarshalCSV(in, &records); err != nil {
		return nil, err
	}
	for _, col := range navColumns {
		if !contains(in.header, col) {
			return nil, fmt.Errorf("%w %q", ErrMissingColumn, col)
		}
	}

	var rows []fundfolio.PriceRow
	for _, rec := range records {
		on, ok := parseDate(rec.Date)
		if !ok {
			continue
		}
		price, err := parseNumber(rec.Price)
		if err != nil {
			return nil, fmt.Errorf("invalid price %q on %s: %w", rec.Price, on, err)
		}
		row := fundfolio.PriceRow{Date: on, Close: price, ChangePct: strings.TrimSpace(rec.Change)}
		row.Open, _ = parseNumber(rec.Open)
		row.High, _ = parseNumber(rec.High)
		row.Low, _ = parseNumber(rec.Low)
		rows = append(rows, row)
	}
	return MergeRows(nil, rows), nil
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}

var dateLayouts = []string{"2006-01-02", "01/02/2006", "Jan 02, 2006", "Jan 2, 2006", "02.01.2006", "2006/01/02"}

func parseDate(s string) (date.Date, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return date.Of(t), true
		}
	}
	return date.Date{}, false
}

// parseNumber parses "1,234.56" or "12.5%".
func parseNumber(s string) (float64, error) {
	s = strings.NewReplacer(",", "", "%", "", " ", "").Replace(s)
	if s == "" {
		return 0, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}
	return d.InexactFloat64(), nil
}
