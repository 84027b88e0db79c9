package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/etnz/fundfolio"
	"github.com/gocarina/gocsv"
)

// LedgerCSV reads the transactions of each portfolio from <Dir>/<portfolio>.csv.
type LedgerCSV struct {
	Dir string
}

func (s LedgerCSV) path(portfolio string) string {
	return filepath.Join(s.Dir, portfolio+".csv")
}

// Load returns the raw records of the portfolio. A missing file is an empty
// ledger.
func (s LedgerCSV) Load(portfolio string) ([]fundfolio.Record, error) {
	f, err := os.Open(s.path(portfolio))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var records []fundfolio.Record
	if err := gocsv.UnmarshalFile(f, &records); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot read ledger %q: %w", portfolio, err)
	}
	return records, nil
}

// Ledger loads and ingests the portfolio.
func (s LedgerCSV) Ledger(portfolio string) (*fundfolio.Ledger, error) {
	records, err := s.Load(portfolio)
	if err != nil {
		return nil, err
	}
	l, _ := fundfolio.Ingest(records)
	return l, nil
}

// Save replaces the ledger of the portfolio.
func (s LedgerCSV) Save(portfolio string, records []fundfolio.Record) error {
	data, err := gocsv.MarshalBytes(records)
	if err != nil {
		return fmt.Errorf("cannot encode ledger %q: %w", portfolio, err)
	}
	return writeAtomic(s.path(portfolio), data)
}

// ModTime returns the last modification of the ledger file, zero if missing.
func (s LedgerCSV) ModTime(portfolio string) (time.Time, error) {
	info, err := os.Stat(s.path(portfolio))
	if errors.Is(err, os.ErrNotExist) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

// Portfolios lists the portfolios that have a ledger.
func (s LedgerCSV) Portfolios() ([]string, error) { return csvNames(s.Dir) }

// BenchmarkCSV reads the benchmark of each portfolio from
// <Dir>/<portfolio>.csv, with columns Fecha and BenchmarkValue.
type BenchmarkCSV struct {
	Dir string
}

// Load returns the benchmark points of the portfolio. A missing file has none.
func (s BenchmarkCSV) Load(portfolio string) ([]fundfolio.BenchmarkPoint, error) {
	f, err := os.Open(filepath.Join(s.Dir, portfolio+".csv"))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var points []fundfolio.BenchmarkPoint
	if err := gocsv.UnmarshalFile(f, &points); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot read benchmark %q: %w", portfolio, err)
	}
	return points, nil
}
