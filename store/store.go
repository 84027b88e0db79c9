// Package store reads and writes the files of a portfolio: transaction
// ledgers, benchmarks and NAV histories.
package store

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/etnz/fundfolio"
)

// ErrMissingColumn is returned when a CSV file lacks a required column.
var ErrMissingColumn = errors.New("missing column")

// NavStore keeps the daily prices of each asset.
type NavStore interface {
	fundfolio.NavHistory
	// Merge adds rows to the history of isin. A row replaces a known row of the
	// same date.
	Merge(isin string, rows []fundfolio.PriceRow) error
	// List returns the ISINs with a history, sorted.
	List() ([]string, error)
}

// csvNames returns the base names of the .csv files in dir, sorted. A missing
// directory has no files.
func csvNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".csv" {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".csv"))
	}
	sort.Strings(names)
	return names, nil
}

// writeAtomic replaces path with data.
func writeAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
