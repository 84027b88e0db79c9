package store

import (
	"context"
	"fmt"

	"github.com/etnz/fundfolio/date"
	"github.com/etnz/fundfolio/oracle"
)

// Download fetches the daily prices of isin between from and to and merges
// them into dst. It returns the number of rows downloaded.
func Download(ctx context.Context, src oracle.HistorySource, dst NavStore, isin string, from, to date.Date) (int, error) {
	rows, err := src.History(ctx, isin, from, to)
	if err != nil {
		return 0, fmt.Errorf("cannot download history of %s: %w", isin, err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	if err := dst.Merge(isin, rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}
