package oracle

import (
	"context"
	"fmt"
	"time"

	"github.com/etnz/fundfolio"
	"github.com/etnz/fundfolio/date"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
)

// Yahoo reads daily closes from Yahoo Finance charts.
//
// Funds are not searchable by ISIN there, Symbols maps each ISIN to its Yahoo
// symbol (e.g. "0P0000IKFS.F").
type Yahoo struct {
	Symbols map[string]string

	// bars replaces the chart download in tests.
	bars func(ctx context.Context, symbol string, from, to date.Date) ([]fundfolio.PriceRow, string, error)
}

func (y *Yahoo) Name() string { return "yahoo" }

func (y *Yahoo) symbol(isin string) (string, error) {
	if s, ok := y.Symbols[isin]; ok && s != "" {
		return s, nil
	}
	return "", fmt.Errorf("no yahoo symbol configured for %s: %w", isin, ErrNotFound)
}

// chartBars downloads the daily bars of symbol and the currency of the chart.
func chartBars(ctx context.Context, symbol string, from, to date.Date) ([]fundfolio.PriceRow, string, error) {
	start, end := from.Time(), to.Add(1).Time()
	iter := chart.Get(&chart.Params{
		Symbol:   symbol,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: datetime.OneDay,
	})
	var rows []fundfolio.PriceRow
	for iter.Next() {
		if err := ctx.Err(); err != nil {
			return nil, "", err
		}
		bar := iter.Bar()
		rows = append(rows, fundfolio.PriceRow{
			Date:  date.Of(time.Unix(int64(bar.Timestamp), 0).UTC()),
			Close: bar.AdjClose.InexactFloat64(),
			Open:  bar.Open.InexactFloat64(),
			High:  bar.High.InexactFloat64(),
			Low:   bar.Low.InexactFloat64(),
		})
	}
	if err := iter.Err(); err != nil {
		return nil, "", fmt.Errorf("failed to get prices for %s: %w", symbol, err)
	}
	return rows, iter.Meta().Currency, nil
}

func (y *Yahoo) download(ctx context.Context, isin string, from, to date.Date) ([]fundfolio.PriceRow, string, error) {
	symbol, err := y.symbol(isin)
	if err != nil {
		return nil, "", err
	}
	get := y.bars
	if get == nil {
		get = chartBars
	}
	return get(ctx, symbol, from, to)
}

// Fetch returns the last close of the last ten days.
func (y *Yahoo) Fetch(ctx context.Context, id fundfolio.Identifier) (Quote, error) {
	if !id.IsISIN() {
		return Quote{}, fmt.Errorf("yahoo needs an ISIN for %q: %w", id, ErrNotFound)
	}
	today := date.Today()
	rows, currency, err := y.download(ctx, id.ISIN(), today.Add(-10), today)
	if err != nil {
		return Quote{}, err
	}
	q := Quote{ISIN: id.ISIN(), Currency: currency, Source: y.Name()}
	if n := len(rows); n > 0 && rows[n-1].Close > 0 {
		q.NAV, q.Date = ptr(rows[n-1].Close), rows[n-1].Date.String()
		if n > 1 && rows[n-2].Close > 0 {
			q.DayChange = ptr((rows[n-1].Close/rows[n-2].Close - 1) * 100)
		}
	}
	return q, nil
}

// History returns the daily closes of the fund between from and to included.
func (y *Yahoo) History(ctx context.Context, isin string, from, to date.Date) ([]fundfolio.PriceRow, error) {
	rows, _, err := y.download(ctx, isin, from, to)
	return rows, err
}
