// Package oracle provides the latest NAV of funds, merged from several price
// sources and cached.
package oracle

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/etnz/fundfolio"
	"github.com/etnz/fundfolio/date"
)

var (
	// ErrNotFound is returned when no source knows a valid NAV for an asset.
	ErrNotFound = errors.New("no NAV found")
	// ErrCacheMiss is returned by a Cache without an entry for a key.
	ErrCacheMiss = errors.New("not in cache")
)

// Quote is the latest known price of an asset.
//
// NAV and DayChange are nil when unknown. Date is the ISO date of the NAV.
type Quote struct {
	Name            string    `json:"nombre"`
	ISIN            string    `json:"isin"`
	NAV             *float64  `json:"nav"`
	Date            string    `json:"fecha"`
	Currency        string    `json:"divisa"`
	DayChange       *float64  `json:"variacion_1d"`
	Source          string    `json:"fuente"`
	DayChangeSource string    `json:"fuente_variacion"`
	FetchedAt       time.Time `json:"timestamp"`
}

// Valid reports whether the quote has a NAV.
func (q Quote) Valid() bool { return q.NAV != nil }

// PriceRow converts the quote into a NAV history row, so that a live quote
// values the portfolio until the next history import.
func (q Quote) PriceRow() (fundfolio.PriceRow, bool) {
	on, err := date.Parse(q.Date)
	if q.NAV == nil || err != nil {
		return fundfolio.PriceRow{}, false
	}
	row := fundfolio.PriceRow{Date: on, Close: *q.NAV}
	if q.DayChange != nil {
		row.ChangePct = strconv.FormatFloat(*q.DayChange, 'f', 2, 64) + "%"
	}
	return row, true
}

// Source fetches a quote from one price provider.
//
// Fields the provider does not know are left empty; validation happens when
// quotes are merged.
type Source interface {
	Name() string
	Fetch(ctx context.Context, id fundfolio.Identifier) (Quote, error)
}

// HistorySource downloads daily prices of an asset.
type HistorySource interface {
	History(ctx context.Context, isin string, from, to date.Date) ([]fundfolio.PriceRow, error)
}

func ptr(f float64) *float64 { return &f }
