package oracle

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/etnz/fundfolio"
	"github.com/etnz/fundfolio/date"
)

// EODHD queries the eodhd.com API.
//
// A fund is searched by ISIN to find its ticker, then its end of day prices
// are read.
type EODHD struct {
	APIKey string
	// BaseURL defaults to https://eodhd.com.
	BaseURL string
	Client  *http.Client
}

func (e *EODHD) Name() string { return "eodhd" }

func (e *EODHD) base() string {
	if e.BaseURL != "" {
		return strings.TrimSuffix(e.BaseURL, "/")
	}
	return "https://eodhd.com"
}

func (e *EODHD) client() *http.Client {
	if e.Client != nil {
		return e.Client
	}
	return http.DefaultClient
}

type eodhdSearchResult struct {
	Code              string  `json:"Code"`
	Exchange          string  `json:"Exchange"`
	Name              string  `json:"Name"`
	Currency          string  `json:"Currency"`
	ISIN              string  `json:"ISIN"`
	PreviousClose     float64 `json:"previousClose"`
	PreviousCloseDate string  `json:"previousCloseDate"`
}

type eodhdBar struct {
	Date          string  `json:"date"`
	Open          float64 `json:"open"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Close         float64 `json:"close"`
	AdjustedClose float64 `json:"adjusted_close"`
}

// search returns the first listing of the ISIN.
func (e *EODHD) search(ctx context.Context, isin string) (eodhdSearchResult, error) {
	addr := fmt.Sprintf("%s/api/search/%s?fmt=json&api_token=%s", e.base(), url.PathEscape(isin), url.QueryEscape(e.APIKey))
	var content []eodhdSearchResult
	if err := jwget(ctx, e.client(), addr, &content); err != nil {
		return eodhdSearchResult{}, err
	}
	if len(content) == 0 {
		return eodhdSearchResult{}, fmt.Errorf("eodhd has no ticker for %s: %w", isin, ErrNotFound)
	}
	return content[0], nil
}

func (e *EODHD) eod(ctx context.Context, ticker string, from, to date.Date) ([]eodhdBar, error) {
	addr := fmt.Sprintf("%s/api/eod/%s?fmt=json&api_token=%s&from=%s&to=%s", e.base(), url.PathEscape(ticker), url.QueryEscape(e.APIKey), from, to)
	var content []eodhdBar
	if err := jwget(ctx, e.client(), addr, &content); err != nil {
		return nil, err
	}
	return content, nil
}

// Fetch returns the latest close of the fund. The daily change is computed from
// the two last bars of the week.
func (e *EODHD) Fetch(ctx context.Context, id fundfolio.Identifier) (Quote, error) {
	if !id.IsISIN() {
		return Quote{}, fmt.Errorf("eodhd needs an ISIN for %q: %w", id, ErrNotFound)
	}
	found, err := e.search(ctx, id.ISIN())
	if err != nil {
		return Quote{}, err
	}
	q := Quote{
		Name:     found.Name,
		ISIN:     id.ISIN(),
		Currency: found.Currency,
		Source:   e.Name(),
		Date:     found.PreviousCloseDate,
	}
	if found.PreviousClose > 0 {
		q.NAV = ptr(found.PreviousClose)
	}

	today := date.Today()
	bars, err := e.eod(ctx, found.Code+"."+found.Exchange, today.Add(-10), today)
	if err != nil || len(bars) == 0 {
		return q, nil
	}
	last := bars[len(bars)-1]
	if c := barClose(last); c > 0 {
		q.NAV, q.Date = ptr(c), last.Date
		if len(bars) > 1 {
			if prev := barClose(bars[len(bars)-2]); prev > 0 {
				q.DayChange = ptr((c/prev - 1) * 100)
			}
		}
	}
	return q, nil
}

// History returns the daily bars of the fund between from and to included.
func (e *EODHD) History(ctx context.Context, isin string, from, to date.Date) ([]fundfolio.PriceRow, error) {
	found, err := e.search(ctx, isin)
	if err != nil {
		return nil, err
	}
	bars, err := e.eod(ctx, found.Code+"."+found.Exchange, from, to)
	if err != nil {
		return nil, err
	}
	rows := make([]fundfolio.PriceRow, 0, len(bars))
	for _, b := range bars {
		on, err := date.Parse(b.Date)
		if err != nil {
			return nil, fmt.Errorf("eodhd returned an invalid date %q: %w", b.Date, err)
		}
		rows = append(rows, fundfolio.PriceRow{Date: on, Close: barClose(b), Open: b.Open, High: b.High, Low: b.Low})
	}
	return rows, nil
}

// barClose is the close adjusted for splits when available.
func barClose(b eodhdBar) float64 {
	if b.AdjustedClose > 0 {
		return b.AdjustedClose
	}
	return b.Close
}
