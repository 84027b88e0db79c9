package oracle

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/etnz/fundfolio"
	"github.com/etnz/fundfolio/date"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEODHD(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.URL.Query().Get("api_token"))
		switch r.URL.Path {
		case "/api/search/" + fund:
			fmt.Fprint(w, `[{"Code":"IWDA","Exchange":"AS","Name":"iShares Core MSCI World","Currency":"EUR","previousClose":80,"previousCloseDate":"2025-03-06"}]`)
		case "/api/eod/IWDA.AS":
			fmt.Fprint(w, `[{"date":"2025-03-06","open":79,"high":81,"low":78,"close":80,"adjusted_close":80},
				{"date":"2025-03-07","open":80,"high":82,"low":79,"close":82,"adjusted_close":82}]`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()
	e := &EODHD{APIKey: "secret", BaseURL: srv.URL, Client: srv.Client()}

	q, err := e.Fetch(context.Background(), fundfolio.Isin(fund))
	require.NoError(t, err)
	assert.Equal(t, "iShares Core MSCI World", q.Name)
	assert.Equal(t, 82.0, *q.NAV)
	assert.Equal(t, "2025-03-07", q.Date)
	assert.InDelta(t, 2.5, *q.DayChange, 1e-9)

	rows, err := e.History(context.Background(), fund, date.New(2025, 3, 1), date.New(2025, 3, 7))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, date.New(2025, 3, 6), rows[0].Date)
	assert.Equal(t, 81.0, rows[0].High)

	_, err = e.Fetch(context.Background(), fundfolio.Isin("LU0000000009"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTradegate(t *testing.T) {
	for _, tc := range []struct {
		name, body string
		nav        float64
		change     *float64
	}{
		{"number", `{"last": 12.5, "bid": 12.4, "delta": "+0,52%"}`, 12.5, ptr(0.52)},
		{"string", `{"last": "1 234,5", "bid": 0}`, 1234.5, nil},
		{"no trade", `{"last": "./.", "bid": "12,40", "delta": -1.5}`, 12.4, ptr(-1.5)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, fund, r.URL.Query().Get("isin"))
				fmt.Fprint(w, tc.body)
			}))
			defer srv.Close()
			tg := &Tradegate{BaseURL: srv.URL, Client: srv.Client()}

			q, err := tg.Fetch(context.Background(), fundfolio.Isin(fund))
			require.NoError(t, err)
			require.NotNil(t, q.NAV)
			assert.Equal(t, tc.nav, *q.NAV)
			assert.Equal(t, tc.change, q.DayChange)
			assert.Equal(t, "EUR", q.Currency)
		})
	}
}

func TestYahoo(t *testing.T) {
	y := &Yahoo{
		Symbols: map[string]string{fund: "IWDA.AS"},
		bars: func(ctx context.Context, symbol string, from, to date.Date) ([]fundfolio.PriceRow, string, error) {
			assert.Equal(t, "IWDA.AS", symbol)
			return []fundfolio.PriceRow{
				{Date: to.Add(-1), Close: 100},
				{Date: to, Close: 99},
			}, "EUR", nil
		},
	}
	q, err := y.Fetch(context.Background(), fundfolio.Isin(fund))
	require.NoError(t, err)
	assert.Equal(t, 99.0, *q.NAV)
	assert.InDelta(t, -1, *q.DayChange, 1e-9)
	assert.Equal(t, "EUR", q.Currency)

	_, err = y.Fetch(context.Background(), fundfolio.Isin("LU0000000009"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDaily_Caches(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		fmt.Fprint(w, `{"v": 1}`)
	}))
	defer srv.Close()
	client := Daily(t.TempDir(), zerolog.Nop())

	for range 2 {
		var got map[string]float64
		require.NoError(t, jwget(context.Background(), client, srv.URL+"/x", &got))
		assert.Equal(t, 1.0, got["v"])
	}
	assert.Equal(t, 1, hits)
}
