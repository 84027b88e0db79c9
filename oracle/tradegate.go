package oracle

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/fundfolio"
	"github.com/etnz/fundfolio/date"
)

// Tradegate reads the latest trade of an ISIN on tradegate.de.
//
// Prices are in EUR.
type Tradegate struct {
	// BaseURL defaults to https://www.tradegate.de.
	BaseURL string
	Client  *http.Client
}

func (t *Tradegate) Name() string { return "tradegate" }

func (t *Tradegate) Fetch(ctx context.Context, id fundfolio.Identifier) (Quote, error) {
	if !id.IsISIN() {
		return Quote{}, fmt.Errorf("tradegate needs an ISIN for %q: %w", id, ErrNotFound)
	}
	base := "https://www.tradegate.de"
	if t.BaseURL != "" {
		base = strings.TrimSuffix(t.BaseURL, "/")
	}
	client := t.Client
	if client == nil {
		client = http.DefaultClient
	}

	var jobj any
	if err := jwget(ctx, client, base+"/refresh.php?isin="+url.QueryEscape(id.ISIN()), &jobj); err != nil {
		return Quote{}, fmt.Errorf("cannot read tradegate quote of %s: %w", id, err)
	}

	q := Quote{ISIN: id.ISIN(), Currency: "EUR", Source: t.Name(), Date: date.Today().String()}
	// last moves slower than bid, but "./." when there was no trade today.
	if v, ok := jsonFloat("$.last", jobj); ok && v != 0 {
		q.NAV = ptr(v)
	} else if v, ok := jsonFloat("$.bid", jobj); ok && v != 0 {
		q.NAV = ptr(v)
	}
	if v, ok := jsonFloat("$.delta", jobj); ok {
		q.DayChange = ptr(v)
	}
	return q, nil
}

// jsonFloat reads a number at path. The API sometimes returns numbers as
// strings with a decimal comma, or a percent sign.
func jsonFloat(path string, jobj any) (float64, bool) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return 0, false
	}
	if jlist, ok := jval.([]any); ok {
		if len(jlist) == 0 {
			return 0, false
		}
		jval = jlist[0]
	}
	switch v := jval.(type) {
	case float64:
		return v, true
	case string:
		s := strings.NewReplacer(",", ".", " ", "", "%", "", "+", "").Replace(v)
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	}
	return 0, false
}
