package oracle

import (
	"strings"
	"time"

	"github.com/etnz/fundfolio"
	"github.com/etnz/fundfolio/date"
)

// maxQuoteAge is how old a NAV date can be to be accepted.
const maxQuoteAge = 7

var currencies = map[string]bool{"EUR": true, "USD": true, "GBP": true, "JPY": true, "CHF": true}

func validName(s string) bool {
	s = strings.TrimSpace(s)
	return s != "" && !strings.EqualFold(s, "fondo sin nombre")
}

func validISIN(s string) bool { return fundfolio.CleanISIN(s) != "" }

func validNAV(v *float64) bool { return v != nil && *v > 0.1 && *v < 10000 }

func validDate(s string, today date.Date) bool {
	on, err := date.Parse(s)
	if err != nil {
		return false
	}
	return !on.After(today) && date.Days(on, today) <= maxQuoteAge
}

func validCurrency(s string) bool { return currencies[strings.ToUpper(strings.TrimSpace(s))] }

func validChange(v *float64) bool { return v != nil && *v > -100 && *v < 100 }

// Merge combines the quotes of several sources, in priority order.
//
// Each field takes the first value that passes its validator. Source is the
// first source with a valid NAV, DayChangeSource the first one with a valid
// daily change. The result has no NAV if no source had a valid one.
func Merge(now time.Time, quotes ...Quote) Quote {
	today := date.Of(now)
	res := Quote{FetchedAt: now}
	for _, q := range quotes {
		if res.Name == "" && validName(q.Name) {
			res.Name = strings.TrimSpace(q.Name)
		}
		if res.ISIN == "" && validISIN(q.ISIN) {
			res.ISIN = fundfolio.CleanISIN(q.ISIN)
		}
		if res.NAV == nil && validNAV(q.NAV) {
			res.NAV = ptr(*q.NAV)
			res.Source = q.Source
		}
		if res.Date == "" && validDate(q.Date, today) {
			on, _ := date.Parse(q.Date)
			res.Date = on.String()
		}
		if res.Currency == "" && validCurrency(q.Currency) {
			res.Currency = strings.ToUpper(strings.TrimSpace(q.Currency))
		}
		if res.DayChange == nil && validChange(q.DayChange) {
			res.DayChange = ptr(*q.DayChange)
			res.DayChangeSource = q.Source
		}
	}
	return res
}
