package fundfolio

import (
	"sort"

	"github.com/etnz/fundfolio/date"
)

// Interval is a run of consecutive days with a known NAV.
type Interval struct {
	Start date.Date `json:"start"`
	End   date.Date `json:"end"`
	Rows  int       `json:"rows"`
}

// Intervals groups price rows into continuous daily intervals. A gap of more
// than one day starts a new interval.
func Intervals(rows []PriceRow) []Interval {
	days := make([]date.Date, 0, len(rows))
	for _, r := range rows {
		days = append(days, r.Date)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	var res []Interval
	for _, day := range days {
		if n := len(res); n > 0 {
			last := &res[n-1]
			if gap := date.Days(last.End, day); gap <= 1 {
				if gap == 1 {
					last.End = day
				}
				last.Rows++
				continue
			}
		}
		res = append(res, Interval{Start: day, End: day, Rows: 1})
	}
	return res
}

// AssetCoverage reports how well the NAV history of an asset covers its transactions.
type AssetCoverage struct {
	Key       string     `json:"key"`
	Name      string     `json:"name"`
	First     date.Date  `json:"first"` // first NAV date, zero if none
	Last      date.Date  `json:"last"`
	Intervals []Interval `json:"intervals"`
	// Missing lists the transaction dates without a NAV on that exact day.
	Missing []date.Date `json:"missing"`
}

// Covered reports whether every transaction date has a NAV.
func (c AssetCoverage) Covered() bool { return len(c.Missing) == 0 && len(c.Intervals) > 0 }

// Coverage checks, for each asset of the ledger, which transaction dates are
// not covered by its raw NAV history (rows by asset key, before any fill).
func Coverage(l *Ledger, rows map[string][]PriceRow) []AssetCoverage {
	names, txs := l.Names(), l.ByAsset()
	var res []AssetCoverage
	for _, key := range l.Assets() {
		c := AssetCoverage{Key: key, Name: names[key], Intervals: Intervals(rows[key])}
		if n := len(c.Intervals); n > 0 {
			c.First, c.Last = c.Intervals[0].Start, c.Intervals[n-1].End
		}
		seen := make(map[date.Date]bool)
		for _, tx := range txs[key] {
			if seen[tx.Date] || covered(c.Intervals, tx.Date) {
				continue
			}
			seen[tx.Date] = true
			c.Missing = append(c.Missing, tx.Date)
		}
		res = append(res, c)
	}
	return res
}

func covered(intervals []Interval, day date.Date) bool {
	for _, i := range intervals {
		if (date.Range{From: i.Start, To: i.End}).Contains(day) {
			return true
		}
	}
	return false
}
