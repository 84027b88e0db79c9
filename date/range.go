package date

import (
	"fmt"
	"iter"
)

// Range is a closed interval of days.
type Range struct{ From, To Date }

// Contains reports whether day falls within the range, boundaries included.
func (r Range) Contains(day Date) bool { return !day.Before(r.From) && !day.After(r.To) }

// Len is the number of days of the range, 0 when To is before From.
func (r Range) Len() int {
	if r.To.Before(r.From) {
		return 0
	}
	return Days(r.From, r.To) + 1
}

// Days iterates over every day of the range.
func (r Range) Days() iter.Seq[Date] {
	return func(yield func(Date) bool) {
		for day := r.From; !day.After(r.To); day = day.Add(1) {
			if !yield(day) {
				return
			}
		}
	}
}

// Periods iterates over the calendar periods of kind p overlapping the range.
// The first and last ones may extend beyond it.
func (r Range) Periods(p Period) iter.Seq[Range] {
	return func(yield func(Range) bool) {
		for day := r.From; !day.After(r.To); {
			pr := p.Range(day)
			if !yield(pr) {
				return
			}
			day = pr.To.Add(1)
		}
	}
}

// Period returns the calendar period the range spans exactly, if any.
func (r Range) Period() (Period, bool) {
	for _, p := range []Period{Daily, Weekly, Monthly, Quarterly, Yearly} {
		if p.Range(r.From) == r {
			return p, true
		}
	}
	return Daily, false
}

// Identifier names the range: "2025-W37", "2025-09", "2025-Q3", "2025" for
// calendar periods, "<from>_<to>" otherwise.
func (r Range) Identifier() string {
	p, ok := r.Period()
	if !ok {
		return fmt.Sprintf("%s_%s", r.From, r.To)
	}
	switch p {
	case Weekly:
		year, week := r.From.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	case Monthly:
		return r.From.Format("2006-01")
	case Quarterly:
		return fmt.Sprintf("%d-Q%d", r.From.Year(), (r.From.Month()-1)/3+1)
	case Yearly:
		return r.From.Format("2006")
	default:
		return r.From.String()
	}
}
