package date

import (
	"iter"
	"slices"
)

// Number is the set of value types a History can hold.
type Number interface{ float32 | float64 }

// History stores a chronological series of values, each associated with a specific date.
// It ensures that dates are unique and the series is always sorted.
type History[T Number] struct {
	days   []Date
	values []T
}

// Latest returns the latest date and value in the history.
// If the history is empty, it returns zero value.
func (h *History[T]) Latest() (day Date, value T) {
	last := len(h.days) - 1
	if last < 0 {
		return Date{}, *new(T) // return zero value of T
	}
	return h.days[last], h.values[last]
}

// First returns the earliest date and value in the history.
func (h *History[T]) First() (day Date, value T) {
	if len(h.days) == 0 {
		return Date{}, *new(T)
	}
	return h.days[0], h.values[0]
}

// Clear removes all items from the history.
func (h *History[T]) Clear() {
	h.days = h.days[:0]
	h.values = h.values[:0]
}

// Len returns the number of items in the history.
func (h *History[T]) Len() int { return len(h.days) }

// search returns the index of day, or where it would be inserted.
func (h *History[T]) search(day Date) (int, bool) {
	return slices.BinarySearchFunc(h.days, day, Date.Compare)
}

// Append adds a point to the history.
//
// Existing value at that date are overwritten.
func (h *History[T]) Append(on Date, q T) *History[T] {
	// fast path: chronological appends are the common case.
	if n := len(h.days); n == 0 || h.days[n-1].Before(on) {
		h.days, h.values = append(h.days, on), append(h.values, q)
		return h
	}
	i, found := h.search(on)
	if found {
		// Found a point at that exact same instant.
		// We choose to replace, because it will give higher priority to the last data
		h.values[i] = q
		return h
	}
	h.days = slices.Insert(h.days, i, on)
	h.values = slices.Insert(h.values, i, q)
	return h
}

// AppendAdd adds a point to the history.
//
// Existing value is added.
func (h *History[T]) AppendAdd(on Date, q T) *History[T] {
	if i, found := h.search(on); found {
		h.values[i] += q
		return h
	}
	return h.Append(on, q)
}

// Values returns an iterator over all date/value pairs in the history, in chronological order.
func (h *History[T]) Values() iter.Seq2[Date, T] {
	return func(yield func(Date, T) bool) {
		for i, on := range h.days {
			if !yield(on, h.values[i]) {
				return
			}
		}
	}
}

// Dates returns a copy of the dates of the history.
func (h *History[T]) Dates() []Date { return slices.Clone(h.days) }

// Get returns the value at 'day' and true or zero value and false.
func (h *History[T]) Get(day Date) (T, bool) {
	if i, found := h.search(day); found {
		return h.values[i], true
	}
	var zero T
	return zero, false
}

// Has reports whether there is a point on that day.
func (h *History[T]) Has(day Date) bool {
	_, found := h.search(day)
	return found
}

// ValueAsOf returns the value on a given day, or the most recent value before it.
// It returns the value and true if found, otherwise it returns the zero value and false.
func (h *History[T]) ValueAsOf(day Date) (T, bool) {
	_, v, ok := h.PointAsOf(day)
	return v, ok
}

// PointAsOf is like ValueAsOf but also returns the date of the point found.
func (h *History[T]) PointAsOf(day Date) (Date, T, bool) {
	i, found := h.search(day)
	if found {
		return h.days[i], h.values[i], true
	}
	// Not found. `i` is the index where `day` would be inserted.
	// The value we want is at `i-1`, which is the last entry before the target date.
	if i == 0 {
		var zero T
		return Date{}, zero, false // No date on or before the given day.
	}
	return h.days[i-1], h.values[i-1], true
}

// PointAfter returns the first point on or after day.
func (h *History[T]) PointAfter(day Date) (Date, T, bool) {
	i, _ := h.search(day)
	if i >= len(h.days) {
		var zero T
		return Date{}, zero, false
	}
	return h.days[i], h.values[i], true
}

// Between returns a new History restricted to the closed range r.
func (h *History[T]) Between(r Range) *History[T] {
	from, _ := h.search(r.From)
	to, found := h.search(r.To)
	if found {
		to++
	}
	if from > to {
		from = to
	}
	return &History[T]{
		days:   slices.Clone(h.days[from:to]),
		values: slices.Clone(h.values[from:to]),
	}
}

// Fill returns a dense daily history from 'from' to 'to' (both included).
//
// Each day takes the value of the most recent point on or before it. Days before the
// first point take the value 'leading'.
func (h *History[T]) Fill(from, to Date, leading T) *History[T] {
	res := new(History[T])
	if to.Before(from) {
		return res
	}
	n := Days(from, to) + 1
	res.days = make([]Date, 0, n)
	res.values = make([]T, 0, n)

	i, found := h.search(from)
	last := leading
	if found {
		last = h.values[i]
		i++
	} else if i > 0 {
		last = h.values[i-1]
	}
	for day := range (Range{from, to}).Days() {
		if i < len(h.days) && h.days[i] == day {
			last = h.values[i]
			i++
		}
		res.days, res.values = append(res.days, day), append(res.values, last)
	}
	return res
}

// Resample keeps the last observation of each period, labelled with the period's end date.
func (h *History[T]) Resample(p Period) *History[T] {
	res := new(History[T])
	for i, day := range h.days {
		end := day.EndOf(p)
		if n := len(res.days); n > 0 && res.days[n-1] == end {
			res.values[n-1] = h.values[i]
			continue
		}
		res.days, res.values = append(res.days, end), append(res.values, h.values[i])
	}
	return res
}

// Cumulative returns the running sum of the history.
func (h *History[T]) Cumulative() *History[T] {
	res := &History[T]{
		days:   slices.Clone(h.days),
		values: make([]T, len(h.values)),
	}
	var sum T
	for i, v := range h.values {
		sum += v
		res.values[i] = sum
	}
	return res
}

// Map returns a new History with f applied on each value.
func (h *History[T]) Map(f func(Date, T) T) *History[T] {
	res := &History[T]{
		days:   slices.Clone(h.days),
		values: make([]T, len(h.values)),
	}
	for i, v := range h.values {
		res.values[i] = f(h.days[i], v)
	}
	return res
}
