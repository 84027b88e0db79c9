package date

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
)

func TestAppend(t *testing.T) {
	h := new(History[float64])
	d1, v1 := New(2025, 07, 01), 25.0
	d2, v2 := New(2024, 07, 01), 24.0

	// Test is about appending two values in reverse order and checking that everything is
	// as expected at every step of the way.

	if h.Len() != 0 {
		t.Errorf("History.Len() = %v want 0", h.Len())
	}

	h.Append(d1, v1)
	if h.Len() != 1 {
		t.Errorf("Append(d1, v1).Len() = %v want 1", h.Len())
	}

	h.Append(d2, v2)
	if h.Len() != 2 {
		t.Errorf("Append(d2, v2).Len() = %v want 2", h.Len())
	}

	if h.days[1] != d1 {
		t.Errorf("history[1].day = %v want %v", h.days[1], d1)
	}
	if h.days[0] != d2 {
		t.Errorf("history[0].day = %v want %v", h.days[0], d2)
	}
	if h.values[1] != v1 {
		t.Errorf("history[1].value = %v want %v", h.values[1], v1)
	}
	if h.values[0] != v2 {
		t.Errorf("history[0].value = %v want %v", h.values[0], v2)
	}

	h.Append(d1, 26)
	if got, _ := h.Get(d1); h.Len() != 2 || got != 26 {
		t.Errorf("Append(d1, 26) = (len %v, %v) want (len 2, 26)", h.Len(), got)
	}
	h.AppendAdd(d1, 1)
	if got, _ := h.Get(d1); got != 27 {
		t.Errorf("AppendAdd(d1, 1) = %v want 27", got)
	}
}

func TestValueAsOf(t *testing.T) {
	h := new(History[float64])
	h.Append(New(2025, 1, 10), 10).Append(New(2025, 1, 20), 20)

	testCases := []struct {
		on     Date
		want   float64
		wantOK bool
	}{
		{New(2025, 1, 9), 0, false},
		{New(2025, 1, 10), 10, true},
		{New(2025, 1, 15), 10, true},
		{New(2025, 1, 20), 20, true},
		{New(2026, 1, 1), 20, true},
	}
	for _, tc := range testCases {
		got, ok := h.ValueAsOf(tc.on)
		if got != tc.want || ok != tc.wantOK {
			t.Errorf("ValueAsOf(%v) = %v, %v want %v, %v", tc.on, got, ok, tc.want, tc.wantOK)
		}
	}

	if on, v, ok := h.PointAfter(New(2025, 1, 11)); !ok || on != New(2025, 1, 20) || v != 20 {
		t.Errorf("PointAfter(2025-01-11) = %v, %v, %v want 2025-01-20, 20, true", on, v, ok)
	}
	if _, _, ok := h.PointAfter(New(2025, 1, 21)); ok {
		t.Errorf("PointAfter(2025-01-21) found a point, want none")
	}
}

func TestFill(t *testing.T) {
	h := new(History[float64])
	h.Append(New(2025, 1, 3), 3).Append(New(2025, 1, 5), 5)

	got := h.Fill(New(2025, 1, 1), New(2025, 1, 7), -1)
	want := []float64{-1, -1, 3, 3, 5, 5, 5}
	if got.Len() != len(want) {
		t.Fatalf("Fill().Len() = %v want %v", got.Len(), len(want))
	}
	for i, w := range want {
		if got.values[i] != w {
			t.Errorf("Fill()[%v] = %v want %v", got.days[i], got.values[i], w)
		}
	}

	// starting in the middle picks the value as of the start.
	got = h.Fill(New(2025, 1, 4), New(2025, 1, 4), 0)
	if v, _ := got.Get(New(2025, 1, 4)); got.Len() != 1 || v != 3 {
		t.Errorf("Fill(4,4) = %v want [3]", got.values)
	}

	if got := h.Fill(New(2025, 1, 4), New(2025, 1, 3), 0); got.Len() != 0 {
		t.Errorf("Fill() on an empty range .Len() = %v want 0", got.Len())
	}
}

func TestResample(t *testing.T) {
	h := new(History[float64])
	h.Append(New(2025, 1, 6), 1)  // Monday
	h.Append(New(2025, 1, 8), 2)  // Wednesday
	h.Append(New(2025, 1, 13), 3) // next Monday

	got := h.Resample(Weekly)
	if got.Len() != 2 {
		t.Fatalf("Resample(Weekly).Len() = %v want 2", got.Len())
	}
	if v, ok := got.Get(New(2025, 1, 12)); !ok || v != 2 {
		t.Errorf("Resample(Weekly)[2025-01-12] = %v, %v want 2, true", v, ok)
	}
	if v, ok := got.Get(New(2025, 1, 19)); !ok || v != 3 {
		t.Errorf("Resample(Weekly)[2025-01-19] = %v, %v want 3, true", v, ok)
	}
}

func TestCumulative(t *testing.T) {
	h := new(History[float64])
	h.Append(New(2025, 1, 1), 100).Append(New(2025, 1, 2), -30).Append(New(2025, 1, 5), 10)
	c := h.Cumulative()
	if _, v := c.Latest(); v != 80 {
		t.Errorf("Cumulative().Latest() = %v want 80", v)
	}
	if v, _ := c.Get(New(2025, 1, 2)); v != 70 {
		t.Errorf("Cumulative()[2025-01-02] = %v want 70", v)
	}
}

func TestBetween(t *testing.T) {
	h := new(History[float64])
	for d := range (Range{New(2025, 1, 1), New(2025, 1, 10)}).Days() {
		h.Append(d, float64(d.Day()))
	}
	got := h.Between(Range{New(2025, 1, 3), New(2025, 1, 5)})
	if got.Len() != 3 {
		t.Errorf("Between().Len() = %v want 3", got.Len())
	}
	if d, v := got.First(); d != New(2025, 1, 3) || v != 3 {
		t.Errorf("Between().First() = %v, %v want 2025-01-03, 3", d, v)
	}
}

func TestHistory_JSON(t *testing.T) {
	h := new(History[float64])
	h.Append(New(2025, 1, 1), 1.5).Append(New(2025, 1, 2), math.NaN())

	b, err := json.Marshal(h)
	if err != nil {
		t.Fatalf("json.Marshal() error: %v", err)
	}
	want := `[{"date":"2025-01-01","value":1.5},{"date":"2025-01-02","value":null}]`
	if string(b) != want {
		t.Errorf("json.Marshal() = %s want %s", b, want)
	}

	var got History[float64]
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("json.Unmarshal() error: %v", err)
	}
	if v, ok := got.Get(New(2025, 1, 2)); !ok || !math.IsNaN(v) {
		t.Errorf("json.Unmarshal()[2025-01-02] = %v, %v want NaN, true", v, ok)
	}
}

func TestHistory_Msgpack(t *testing.T) {
	h := new(History[float64])
	h.Append(New(2025, 1, 1), 1.5).Append(New(2025, 1, 2), math.NaN())

	b, err := msgpack.Marshal(h)
	if err != nil {
		t.Fatalf("msgpack.Marshal() error: %v", err)
	}
	var got History[float64]
	if err := msgpack.Unmarshal(b, &got); err != nil {
		t.Fatalf("msgpack.Unmarshal() error: %v", err)
	}
	if got.Len() != 2 {
		t.Fatalf("msgpack.Unmarshal() has %d points want 2", got.Len())
	}
	if v, ok := got.Get(New(2025, 1, 1)); !ok || v != 1.5 {
		t.Errorf("msgpack.Unmarshal()[2025-01-01] = %v, %v want 1.5, true", v, ok)
	}
	if v, ok := got.Get(New(2025, 1, 2)); !ok || !math.IsNaN(v) {
		t.Errorf("msgpack.Unmarshal()[2025-01-02] = %v, %v want NaN, true", v, ok)
	}
}
