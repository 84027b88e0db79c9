package date

import (
	"testing"
	"time"
)

// TestTime assert that the time() is cannonical and gives comparable times.
func TestTime(t *testing.T) {
	d1 := New(2025, 7, 31)
	d2 := New(2025, 7, 31)

	if d1.time() != d2.time() {
		// Note that usually time.Time are not comparable (there is a pointer for the timezone) this
		// tests also checks that the property remain true
		t.Errorf("invalid time() function same day gives two different time")
	}
}

func TestParse(t *testing.T) {
	want := New(2025, time.July, 1)
	for _, in := range []string{
		"2025-07-01",
		"2025-7-1",
		" 2025-07-01 ",
		"07/01/2025",
		"Jul 01, 2025",
		"01.07.2025",
		"2025-07-01T10:30:00Z",
		"2025-07-01 00:00:00",
	} {
		got, err := Parse(in)
		if err != nil {
			t.Errorf("Parse(%q) unexpected error: %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("Parse(%q) = %v, want %v", in, got, want)
		}
	}

	if _, err := Parse("yesterday"); err == nil {
		t.Errorf("Parse(%q) expected an error", "yesterday")
	}
}

func TestDays(t *testing.T) {
	testCases := []struct {
		a, b Date
		want int
	}{
		{New(2025, 1, 1), New(2025, 1, 1), 0},
		{New(2025, 1, 1), New(2025, 1, 31), 30},
		{New(2024, 1, 1), New(2025, 1, 1), 366},
		{New(2025, 3, 30), New(2025, 3, 31), 1}, // DST change in Europe does not matter in UTC
		{New(2025, 1, 31), New(2025, 1, 1), -30},
	}
	for _, tc := range testCases {
		if got := Days(tc.a, tc.b); got != tc.want {
			t.Errorf("Days(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
	if got := Years(New(2024, 1, 1), New(2025, 1, 1)); got != 366/365.25 {
		t.Errorf("Years() = %v, want %v", got, 366/365.25)
	}
}

func TestStartEndOf(t *testing.T) {
	d := New(2025, time.August, 14) // a Thursday
	testCases := []struct {
		p          Period
		start, end Date
	}{
		{Daily, d, d},
		{Weekly, New(2025, time.August, 11), New(2025, time.August, 17)},
		{Monthly, New(2025, time.August, 1), New(2025, time.August, 31)},
		{Quarterly, New(2025, time.July, 1), New(2025, time.September, 30)},
		{Yearly, New(2025, time.January, 1), New(2025, time.December, 31)},
	}
	for _, tc := range testCases {
		if got := d.StartOf(tc.p); got != tc.start {
			t.Errorf("StartOf(%v) = %v, want %v", tc.p, got, tc.start)
		}
		if got := d.EndOf(tc.p); got != tc.end {
			t.Errorf("EndOf(%v) = %v, want %v", tc.p, got, tc.end)
		}
	}
}

func TestAddYears(t *testing.T) {
	if got, want := New(2024, time.February, 29).AddYears(-1), New(2023, time.March, 1); got != want {
		t.Errorf("AddYears(-1) = %v, want %v", got, want)
	}
}

func TestDate_JSON(t *testing.T) {
	d := New(2025, time.January, 2)
	b, err := d.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() error: %v", err)
	}
	if string(b) != `"2025-01-02"` {
		t.Errorf("MarshalJSON() = %s, want %q", b, "2025-01-02")
	}
	var got Date
	if err := got.UnmarshalJSON(b); err != nil {
		t.Fatalf("UnmarshalJSON() error: %v", err)
	}
	if got != d {
		t.Errorf("UnmarshalJSON() = %v, want %v", got, d)
	}
}
