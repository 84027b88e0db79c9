package fundfolio

import (
	"errors"
	"testing"
)

func TestParseIdentifier(t *testing.T) {
	tests := []struct {
		isin, name string
		wantKey    string
		wantISIN   bool
	}{
		{"IE00B4L5Y983", "World", "IE00B4L5Y983", true},
		{" ie00b4l5y983 ", "World", "IE00B4L5Y983", true},
		{"IE00\u200bB4L5Y983", "World", "IE00B4L5Y983", true},
		{"", "My local fund", "SINISIN-MYLOCAL", false},
		{"n/a", "Plan", "SINISIN-PLAN", false},
	}
	for _, test := range tests {
		id := ParseIdentifier(test.isin, test.name)
		if got := id.Key(); got != test.wantKey {
			t.Errorf("ParseIdentifier(%q, %q).Key() = %q, want %q", test.isin, test.name, got, test.wantKey)
		}
		if got := id.IsISIN(); got != test.wantISIN {
			t.Errorf("ParseIdentifier(%q, %q).IsISIN() = %v, want %v", test.isin, test.name, got, test.wantISIN)
		}
	}
}

func TestValidateISIN(t *testing.T) {
	tests := []struct {
		isin  string
		valid bool
	}{
		{"US0378331005", true},
		{"IE00B4L5Y983", true},
		{"US0378331006", false},
		{"US037833100", false},
		{"0S0378331005", false},
	}
	for _, test := range tests {
		err := ValidateISIN(test.isin)
		if test.valid && err != nil {
			t.Errorf("ValidateISIN(%q) unexpected error: %v", test.isin, err)
		}
		if !test.valid && !errors.Is(err, ErrInvalidISIN) {
			t.Errorf("ValidateISIN(%q) = %v, want ErrInvalidISIN", test.isin, err)
		}
	}
}
