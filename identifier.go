package fundfolio

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// isinFormat is the loose ISIN shape accepted in ledgers: 2 letters and 10 alphanumerics.
var isinFormat = regexp.MustCompile(`^[A-Z]{2}[A-Z0-9]{10}$`)

// isinRegex checks for the strict structure: 2 letters, 9 alphanumeric, 1 digit.
var isinRegex = regexp.MustCompile(`^[A-Z]{2}[A-Z0-9]{9}[0-9]$`)

// ErrInvalidISIN is returned when an ISIN check digit or format is wrong.
var ErrInvalidISIN = errors.New("invalid ISIN")

// FallbackPrefix prefixes the keys invented for assets without an ISIN.
const FallbackPrefix = "SINISIN-"

// Identifier designates an asset either by its ISIN or by a free text name.
//
// It is resolved once when the ledger is read, and never guessed again.
type Identifier struct {
	isin string
	text string
}

// Isin returns an Identifier for an ISIN. It does not validate it.
func Isin(isin string) Identifier { return Identifier{isin: isin} }

// FreeText returns an Identifier for an asset only known by its name.
func FreeText(name string) Identifier { return Identifier{text: name} }

// ParseIdentifier resolves a raw ISIN cell and the asset name into an Identifier.
//
// The ISIN cell is cleaned from spaces and invisible characters. If it does not
// look like an ISIN, the asset name is used as a free text identifier.
func ParseIdentifier(isin, name string) Identifier {
	if s := CleanISIN(isin); s != "" {
		return Isin(s)
	}
	return FreeText(strings.TrimSpace(name))
}

// CleanISIN returns the cleaned ISIN or "" if s does not look like one.
func CleanISIN(s string) string {
	s = strings.NewReplacer("\u200b", "", "\u00a0", "", " ", "").Replace(s)
	s = strings.ToUpper(strings.TrimSpace(s))
	if !isinFormat.MatchString(s) {
		return ""
	}
	return s
}

// IsISIN reports whether s looks like an ISIN.
func IsISIN(s string) bool { return isinFormat.MatchString(strings.TrimSpace(s)) }

// IsISIN reports whether the identifier holds an ISIN.
func (id Identifier) IsISIN() bool { return id.isin != "" }

// ISIN returns the ISIN or "".
func (id Identifier) ISIN() string { return id.isin }

// Text returns the free text or "".
func (id Identifier) Text() string { return id.text }

// IsZero reports whether the identifier is empty.
func (id Identifier) IsZero() bool { return id.isin == "" && id.text == "" }

// Key returns the asset key used to index series: the ISIN, or a key derived
// from the first 8 characters of the name.
func (id Identifier) Key() string {
	if id.isin != "" {
		return id.isin
	}
	name := []rune(id.text)
	if len(name) > 8 {
		name = name[:8]
	}
	return FallbackPrefix + strings.ReplaceAll(strings.ToUpper(string(name)), " ", "")
}

// String returns the ISIN or the free text.
func (id Identifier) String() string {
	if id.isin != "" {
		return id.isin
	}
	return id.text
}

// ValidateISIN checks if a string is a validly formatted ISIN, including its check digit.
// It returns nil if valid, or a descriptive error if invalid.
func ValidateISIN(isin string) error {
	if len(isin) != 12 {
		return fmt.Errorf("%w: must be 12 characters, got %d", ErrInvalidISIN, len(isin))
	}
	if !isinRegex.MatchString(isin) {
		return fmt.Errorf("%w: must be 2 uppercase letters, 9 alphanumeric chars, and 1 digit", ErrInvalidISIN)
	}

	// Convert letters to numbers for check digit calculation
	var numericStr strings.Builder
	for _, char := range isin[:11] {
		if char >= 'A' && char <= 'Z' {
			numericStr.WriteString(strconv.Itoa(int(char - 'A' + 10)))
		} else {
			numericStr.WriteRune(char)
		}
	}

	// Luhn, doubling from the rightmost digit.
	sum := 0
	isSecond := true
	digits := numericStr.String()
	for i := len(digits) - 1; i >= 0; i-- {
		digit := int(digits[i] - '0')
		if isSecond {
			digit *= 2
		}
		sum += (digit / 10) + (digit % 10)
		isSecond = !isSecond
	}

	expected := (10 - (sum % 10)) % 10
	actual := int(isin[11] - '0')
	if expected != actual {
		return fmt.Errorf("%w: check digit: expected %d, got %d", ErrInvalidISIN, expected, actual)
	}
	return nil
}
