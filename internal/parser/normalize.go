package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joseph-ayodele/receipt-extractor/constants"
)

var (
	reNumericToken = regexp.MustCompile(`\d+\.?\d*`)
	reDigitsOnly   = regexp.MustCompile(`^\d+$`)
)

// currencyStripper removes currency symbols, thousands separators and
// whitespace before the numeric token is extracted.
var currencyStripper = strings.NewReplacer(
	"$", "", "£", "", "€", "", "¥", "", "₹", "",
	",", "", " ", "", "\t", "",
)

// NormalizePrice converts a messy price token into a canonical decimal
// string with exactly two fractional digits. It is total: any input that
// yields no numeric token maps to "0.00". It is also idempotent, since its
// own output is a plain numeric token.
func NormalizePrice(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return constants.ZeroAmount
	}
	s = currencyStripper.Replace(s)
	tok := reNumericToken.FindString(s)
	if tok == "" {
		return constants.ZeroAmount
	}
	f, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return constants.ZeroAmount
	}
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// NormalizeQuantity coerces a quantity token to a positive integer,
// defaulting to 1. Fractional tokens are truncated; zero and negatives are
// treated as absent.
func NormalizeQuantity(raw string) int {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 1
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n >= 1 {
			return n
		}
		return 1
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if n := int(f); n >= 1 {
			return n
		}
	}
	return 1
}

// MultiplyPrice returns price * quantity as a 2-dp decimal string. Used by
// the stages that derive a line total rather than passing one through.
func MultiplyPrice(price string, quantity int) string {
	f, err := strconv.ParseFloat(price, 64)
	if err != nil {
		return constants.ZeroAmount
	}
	if quantity < 1 {
		quantity = 1
	}
	return strconv.FormatFloat(f*float64(quantity), 'f', 2, 64)
}

// dateLayouts are tried in order when canonicalizing a date token. US
// month-first numeric layouts come before day-first ones; list order is the
// tie-break for textually ambiguous dates.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006.01.02",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"01.02.2006",
	"01/02/06",
	"02/01/2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
}

// CanonicalDate parses a raw date token in any supported layout and returns
// it as YYYY-MM-DD. The boolean reports whether parsing succeeded; callers
// decide the fallback (usually today's date).
func CanonicalDate(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(constants.DateLayout), true
		}
	}
	return "", false
}

// CanonicalDateOr is CanonicalDate with an explicit fallback time.
func CanonicalDateOr(raw string, fallback time.Time) string {
	if d, ok := CanonicalDate(raw); ok {
		return d
	}
	return fallback.Format(constants.DateLayout)
}

func hasLetter(s string) bool {
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return true
		}
	}
	return false
}

func hasDigit(s string) bool {
	for _, r := range s {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}

func isDigitsOnly(s string) bool {
	return reDigitsOnly.MatchString(strings.TrimSpace(s))
}
