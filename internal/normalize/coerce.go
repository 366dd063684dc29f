package normalize

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var errUnrecognizedDate = errors.New("not a day-first date")

// dateLayouts are tried in order. Day comes before month; ISO dates are
// accepted since they cannot be misread.
var dateLayouts = []string{
	"2/1/2006",
	"2-1-2006",
	"2.1.2006",
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
	"2-1-2006 15:04:05",
	"2-1-2006 15:04",
	"2/1/06",
	"2-1-06",
	"2006-1-2",
	"2006-1-2 15:04:05",
	time.RFC3339,
}

// parseDate parses a day-first date. The result is truncated to midnight UTC.
func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, errUnrecognizedDate
}

var currencyPrefixes = []string{"₹", "$", "€", "£", "rs.", "rs", "inr"}

// parseAmount coerces a money cell. Thousands separators and a leading
// currency marker are dropped.
func parseAmount(s string) (decimal.Decimal, error) {
	clean := strings.ToLower(strings.TrimSpace(s))
	neg := false
	if strings.HasPrefix(clean, "-") {
		neg = true
		clean = strings.TrimSpace(clean[1:])
	}
	for _, p := range currencyPrefixes {
		if strings.HasPrefix(clean, p) {
			clean = strings.TrimSpace(clean[len(p):])
			break
		}
	}
	clean = strings.ReplaceAll(clean, ",", "")
	clean = strings.ReplaceAll(clean, " ", "")
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, err
	}
	if neg {
		d = d.Neg()
	}
	return d, nil
}
