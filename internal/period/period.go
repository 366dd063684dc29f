// Package period buckets dates into canonical "YYYY-MM" month keys shared by
// every ledger stream.
package period

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Key is a canonical month bucket like "2025-09". The empty Key means the
// source record had no usable date.
type Key string

// None is the Key assigned to undated records.
const None Key = ""

// Format returns the key for a year and month, e.g. Format(2025, 9) = "2025-09".
func Format(year, month int) Key {
	return Key(fmt.Sprintf("%04d-%02d", year, month))
}

// Of returns the month key of t, or None for the zero time.
func Of(t time.Time) Key {
	if t.IsZero() {
		return None
	}
	return Format(t.Year(), int(t.Month()))
}

// Parse parses "YYYY-MM" into a Key.
func Parse(s string) (Key, error) {
	parts := strings.SplitN(strings.TrimSpace(s), "-", 2)
	if len(parts) != 2 {
		return None, fmt.Errorf("invalid period format: %q", s)
	}

	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return None, fmt.Errorf("invalid year in period %q: %w", s, err)
	}

	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return None, fmt.Errorf("invalid month in period %q: %w", s, err)
	}
	if month < 1 || month > 12 {
		return None, fmt.Errorf("month out of range in period %q", s)
	}

	return Format(year, month), nil
}

// IsNone reports whether k is the undated bucket.
func (k Key) IsNone() bool { return k == None }

// Less orders keys chronologically; None sorts last.
func Less(a, b Key) bool {
	if a.IsNone() {
		return false
	}
	if b.IsNone() {
		return true
	}
	return a < b
}

func (k Key) String() string { return string(k) }
