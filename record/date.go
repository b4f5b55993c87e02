package record

import (
	"fmt"
	"time"
)

// dateFormats are tried in order when parsing. ISO 8601 is canonical; the
// alternates accommodate bank exports that use regional formats.
var dateFormats = []string{
	"2006-01-02",
	"02/01/2006",
	"01/02/2006",
	"2006/01/02",
}

// Date represents a calendar date. All pipeline records carry one; dates
// drive match-priority ordering in reconciliation and period tracking in
// statement generation.
type Date struct {
	time.Time
}

// NewDate parses a date string, trying ISO 8601 first and then the lenient
// alternate formats.
func NewDate(s string) (Date, error) {
	for _, format := range dateFormats {
		if t, err := time.Parse(format, s); err == nil {
			return Date{Time: t}, nil
		}
	}
	return Date{}, fmt.Errorf("invalid date: %s", s)
}

// MustDate parses a date string and panics on error. Use only in tests.
func MustDate(s string) Date {
	d, err := NewDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// String returns the date in ISO 8601 format, or an empty string for the
// zero date.
func (d Date) String() string {
	if d.Time.IsZero() {
		return ""
	}
	return d.Format("2006-01-02")
}

// Equal reports whether two dates fall on the same calendar day.
func (d Date) Equal(other Date) bool {
	return d.Year() == other.Year() && d.YearDay() == other.YearDay()
}

// MarshalJSON renders the date as an ISO 8601 string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}
