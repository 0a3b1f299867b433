// Package record holds the manual income and trade rows produced by the
// broker converters.
package record

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	dateTimeLayout      = "2006-01-02T15:04:05"
	dateTimeMicroLayout = "2006-01-02T15:04:05.000000"
	dateLayout          = "2006-01-02"
)

// FormatDecimal prints d at its own scale, so "1.50" stays "1.50".
func FormatDecimal(d decimal.Decimal) string {
	if exp := d.Exponent(); exp < 0 {
		return d.StringFixed(-exp)
	}
	return d.String()
}

// FormatDateTime prints t as a zone-less ISO timestamp. Sub-second values get
// six fractional digits.
func FormatDateTime(t time.Time) string {
	if t.Nanosecond() != 0 {
		return t.Format(dateTimeMicroLayout)
	}
	return t.Format(dateTimeLayout)
}

func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// Date truncates t to midnight in its own location.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Normalize drops trailing fractional zeros, so 180.5000 becomes 180.5.
func Normalize(d decimal.Decimal) decimal.Decimal {
	n, err := decimal.NewFromString(d.String())
	if err != nil {
		return d
	}
	return n
}
