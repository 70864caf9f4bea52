// Package money handles currency input parsing and the business-day clock.
package money

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned for unparsable, zero or negative amounts.
var ErrInvalidAmount = errors.New("valor inválido")

// BusinessTimezone keys the active cash session independent of server locale.
const BusinessTimezone = "America/Sao_Paulo"

var businessLoc = mustLoadLocation(BusinessTimezone)

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		// Without tzdata the reconciliation day boundary would drift with the
		// server locale. Fail loudly instead.
		panic("money: timezone " + name + " unavailable: " + err.Error())
	}
	return loc
}

// ParseAmount converts operator input into a 2-decimal currency value.
// Both "10,50" and "10.50" are accepted; whitespace is trimmed.
// Values that do not parse or are <= 0 yield ErrInvalidAmount.
func ParseAmount(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	d = d.Round(2)
	if !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// BusinessDay returns the calendar date of t in America/Sao_Paulo, truncated
// to midnight UTC so it compares cleanly against DATE columns.
func BusinessDay(t time.Time) time.Time {
	local := t.In(businessLoc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD calendar date (no time component).
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", strings.TrimSpace(s), time.UTC)
}

// FormatDate renders a calendar date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// FormatDateTime renders a timestamp for display, always in the business
// timezone regardless of server locale.
func FormatDateTime(t time.Time) string {
	return t.In(businessLoc).Format("02/01/2006 15:04")
}
