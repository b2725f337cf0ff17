package service

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"rentalhub/pkg/apperr"
)

const dateLayout = "2006-01-02"

// parseDate parses a YYYY-MM-DD value into UTC midnight, so date comparisons
// never depend on time of day.
func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, apperr.Validationf("invalid %s date format (expected YYYY-MM-DD)", field)
	}
	return t.UTC(), nil
}

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// toUTCDate drops the time-of-day component, keeping the UTC calendar date.
func toUTCDate(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// parseDecimal parses a required decimal string field.
func parseDecimal(field, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, apperr.Validationf("invalid %s: %q is not a decimal", field, value)
	}
	return d, nil
}

// parseNullDecimal parses an optional decimal string field; empty means
// "not applicable", which is distinct from zero.
func parseNullDecimal(field, value string) (decimal.NullDecimal, error) {
	if value == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := parseDecimal(field, value)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}, nil
}

func formatNullDecimal(d decimal.NullDecimal, places int32) *string {
	if !d.Valid {
		return nil
	}
	s := d.Decimal.StringFixed(places)
	return &s
}

// parseID parses a path-parameter id.
func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.Validationf("invalid id %q", raw)
	}
	return uint(id), nil
}
