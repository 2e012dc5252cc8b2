package handler

import (
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// parseDate accepts calendar dates in YYYY-MM-DD form.
func parseDate(s string) (time.Time, bool) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// parseDatePtr is parseDate for optional fields; nil input is fine.
func parseDatePtr(s *string) (*time.Time, bool) {
	if s == nil || *s == "" {
		return nil, true
	}
	t, ok := parseDate(*s)
	if !ok {
		return nil, false
	}
	return &t, true
}

// parseAmount parses a monetary string ("1500.00"); empty is rejected.
func parseAmount(s string) (decimal.Decimal, bool) {
	if s == "" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// parseAmountPtr parses an optional monetary string.
func parseAmountPtr(s *string) (*decimal.Decimal, bool) {
	if s == nil || *s == "" {
		return nil, true
	}
	d, ok := parseAmount(*s)
	if !ok {
		return nil, false
	}
	return &d, true
}
