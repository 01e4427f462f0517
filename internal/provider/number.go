package provider

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"bondfeed/internal/fault"
)

var placeholders = map[string]struct{}{
	"":     {},
	"-":    {},
	".":    {},
	"n/a":  {},
	"na":   {},
	"none": {},
	"null": {},
}

// ParseNumber reads a human or provider formatted number: surrounding
// spaces, a percent sign, a leading plus, grouping spaces and a decimal
// comma are accepted. Placeholders yield ErrNoValue.
func ParseNumber(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(strings.ReplaceAll(raw, "\u00a0", " "))
	s = strings.TrimSuffix(s, "%")
	s = strings.TrimSpace(strings.TrimPrefix(s, "+"))
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "\u202f", "")

	if _, ok := placeholders[strings.ToLower(s)]; ok {
		return decimal.Decimal{}, ErrNoValue
	}

	if strings.Contains(s, ",") {
		if strings.Contains(s, ".") {
			if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
				s = strings.ReplaceAll(s, ".", "")
				s = strings.ReplaceAll(s, ",", ".")
			} else {
				s = strings.ReplaceAll(s, ",", "")
			}
		} else {
			s = strings.ReplaceAll(s, ",", ".")
		}
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parse number %q: %w", raw, err)
	}
	return d, nil
}

// Number decodes a JSON number, a numeric string or null. Unparseable
// values decode as absent; required fields are checked with Require.
type Number struct {
	decimal.NullDecimal
}

func (n *Number) UnmarshalJSON(b []byte) error {
	s := string(bytes.TrimSpace(b))
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = unquoted
	}
	d, err := ParseNumber(s)
	if err != nil {
		n.NullDecimal = decimal.NullDecimal{}
		return nil
	}
	n.NullDecimal = decimal.NewNullDecimal(d)
	return nil
}

// Require returns the value of a mandatory numeric field or a shape error.
func Require(provider, field string, n Number) (decimal.Decimal, error) {
	if !n.Valid {
		return decimal.Decimal{}, fault.Shape(provider, "missing or non-numeric %s", field)
	}
	return n.Decimal, nil
}

// InRange rejects values outside [lo, hi].
func InRange(provider, field string, d decimal.Decimal, lo, hi float64) error {
	if d.LessThan(decimal.NewFromFloat(lo)) || d.GreaterThan(decimal.NewFromFloat(hi)) {
		return fault.Shape(provider, "%s %s outside [%g, %g]", field, d.String(), lo, hi)
	}
	return nil
}

// Optional converts a Number to a NullDecimal.
func Optional(n Number) decimal.NullDecimal { return n.NullDecimal }
