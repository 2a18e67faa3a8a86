package product

import (
	"bytes"
	"math"
	"strconv"
	"strings"
)

// Number is an optional numeric field. Valid is false when the source value
// was missing or could not be parsed.
type Number struct {
	Value float64
	Valid bool
}

// Some wraps a present value.
func Some(v float64) Number { return Number{Value: v, Valid: true} }

// None returns a missing value.
func None() Number { return Number{} }

// numberReplacer drops currency symbols, thousands separators and percent signs.
var numberReplacer = strings.NewReplacer(
	"₹", "", "$", "", "€", "", "£", "", ",", "", "%", "", " ", "", "\u00a0", "",
)

// ParseNumber coerces a raw tabular cell into a Number.
// An empty cell is missing (ok=true); an unparseable cell is missing and ok=false.
func ParseNumber(raw string) (n Number, ok bool) {
	s := numberReplacer.Replace(strings.TrimSpace(raw))
	if s == "" {
		return None(), true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return None(), false
	}
	return Some(v), true
}

// MarshalJSON encodes a missing value as null.
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, n.Value, 'f', -1, 64), nil
}

// UnmarshalJSON accepts null or a JSON number.
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = None()
		return nil
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return err //nolint:wrapcheck // strconv error carries the input
	}
	*n = Some(v)
	return nil
}
