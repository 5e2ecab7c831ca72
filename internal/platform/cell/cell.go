// Package cell normalizes raw spreadsheet cell values into typed values.
// Nothing in this package returns an error: malformed input always maps to
// a safe zero value so a single bad cell never aborts an aggregation pass.
package cell

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var numberNoise = strings.NewReplacer("£", "", "$", "", ",", "")

// ParseNumber accepts numeric values directly and parses text after removing
// currency symbols and thousands separators. Anything else yields 0.
func ParseNumber(raw any) float64 {
	switch v := raw.(type) {
	case nil:
		return 0
	case string:
		return parseNumberText(v)
	case *string:
		if v == nil {
			return 0
		}
		return parseNumberText(*v)
	case float64:
		return finite(v)
	case float32:
		return finite(float64(v))
	case int:
		return float64(v)
	case int8:
		return float64(v)
	case int16:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case uint:
		return float64(v)
	case uint8:
		return float64(v)
	case uint16:
		return float64(v)
	case uint32:
		return float64(v)
	case uint64:
		return float64(v)
	case decimal.Decimal:
		f, _ := v.Float64()
		return f
	default:
		return 0
	}
}

func parseNumberText(raw string) float64 {
	cleaned := strings.TrimSpace(numberNoise.Replace(raw))
	if cleaned == "" {
		return 0
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0
	}
	f, _ := d.Float64()
	return finite(f)
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// NormalizeString trims and lowercases a value for use as a join key.
// It is never used for display.
func NormalizeString(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// CleanName trims surrounding whitespace and keeps the original casing.
func CleanName(raw string) string {
	return strings.TrimSpace(raw)
}

// NameKey identifies a player across sources.
type NameKey string

// KeyOf returns the normalized join key for a raw player name.
func KeyOf(raw string) NameKey {
	return NameKey(NormalizeString(raw))
}

func (k NameKey) String() string {
	return string(k)
}

// IsZero reports whether the key came from an empty name.
func (k NameKey) IsZero() bool {
	return k == ""
}
