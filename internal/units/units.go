// Package units converts between raw integer token amounts and decimal strings.
package units

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// ToDecimalString shifts raw left by decimals digits without losing precision.
// Trailing fractional zeros are trimmed, so 2500000 with 6 decimals is "2.5".
func ToDecimalString(raw *big.Int, decimals int) string {
	if raw == nil {
		return "0"
	}
	if decimals < 0 {
		decimals = 0
	}
	return decimal.NewFromBigInt(raw, -int32(decimals)).String()
}

// FromDecimalString converts a decimal string back to a raw integer amount.
func FromDecimalString(s string, decimals int) (*big.Int, error) {
	if decimals < 0 {
		decimals = 0
	}
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("parse amount %q: %w", s, err)
	}
	shifted := d.Shift(int32(decimals))
	if !shifted.IsInteger() {
		return nil, fmt.Errorf("amount %q has more than %d decimal places", s, decimals)
	}
	return shifted.BigInt(), nil
}

// ParseRaw parses a base-10 raw integer amount.
func ParseRaw(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(strings.TrimSpace(s), 10)
	if !ok {
		return nil, fmt.Errorf("invalid raw amount %q", s)
	}
	return v, nil
}

// ToFloat converts a decimal string for presentation arithmetic. Invalid input yields 0.
func ToFloat(s string) float64 {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	f, _ := d.Float64()
	return f
}
