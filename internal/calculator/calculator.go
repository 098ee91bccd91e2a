package calculator

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// Kind selects the strategy used to derive a displayed sale price from the
// stored sale value. The set is closed: promotions are either a fixed amount
// or a fraction off the list price.
type Kind string

const (
	FixedAmount Kind = "fixed_amount"
	PercentOff  Kind = "percent_off"
)

var (
	ErrUnknownKind = errors.New("unknown_calculator")
	ErrMissing     = errors.New("missing_calculator")
)

var one = decimal.NewFromInt(1)

// Parse normalizes a calculator kind supplied by a caller. An empty string
// selects the default fixed-amount strategy.
func Parse(raw string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(raw))) {
	case "":
		return FixedAmount, nil
	case FixedAmount:
		return FixedAmount, nil
	case PercentOff:
		return PercentOff, nil
	default:
		return "", ErrUnknownKind
	}
}

// Compute derives the displayed sale price from the stored value and the
// variant's list amount.
//
// For fixed_amount the value is the sale price itself. For percent_off the
// value is the fraction taken off the list amount (0.20 -> 20% off).
func Compute(kind Kind, value, listAmount decimal.Decimal) (decimal.Decimal, error) {
	switch kind {
	case FixedAmount:
		return value, nil
	case PercentOff:
		return listAmount.Mul(one.Sub(value)), nil
	case "":
		return decimal.Zero, ErrMissing
	default:
		return decimal.Zero, ErrUnknownKind
	}
}
