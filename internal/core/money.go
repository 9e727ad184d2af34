// Package core holds the bookkeeping entities and the pure rules over them.
package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is an amount in BRL cents.
type Money struct {
	Cents int64
}

// MaxAmount is the largest amount a single transaction may carry.
var MaxAmount = Money{Cents: 10_000_000_00}

// maxCentsDecimal is the largest magnitude, in reais, that still fits in int64 cents.
var maxCentsDecimal = decimal.New(math.MaxInt64, -2)

// ParseMoney parses an amount in reais. Both "12.34" and "12,34" are accepted,
// and the third decimal place rounds half-up. The sign is kept so callers can
// reject negative values with their own message.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, amountError("amount is empty")
	}
	if strings.Count(s, ",") > 1 || (strings.Contains(s, ",") && strings.Contains(s, ".")) {
		return Money{}, amountError("invalid amount %q", s)
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
	if err != nil {
		return Money{}, amountError("invalid amount %q", s)
	}
	return MoneyFromDecimal(d)
}

// MoneyFromDecimal rounds d half-up to cents. Values that do not fit in int64
// cents are rejected instead of wrapping.
func MoneyFromDecimal(d decimal.Decimal) (Money, error) {
	rounded := d.Round(2)
	if rounded.Abs().GreaterThan(maxCentsDecimal) {
		return Money{}, amountError("amount %s is out of range", d.String())
	}
	return Money{Cents: rounded.Shift(2).IntPart()}, nil
}

func amountError(format string, args ...any) error {
	return &Error{Kind: ErrValidation, Msg: fmt.Sprintf(format, args...), Err: ErrInvalidAmount}
}

// Decimal returns the amount in reais.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// Reais returns the value as a float64 for display purposes.
// Use cents for calculations to avoid floating-point precision issues.
func (m Money) Reais() float64 {
	return m.Decimal().InexactFloat64()
}

// MulQuantity multiplies a unit rate by a quantity (km, hours), rounding to cents.
// The quantity must be finite and the product must fit in Money.
func (m Money) MulQuantity(q float64) (Money, error) {
	if math.IsNaN(q) || math.IsInf(q, 0) {
		return Money{}, Validation("quantity must be a finite number")
	}
	return MoneyFromDecimal(m.Decimal().Mul(decimal.NewFromFloat(q)))
}

// QuantityFor returns how many units of rate m fit in total, rounded to two places.
// A zero rate yields zero.
func (m Money) QuantityFor(total Money) float64 {
	if m.Cents == 0 {
		return 0
	}
	return total.Decimal().DivRound(m.Decimal(), 2).InexactFloat64()
}

func (m Money) Add(o Money) Money { return Money{Cents: m.Cents + o.Cents} }

func (m Money) IsZero() bool { return m.Cents == 0 }

// String renders the amount with two decimals and a dot separator.
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

// ValidateAmount checks 0 < m <= MaxAmount.
func (m Money) ValidateAmount() error {
	if m.Cents <= 0 {
		return &Error{Kind: ErrValidation, Msg: "amount must be greater than zero", Err: ErrInvalidAmount}
	}
	if m.Cents > MaxAmount.Cents {
		return &Error{Kind: ErrValidation, Msg: "amount must not exceed 10000000.00", Err: ErrInvalidAmount}
	}
	return nil
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Money) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*m = Money{}
		return nil
	}
	raw := string(b)
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &raw); err != nil {
			return amountError("invalid amount %s", string(b))
		}
	}
	v, err := ParseMoney(raw)
	if err != nil {
		return err
	}
	*m = v
	return nil
}
