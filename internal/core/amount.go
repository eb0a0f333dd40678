// Package core holds the domain records shared by the credential store,
// the ledger store and the analytics engine, together with the typed
// errors every layer reports through.
package core

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a currency-agnostic monetary value backed by an exact decimal.
// The zero value is 0.
type Amount struct {
	value decimal.Decimal
}

// ZeroAmount is the additive identity.
var ZeroAmount = Amount{}

// NewAmount wraps a decimal as an Amount.
func NewAmount(d decimal.Decimal) Amount {
	return Amount{value: d}
}

// ParseAmount parses a plain decimal string such as "123.45". A decimal
// comma is accepted and normalized.
func ParseAmount(s string) (Amount, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, &ValidationError{Field: "amount", Reason: fmt.Sprintf("%q is not a decimal number", s)}
	}
	return Amount{value: d}, nil
}

// MustAmount parses s and panics on failure.
func MustAmount(s string) Amount {
	a, err := ParseAmount(s)
	if err != nil {
		panic(err)
	}
	return a
}

// AmountFromFloat converts a float64 to an Amount.
func AmountFromFloat(f float64) Amount {
	return Amount{value: decimal.NewFromFloat(f)}
}

// Validate rejects negative amounts. Zero is allowed.
func (a Amount) Validate() error {
	if a.value.IsNegative() {
		return &ValidationError{Field: "amount", Reason: "must not be negative"}
	}
	return nil
}

func (a Amount) Add(b Amount) Amount { return Amount{value: a.value.Add(b.value)} }
func (a Amount) Sub(b Amount) Amount { return Amount{value: a.value.Sub(b.value)} }

// Cmp returns -1, 0 or 1 comparing a to b.
func (a Amount) Cmp(b Amount) int { return a.value.Cmp(b.value) }

func (a Amount) Equal(b Amount) bool { return a.value.Equal(b.value) }
func (a Amount) IsZero() bool        { return a.value.IsZero() }
func (a Amount) IsNegative() bool    { return a.value.IsNegative() }
func (a Amount) IsPositive() bool    { return a.value.IsPositive() }

// Float64 returns the nearest float64. Use only for ratio math and
// display, never for accumulation.
func (a Amount) Float64() float64 {
	f, _ := a.value.Float64()
	return f
}

func (a Amount) String() string { return a.value.String() }

// StringFixed renders the amount with a fixed number of decimal places.
func (a Amount) StringFixed(places int32) string { return a.value.StringFixed(places) }

// MarshalJSON encodes the amount as a quoted decimal string so clients
// never see float rounding.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.value.String() + `"`), nil
}

// UnmarshalJSON accepts a quoted or bare decimal number.
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		a.value = decimal.Zero
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return &ValidationError{Field: "amount", Reason: fmt.Sprintf("%q is not a decimal number", s)}
	}
	a.value = d
	return nil
}

// Value implements driver.Valuer, storing the exact decimal text.
func (a Amount) Value() (driver.Value, error) {
	return a.value.String(), nil
}

// Scan implements sql.Scanner for TEXT, REAL and INTEGER columns.
func (a *Amount) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		a.value = decimal.Zero
		return nil
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return fmt.Errorf("scan amount %q: %w", v, err)
		}
		a.value = d
		return nil
	case []byte:
		return a.Scan(string(v))
	case float64:
		a.value = decimal.NewFromFloat(v)
		return nil
	case int64:
		a.value = decimal.NewFromInt(v)
		return nil
	default:
		return fmt.Errorf("scan amount: unsupported source type %T", src)
	}
}
