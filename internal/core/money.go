// Package core provides money parsing and handling utilities.
//
// This file wraps shopspring/decimal so ledger amounts keep exact decimal
// arithmetic while still reading and writing plain JSON numbers.
package core

import (
	"bytes"
	"database/sql/driver"
	"errors"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is an exact decimal amount in the entry's own currency.
// The zero value is a valid zero amount.
type Money struct {
	d decimal.Decimal
}

// NewMoney returns a whole-unit amount.
func NewMoney(v int64) Money {
	return Money{d: decimal.NewFromInt(v)}
}

// NewMoneyFromFloat converts a float, e.g. a rate product computed by a client.
func NewMoneyFromFloat(v float64) Money {
	return Money{d: decimal.NewFromFloat(v)}
}

// ParseMoney parses a decimal string.
//
// Both dot (12.34) and comma (12,34) decimal separators are accepted.
// Sign handling is left to the caller's validation.
//
// Examples:
//
//	ParseMoney("619")    -> 619
//	ParseMoney("12,50")  -> 12.5
//	ParseMoney("-3.25")  -> -3.25
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	return Money{d: d}, nil
}

func (m Money) Add(o Money) Money { return Money{d: m.d.Add(o.d)} }
func (m Money) Sub(o Money) Money { return Money{d: m.d.Sub(o.d)} }
func (m Money) Neg() Money        { return Money{d: m.d.Neg()} }

// Sign returns -1, 0 or +1.
func (m Money) Sign() int { return m.d.Sign() }

func (m Money) IsZero() bool     { return m.d.IsZero() }
func (m Money) IsPositive() bool { return m.d.IsPositive() }
func (m Money) IsNegative() bool { return m.d.IsNegative() }

// Cmp compares two amounts and returns -1, 0 or +1.
func (m Money) Cmp(o Money) int { return m.d.Cmp(o.d) }

// Equal reports numeric equality, so 1.50 equals 1.5.
func (m Money) Equal(o Money) bool { return m.d.Equal(o.d) }

func (m Money) String() string { return m.d.String() }

// Float64 is for display and spreadsheet cells only.
func (m Money) Float64() float64 {
	f, _ := m.d.Float64()
	return f
}

// MarshalJSON writes the amount as a bare JSON number.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.d.String()), nil
}

// UnmarshalJSON accepts a JSON number or a numeric string.
func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return ErrInvalidAmount
	}
	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		unquoted, err := strconv.Unquote(raw)
		if err != nil {
			return ErrInvalidAmount
		}
		raw = unquoted
	}
	parsed, err := ParseMoney(raw)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Value implements driver.Valuer; amounts are stored as decimal text.
func (m Money) Value() (driver.Value, error) {
	return m.d.String(), nil
}

// Scan implements sql.Scanner.
func (m *Money) Scan(src any) error {
	if src == nil {
		return errors.New("scan money: null value")
	}
	return m.d.Scan(src)
}
