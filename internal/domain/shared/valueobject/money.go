package valueobject

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Currency is an ISO 4217 code
type Currency string

const USD Currency = "USD"

// CentPlaces is the precision every stored amount is rounded to
const CentPlaces int32 = 2

var currencySymbols = map[Currency]string{
	USD: "$",
}

// Money is an immutable decimal amount tagged with its currency.
// Arithmetic across currencies is an error.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

func NewMoney(amount decimal.Decimal, currency Currency) (Money, error) {
	if currency == "" {
		return Money{}, errors.New("currency cannot be empty")
	}
	return Money{amount: amount, currency: currency}, nil
}

func NewMoneyFromString(amount string, currency Currency) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	return NewMoney(d, currency)
}

// USDFromFloat converts a random draw to dollars, rounded to cents so float
// noise never reaches a sum.
func USDFromFloat(amount float64) Money {
	return Money{amount: decimal.NewFromFloat(amount).Round(CentPlaces), currency: USD}
}

// MustUSD parses a dollar literal. It panics on malformed input.
func MustUSD(amount string) Money {
	m, err := NewMoneyFromString(amount, USD)
	if err != nil {
		panic(err)
	}
	return m
}

func Zero(currency Currency) Money {
	return Money{amount: decimal.Zero, currency: currency}
}

func ZeroUSD() Money { return Zero(USD) }

func (m Money) Amount() decimal.Decimal { return m.amount }
func (m Money) Currency() Currency      { return m.currency }
func (m Money) IsZero() bool            { return m.amount.IsZero() }
func (m Money) IsNegative() bool        { return m.amount.IsNegative() }

func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("currency mismatch: %s + %s", m.currency, other.currency)
	}
	return Money{amount: m.amount.Add(other.amount), currency: m.currency}, nil
}

// MustAdd is Add for amounts known to share a currency
func (m Money) MustAdd(other Money) Money {
	sum, err := m.Add(other)
	if err != nil {
		panic(err)
	}
	return sum
}

// Multiply scales the amount without rounding
func (m Money) Multiply(factor decimal.Decimal) Money {
	return Money{amount: m.amount.Mul(factor), currency: m.currency}
}

func (m Money) MultiplyByInt(factor int64) Money {
	return m.Multiply(decimal.NewFromInt(factor))
}

// Round rounds half away from zero
func (m Money) Round(places int32) Money {
	return Money{amount: m.amount.Round(places), currency: m.currency}
}

func (m Money) RoundCents() Money { return m.Round(CentPlaces) }

func (m Money) Equals(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// Within reports whether lo <= m <= hi, all in one currency
func (m Money) Within(lo, hi Money) bool {
	if m.currency != lo.currency || m.currency != hi.currency {
		return false
	}
	return !m.amount.LessThan(lo.amount) && !m.amount.GreaterThan(hi.amount)
}

func (m Money) StringFixed(places int32) string {
	return m.amount.StringFixed(places)
}

// Format renders "$1234.50": symbol, no thousands separator. Currencies
// without a symbol fall back to String.
func (m Money) Format() string {
	if symbol, ok := currencySymbols[m.currency]; ok {
		return symbol + m.amount.StringFixed(CentPlaces)
	}
	return m.String()
}

func (m Money) String() string {
	return m.amount.StringFixed(CentPlaces) + " " + string(m.currency)
}

// Float64 is lossy; for tests and metrics only
func (m Money) Float64() float64 {
	f, _ := m.amount.Float64()
	return f
}
