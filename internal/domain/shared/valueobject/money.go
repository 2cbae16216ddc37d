package valueobject

import (
	"math"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is the currency every dashboard amount is kept in
const DefaultCurrency = money.USD

// MaxCents is the largest amount the amount columns (INTEGER) can hold
const MaxCents Cents = math.MaxInt32

var (
	hundred  = decimal.NewFromInt(100)
	maxInt64 = decimal.NewFromInt(math.MaxInt64)
	minInt64 = decimal.NewFromInt(math.MinInt64)
)

// Cents is a monetary amount stored as an integer number of cents.
// Form input arrives in dollars and is converted once on the way in.
type Cents int64

// CentsFromDollars converts a dollar amount to cents, rounding half away from zero.
// Amounts beyond the int64 range saturate instead of wrapping.
func CentsFromDollars(dollars decimal.Decimal) Cents {
	cents := dollars.Mul(hundred).Round(0)
	switch {
	case cents.GreaterThan(maxInt64):
		return Cents(math.MaxInt64)
	case cents.LessThan(minInt64):
		return Cents(math.MinInt64)
	}
	return Cents(cents.IntPart())
}

// ParseDollars converts user text to cents. Empty or non-numeric text coerces to zero.
func ParseDollars(text string) Cents {
	d, err := decimal.NewFromString(text)
	if err != nil {
		return 0
	}
	return CentsFromDollars(d)
}

// WithinLimit reports whether the amount fits the amount columns
func (c Cents) WithinLimit() bool {
	return c <= MaxCents
}

// Dollars returns the amount in dollars
func (c Cents) Dollars() decimal.Decimal {
	return decimal.New(int64(c), -2)
}

// DollarsFloat returns the amount in dollars as a float, for edit forms
func (c Cents) DollarsFloat() float64 {
	return c.Dollars().InexactFloat64()
}

// IsPositive reports whether the amount is greater than zero
func (c Cents) IsPositive() bool {
	return c > 0
}

// Display formats the amount as currency, e.g. "$1,234.56"
func (c Cents) Display() string {
	return money.New(int64(c), DefaultCurrency).Display()
}
