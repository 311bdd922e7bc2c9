// Package money implements exact, currency-aware monetary arithmetic.
//
// Amounts cross the package boundary as normalized decimal strings paired
// with an ISO currency code. Internally every operation converts its
// operands to integer smallest units (cents for USD, whole units for JPY,
// thousandths for BHD), works in integer space, and converts back. Floats
// never touch a monetary value, so results carry no drift regardless of
// currency precision.
//
// Currency metadata (decimal digits per code) comes from the go-money
// static currency table; this package does not own it.
package money

import (
	"errors"
	"fmt"

	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned for malformed decimal strings, unknown
// currencies, and amounts with more fractional digits than the currency
// allows. It is always raised before any arithmetic executes.
var ErrInvalidAmount = errors.New("invalid amount")

// Digits returns the number of decimal digits the currency carries
// (2 for USD, 0 for JPY, 3 for BHD).
func Digits(code string) (int, error) {
	cur := gomoney.GetCurrency(code)
	if cur == nil {
		return 0, fmt.Errorf("%w: unknown currency %q", ErrInvalidAmount, code)
	}
	if cur.Fraction < 0 || cur.Fraction > 3 {
		return 0, fmt.Errorf("%w: unsupported precision %d for currency %q", ErrInvalidAmount, cur.Fraction, code)
	}
	return cur.Fraction, nil
}

// parse validates amount against the currency and returns its smallest-unit
// value along with the currency's decimal digits.
func parse(amount, code string) (int64, int, error) {
	digits, err := Digits(code)
	if err != nil {
		return 0, 0, err
	}
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q is not a decimal number", ErrInvalidAmount, amount)
	}
	shifted := d.Shift(int32(digits))
	if !shifted.IsInteger() {
		return 0, 0, fmt.Errorf("%w: %q has more than %d decimal digits for %s", ErrInvalidAmount, amount, digits, code)
	}
	if !shifted.BigInt().IsInt64() {
		return 0, 0, fmt.Errorf("%w: %q is out of range for %s", ErrInvalidAmount, amount, code)
	}
	return shifted.IntPart(), digits, nil
}

// ToSmallestUnit converts a decimal amount to the currency's integer
// smallest-unit representation ("12.34" USD -> 1234, "500" JPY -> 500).
func ToSmallestUnit(amount, code string) (int64, error) {
	units, _, err := parse(amount, code)
	return units, err
}

// FromSmallestUnit converts integer smallest units back to the canonical
// decimal-string form (1234 USD -> "12.34").
func FromSmallestUnit(units int64, code string) (string, error) {
	digits, err := Digits(code)
	if err != nil {
		return "", err
	}
	return decimal.New(units, -int32(digits)).StringFixed(int32(digits)), nil
}

// Normalize returns the canonical decimal-string form of amount for the
// currency: fixed fractional length, exact value ("12.3" USD -> "12.30").
func Normalize(amount, code string) (string, error) {
	units, digits, err := parse(amount, code)
	if err != nil {
		return "", err
	}
	return decimal.New(units, -int32(digits)).StringFixed(int32(digits)), nil
}

// Add returns a + b.
func Add(a, b, code string) (string, error) {
	au, _, err := parse(a, code)
	if err != nil {
		return "", err
	}
	bu, _, err := parse(b, code)
	if err != nil {
		return "", err
	}
	return FromSmallestUnit(au+bu, code)
}

// Sub returns a - b.
func Sub(a, b, code string) (string, error) {
	au, _, err := parse(a, code)
	if err != nil {
		return "", err
	}
	bu, _, err := parse(b, code)
	if err != nil {
		return "", err
	}
	return FromSmallestUnit(au-bu, code)
}

// Neg returns -a.
func Neg(a, code string) (string, error) {
	au, _, err := parse(a, code)
	if err != nil {
		return "", err
	}
	return FromSmallestUnit(-au, code)
}

// Abs returns |a|.
func Abs(a, code string) (string, error) {
	au, _, err := parse(a, code)
	if err != nil {
		return "", err
	}
	if au < 0 {
		au = -au
	}
	return FromSmallestUnit(au, code)
}

// Sum adds all amounts and returns the normalized total. Summing nothing
// yields the currency's zero.
func Sum(code string, amounts ...string) (string, error) {
	var total int64
	for _, a := range amounts {
		units, _, err := parse(a, code)
		if err != nil {
			return "", err
		}
		total += units
	}
	return FromSmallestUnit(total, code)
}

// Compare returns -1 if a < b, 0 if a == b, +1 if a > b.
func Compare(a, b, code string) (int, error) {
	au, _, err := parse(a, code)
	if err != nil {
		return 0, err
	}
	bu, _, err := parse(b, code)
	if err != nil {
		return 0, err
	}
	switch {
	case au < bu:
		return -1, nil
	case au > bu:
		return 1, nil
	}
	return 0, nil
}

// Min returns the smaller of a and b.
func Min(a, b, code string) (string, error) {
	c, err := Compare(a, b, code)
	if err != nil {
		return "", err
	}
	if c <= 0 {
		return Normalize(a, code)
	}
	return Normalize(b, code)
}

// IsZero reports whether a is exactly zero.
func IsZero(a, code string) (bool, error) {
	au, _, err := parse(a, code)
	if err != nil {
		return false, err
	}
	return au == 0, nil
}

// Tolerance returns the currency's rounding allowance, 10^-digits, as a
// decimal string ("0.01" for USD, "1" for JPY). One smallest unit.
func Tolerance(code string) (string, error) {
	return FromSmallestUnit(1, code)
}
