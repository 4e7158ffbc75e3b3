package money

import (
	"bytes"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidKind = errors.New("type must be credit or debit")
	ErrNotNumber   = errors.New("amount must be a JSON number")
)

func init() {
	// Amounts go over the wire as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Kind tells whether a submitted amount adds to or subtracts from the balance.
type Kind string

const (
	Credit Kind = "credit"
	Debit  Kind = "debit"
)

func ParseKind(s string) (Kind, error) {
	switch Kind(strings.TrimSpace(s)) {
	case Credit:
		return Credit, nil
	case Debit:
		return Debit, nil
	}
	return "", ErrInvalidKind
}

// Amount is a decimal that only decodes from a bare JSON number.
// Quoted strings are rejected.
type Amount struct {
	decimal.Decimal
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] == '"' || bytes.Equal(b, []byte("null")) {
		return ErrNotNumber
	}
	return a.Decimal.UnmarshalJSON(b)
}

// Signed returns the value stored in the ledger: credits keep their sign,
// debits are negated. The magnitude is not validated.
func Signed(amount decimal.Decimal, kind Kind) decimal.Decimal {
	if kind == Debit {
		return amount.Neg()
	}
	return amount
}

// Format renders an amount with two decimals and thousands separators,
// e.g. -12345.5 => "-12,345.50".
func Format(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}

	s := amount.StringFixed(2)
	whole, frac, _ := strings.Cut(s, ".")
	return sign + withCommas(whole) + "." + frac
}

func withCommas(digits string) string {
	s := make([]byte, 0, len(digits)+len(digits)/3)
	l := len(digits)
	for i := 0; i < l; i++ {
		s = append(s, digits[i])
		rem := l - i - 1
		if rem > 0 && rem%3 == 0 {
			s = append(s, ',')
		}
	}
	return string(s)
}
