package shop

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	MaxNameLen  = 100
	MaxQuantity = 9999
)

// MaxPrice is the largest value NUMERIC(10,2) holds.
var MaxPrice = decimal.RequireFromString("99999999.99")

var plainNumber = regexp.MustCompile(`^[+-]?\d+(\.\d+)?$`)

// ParsePrice accepts "12.50", "12,50" and "12 500". At most two decimals.
func ParsePrice(s string) (decimal.Decimal, error) {
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\u00a0', '\t':
			return -1
		case ',':
			return '.'
		}
		return r
	}, s)
	if !plainNumber.MatchString(s) {
		return decimal.Zero, &ValidationError{Field: "price", Reason: ReasonNotNumber}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &ValidationError{Field: "price", Reason: ReasonNotNumber}
	}
	if err := CheckPrice(d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

func CheckPrice(d decimal.Decimal) error {
	switch {
	case !d.IsPositive():
		return &ValidationError{Field: "price", Reason: ReasonNotPositive}
	case !d.Equal(d.Truncate(2)):
		return &ValidationError{Field: "price", Reason: ReasonTooPrecise}
	case d.GreaterThan(MaxPrice):
		return &ValidationError{Field: "price", Reason: ReasonTooLarge}
	}
	return nil
}

func ParseQuantity(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, &ValidationError{Field: "quantity", Reason: ReasonNotNumber}
	}
	if err := CheckQuantity(n); err != nil {
		return 0, err
	}
	return n, nil
}

func CheckQuantity(n int) error {
	if n <= 0 {
		return &ValidationError{Field: "quantity", Reason: ReasonNotPositive}
	}
	if n > MaxQuantity {
		return &ValidationError{Field: "quantity", Reason: ReasonTooLarge}
	}
	return nil
}

// NormalizeName trims the name and checks it is usable as a product name.
func NormalizeName(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", &ValidationError{Field: "name", Reason: ReasonEmpty}
	}
	if utf8.RuneCountInString(s) > MaxNameLen {
		return "", &ValidationError{Field: "name", Reason: ReasonTooLong}
	}
	return s, nil
}
