package exchange

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	goldex "go-gold-exchange"
)

// ParseAmount parses user-entered text into a finite, non-negative amount.
func ParseAmount(text string) (goldex.Amount, error) {
	f, err := parseNonNegative(text)
	if err != nil {
		return 0, fmt.Errorf("%w: amount %q", goldex.ErrInvalidInput, text)
	}
	return goldex.Amount(f), nil
}

// ParseWeight parses user-entered text into a finite, non-negative weight in grams.
func ParseWeight(text string) (float64, error) {
	f, err := parseNonNegative(text)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", goldex.ErrInvalidWeight, text)
	}
	return f, nil
}

func parseNonNegative(text string) (float64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(text))
	if err != nil {
		return 0, err
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("negative value %v", d)
	}
	f, _ := d.Float64()
	if math.IsInf(f, 0) {
		return 0, fmt.Errorf("value out of range %v", d)
	}
	return f, nil
}
