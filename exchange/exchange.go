// Package exchange converts amounts between currencies through goldex.Pivot
// and values gold weights.
package exchange

import (
	"fmt"
	"math"
	"strings"

	goldex "go-gold-exchange"
)

// Policy decides what happens when a currency has no rate in the table.
type Policy int

const (
	// Strict fails with goldex.ErrUnknownCurrency.
	Strict Policy = iota
	// PivotFallback prices a missing currency as if it were the pivot (rate 1.0).
	PivotFallback
)

func (p Policy) String() string {
	switch p {
	case Strict:
		return "strict"
	case PivotFallback:
		return "pivot"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy reads a policy name as written by Policy.String.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "strict":
		return Strict, nil
	case "pivot", "fallback":
		return PivotFallback, nil
	default:
		return Strict, fmt.Errorf("unknown missing rate policy %q", s)
	}
}

// rateOf looks up the rate of code. Non-positive rates count as missing.
func rateOf(code goldex.Code, rates goldex.Rates, policy Policy) (goldex.Rate, error) {
	if code == goldex.Pivot {
		return 1, nil
	}
	if rate, ok := rates[code]; ok && rate > 0 {
		return rate, nil
	}
	if policy == PivotFallback {
		return 1, nil
	}
	return 0, fmt.Errorf("%w: %v", goldex.ErrUnknownCurrency, code)
}

func finiteNonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

// Convert converts amount from one currency to another through the pivot.
// Equal codes return amount unchanged without consulting the table.
func Convert(amount goldex.Amount, from goldex.Code, to goldex.Code, rates goldex.Rates, policy Policy) (goldex.Amount, error) {
	if !finiteNonNegative(float64(amount)) {
		return 0, fmt.Errorf("%w: amount %v", goldex.ErrInvalidInput, amount)
	}
	if from == to {
		return amount, nil
	}

	pivot := amount
	if from != goldex.Pivot {
		rate, err := rateOf(from, rates, policy)
		if err != nil {
			return 0, fmt.Errorf("convert from: %w", err)
		}
		pivot = amount / goldex.Amount(rate)
	}

	if to == goldex.Pivot {
		return pivot, nil
	}
	rate, err := rateOf(to, rates, policy)
	if err != nil {
		return 0, fmt.Errorf("convert to: %w", err)
	}
	return pivot * goldex.Amount(rate), nil
}

// ValueOfGold prices weightGrams of gold at quote and converts the result to display.
func ValueOfGold(weightGrams float64, quote goldex.GoldQuote, display goldex.Code, rates goldex.Rates, policy Policy) (goldex.Amount, error) {
	if !finiteNonNegative(weightGrams) {
		return 0, fmt.Errorf("%w: %v", goldex.ErrInvalidWeight, weightGrams)
	}
	value := goldex.Amount(weightGrams) * quote.PricePerGram
	return Convert(value, quote.Currency, display, rates, policy)
}
