package goldex

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownCurrency a currency code has no rate and is not the Pivot.
	ErrUnknownCurrency = errors.New("unknown currency")

	// ErrInvalidInput an amount or weight is non-numeric, non-finite or negative.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidWeight a gold weight failed validation.
	ErrInvalidWeight = fmt.Errorf("%w: weight", ErrInvalidInput)

	// ErrFetchFailure an upstream source could not be read.
	ErrFetchFailure = errors.New("fetch failure")

	// ErrQuoteUnavailable no gold quote has been loaded yet.
	ErrQuoteUnavailable = errors.New("gold quote unavailable")
)
