// Package gold supplies gold price quotes.
package gold

import (
	"context"
	"time"

	goldex "go-gold-exchange"
)

// DefaultPricePerGram approximate USD price of one gram used by the Static provider.
const DefaultPricePerGram goldex.Amount = 65.50

// Provider returns the current gold quote.
type Provider interface {
	Quote(ctx context.Context) (goldex.GoldQuote, error)
}

// static a fixed-price Provider
type static struct {
	price    goldex.Amount
	currency goldex.Code
	now      func() time.Time
}

// NewStatic returns a Provider that always quotes price in goldex.Pivot,
// stamped with the time of the call.
func NewStatic(price goldex.Amount) Provider {
	return &static{
		price:    price,
		currency: goldex.Pivot,
		now:      time.Now,
	}
}

func (s *static) Quote(_ context.Context) (goldex.GoldQuote, error) {
	return goldex.GoldQuote{
		PricePerGram: s.price,
		Currency:     s.currency,
		ObservedAt:   s.now(),
	}, nil
}
