package exchange

import (
	"context"
	"fmt"

	goldex "go-gold-exchange"
	"go-gold-exchange/store"
)

// Service interface for converting amounts and valuing gold against the latest data
type Service interface {
	Convert(ctx context.Context, amount goldex.Amount, from goldex.Code, to goldex.Code) (goldex.Exchanged, error)
	GoldValue(ctx context.Context, weightGrams float64, currency goldex.Code) (goldex.GoldValuation, error)
}

// Source supplies the latest rates and quote. *store.Store implements it.
type Source interface {
	Load() store.Snapshot
}

type service struct {
	source Source
	policy Policy
}

// NewService constructs a valid Service
func NewService(source Source, policy Policy) Service {
	return &service{
		source: source,
		policy: policy,
	}
}

// Convert computes a conversion from one currency to another with the current exchange rates.
func (s *service) Convert(_ context.Context, amount goldex.Amount, from goldex.Code, to goldex.Code) (goldex.Exchanged, error) {
	rates := s.source.Load().Rates

	converted, err := Convert(amount, from, to, rates, s.policy)
	if err != nil {
		return goldex.Exchanged{}, err
	}
	rate, err := Convert(1, from, to, rates, s.policy)
	if err != nil {
		return goldex.Exchanged{}, err
	}

	return goldex.Exchanged{
		From:     from,
		To:       to,
		Original: amount,
		Rate:     goldex.Rate(rate),
		Amount:   converted,
	}, nil
}

// GoldValue values weightGrams of gold in currency at the current quote.
func (s *service) GoldValue(_ context.Context, weightGrams float64, currency goldex.Code) (goldex.GoldValuation, error) {
	snap := s.source.Load()
	if snap.Quote == nil {
		return goldex.GoldValuation{}, goldex.ErrQuoteUnavailable
	}

	value, err := ValueOfGold(weightGrams, *snap.Quote, currency, snap.Rates, s.policy)
	if err != nil {
		return goldex.GoldValuation{}, fmt.Errorf("gold value in [%v]: %w", currency, err)
	}

	return goldex.GoldValuation{
		WeightGrams: weightGrams,
		Quote:       *snap.Quote,
		Currency:    currency,
		Value:       value,
	}, nil
}
