package exchange

import (
	"context"
	"time"

	"github.com/go-kit/log"
	goldex "go-gold-exchange"
)

// loggingService decorates an exchange.Service with logging
type loggingService struct {
	logger log.Logger
	next   Service
}

// NewLoggingService returns a new instance of a logging Service
func NewLoggingService(logger log.Logger, s Service) Service {
	return &loggingService{
		next:   s,
		logger: logger,
	}
}

func (s *loggingService) Convert(ctx context.Context, amount goldex.Amount, from goldex.Code, to goldex.Code) (ex goldex.Exchanged, err error) {
	defer func(begin time.Time) {
		s.logger.Log(
			"method", "convert",
			"amount", amount,
			"from", from,
			"to", to,
			"rate", ex.Rate,
			"converted_amount", ex.Amount,
			"took", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Convert(ctx, amount, from, to)
}

func (s *loggingService) GoldValue(ctx context.Context, weightGrams float64, currency goldex.Code) (v goldex.GoldValuation, err error) {
	defer func(begin time.Time) {
		s.logger.Log(
			"method", "gold_value",
			"weight_grams", weightGrams,
			"currency", currency,
			"value", v.Value,
			"took", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.GoldValue(ctx, weightGrams, currency)
}
