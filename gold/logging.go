package gold

import (
	"context"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	goldex "go-gold-exchange"
)

// loggingProvider decorates a Provider with logging
type loggingProvider struct {
	next   Provider
	logger log.Logger
}

// NewLoggingProvider returns a new logging Provider
func NewLoggingProvider(logger log.Logger, p Provider) Provider {
	return &loggingProvider{
		next:   p,
		logger: logger,
	}
}

func (p *loggingProvider) Quote(ctx context.Context) (q goldex.GoldQuote, err error) {
	defer func(begin time.Time) {
		logger := level.Debug(p.logger)
		if err != nil {
			logger = level.Warn(p.logger)
		}
		logger.Log(
			"method", "quote",
			"price_per_gram", q.PricePerGram,
			"currency", q.Currency,
			"took", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return p.next.Quote(ctx)
}
