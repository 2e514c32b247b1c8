package ratesapi

import (
	"context"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// loggingService decorates a ratesapi.Service with logging
type loggingService struct {
	next   Service
	logger log.Logger
}

// NewLoggingService return a new logging service
func NewLoggingService(logger log.Logger, s Service) Service {
	return &loggingService{
		next:   s,
		logger: logger,
	}
}

func (s *loggingService) LatestRates(ctx context.Context) (table Table, err error) {
	defer func(begin time.Time) {
		logger := level.Debug(s.logger)
		if err != nil {
			logger = level.Warn(s.logger)
		}
		logger.Log(
			"method", "latest_rates",
			"count", len(table.Rates),
			"took", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.LatestRates(ctx)
}
