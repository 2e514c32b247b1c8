package ratesapi

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-kit/log"
)

// cachingService decorates a ratesapi.Service with a short-lived cache of the
// last good rates table, so bursts of refreshes reach the upstream API at most
// once per maxAge. Failed lookups are never cached. A cached table keeps the
// FetchedAt of the upstream lookup that produced it.
type cachingService struct {
	// next the service being decorated with a cache
	next Service

	// table the cached table, Rates nil until the first successful lookup
	table Table

	// cachedAt when table was stored, by this service's clock
	cachedAt time.Time

	// maxAge how long a cached table is served
	maxAge time.Duration

	// lock synchronizes access to the cached table
	lock sync.RWMutex

	// now is the clock, replaced in tests
	now func() time.Time

	logger log.Logger
}

// NewCachingService returns a new caching Service. A maxAge of zero disables caching.
func NewCachingService(maxAge time.Duration, logger log.Logger, s Service) Service {
	if maxAge <= 0 {
		return s
	}
	return &cachingService{
		next:   s,
		maxAge: maxAge,
		now:    time.Now,
		logger: logger,
	}
}

// LatestRates returns the cached table while it is fresh, otherwise loads and caches a new one.
func (s *cachingService) LatestRates(ctx context.Context) (Table, error) {
	s.lock.RLock()
	cached, cachedAt := s.table, s.cachedAt
	s.lock.RUnlock()

	if age := s.now().Sub(cachedAt); cached.Rates != nil && age < s.maxAge {
		s.logger.Log("msg", "serving cached rates", "age", age)
		return cached, nil
	}

	table, err := s.next.LatestRates(ctx)
	if err != nil {
		return Table{}, fmt.Errorf("refreshing rates cache: %w", err)
	}

	s.lock.Lock()
	defer s.lock.Unlock()
	s.table = table
	s.cachedAt = s.now()
	return table, nil
}
