package ratesapi

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-kit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	goldex "go-gold-exchange"
)

var fetched = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

type mock struct {
	count int32
	err   error
}

func (m *mock) LatestRates(_ context.Context) (Table, error) {
	n := atomic.AddInt32(&m.count, 1)
	if m.err != nil {
		return Table{}, m.err
	}
	return Table{
		Rates:     goldex.Rates{"EUR": 0.9},
		FetchedAt: fetched.Add(time.Duration(n-1) * time.Minute),
	}, nil
}

func TestCachingService_ServesFreshTable(t *testing.T) {
	var underlyingService mock
	s := NewCachingService(1*time.Minute, log.NewNopLogger(), &underlyingService)

	_, _ = s.LatestRates(context.Background())
	assert.Equal(t, int32(1), atomic.LoadInt32(&underlyingService.count))

	table, err := s.LatestRates(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, goldex.Rate(0.9), table.Rates["EUR"])
	assert.Equal(t, int32(1), atomic.LoadInt32(&underlyingService.count))
}

func TestCachingService_KeepsUpstreamFetchTime(t *testing.T) {
	var underlyingService mock
	s := NewCachingService(1*time.Minute, log.NewNopLogger(), &underlyingService).(*cachingService)

	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	first, err := s.LatestRates(context.Background())
	require.NoError(t, err)

	now = now.Add(30 * time.Second)
	second, err := s.LatestRates(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&underlyingService.count))
	assert.Equal(t, fetched, first.FetchedAt)
	assert.Equal(t, fetched, second.FetchedAt)
}

func TestCachingService_Expires(t *testing.T) {
	var underlyingService mock
	s := NewCachingService(1*time.Minute, log.NewNopLogger(), &underlyingService).(*cachingService)

	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	_, _ = s.LatestRates(context.Background())
	now = now.Add(2 * time.Minute)
	table, _ := s.LatestRates(context.Background())

	assert.Equal(t, int32(2), atomic.LoadInt32(&underlyingService.count))
	assert.Equal(t, fetched.Add(time.Minute), table.FetchedAt)
}

func TestCachingService_DoesNotCacheFailures(t *testing.T) {
	underlyingService := mock{err: errors.New("boom")}
	s := NewCachingService(1*time.Minute, log.NewNopLogger(), &underlyingService)

	_, err := s.LatestRates(context.Background())
	assert.Error(t, err)
	_, err = s.LatestRates(context.Background())
	assert.Error(t, err)

	assert.Equal(t, int32(2), atomic.LoadInt32(&underlyingService.count))
}

func TestNewCachingService_ZeroMaxAgeDisables(t *testing.T) {
	var underlyingService mock
	s := NewCachingService(0, log.NewNopLogger(), &underlyingService)
	assert.Same(t, Service(&underlyingService), s)
}
