package store

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	goldex "go-gold-exchange"
)

func TestNew_Empty(t *testing.T) {
	snap := New().Load()
	assert.Empty(t, snap.Rates)
	assert.Nil(t, snap.Quote)
	assert.True(t, snap.LastUpdated.IsZero())
}

func TestStore_PublishRatesReplacesWholesale(t *testing.T) {
	s := New()
	at := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)

	s.PublishRates(goldex.Rates{"EUR": 0.9, "INR": 83}, at)
	s.PublishRates(goldex.Rates{"GBP": 0.8}, at.Add(time.Minute))

	snap := s.Load()
	assert.Equal(t, goldex.Rates{"GBP": 0.8}, snap.Rates)
	assert.Equal(t, at.Add(time.Minute), snap.LastUpdated)
}

func TestStore_PublishRatesCopiesInput(t *testing.T) {
	s := New()
	in := goldex.Rates{"EUR": 0.9}
	s.PublishRates(in, time.Now())

	in["EUR"] = 5
	assert.Equal(t, goldex.Rate(0.9), s.Load().Rates["EUR"])
}

func TestStore_SnapshotsAreIsolated(t *testing.T) {
	s := New()
	s.PublishRates(goldex.Rates{"EUR": 0.9}, time.Now())
	before := s.Load()

	s.PublishQuote(goldex.GoldQuote{PricePerGram: 65.5, Currency: "USD"})

	assert.Nil(t, before.Quote)
	after := s.Load()
	require.NotNil(t, after.Quote)
	assert.Equal(t, goldex.Amount(65.5), after.Quote.PricePerGram)
	assert.Equal(t, goldex.Rate(0.9), after.Rates["EUR"])
}

func TestStore_ConcurrentWritersKeepBoth(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.PublishRates(goldex.Rates{"EUR": 0.9}, time.Now())
	}()
	go func() {
		defer wg.Done()
		s.PublishQuote(goldex.GoldQuote{PricePerGram: 65.5, Currency: "USD"})
	}()
	wg.Wait()

	snap := s.Load()
	assert.Equal(t, goldex.Rate(0.9), snap.Rates["EUR"])
	assert.NotNil(t, snap.Quote)
}
