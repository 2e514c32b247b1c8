// Package refresh loads rates and the gold quote into the store.
package refresh

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	goldex "go-gold-exchange"
	"go-gold-exchange/gold"
	"go-gold-exchange/ratesapi"
	"go-gold-exchange/store"
	"go.uber.org/multierr"
	"golang.org/x/sync/singleflight"
)

// DefaultTimeout bounds each fetch when New is given a non-positive timeout.
const DefaultTimeout = 5 * time.Second

const (
	noticeRates = "Failed to fetch exchange rates"
	noticeGold  = "Failed to fetch gold prices"
	noticeBoth  = "Failed to fetch exchange rates and gold prices"
)

// Store receives what a refresh loaded. *store.Store implements it.
type Store interface {
	Load() store.Snapshot
	PublishRates(rates goldex.Rates, at time.Time)
	PublishQuote(q goldex.GoldQuote)
}

// Result outcome of one refresh
type Result struct {
	RatesUpdated bool
	QuoteUpdated bool
	// Err combined fetch failures, each wrapping goldex.ErrFetchFailure; nil when both succeeded
	Err error
}

// Coordinator fetches rates and the gold quote concurrently and publishes
// whichever succeeded. Concurrent Refresh calls share one in-flight refresh.
type Coordinator struct {
	rates ratesapi.Service
	gold  gold.Provider
	store Store

	// timeout bounds each fetch independently
	timeout time.Duration

	group   singleflight.Group
	loading atomic.Bool

	lock   sync.RWMutex
	notice string

	logger log.Logger
}

// New returns a Coordinator. A non-positive timeout selects DefaultTimeout.
func New(rates ratesapi.Service, provider gold.Provider, s Store, timeout time.Duration, logger log.Logger) *Coordinator {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Coordinator{
		rates:   rates,
		gold:    provider,
		store:   s,
		timeout: timeout,
		logger:  logger,
	}
}

// Refresh loads both sources and returns once both have settled.
// A failed source leaves its previously published data in place.
// Once started, a refresh runs to completion even if ctx is canceled; only the
// per-fetch timeout bounds it.
func (c *Coordinator) Refresh(ctx context.Context) Result {
	v, _, _ := c.group.Do("refresh", func() (interface{}, error) {
		return c.refresh(context.WithoutCancel(ctx)), nil
	})
	return v.(Result)
}

func (c *Coordinator) refresh(ctx context.Context) Result {
	c.loading.Store(true)
	defer c.loading.Store(false)
	c.setNotice("")

	var (
		wg       sync.WaitGroup
		table    ratesapi.Table
		quote    goldex.GoldQuote
		ratesErr error
		quoteErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		table, ratesErr = c.fetchRates(ctx)
	}()
	go func() {
		defer wg.Done()
		quote, quoteErr = c.fetchQuote(ctx)
	}()
	wg.Wait()

	var result Result
	if ratesErr == nil {
		c.store.PublishRates(table.Rates, table.FetchedAt)
		result.RatesUpdated = true
	} else {
		level.Warn(c.logger).Log("msg", "rates refresh failed", "err", ratesErr)
	}
	if quoteErr == nil {
		c.store.PublishQuote(quote)
		result.QuoteUpdated = true
	} else {
		level.Warn(c.logger).Log("msg", "gold quote refresh failed", "err", quoteErr)
	}

	result.Err = multierr.Combine(ratesErr, quoteErr)
	switch {
	case ratesErr != nil && quoteErr != nil:
		c.setNotice(noticeBoth)
	case ratesErr != nil:
		c.setNotice(noticeRates)
	case quoteErr != nil:
		c.setNotice(noticeGold)
	}

	level.Info(c.logger).Log(
		"msg", "refresh complete",
		"rates_updated", result.RatesUpdated,
		"quote_updated", result.QuoteUpdated,
	)
	return result
}

func (c *Coordinator) fetchRates(ctx context.Context) (ratesapi.Table, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	table, err := c.rates.LatestRates(ctx)
	if err != nil {
		return ratesapi.Table{}, fetchFailure("rates", err)
	}
	return table, nil
}

func (c *Coordinator) fetchQuote(ctx context.Context) (goldex.GoldQuote, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	quote, err := c.gold.Quote(ctx)
	if err != nil {
		return goldex.GoldQuote{}, fetchFailure("gold quote", err)
	}
	return quote, nil
}

func fetchFailure(source string, err error) error {
	if errors.Is(err, goldex.ErrFetchFailure) {
		return fmt.Errorf("%v: %w", source, err)
	}
	return fmt.Errorf("%v: %w: %w", source, goldex.ErrFetchFailure, err)
}

// Status reports whether a refresh is running, when rates last loaded, and the current notice.
func (c *Coordinator) Status() goldex.Status {
	c.lock.RLock()
	notice := c.notice
	c.lock.RUnlock()

	return goldex.Status{
		Loading:     c.loading.Load(),
		LastUpdated: c.store.Load().LastUpdated,
		Notice:      notice,
	}
}

func (c *Coordinator) setNotice(notice string) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.notice = notice
}

// Run performs an initial refresh and then refreshes every interval until ctx
// is done. With a non-positive interval it returns after the initial refresh.
// This is expected to be called from a go-routine.
func (c *Coordinator) Run(ctx context.Context, interval time.Duration) {
	c.Refresh(ctx)
	if interval <= 0 {
		return
	}

	for {
		select {
		case <-time.After(interval):
			level.Debug(c.logger).Log("msg", "periodic refresh")
			// failures are logged by refresh and retried on the next tick
			c.Refresh(ctx)
		case <-ctx.Done():
			level.Info(c.logger).Log("msg", "shutting down periodic refresh")
			return
		}
	}
}
