// Package store holds the latest rates table and gold quote.
//
// A Store has a single logical writer (the refresh coordinator) and any number
// of readers. Readers receive immutable snapshots and never observe a
// partially published table.
package store

import (
	"sync"
	"sync/atomic"
	"time"

	goldex "go-gold-exchange"
)

// Snapshot an immutable view of the store. Callers must not mutate Rates.
type Snapshot struct {
	Rates goldex.Rates
	// Quote nil until the first successful quote fetch
	Quote *goldex.GoldQuote
	// LastUpdated zero until the first successful rates fetch
	LastUpdated time.Time
}

// Store publishes snapshots with copy-on-write.
type Store struct {
	current atomic.Pointer[Snapshot]

	// lock serializes writers so rates and quote publishes never lose each other
	lock sync.Mutex
}

// New returns a Store holding an empty table and no quote.
func New() *Store {
	s := &Store{}
	s.current.Store(&Snapshot{Rates: goldex.Rates{}})
	return s
}

// Load returns the current snapshot.
func (s *Store) Load() Snapshot {
	return *s.current.Load()
}

// PublishRates replaces the whole rates table and stamps LastUpdated.
func (s *Store) PublishRates(rates goldex.Rates, at time.Time) {
	table := make(goldex.Rates, len(rates))
	for k, v := range rates {
		table[k] = v
	}

	s.lock.Lock()
	defer s.lock.Unlock()
	next := *s.current.Load()
	next.Rates = table
	next.LastUpdated = at
	s.current.Store(&next)
}

// PublishQuote replaces the gold quote.
func (s *Store) PublishQuote(q goldex.GoldQuote) {
	s.lock.Lock()
	defer s.lock.Unlock()
	next := *s.current.Load()
	next.Quote = &q
	s.current.Store(&next)
}
