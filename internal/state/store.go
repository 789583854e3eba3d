// Package state holds the canonical, id-keyed event collections. Records
// are only ever inserted, never mutated or deleted; a restart rebuilds
// everything from a full history replay.
package state

import (
	"sync"

	"dexfeed/internal/domain"
)

// Store is the canonical session state: three append-only collections keyed
// by event id plus a version counter that advances only when an insertion
// actually changes a collection. Mutation is serialized by the engine's
// single goroutine; the RWMutex exists so snapshot reads can run
// concurrently with merges.
type Store struct {
	mu sync.RWMutex

	orders   map[uint64]domain.Order
	orderIDs []uint64 // insertion order, the de facto tie-break for views
	cancels  map[uint64]domain.Cancel
	trades   map[uint64]domain.Trade
	tradeIDs []uint64

	version uint64
	ready   bool
}

// Snapshot is an immutable copy of the collections at one version. Views
// derived from a snapshot stay valid while the store keeps moving.
type Snapshot struct {
	Orders  []domain.Order // insertion order
	Cancels []domain.Cancel
	Trades  []domain.Trade // insertion order
	Version uint64
	Ready   bool
}

// New creates an empty, not-ready store.
func New() *Store {
	return &Store{
		orders:  make(map[uint64]domain.Order),
		cancels: make(map[uint64]domain.Cancel),
		trades:  make(map[uint64]domain.Trade),
	}
}

// MergeOrder inserts an order if its id is absent. Duplicate ids are a
// silent no-op and do not advance the version.
func (s *Store) MergeOrder(o domain.Order) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.orders[o.ID]; exists {
		return false
	}
	s.orders[o.ID] = o
	s.orderIDs = append(s.orderIDs, o.ID)
	s.version++
	return true
}

// MergeCancel inserts a cancel if its order id is absent.
func (s *Store) MergeCancel(c domain.Cancel) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.cancels[c.ID]; exists {
		return false
	}
	s.cancels[c.ID] = c
	s.version++
	return true
}

// MergeTrade inserts a trade if its order id is absent.
func (s *Store) MergeTrade(t domain.Trade) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.trades[t.ID]; exists {
		return false
	}
	s.trades[t.ID] = t
	s.tradeIDs = append(s.tradeIDs, t.ID)
	s.version++
	return true
}

// SetReady flips the ready flag once the historical load completes (or back
// off when contracts turn out to be unavailable). Flipping counts as a
// state change so cached views refresh.
func (s *Store) SetReady(ready bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ready == ready {
		return
	}
	s.ready = ready
	s.version++
}

// Version returns the current version counter.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.version
}

// Snapshot copies the collections out in insertion order.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Orders:  make([]domain.Order, 0, len(s.orderIDs)),
		Cancels: make([]domain.Cancel, 0, len(s.cancels)),
		Trades:  make([]domain.Trade, 0, len(s.tradeIDs)),
		Version: s.version,
		Ready:   s.ready,
	}
	for _, id := range s.orderIDs {
		snap.Orders = append(snap.Orders, s.orders[id])
	}
	for _, c := range s.cancels {
		snap.Cancels = append(snap.Cancels, c)
	}
	for _, id := range s.tradeIDs {
		snap.Trades = append(snap.Trades, s.trades[id])
	}
	return snap
}
