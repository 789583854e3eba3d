// Package service exposes the derived market views behind a version-keyed
// memo cache and fans change notifications out to subscribers.
package service

import (
	"log/slog"
	"sync"

	"dexfeed/internal/derive"
	"dexfeed/internal/domain"
	"dexfeed/internal/infra"
	"dexfeed/internal/state"

	"github.com/ethereum/go-ethereum/common"
)

// ViewUpdate is what subscribers receive whenever the store version
// advances (or a balance event asks for a refresh). Views are immutable
// snapshots; consumers replace, never diff.
type ViewUpdate struct {
	Version        uint64                  `json:"version"`
	OrderBook      *domain.OrderBook       `json:"order_book,omitempty"`
	TradeHistory   []domain.DecoratedTrade `json:"trade_history,omitempty"`
	Candles        *domain.CandleSeries    `json:"candles,omitempty"`
	BalanceRefresh *domain.TokenBalance    `json:"balance_refresh,omitempty"`
}

// memo caches one derived view together with the version it was computed
// at. Access at the same version returns the identical value; any other
// version recomputes lazily.
type memo[T any] struct {
	version uint64
	valid   bool
	value   T
}

func (m *memo[T]) get(version uint64, compute func() T) T {
	if m.valid && m.version == version {
		return m.value
	}
	m.value = compute()
	m.version = version
	m.valid = true
	return m.value
}

type accountMemo struct {
	account    common.Address
	version    uint64
	valid      bool
	openOrders []domain.DecoratedOrder
	trades     []domain.DecoratedTrade
}

// MarketService is the query surface over the state store. All view
// accessors return ErrNotReady until the historical load has completed.
type MarketService struct {
	store *state.Store

	mu       sync.Mutex
	book     memo[*domain.OrderBook]
	history  memo[[]domain.DecoratedTrade]
	candles  memo[*domain.CandleSeries]
	mine     accountMemo
	snapshot memo[state.Snapshot]

	subMu  sync.RWMutex
	subs   map[int]chan ViewUpdate
	nextID int
}

// NewMarketService creates a service over the given store.
func NewMarketService(store *state.Store) *MarketService {
	return &MarketService{
		store: store,
		subs:  make(map[int]chan ViewUpdate),
	}
}

// snap returns the current snapshot, memoized per version so one state
// change costs at most one copy of the collections.
func (s *MarketService) snap() state.Snapshot {
	version := s.store.Version()
	return s.snapshot.get(version, func() state.Snapshot {
		return s.store.Snapshot()
	})
}

// OrderBook returns the open order book at the current version.
func (s *MarketService) OrderBook() (*domain.OrderBook, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snap()
	if !snap.Ready {
		return nil, domain.ErrNotReady
	}
	return s.book.get(snap.Version, func() *domain.OrderBook {
		return derive.OrderBook(snap)
	}), nil
}

// TradeHistory returns the colored trade history, newest first.
func (s *MarketService) TradeHistory() ([]domain.DecoratedTrade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snap()
	if !snap.Ready {
		return nil, domain.ErrNotReady
	}
	return s.history.get(snap.Version, func() []domain.DecoratedTrade {
		return derive.TradeHistory(snap)
	}), nil
}

// Candles returns the hourly OHLC series and latest-price summary.
func (s *MarketService) Candles() (*domain.CandleSeries, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snap()
	if !snap.Ready {
		return nil, domain.ErrNotReady
	}
	return s.candles.get(snap.Version, func() *domain.CandleSeries {
		return derive.Candles(snap)
	}), nil
}

// MyOpenOrders returns the account's open orders, newest first.
func (s *MarketService) MyOpenOrders(account common.Address) ([]domain.DecoratedOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snap()
	if !snap.Ready {
		return nil, domain.ErrNotReady
	}
	s.refreshAccount(snap, account)
	return s.mine.openOrders, nil
}

// MyTrades returns the trades the account took part in, oldest first.
func (s *MarketService) MyTrades(account common.Address) ([]domain.DecoratedTrade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snap()
	if !snap.Ready {
		return nil, domain.ErrNotReady
	}
	s.refreshAccount(snap, account)
	return s.mine.trades, nil
}

// refreshAccount recomputes the account-scoped views when either the
// version or the queried account changed. Must hold s.mu.
func (s *MarketService) refreshAccount(snap state.Snapshot, account common.Address) {
	if s.mine.valid && s.mine.version == snap.Version && s.mine.account == account {
		return
	}
	s.mine = accountMemo{
		account:    account,
		version:    snap.Version,
		valid:      true,
		openOrders: derive.MyOpenOrders(snap, account),
		trades:     derive.MyTrades(snap, account),
	}
}

// Subscribe registers a consumer. The returned channel receives one
// ViewUpdate per state change; slow consumers lose updates instead of
// blocking ingestion (the latest-arriving update always stays deliverable).
// The cancel function closes the channel.
func (s *MarketService) Subscribe(buffer int) (<-chan ViewUpdate, func()) {
	if buffer < 1 {
		buffer = 1
	}

	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	ch := make(chan ViewUpdate, buffer)
	s.subs[id] = ch
	s.subMu.Unlock()

	infra.GlobalMetrics.SetActiveSubscribers(int32(s.subscriberCount()))

	cancel := func() {
		s.subMu.Lock()
		if existing, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(existing)
		}
		s.subMu.Unlock()
		infra.GlobalMetrics.SetActiveSubscribers(int32(s.subscriberCount()))
	}
	return ch, cancel
}

func (s *MarketService) subscriberCount() int {
	s.subMu.RLock()
	defer s.subMu.RUnlock()
	return len(s.subs)
}

// OnVersionChange recomputes the market-wide views at the current version
// and pushes them to every subscriber. Called by the sequencer after each
// merged event; it never blocks the engine.
func (s *MarketService) OnVersionChange() {
	s.mu.Lock()
	snap := s.snap()
	if !snap.Ready {
		s.mu.Unlock()
		return
	}
	update := ViewUpdate{
		Version: snap.Version,
		OrderBook: s.book.get(snap.Version, func() *domain.OrderBook {
			return derive.OrderBook(snap)
		}),
		TradeHistory: s.history.get(snap.Version, func() []domain.DecoratedTrade {
			return derive.TradeHistory(snap)
		}),
		Candles: s.candles.get(snap.Version, func() *domain.CandleSeries {
			return derive.Candles(snap)
		}),
	}
	s.mu.Unlock()

	s.publish(update)
}

// OnBalanceChange forwards a deposit/withdraw notification. Balance events
// never touch order-book state, so no views are recomputed.
func (s *MarketService) OnBalanceChange(balance domain.TokenBalance) {
	s.publish(ViewUpdate{
		Version:        s.store.Version(),
		BalanceRefresh: &balance,
	})
}

// publish delivers fire-and-forget: a full subscriber buffer drops its
// oldest pending update to make room for the newest.
func (s *MarketService) publish(update ViewUpdate) {
	s.subMu.RLock()
	defer s.subMu.RUnlock()

	for _, ch := range s.subs {
		select {
		case ch <- update:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- update:
			default:
				slog.Warn("dropping view update for slow subscriber",
					slog.Uint64("version", update.Version))
			}
		}
		infra.GlobalMetrics.RecordNotification()
	}
}
