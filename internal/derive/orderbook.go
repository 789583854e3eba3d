package derive

import (
	"log/slog"
	"sort"

	"dexfeed/internal/domain"
	"dexfeed/internal/infra"
	"dexfeed/internal/state"

	"github.com/ethereum/go-ethereum/common"
)

// OpenOrders returns the orders with no matching trade or cancel, in
// insertion order. An id present in both the filled and cancelled sets is a
// data anomaly: it is excluded either way, logged, and resolved as Filled
// wherever a single status is needed.
func OpenOrders(snap state.Snapshot) []domain.Order {
	filled := make(map[uint64]struct{}, len(snap.Trades))
	for _, t := range snap.Trades {
		filled[t.ID] = struct{}{}
	}
	cancelled := make(map[uint64]struct{}, len(snap.Cancels))
	for _, c := range snap.Cancels {
		if _, both := filled[c.ID]; both {
			infra.GlobalMetrics.RecordAnomaly()
			slog.Warn("order is both filled and cancelled, treating as filled",
				slog.Uint64("order_id", c.ID))
		}
		cancelled[c.ID] = struct{}{}
	}

	open := make([]domain.Order, 0, len(snap.Orders))
	for _, o := range snap.Orders {
		if _, ok := filled[o.ID]; ok {
			continue
		}
		if _, ok := cancelled[o.ID]; ok {
			continue
		}
		open = append(open, o)
	}
	return open
}

// OrderStatus resolves the lifecycle state of a single order id. Filled
// takes precedence over Cancelled on anomalous input.
func OrderStatus(snap state.Snapshot, id uint64) string {
	for _, t := range snap.Trades {
		if t.ID == id {
			return domain.StatusFilled
		}
	}
	for _, c := range snap.Cancels {
		if c.ID == id {
			return domain.StatusCancelled
		}
	}
	return domain.StatusOpen
}

// OrderBook derives the open order book: open orders decorated, partitioned
// into buys and sells, each side sorted descending by price. The sorts are
// stable so equal-price orders keep their insertion order.
func OrderBook(snap state.Snapshot) *domain.OrderBook {
	open := OpenOrders(snap)

	book := &domain.OrderBook{
		BuyOrders:  make([]domain.DecoratedOrder, 0, len(open)),
		SellOrders: make([]domain.DecoratedOrder, 0, len(open)),
	}
	for _, o := range open {
		d := decorateOrder(o)
		if d.OrderSide == domain.SideBuy {
			book.BuyOrders = append(book.BuyOrders, d)
		} else {
			book.SellOrders = append(book.SellOrders, d)
		}
	}

	byPriceDesc := func(orders []domain.DecoratedOrder) func(i, j int) bool {
		return func(i, j int) bool {
			return orders[i].Price.GreaterThan(orders[j].Price)
		}
	}
	sort.SliceStable(book.BuyOrders, byPriceDesc(book.BuyOrders))
	sort.SliceStable(book.SellOrders, byPriceDesc(book.SellOrders))

	return book
}

// MyOpenOrders filters the open set to one account's orders, decorated and
// sorted descending by timestamp.
func MyOpenOrders(snap state.Snapshot, account common.Address) []domain.DecoratedOrder {
	open := OpenOrders(snap)

	mine := make([]domain.DecoratedOrder, 0, len(open))
	for _, o := range open {
		if o.User != account {
			continue
		}
		mine = append(mine, decorateOrder(o))
	}
	sort.SliceStable(mine, func(i, j int) bool {
		return mine[i].Timestamp > mine[j].Timestamp
	})
	return mine
}
