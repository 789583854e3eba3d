package derive

import (
	"sort"

	"dexfeed/internal/domain"
	"dexfeed/internal/state"

	"github.com/ethereum/go-ethereum/common"
)

// tradesAscending copies the snapshot's trades sorted ascending by
// timestamp. This is the decoration order: price coloring always compares
// against the chronologically previous trade, whatever order a view
// ultimately displays.
func tradesAscending(snap state.Snapshot) []domain.Trade {
	trades := make([]domain.Trade, len(snap.Trades))
	copy(trades, snap.Trades)
	sort.SliceStable(trades, func(i, j int) bool {
		return trades[i].Timestamp < trades[j].Timestamp
	})
	return trades
}

// priceClass colors a trade against the previous one in decoration order.
// The first trade compares against itself, so it is always green.
func priceClass(price domain.DecoratedTrade, previous domain.DecoratedTrade) string {
	if previous.ID == price.ID {
		return domain.ClassGreen
	}
	if previous.Price.LessThanOrEqual(price.Price) {
		return domain.ClassGreen
	}
	return domain.ClassRed
}

// TradeHistory derives the market-wide trade history: decorated,
// green/red-colored in chronological order, returned descending by
// timestamp for display. Empty input yields an empty history.
func TradeHistory(snap state.Snapshot) []domain.DecoratedTrade {
	trades := tradesAscending(snap)

	history := make([]domain.DecoratedTrade, 0, len(trades))
	var previous domain.DecoratedTrade
	for i, t := range trades {
		d := decorateTrade(t)
		if i == 0 {
			previous = d
		}
		d.PriceClass = priceClass(d, previous)
		previous = d
		history = append(history, d)
	}

	sort.SliceStable(history, func(i, j int) bool {
		return history[i].Timestamp > history[j].Timestamp
	})
	return history
}

// MyTrades derives the account-scoped trade view: trades where the account
// is maker or taker, ascending by timestamp, tagged with a directional sign.
// A maker's direction is the order's side; a taker's is the opposite.
func MyTrades(snap state.Snapshot, account common.Address) []domain.DecoratedTrade {
	trades := tradesAscending(snap)

	mine := make([]domain.DecoratedTrade, 0, len(trades))
	for _, t := range trades {
		if t.User != account && t.UserFill != account {
			continue
		}

		d := decorateTrade(t)
		direction := d.OrderSide
		if t.User != account {
			// account is the taker; it took the other side
			if direction == domain.SideBuy {
				direction = domain.SideSell
			} else {
				direction = domain.SideBuy
			}
		}

		d.OrderSide = direction
		if direction == domain.SideBuy {
			d.SideClass = domain.ClassGreen
			d.Sign = domain.SignBuy
		} else {
			d.SideClass = domain.ClassRed
			d.Sign = domain.SignSell
		}
		mine = append(mine, d)
	}
	return mine
}
