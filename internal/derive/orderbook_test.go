package derive

import (
	"math/big"
	"testing"

	"dexfeed/internal/domain"
	"dexfeed/internal/state"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

var (
	testToken = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	alice     = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	bob       = common.HexToAddress("0x00000000000000000000000000000000000000b2")
)

// unit converts whole units to a wei-scale big.Int.
func unit(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1_000_000_000_000_000_000))
}

// buyOrder gives baseUnits of the base asset for tokenUnits of the token.
func buyOrder(id uint64, user common.Address, baseUnits, tokenUnits, ts int64) domain.Order {
	return domain.Order{
		ID:         id,
		User:       user,
		TokenGive:  domain.BaseAsset,
		AmountGive: unit(baseUnits),
		TokenGet:   testToken,
		AmountGet:  unit(tokenUnits),
		Timestamp:  ts,
	}
}

// sellOrder gives tokenUnits of the token for baseUnits of the base asset.
func sellOrder(id uint64, user common.Address, tokenUnits, baseUnits, ts int64) domain.Order {
	return domain.Order{
		ID:         id,
		User:       user,
		TokenGive:  testToken,
		AmountGive: unit(tokenUnits),
		TokenGet:   domain.BaseAsset,
		AmountGet:  unit(baseUnits),
		Timestamp:  ts,
	}
}

func tradeFor(o domain.Order, taker common.Address, ts int64) domain.Trade {
	t := domain.Trade{Order: o, UserFill: taker}
	t.Timestamp = ts
	return t
}

func cancelFor(o domain.Order, ts int64) domain.Cancel {
	c := domain.Cancel{Order: o}
	c.Timestamp = ts
	return c
}

func TestOpenOrders_Partition(t *testing.T) {
	o1 := buyOrder(1, alice, 1, 2, 100)
	o2 := buyOrder(2, alice, 1, 4, 110)
	o3 := sellOrder(3, bob, 2, 1, 120)

	snap := state.Snapshot{
		Orders:  []domain.Order{o1, o2, o3},
		Cancels: []domain.Cancel{cancelFor(o2, 130)},
		Trades:  []domain.Trade{tradeFor(o3, alice, 140)},
	}

	open := OpenOrders(snap)
	if len(open) != 1 || open[0].ID != 1 {
		t.Fatalf("Expected only order 1 open, got %v", open)
	}

	if got := OrderStatus(snap, 1); got != domain.StatusOpen {
		t.Errorf("order 1: expected OPEN, got %s", got)
	}
	if got := OrderStatus(snap, 2); got != domain.StatusCancelled {
		t.Errorf("order 2: expected CANCELLED, got %s", got)
	}
	if got := OrderStatus(snap, 3); got != domain.StatusFilled {
		t.Errorf("order 3: expected FILLED, got %s", got)
	}
}

func TestOpenOrders_FilledAndCancelledAnomaly(t *testing.T) {
	o1 := buyOrder(1, alice, 1, 2, 100)

	snap := state.Snapshot{
		Orders:  []domain.Order{o1},
		Cancels: []domain.Cancel{cancelFor(o1, 110)},
		Trades:  []domain.Trade{tradeFor(o1, bob, 120)},
	}

	// must not raise; excluded from open either way, Filled wins for status
	open := OpenOrders(snap)
	if len(open) != 0 {
		t.Errorf("anomalous order must not be open, got %v", open)
	}
	if got := OrderStatus(snap, 1); got != domain.StatusFilled {
		t.Errorf("Filled should take precedence, got %s", got)
	}
}

func TestOrderBook_PartitionAndSort(t *testing.T) {
	orders := []domain.Order{
		buyOrder(1, alice, 1, 4, 100),  // price 0.25
		sellOrder(2, bob, 2, 1, 110),   // price 0.5
		buyOrder(3, alice, 1, 2, 120),  // price 0.5
		sellOrder(4, bob, 10, 1, 130),  // price 0.1
		buyOrder(5, alice, 3, 10, 140), // price 0.3
	}

	book := OrderBook(state.Snapshot{Orders: orders})

	if len(book.BuyOrders) != 3 || len(book.SellOrders) != 2 {
		t.Fatalf("Expected 3 buys / 2 sells, got %d / %d",
			len(book.BuyOrders), len(book.SellOrders))
	}

	wantBuys := []uint64{3, 5, 1} // 0.5, 0.3, 0.25
	for i, d := range book.BuyOrders {
		if d.ID != wantBuys[i] {
			t.Errorf("buy %d: expected id %d, got %d", i, wantBuys[i], d.ID)
		}
	}
	wantSells := []uint64{2, 4} // 0.5, 0.1
	for i, d := range book.SellOrders {
		if d.ID != wantSells[i] {
			t.Errorf("sell %d: expected id %d, got %d", i, wantSells[i], d.ID)
		}
	}
}

func TestOrderBook_EqualPriceKeepsInsertionOrder(t *testing.T) {
	// three buys at the same price, inserted 7, 2, 9
	orders := []domain.Order{
		buyOrder(7, alice, 1, 2, 100),
		buyOrder(2, bob, 2, 4, 110),
		buyOrder(9, alice, 3, 6, 120),
	}

	book := OrderBook(state.Snapshot{Orders: orders})

	want := []uint64{7, 2, 9}
	for i, d := range book.BuyOrders {
		if d.ID != want[i] {
			t.Errorf("position %d: expected id %d, got %d", i, want[i], d.ID)
		}
		if !d.Price.Equal(decimal.NewFromFloat(0.5)) {
			t.Errorf("Expected price 0.5, got %v", d.Price)
		}
	}
}

func TestOrderBook_Empty(t *testing.T) {
	book := OrderBook(state.Snapshot{})
	if len(book.BuyOrders) != 0 || len(book.SellOrders) != 0 {
		t.Error("empty snapshot should derive an empty book")
	}
}

func TestMyOpenOrders(t *testing.T) {
	o1 := buyOrder(1, alice, 1, 2, 100)
	o2 := buyOrder(2, bob, 1, 2, 110)
	o3 := sellOrder(3, alice, 2, 1, 120)
	o4 := buyOrder(4, alice, 1, 4, 130)

	snap := state.Snapshot{
		Orders: []domain.Order{o1, o2, o3, o4},
		Trades: []domain.Trade{tradeFor(o4, bob, 140)},
	}

	mine := MyOpenOrders(snap, alice)
	// alice's open orders, newest first: 3 then 1 (4 is filled, 2 is bob's)
	want := []uint64{3, 1}
	if len(mine) != len(want) {
		t.Fatalf("Expected %d orders, got %d", len(want), len(mine))
	}
	for i, d := range mine {
		if d.ID != want[i] {
			t.Errorf("position %d: expected id %d, got %d", i, want[i], d.ID)
		}
	}
}
