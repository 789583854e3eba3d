package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DecoratedOrder is an open order with display/analysis fields attached.
// Derived views recreate these on every recomputation; they are never
// stored and carry no identity across recomputations.
type DecoratedOrder struct {
	Order

	BaseAmount    decimal.Decimal `json:"base_amount"`  // base asset, whole units
	QuoteAmount   decimal.Decimal `json:"quote_amount"` // traded token, whole units
	Price         decimal.Decimal `json:"price"`        // base per token, scaled
	FormattedTime string          `json:"formatted_time"`
	OrderSide     string          `json:"side"`       // "buy" or "sell"
	SideClass     string          `json:"side_class"` // green for buys, red for sells
	FillSide      string          `json:"fill_side"`  // side a counterparty would take
}

// DecoratedTrade is a trade with display/analysis fields attached.
// PriceClass is set for the market-wide history; SideClass and Sign are set
// for account-scoped views.
type DecoratedTrade struct {
	Trade

	BaseAmount    decimal.Decimal `json:"base_amount"`
	QuoteAmount   decimal.Decimal `json:"quote_amount"`
	Price         decimal.Decimal `json:"price"`
	FormattedTime string          `json:"formatted_time"`
	OrderSide     string          `json:"side"`
	PriceClass    string          `json:"price_class,omitempty"`
	SideClass     string          `json:"side_class,omitempty"`
	Sign          string          `json:"sign,omitempty"`
}

// OrderBook is the open order book, both sides sorted descending by price.
// Equal prices keep insertion order.
type OrderBook struct {
	BuyOrders  []DecoratedOrder `json:"buy_orders"`
	SellOrders []DecoratedOrder `json:"sell_orders"`
}

// Candle is one hourly OHLC bucket.
type Candle struct {
	Time  time.Time       `json:"time"` // start of the clock hour, UTC
	Open  decimal.Decimal `json:"open"`
	High  decimal.Decimal `json:"high"`
	Low   decimal.Decimal `json:"low"`
	Close decimal.Decimal `json:"close"`
}

// CandleSeries is the hourly candle view plus the latest price summary.
// Missing prices default to zero, so with fewer than two trades the change
// falls back to "+".
type CandleSeries struct {
	LastPrice       decimal.Decimal `json:"last_price"`
	LastPriceChange string          `json:"last_price_change"` // "+" or "-"
	Candles         []Candle        `json:"candles"`
}
