// Package event defines the typed records the ingestor pushes into the
// engine inbox. Each stream is independently ordered; nothing here implies
// an order across streams.
package event

import (
	"dexfeed/internal/domain"
)

// Type identifies the originating contract event stream.
type Type uint8

const (
	TypeOrderPlaced Type = iota + 1
	TypeOrderCancelled
	TypeTradeExecuted
	TypeBalanceChanged
	TypeHistoryLoaded
)

// String returns the contract event name for the type.
func (t Type) String() string {
	switch t {
	case TypeOrderPlaced:
		return "Order"
	case TypeOrderCancelled:
		return "Cancel"
	case TypeTradeExecuted:
		return "Trade"
	case TypeBalanceChanged:
		return "Balance"
	case TypeHistoryLoaded:
		return "HistoryLoaded"
	default:
		return "Unknown"
	}
}

// Event is anything the sequencer can process.
type Event interface {
	EventType() Type
}

// OrderPlaced carries a decoded Order event.
type OrderPlaced struct {
	Order domain.Order
}

func (e *OrderPlaced) EventType() Type { return TypeOrderPlaced }

// OrderCancelled carries a decoded Cancel event.
type OrderCancelled struct {
	Cancel domain.Cancel
}

func (e *OrderCancelled) EventType() Type { return TypeOrderCancelled }

// TradeExecuted carries a decoded Trade event.
type TradeExecuted struct {
	Trade domain.Trade
}

func (e *TradeExecuted) EventType() Type { return TypeTradeExecuted }

// BalanceChanged carries a Deposit/Withdraw notification. It only triggers
// a balance-view refresh and is never merged into order-book state.
type BalanceChanged struct {
	Balance domain.TokenBalance
}

func (e *BalanceChanged) EventType() Type { return TypeBalanceChanged }

// HistoryLoaded marks the end of the bulk historical replay. Processing it
// through the inbox keeps the ready flip serialized behind every
// historical merge.
type HistoryLoaded struct{}

func (e *HistoryLoaded) EventType() Type { return TypeHistoryLoaded }
