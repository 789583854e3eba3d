package event

import (
	"sync"

	"dexfeed/internal/domain"
)

// Pools for the high-frequency event kinds. A historical replay of a busy
// market allocates one event per log; pooling keeps GC pressure flat.
//
// Usage:
//
//	ev := AcquireOrderPlaced()
//	ev.Order = decoded
//	// ... send through the inbox; the sequencer releases it ...
var orderPlacedPool = sync.Pool{
	New: func() interface{} {
		return &OrderPlaced{}
	},
}

// AcquireOrderPlaced gets an OrderPlaced from the pool.
// The returned event has zero values and must be initialized.
func AcquireOrderPlaced() *OrderPlaced {
	return orderPlacedPool.Get().(*OrderPlaced)
}

// ReleaseOrderPlaced returns an OrderPlaced to the pool.
// The event is reset to zero values before being pooled.
func ReleaseOrderPlaced(ev *OrderPlaced) {
	if ev == nil {
		return
	}
	ev.Order = domain.Order{}

	orderPlacedPool.Put(ev)
}

// TradeExecuted pool
var tradeExecutedPool = sync.Pool{
	New: func() interface{} {
		return &TradeExecuted{}
	},
}

// AcquireTradeExecuted gets a TradeExecuted from the pool.
func AcquireTradeExecuted() *TradeExecuted {
	return tradeExecutedPool.Get().(*TradeExecuted)
}

// ReleaseTradeExecuted returns a TradeExecuted to the pool.
func ReleaseTradeExecuted(ev *TradeExecuted) {
	if ev == nil {
		return
	}
	ev.Trade = domain.Trade{}

	tradeExecutedPool.Put(ev)
}

// Warmup pre-allocates event objects to reduce GC pressure at startup.
// It acquires and releases a batch of events.
func Warmup() {
	const batchSize = 1000

	orderEvs := make([]*OrderPlaced, 0, batchSize)
	for i := 0; i < batchSize; i++ {
		orderEvs = append(orderEvs, AcquireOrderPlaced())
	}
	for _, ev := range orderEvs {
		ReleaseOrderPlaced(ev)
	}

	tradeEvs := make([]*TradeExecuted, 0, batchSize)
	for i := 0; i < batchSize; i++ {
		tradeEvs = append(tradeEvs, AcquireTradeExecuted())
	}
	for _, ev := range tradeEvs {
		ReleaseTradeExecuted(ev)
	}
}
