package event

import (
	"sync"

	"github.com/shopspring/decimal"
)

// tradeExecutedPool provides sync.Pool for high-frequency event allocation.
// Use this to reduce GC pressure in the hotpath.
//
// Usage:
//
//	ev := AcquireTradeExecutedEvent()
//	ev.PoolID = "WETH-USDC"
//	// ... use event ...
//	ReleaseTradeExecutedEvent(ev)  // Return to pool after processing
var tradeExecutedPool = sync.Pool{
	New: func() interface{} {
		return &TradeExecutedEvent{}
	},
}

// AcquireTradeExecutedEvent gets a TradeExecutedEvent from the pool.
// The returned event has zero values and must be initialized.
func AcquireTradeExecutedEvent() *TradeExecutedEvent {
	return tradeExecutedPool.Get().(*TradeExecutedEvent)
}

// ReleaseTradeExecutedEvent returns a TradeExecutedEvent to the pool.
// The event is reset to zero values before being pooled.
func ReleaseTradeExecutedEvent(ev *TradeExecutedEvent) {
	if ev == nil {
		return
	}
	ev.Seq = 0
	ev.Ts = 0
	ev.PoolID = ""
	ev.IsBuy = false
	ev.AmountBase = decimal.Decimal{}
	ev.AmountQuote = decimal.Decimal{}
	ev.ReserveBase = decimal.Decimal{}
	ev.ReserveQuote = decimal.Decimal{}

	tradeExecutedPool.Put(ev)
}

// PoolCreatedEvent pool
var poolCreatedPool = sync.Pool{
	New: func() interface{} {
		return &PoolCreatedEvent{}
	},
}

// AcquirePoolCreatedEvent gets a PoolCreatedEvent from the pool.
func AcquirePoolCreatedEvent() *PoolCreatedEvent {
	return poolCreatedPool.Get().(*PoolCreatedEvent)
}

// ReleasePoolCreatedEvent returns a PoolCreatedEvent to the pool.
func ReleasePoolCreatedEvent(ev *PoolCreatedEvent) {
	if ev == nil {
		return
	}
	ev.Seq = 0
	ev.Ts = 0
	ev.PoolID = ""
	ev.ReserveBase = decimal.Decimal{}
	ev.ReserveQuote = decimal.Decimal{}

	poolCreatedPool.Put(ev)
}

// Warmup pre-allocates event objects to reduce GC pressure at startup.
// It acquires and releases a batch of events.
func Warmup() {
	const batchSize = 1000

	tradeEvs := make([]*TradeExecutedEvent, 0, batchSize)
	for i := 0; i < batchSize; i++ {
		tradeEvs = append(tradeEvs, AcquireTradeExecutedEvent())
	}
	for _, ev := range tradeEvs {
		ReleaseTradeExecutedEvent(ev)
	}

	createdEvs := make([]*PoolCreatedEvent, 0, batchSize)
	for i := 0; i < batchSize; i++ {
		createdEvs = append(createdEvs, AcquirePoolCreatedEvent())
	}
	for _, ev := range createdEvs {
		ReleasePoolCreatedEvent(ev)
	}
}
