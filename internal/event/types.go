package event

import (
	"poolfee_go/pkg/quant"

	"github.com/shopspring/decimal"
)

// Type identifies the kind of an event.
type Type string

const (
	TypePoolCreated   Type = "pool_created"
	TypeTradeExecuted Type = "trade_executed"
)

// Event is the common interface consumed by the sequencer inbox.
type Event interface {
	GetSeq() uint64
	GetType() Type
}

// BaseEvent carries the fields shared by all events.
type BaseEvent struct {
	Seq uint64
	Ts  quant.TimeStamp
}

func (b *BaseEvent) GetSeq() uint64 { return b.Seq }

// PoolCreatedEvent announces a new pool and its starting reserves.
type PoolCreatedEvent struct {
	BaseEvent
	PoolID       string
	ReserveBase  decimal.Decimal
	ReserveQuote decimal.Decimal
}

func (e *PoolCreatedEvent) GetType() Type { return TypePoolCreated }

// TradeExecutedEvent reports one executed swap, reserves already updated.
type TradeExecutedEvent struct {
	BaseEvent
	PoolID       string
	IsBuy        bool // pool acquired quote (taker bought base)
	AmountBase   decimal.Decimal
	AmountQuote  decimal.Decimal
	ReserveBase  decimal.Decimal
	ReserveQuote decimal.Decimal
}

func (e *TradeExecutedEvent) GetType() Type { return TypeTradeExecuted }
