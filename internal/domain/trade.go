package domain

import (
	"poolfee_go/pkg/quant"

	"github.com/shopspring/decimal"
)

// Direction is the taker-side direction of a trade against the pool.
type Direction uint8

const (
	DirectionNone Direction = iota
	DirectionBuy            // taker bought base (pool sold base, acquired quote)
	DirectionSell           // taker sold base (pool bought base, paid quote)
)

// String returns the string representation of Direction
func (d Direction) String() string {
	switch d {
	case DirectionBuy:
		return "BUY"
	case DirectionSell:
		return "SELL"
	default:
		return "NONE"
	}
}

// TradeObservation is one executed trade as seen by the fee engine, reported
// after the pool reserves have been updated. It is immutable input; the
// engine never mutates it.
//
// Amounts and reserves are arbitrary-precision decimals because pool sizes
// are unbounded; they are collapsed into bounded fixed-point ratios at the
// engine boundary.
type TradeObservation struct {
	PoolID string

	// IsBuy is true when the pool acquired the quote asset (sold base),
	// i.e. the taker bought base.
	IsBuy bool

	AmountBase  decimal.Decimal
	AmountQuote decimal.Decimal

	ReserveBaseAfter  decimal.Decimal
	ReserveQuoteAfter decimal.Decimal

	// Timestamp is optional; zero means unknown.
	Timestamp quant.TimeStamp
}

// Direction maps the pool-perspective side flag to the taker direction.
func (t TradeObservation) Direction() Direction {
	if t.IsBuy {
		return DirectionBuy
	}
	return DirectionSell
}

// FeeQuote is the fee pair to apply to the next trade. Both values are
// fractions of trade size (0.003 = 30bps) and always lie within the
// configured [FeeMin, FeeMax] bounds.
type FeeQuote struct {
	// BidFee applies when the pool buys base (taker sells).
	BidFee quant.Wad `json:"bid_fee"`
	// AskFee applies when the pool sells base (taker buys).
	AskFee quant.Wad `json:"ask_fee"`
}
