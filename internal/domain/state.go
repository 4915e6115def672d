package domain

import (
	"poolfee_go/pkg/quant"

	"github.com/shopspring/decimal"
)

// Regime is a coarse classification of current market conditions, used to
// select the base fee level.
type Regime uint8

const (
	RegimeNormal Regime = iota
	RegimeHighVolatility
	RegimeArbitragePattern
	RegimePostArbRecovery
)

// String returns the string representation of Regime
func (r Regime) String() string {
	switch r {
	case RegimeNormal:
		return "NORMAL"
	case RegimeHighVolatility:
		return "HIGH_VOLATILITY"
	case RegimeArbitragePattern:
		return "ARBITRAGE_PATTERN"
	case RegimePostArbRecovery:
		return "POST_ARB_RECOVERY"
	default:
		return "UNKNOWN"
	}
}

// EngineState is the complete per-pool decision state, threaded through
// every OnTrade call. It has fixed size regardless of trade count: history
// is summarized by decaying estimators, never retained as a list. One pool
// owns exactly one state; concurrent mutation is the caller's bug.
type EngineState struct {
	Regime      Regime `json:"regime"`
	RegimeSteps uint32 `json:"regime_steps"` // trades since entering Regime

	LastDirection Direction `json:"last_direction"`
	Streak        uint32    `json:"streak"` // consecutive significant same-direction trades, capped

	Volatility quant.Wad `json:"volatility"` // EWMA trade-impact volatility, [VolFloor, 1.0]
	Momentum   quant.Wad `json:"momentum"`   // EWMA signed flow pressure, [-1.0, 1.0]

	BaseFee quant.Wad `json:"base_fee"` // last regime base fee, carried forward

	// Initial reserves anchor the inventory target: base inventory is valued
	// at the implied price of the pool at creation, stored unreduced so the
	// skew division stays exact.
	InitialReserveBase  decimal.Decimal `json:"initial_reserve_base"`
	InitialReserveQuote decimal.Decimal `json:"initial_reserve_quote"`

	// Last issued quote, returned unchanged for degenerate observations.
	BidFee quant.Wad `json:"bid_fee"`
	AskFee quant.Wad `json:"ask_fee"`

	TradeCount  uint64 `json:"trade_count"`
	Initialized bool   `json:"initialized"`
}

// Quote returns the last issued fee quote.
func (s EngineState) Quote() FeeQuote {
	return FeeQuote{BidFee: s.BidFee, AskFee: s.AskFee}
}
