// Package engine implements the dynamic fee-policy engine for a
// constant-product AMM pool: signal estimation from executed trades,
// market-regime classification, and asymmetric fee synthesis.
//
// The engine is a pure state-transition function. It performs no I/O, never
// fails on market data, and always returns a quote within the configured
// bounds. Per pool, trades must be processed strictly sequentially and
// exactly once; the Sequencer in this package enforces that discipline for
// the application shell.
package engine

import (
	"fmt"

	"poolfee_go/internal/domain"

	"github.com/shopspring/decimal"
)

// Engine computes fee quotes for one or more pools. It is stateless apart
// from its parameters; all per-pool state lives in domain.EngineState and
// is threaded through every call.
type Engine struct {
	params Parameters
}

// New creates an Engine with the given parameter schedule.
func New(p Parameters) (*Engine, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}
	return &Engine{params: p}, nil
}

// Params returns the active parameter schedule.
func (e *Engine) Params() Parameters {
	return e.params
}

// Initialize creates the decision state for a freshly created pool and the
// quote to apply until its first trade. Reserves must be strictly positive.
func (e *Engine) Initialize(reserveBase, reserveQuote decimal.Decimal) (domain.EngineState, domain.FeeQuote, error) {
	if reserveBase.Sign() <= 0 || reserveQuote.Sign() <= 0 {
		return domain.EngineState{}, domain.FeeQuote{}, domain.ErrInvalidReserves
	}

	st := domain.EngineState{
		Regime:              domain.RegimeNormal,
		LastDirection:       domain.DirectionNone,
		Volatility:          e.params.VolFloor,
		InitialReserveBase:  reserveBase,
		InitialReserveQuote: reserveQuote,
		Initialized:         true,
	}

	// The starting quote is a plain Normal-regime synthesis over the
	// resting signals.
	quote, base := synthesize(e.params, st.Regime, 0, 0, signalUpdate{
		volatility: st.Volatility,
		direction:  domain.DirectionNone,
	})
	st.BaseFee = base
	st.BidFee = quote.BidFee
	st.AskFee = quote.AskFee
	return st, quote, nil
}

// OnTrade advances the state by one executed trade and returns the quote to
// apply to the next trade. It never fails: degenerate observations (zero
// reserves or zero traded amounts) leave the state untouched and return the
// prior quote. Calling OnTrade on an uninitialized state is a programming
// error and panics.
func (e *Engine) OnTrade(st domain.EngineState, obs domain.TradeObservation) (domain.EngineState, domain.FeeQuote) {
	if !st.Initialized {
		panic("engine: OnTrade called before Initialize")
	}

	if degenerate(obs) {
		return st, st.Quote()
	}

	s := updateSignals(e.params, st, obs)
	skew := inventorySkew(st, obs)
	regime, steps := classify(e.params, st.Regime, st.RegimeSteps, s)
	quote, base := synthesize(e.params, regime, steps, skew, s)

	st.Regime = regime
	st.RegimeSteps = steps
	st.LastDirection = s.direction
	st.Streak = s.streak
	st.Volatility = s.volatility
	st.Momentum = s.momentum
	st.BaseFee = base
	st.BidFee = quote.BidFee
	st.AskFee = quote.AskFee
	st.TradeCount++
	return st, quote
}

// degenerate reports observations that cannot be priced: a zero or negative
// reserve marks a drained/finalized pool, and a trade with no quote volume
// carries no signal. Both return the previous quote unchanged rather than
// propagate a division error.
func degenerate(obs domain.TradeObservation) bool {
	if obs.ReserveBaseAfter.Sign() <= 0 || obs.ReserveQuoteAfter.Sign() <= 0 {
		return true
	}
	if obs.AmountQuote.Sign() < 0 || obs.AmountBase.Sign() < 0 {
		return true
	}
	return obs.AmountQuote.Sign() == 0 && obs.AmountBase.Sign() == 0
}
