package engine

import (
	"poolfee_go/internal/domain"
	"poolfee_go/pkg/quant"
)

// signalUpdate is the output of one estimator step: the refreshed signals
// plus the derived quantities every downstream component consumes.
type signalUpdate struct {
	volatility quant.Wad
	momentum   quant.Wad
	streak     uint32
	direction  domain.Direction
	tradeRatio quant.Wad
}

// updateSignals advances the decaying estimators by one trade. The caller
// has already rejected degenerate observations, so ReserveQuoteAfter is
// known to be positive here.
func updateSignals(p Parameters, st domain.EngineState, obs domain.TradeObservation) signalUpdate {
	ratio, ok := quant.Ratio(obs.AmountQuote, obs.ReserveQuoteAfter)
	if !ok {
		// Quotient out of fixed-point range; treat as a maximally large trade.
		ratio = quant.One
	}
	ratio = quant.Clamp(ratio, 0, quant.One)

	dir := obs.Direction()

	// Volatility: impactful trades push the estimate up proportionally to
	// their size, quiet trades decay it geometrically.
	vol := st.Volatility
	if ratio > p.MediumTrade {
		vol += quant.Mul(ratio, p.VolImpactWeight)
	} else {
		vol = quant.Mul(vol, p.VolDecay)
	}
	vol = quant.Clamp(vol, p.VolFloor, p.VolCap)

	// Momentum: signed exponential average of taker direction.
	mom := quant.Mul(st.Momentum, p.MomentumDecay)
	if dir == domain.DirectionBuy {
		mom += p.MomentumStep
	} else {
		mom -= p.MomentumStep
	}
	mom = quant.Clamp(mom, quant.NegOne, quant.One)

	// Streak: only significant trades extend it; anything below the
	// significance threshold resets it outright so a stale streak cannot
	// survive dust flow.
	var streak uint32
	if ratio > p.SignificantTrade {
		if dir == st.LastDirection {
			streak = st.Streak + 1
		} else {
			streak = 1
		}
		if streak > p.StreakCap {
			streak = p.StreakCap
		}
	}

	return signalUpdate{
		volatility: vol,
		momentum:   mom,
		streak:     streak,
		direction:  dir,
		tradeRatio: ratio,
	}
}
