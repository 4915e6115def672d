package engine

import (
	"poolfee_go/internal/domain"
	"poolfee_go/pkg/quant"
	"poolfee_go/pkg/safe"
)

// synthesize combines the regime base fee with the three asymmetric signals
// into the next quote. The regime sets the level, the additive layer sets
// which side of the market is cheaper right now. Returns the quote and the
// base fee it was built from.
func synthesize(p Parameters, regime domain.Regime, steps uint32, skew quant.Wad, s signalUpdate) (domain.FeeQuote, quant.Wad) {
	base := baseFee(p, regime, steps, s.volatility)

	var askAdj, bidAdj quant.Wad

	// Inventory: cheapen the side that relieves the overweight asset.
	// Positive skew (overweight base) lowers the ask so takers are paid to
	// drain base inventory.
	if quant.Abs(skew) > p.InventoryDeadband {
		adj := quant.Mul(skew, p.InventoryWeight)
		askAdj -= adj
		bidAdj += adj
	}

	// Momentum: same directional logic, smaller weight.
	if quant.Abs(s.momentum) > p.MomentumDeadband {
		adj := quant.Mul(s.momentum, p.MomentumWeight)
		askAdj -= adj
		bidAdj += adj
	}

	// Streak: fixed nudge favoring continuation of the observed direction.
	if s.streak >= p.StreakTrigger {
		if s.direction == domain.DirectionBuy {
			askAdj -= p.StreakNudge
			bidAdj += p.StreakNudge
		} else if s.direction == domain.DirectionSell {
			askAdj += p.StreakNudge
			bidAdj -= p.StreakNudge
		}
	}

	quote := domain.FeeQuote{
		AskFee: clampFee(p, base, askAdj),
		BidFee: clampFee(p, base, bidAdj),
	}
	return quote, base
}

// baseFee selects the fee level for the current regime.
func baseFee(p Parameters, regime domain.Regime, steps uint32, vol quant.Wad) quant.Wad {
	switch regime {
	case domain.RegimeHighVolatility:
		return p.HighVolFee
	case domain.RegimeArbitragePattern:
		// Minimum-competitive: minimizes stale-price exposure while informed
		// flow is hitting the pool.
		return p.ArbResponseFee
	case domain.RegimePostArbRecovery:
		return recoveryFee(p, steps)
	default:
		fee := p.NormalFee
		if vol > p.VolNudgeHigh {
			fee += p.VolNudge
		} else if vol < p.VolNudgeLow {
			fee -= p.VolNudge
		}
		return quant.Clamp(fee, p.FeeMin, p.FeeMax)
	}
}

// recoveryFee ramps linearly from the arbitrage-response fee back to the
// Normal fee, never exceeding it.
func recoveryFee(p Parameters, steps uint32) quant.Wad {
	if steps >= p.RecoverySteps {
		return p.NormalFee
	}
	span := int64(p.NormalFee - p.ArbResponseFee)
	ramp := span * int64(steps) / int64(p.RecoverySteps)
	return p.ArbResponseFee + quant.Wad(ramp)
}

func clampFee(p Parameters, base, adj quant.Wad) quant.Wad {
	fee := quant.Wad(safe.SafeAdd(int64(base), int64(adj)))
	return quant.Clamp(fee, p.FeeMin, p.FeeMax)
}
