package engine

import (
	"poolfee_go/internal/domain"
)

// classify runs one step of the regime state machine. It returns the next
// regime and step count: 0 on every transition, incremented otherwise.
// The machine has no terminal state.
func classify(p Parameters, regime domain.Regime, steps uint32, s signalUpdate) (domain.Regime, uint32) {
	isLarge := s.tradeRatio > p.LargeTrade
	isSpike := s.tradeRatio > p.SpikeTrade
	isArb := (s.streak >= p.ArbMedStreak && s.tradeRatio > p.MediumTrade) ||
		(isLarge && s.streak >= p.ArbLargeStreak) ||
		isSpike
	isHighVol := s.volatility > p.HighVol

	switch regime {
	case domain.RegimeNormal:
		if isArb {
			return domain.RegimeArbitragePattern, 0
		}
		if isHighVol {
			return domain.RegimeHighVolatility, 0
		}
	case domain.RegimeHighVolatility:
		if isArb {
			return domain.RegimeArbitragePattern, 0
		}
		if !isHighVol && steps >= p.HighVolDwell {
			return domain.RegimeNormal, 0
		}
	case domain.RegimeArbitragePattern:
		if steps >= p.ArbDwell {
			return domain.RegimePostArbRecovery, 0
		}
	case domain.RegimePostArbRecovery:
		if isArb {
			return domain.RegimeArbitragePattern, 0
		}
		if steps >= p.RecoveryDwell {
			return domain.RegimeNormal, 0
		}
	}
	return regime, steps + 1
}
