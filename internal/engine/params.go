package engine

import (
	"fmt"

	"poolfee_go/pkg/quant"
)

// Parameters holds all tunable thresholds, decay rates, and fee levels used
// by the engine. Historical strategy variants are expressed as presets over
// this one struct, never as separate code paths. All Wad values are
// fractions (0.003 = 30bps).
type Parameters struct {
	// Fee schedule
	FeeMin         quant.Wad // global lower fee bound
	FeeMax         quant.Wad // global upper fee bound
	NormalFee      quant.Wad // nominal fee in the Normal regime
	HighVolFee     quant.Wad // fixed elevated fee in HighVolatility
	ArbResponseFee quant.Wad // minimum-competitive fee in ArbitragePattern
	VolNudge       quant.Wad // Normal-regime base fee nudge amount
	VolNudgeHigh   quant.Wad // volatility above this nudges the base fee up
	VolNudgeLow    quant.Wad // volatility below this nudges the base fee down
	RecoverySteps  uint32    // ramp length from ArbResponseFee back to NormalFee

	// Volatility estimator
	VolFloor        quant.Wad // lower clamp for the volatility estimate
	VolCap          quant.Wad // upper clamp for the volatility estimate
	VolDecay        quant.Wad // geometric decay per quiet step
	VolImpactWeight quant.Wad // weight of tradeRatio on impactful steps
	MediumTrade     quant.Wad // tradeRatio above this counts as impactful

	// Momentum estimator
	MomentumDecay    quant.Wad
	MomentumStep     quant.Wad // signed per-trade pressure increment
	MomentumDeadband quant.Wad // below this magnitude, no fee adjustment
	MomentumWeight   quant.Wad // fee adjustment weight

	// Inventory skew
	InventoryDeadband quant.Wad
	InventoryWeight   quant.Wad

	// Streak
	SignificantTrade quant.Wad // tradeRatio above this extends a streak
	StreakCap        uint32
	StreakTrigger    uint32    // streak length that triggers the fee nudge
	StreakNudge      quant.Wad // fixed fee nudge favoring continuation

	// Regime classification
	LargeTrade     quant.Wad // tradeRatio above this is a large trade
	SpikeTrade     quant.Wad // tradeRatio above this alone signals arbitrage
	HighVol        quant.Wad // volatility above this enters HighVolatility
	ArbMedStreak   uint32    // streak needed with a medium trade
	ArbLargeStreak uint32    // streak needed with a large trade
	HighVolDwell   uint32    // min quiet steps before leaving HighVolatility
	ArbDwell       uint32    // steps spent in ArbitragePattern
	RecoveryDwell  uint32    // steps spent in PostArbRecovery
}

// DefaultParameters returns the hybrid schedule, the tuning that combined
// the volatility, inventory, and signal explorations.
func DefaultParameters() Parameters {
	return Parameters{
		FeeMin:         quant.MustParse("0.0001"),
		FeeMax:         quant.MustParse("0.01"),
		NormalFee:      quant.MustParse("0.003"),
		HighVolFee:     quant.MustParse("0.005"),
		ArbResponseFee: quant.MustParse("0.0005"),
		VolNudge:       quant.MustParse("0.0005"),
		VolNudgeHigh:   quant.MustParse("0.004"),
		VolNudgeLow:    quant.MustParse("0.0015"),
		RecoverySteps:  4,

		VolFloor:        quant.MustParse("0.0005"),
		VolCap:          quant.One,
		VolDecay:        quant.MustParse("0.92"),
		VolImpactWeight: quant.MustParse("0.5"),
		MediumTrade:     quant.MustParse("0.02"),

		MomentumDecay:    quant.MustParse("0.85"),
		MomentumStep:     quant.MustParse("0.15"),
		MomentumDeadband: quant.MustParse("0.2"),
		MomentumWeight:   quant.MustParse("0.0005"),

		InventoryDeadband: quant.MustParse("0.1"),
		InventoryWeight:   quant.MustParse("0.001"),

		SignificantTrade: quant.MustParse("0.01"),
		StreakCap:        10,
		StreakTrigger:    3,
		StreakNudge:      quant.MustParse("0.0002"),

		LargeTrade:     quant.MustParse("0.05"),
		SpikeTrade:     quant.MustParse("0.075"),
		HighVol:        quant.MustParse("0.0045"),
		ArbMedStreak:   3,
		ArbLargeStreak: 2,
		HighVolDwell:   3,
		ArbDwell:       2,
		RecoveryDwell:  4,
	}
}

// Preset returns the named parameter set. The six names correspond to the
// historical strategy variants this engine consolidated.
func Preset(name string) (Parameters, bool) {
	p := DefaultParameters()
	switch name {
	case "hybrid", "":
		// defaults
	case "adaptive-volatility":
		p.VolImpactWeight = quant.MustParse("0.75")
		p.VolNudge = quant.MustParse("0.00075")
		p.InventoryWeight = quant.MustParse("0.0005")
		p.MomentumWeight = quant.MustParse("0.00025")
	case "inventory-aware":
		p.InventoryDeadband = quant.MustParse("0.05")
		p.InventoryWeight = quant.MustParse("0.002")
		p.MomentumWeight = quant.MustParse("0.00025")
	case "signal-based":
		p.MomentumDeadband = quant.MustParse("0.15")
		p.MomentumWeight = quant.MustParse("0.001")
		p.StreakNudge = quant.MustParse("0.0004")
		p.InventoryWeight = quant.MustParse("0.0005")
	case "microstructure":
		p.MediumTrade = quant.MustParse("0.015")
		p.SignificantTrade = quant.MustParse("0.008")
		p.SpikeTrade = quant.MustParse("0.07")
		p.HighVol = quant.MustParse("0.004")
	case "competitive":
		p.NormalFee = quant.MustParse("0.0025")
		p.HighVolFee = quant.MustParse("0.004")
		p.ArbResponseFee = quant.MustParse("0.0004")
		p.FeeMax = quant.MustParse("0.008")
	default:
		return Parameters{}, false
	}
	return p, true
}

// PresetNames lists the available presets in stable order.
func PresetNames() []string {
	return []string{
		"hybrid",
		"adaptive-volatility",
		"inventory-aware",
		"signal-based",
		"microstructure",
		"competitive",
	}
}

// Validate checks internal consistency of the schedule.
func (p Parameters) Validate() error {
	if p.FeeMin <= 0 || p.FeeMax <= p.FeeMin {
		return fmt.Errorf("fee bounds must satisfy 0 < FeeMin < FeeMax")
	}
	for _, f := range []struct {
		name string
		fee  quant.Wad
	}{
		{"NormalFee", p.NormalFee},
		{"HighVolFee", p.HighVolFee},
		{"ArbResponseFee", p.ArbResponseFee},
	} {
		if f.fee < p.FeeMin || f.fee > p.FeeMax {
			return fmt.Errorf("%s outside [FeeMin, FeeMax]", f.name)
		}
	}
	if p.ArbResponseFee > p.NormalFee {
		return fmt.Errorf("ArbResponseFee must not exceed NormalFee")
	}
	if p.VolFloor <= 0 || p.VolCap > quant.One || p.VolFloor >= p.VolCap {
		return fmt.Errorf("volatility bounds must satisfy 0 < VolFloor < VolCap <= 1")
	}
	if p.VolDecay <= 0 || p.VolDecay >= quant.One {
		return fmt.Errorf("VolDecay must be in (0, 1)")
	}
	if p.MomentumDecay <= 0 || p.MomentumDecay >= quant.One {
		return fmt.Errorf("MomentumDecay must be in (0, 1)")
	}
	if p.SignificantTrade <= 0 || p.MediumTrade <= p.SignificantTrade {
		return fmt.Errorf("thresholds must satisfy 0 < SignificantTrade < MediumTrade")
	}
	if p.LargeTrade <= p.MediumTrade || p.SpikeTrade <= p.LargeTrade {
		return fmt.Errorf("thresholds must satisfy MediumTrade < LargeTrade < SpikeTrade")
	}
	if p.RecoverySteps == 0 || p.StreakCap == 0 || p.StreakTrigger == 0 {
		return fmt.Errorf("step counts must be positive")
	}
	return nil
}
