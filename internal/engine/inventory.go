package engine

import (
	"poolfee_go/internal/domain"
	"poolfee_go/pkg/quant"
)

// inventorySkew measures how far the pool's value split has drifted from
// 50/50, with base inventory valued at the pool's initial implied price
// (the inventory target anchor). Positive means overweight base.
//
// With target = (valueBase+valueQuote)/2 the definition
// (valueBase-target)/target reduces to (vB-vQ)/(vB+vQ), and multiplying
// both sides by the initial base reserve keeps every product exact:
//
//	vB = rB*q0/b0, vQ = rQ  =>  skew = (rB*q0 - rQ*b0) / (rB*q0 + rQ*b0)
func inventorySkew(st domain.EngineState, obs domain.TradeObservation) quant.Wad {
	vB := obs.ReserveBaseAfter.Mul(st.InitialReserveQuote)
	vQ := obs.ReserveQuoteAfter.Mul(st.InitialReserveBase)

	total := vB.Add(vQ)
	if total.Sign() <= 0 {
		return 0 // degenerate pool value, no adjustment
	}

	skew, ok := quant.Ratio(vB.Sub(vQ), total)
	if !ok {
		return 0
	}
	return quant.Clamp(skew, quant.NegOne, quant.One)
}
