package engine_test

import (
	"testing"

	"poolfee_go/internal/engine"

	"github.com/shopspring/decimal"
)

func BenchmarkOnTrade(b *testing.B) {
	eng, err := engine.New(engine.DefaultParameters())
	if err != nil {
		b.Fatalf("engine.New: %v", err)
	}
	st, _, err := eng.Initialize(decimal.NewFromInt(100), decimal.NewFromInt(10000))
	if err != nil {
		b.Fatalf("Initialize: %v", err)
	}
	obs := trade(true, "0.5", "50", "99.5", "10050")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		st, _ = eng.OnTrade(st, obs)
	}
}
