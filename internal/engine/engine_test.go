package engine_test

import (
	"errors"
	"reflect"
	"testing"

	"poolfee_go/internal/domain"
	"poolfee_go/internal/engine"
	"poolfee_go/pkg/quant"

	"github.com/shopspring/decimal"
)

func newEngine(t *testing.T) *engine.Engine {
	t.Helper()
	eng, err := engine.New(engine.DefaultParameters())
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	return eng
}

func trade(buy bool, amountBase, amountQuote, rBase, rQuote string) domain.TradeObservation {
	return domain.TradeObservation{
		PoolID:            "WETH-USDC",
		IsBuy:             buy,
		AmountBase:        decimal.RequireFromString(amountBase),
		AmountQuote:       decimal.RequireFromString(amountQuote),
		ReserveBaseAfter:  decimal.RequireFromString(rBase),
		ReserveQuoteAfter: decimal.RequireFromString(rQuote),
	}
}

func TestInitializeQuote(t *testing.T) {
	eng := newEngine(t)

	st, quote, err := eng.Initialize(decimal.NewFromInt(100), decimal.NewFromInt(10000))
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if st.Regime != domain.RegimeNormal {
		t.Errorf("expected NORMAL, got %s", st.Regime)
	}
	// Resting volatility sits below the low-vol threshold, so the starting
	// fee is NormalFee minus one nudge on both sides.
	want := quant.MustParse("0.0025")
	if quote.BidFee != want || quote.AskFee != want {
		t.Errorf("expected %s/%s, got bid=%s ask=%s", want, want, quote.BidFee, quote.AskFee)
	}
	if !st.Initialized {
		t.Error("state must be marked initialized")
	}
}

func TestInitializeRejectsBadReserves(t *testing.T) {
	eng := newEngine(t)

	_, _, err := eng.Initialize(decimal.Zero, decimal.NewFromInt(10000))
	if !errors.Is(err, domain.ErrInvalidReserves) {
		t.Errorf("zero base reserve: expected ErrInvalidReserves, got %v", err)
	}
	_, _, err = eng.Initialize(decimal.NewFromInt(100), decimal.NewFromInt(-1))
	if !errors.Is(err, domain.ErrInvalidReserves) {
		t.Errorf("negative quote reserve: expected ErrInvalidReserves, got %v", err)
	}
}

func TestSingleSpikeTriggersArbitrageResponse(t *testing.T) {
	eng := newEngine(t)
	st, _, err := eng.Initialize(decimal.NewFromInt(100), decimal.NewFromInt(10000))
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	// One buy moving 8% of the quote reserve in a single fill.
	st, quote := eng.OnTrade(st, trade(true, "8", "870", "92", "10870"))

	if st.Regime != domain.RegimeArbitragePattern {
		t.Fatalf("expected ARBITRAGE_PATTERN, got %s", st.Regime)
	}
	// Inventory skew and momentum are both inside their deadbands after a
	// single trade, so the quote is the bare arbitrage-response fee.
	want := quant.MustParse("0.0005")
	if quote.BidFee != want || quote.AskFee != want {
		t.Errorf("expected %s/%s, got bid=%s ask=%s", want, want, quote.BidFee, quote.AskFee)
	}
	if st.TradeCount != 1 {
		t.Errorf("expected trade count 1, got %d", st.TradeCount)
	}
}

func TestRecoveryRampsBaseFeeBack(t *testing.T) {
	eng := newEngine(t)
	st, _, err := eng.Initialize(decimal.NewFromInt(100), decimal.NewFromInt(10000))
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	st, _ = eng.OnTrade(st, trade(true, "8", "870", "92", "10870"))
	if st.Regime != domain.RegimeArbitragePattern {
		t.Fatalf("expected ARBITRAGE_PATTERN, got %s", st.Regime)
	}

	// Feed quiet flow until the machine leaves recovery. While in recovery
	// the base fee must ramp monotonically upward.
	quietTrade := trade(true, "0.009", "1", "92", "10870")
	sawRecovery := false
	prev := quant.Wad(0)
	for i := 0; i < 20 && st.Regime != domain.RegimeNormal; i++ {
		st, _ = eng.OnTrade(st, quietTrade)
		if st.Regime == domain.RegimePostArbRecovery {
			if sawRecovery && st.BaseFee < prev {
				t.Fatalf("recovery base fee decreased %s -> %s", prev, st.BaseFee)
			}
			sawRecovery = true
			prev = st.BaseFee
		}
	}
	if !sawRecovery {
		t.Fatal("machine never entered POST_ARB_RECOVERY")
	}
}

func TestQuietFlowStaysNormal(t *testing.T) {
	eng := newEngine(t)
	p := eng.Params()
	st, _, err := eng.Initialize(decimal.NewFromInt(100), decimal.NewFromInt(10000))
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	quietTrade := trade(true, "0.009", "1", "100", "10000")
	for i := 0; i < 50; i++ {
		var quote domain.FeeQuote
		st, quote = eng.OnTrade(st, quietTrade)
		if st.Regime != domain.RegimeNormal {
			t.Fatalf("trade %d: expected NORMAL, got %s", i, st.Regime)
		}
		if quote.BidFee < p.FeeMin || quote.BidFee > p.FeeMax ||
			quote.AskFee < p.FeeMin || quote.AskFee > p.FeeMax {
			t.Fatalf("trade %d: quote out of bounds bid=%s ask=%s", i, quote.BidFee, quote.AskFee)
		}
	}
	if st.Volatility != p.VolFloor {
		t.Errorf("quiet flow: expected volatility at floor %s, got %s", p.VolFloor, st.Volatility)
	}
	if st.Streak != 0 {
		t.Errorf("quiet flow: expected streak 0, got %d", st.Streak)
	}
}

func TestBoundsUnderExtremeFlow(t *testing.T) {
	eng := newEngine(t)
	p := eng.Params()
	st, _, err := eng.Initialize(decimal.NewFromInt(100), decimal.NewFromInt(10000))
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	// Alternate whale buys and sells that each move the whole quote reserve.
	for i := 0; i < 40; i++ {
		buy := i%2 == 0
		var quote domain.FeeQuote
		st, quote = eng.OnTrade(st, trade(buy, "100", "10000", "100", "10000"))
		if quote.BidFee < p.FeeMin || quote.BidFee > p.FeeMax ||
			quote.AskFee < p.FeeMin || quote.AskFee > p.FeeMax {
			t.Fatalf("trade %d: quote out of bounds bid=%s ask=%s", i, quote.BidFee, quote.AskFee)
		}
	}
}

func TestDegenerateObservationReturnsPriorQuote(t *testing.T) {
	eng := newEngine(t)
	st, quote, err := eng.Initialize(decimal.NewFromInt(100), decimal.NewFromInt(10000))
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	cases := []struct {
		name string
		obs  domain.TradeObservation
	}{
		{"drained quote reserve", trade(true, "1", "100", "100", "0")},
		{"negative base reserve", trade(true, "1", "100", "-5", "10000")},
		{"zero amounts", trade(true, "0", "0", "100", "10000")},
		{"negative amount", trade(true, "-1", "100", "100", "10000")},
	}
	for _, tc := range cases {
		next, q := eng.OnTrade(st, tc.obs)
		if !reflect.DeepEqual(next, st) {
			t.Errorf("%s: state must be untouched", tc.name)
		}
		if q != quote {
			t.Errorf("%s: expected prior quote %s/%s, got %s/%s",
				tc.name, quote.BidFee, quote.AskFee, q.BidFee, q.AskFee)
		}
	}
}

func TestDeterministicReplay(t *testing.T) {
	eng := newEngine(t)

	run := func() (domain.EngineState, []domain.FeeQuote) {
		st, _, err := eng.Initialize(decimal.NewFromInt(100), decimal.NewFromInt(10000))
		if err != nil {
			t.Fatalf("Initialize: %v", err)
		}
		trades := []domain.TradeObservation{
			trade(true, "8", "870", "92", "10870"),
			trade(false, "10", "950", "102", "9920"),
			trade(true, "0.5", "50", "101.5", "9970"),
			trade(true, "3", "310", "98.5", "10280"),
			trade(false, "0.1", "10", "98.6", "10270"),
			trade(true, "6", "640", "92.6", "10910"),
		}
		quotes := make([]domain.FeeQuote, 0, len(trades))
		for _, obs := range trades {
			var q domain.FeeQuote
			st, q = eng.OnTrade(st, obs)
			quotes = append(quotes, q)
		}
		return st, quotes
	}

	st1, q1 := run()
	st2, q2 := run()
	if !reflect.DeepEqual(st1, st2) {
		t.Error("replay produced a different final state")
	}
	if !reflect.DeepEqual(q1, q2) {
		t.Error("replay produced a different quote stream")
	}
}

func TestOnTradeBeforeInitializePanics(t *testing.T) {
	eng := newEngine(t)

	defer func() {
		if recover() == nil {
			t.Error("expected panic on uninitialized state")
		}
	}()
	eng.OnTrade(domain.EngineState{}, trade(true, "1", "100", "100", "10000"))
}
