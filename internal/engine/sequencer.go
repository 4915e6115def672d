package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"poolfee_go/internal/domain"
	"poolfee_go/internal/event"
)

// QuoteUpdateFunc is invoked after every processed trade with the pool's new
// state and quote. Boundary: used to notify read-side caches or metrics of
// state changes.
type QuoteUpdateFunc func(poolID string, st domain.EngineState, quote domain.FeeQuote)

// Sequencer is the single-threaded trade processor. It owns every pool's
// EngineState and applies trades strictly in sequence order, which is what
// makes the engine's determinism guarantee hold end to end.
type Sequencer struct {
	inbox   chan event.Event
	pools   map[string]*domain.EngineState
	nextSeq uint64
	store   domain.StateStore
	engine  *Engine

	onQuoteUpdate QuoteUpdateFunc

	mu sync.RWMutex // Used only for external reads (e.g. UI)
}

// NewSequencer creates a new sequencer instance.
func NewSequencer(inboxSize int, store domain.StateStore, eng *Engine, onUpdate QuoteUpdateFunc) *Sequencer {
	return &Sequencer{
		inbox:         make(chan event.Event, inboxSize),
		pools:         make(map[string]*domain.EngineState),
		nextSeq:       1,
		store:         store,
		engine:        eng,
		onQuoteUpdate: onUpdate,
	}
}

// Inbox returns the event channel. External workers send events here.
func (s *Sequencer) Inbox() chan<- event.Event {
	return s.inbox
}

// Restore seeds the sequencer with persisted pool states before Run starts.
func (s *Sequencer) Restore(states map[string]domain.EngineState) {
	for poolID, st := range states {
		copied := st
		s.pools[poolID] = &copied
	}
	if len(states) > 0 {
		slog.Info("Restored pool states", slog.Int("pools", len(states)))
	}
}

// Run starts the main event loop. This MUST be run in a single goroutine.
func (s *Sequencer) Run(ctx context.Context) {
	slog.Info("Sequencer started (Single-Thread Hotpath)")

	defer func() {
		if r := recover(); r != nil {
			slog.Error("CRITICAL_PANIC_DETECTED", slog.Any("panic", r))
			s.DumpState("panic_dump.json")
			// Halt after dump; a fee engine running on bad state is worse
			// than one not running at all.
			panic(fmt.Sprintf("HALTED: %v", r))
		}
	}()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Sequencer stopping...")
			return
		case ev := <-s.inbox:
			s.processEvent(ev)
		}
	}
}

func (s *Sequencer) processEvent(ev event.Event) {
	// 1. Sequence Gap Check (Halt Policy)
	if ev.GetSeq() != s.nextSeq {
		panic(fmt.Sprintf("SEQUENCE_GAP_DETECTED: expected %d, got %d", s.nextSeq, ev.GetSeq()))
	}

	// 2. Logic Dispatch
	switch e := ev.(type) {
	case *event.PoolCreatedEvent:
		s.handlePoolCreated(e)
	case *event.TradeExecutedEvent:
		s.handleTradeExecuted(e)
	default:
		slog.Warn("Unknown event type", slog.Any("type", ev.GetType()))
	}

	// 3. Increment Sequence
	s.nextSeq++
}

// ReplayEvent processes an event synchronously without persistence.
// This is used exclusively by replay tooling.
func (s *Sequencer) ReplayEvent(ev event.Event) {
	// Replay must still respect sequence order
	if ev.GetSeq() != s.nextSeq {
		panic(fmt.Sprintf("REPLAY_GAP_DETECTED: expected %d, got %d", s.nextSeq, ev.GetSeq()))
	}

	switch e := ev.(type) {
	case *event.PoolCreatedEvent:
		s.initPool(e, false)
	case *event.TradeExecutedEvent:
		s.applyTrade(e, false)
	default:
		slog.Warn("Unknown event type in replay", slog.Any("type", ev.GetType()))
	}

	s.nextSeq++
}

func (s *Sequencer) handlePoolCreated(e *event.PoolCreatedEvent) {
	s.initPool(e, true)
}

func (s *Sequencer) handleTradeExecuted(e *event.TradeExecutedEvent) {
	s.applyTrade(e, true)
}

func (s *Sequencer) initPool(e *event.PoolCreatedEvent, persist bool) {
	if _, exists := s.pools[e.PoolID]; exists {
		slog.Warn("Duplicate pool creation ignored", slog.String("pool", e.PoolID))
		return
	}

	st, quote, err := s.engine.Initialize(e.ReserveBase, e.ReserveQuote)
	if err != nil {
		slog.Error("Pool initialization rejected",
			slog.String("pool", e.PoolID), slog.Any("error", err))
		return
	}

	s.pools[e.PoolID] = &st
	if persist {
		s.persist(e.PoolID, e.Seq, st)
	}
	if s.onQuoteUpdate != nil {
		s.onQuoteUpdate(e.PoolID, st, quote)
	}
}

func (s *Sequencer) applyTrade(e *event.TradeExecutedEvent, persist bool) {
	st, ok := s.pools[e.PoolID]
	if !ok {
		// A feed can legitimately deliver trades for pools created before
		// this process existed; without initial reserves there is no anchor.
		slog.Warn("Trade for unknown pool dropped", slog.String("pool", e.PoolID))
		return
	}

	obs := domain.TradeObservation{
		PoolID:            e.PoolID,
		IsBuy:             e.IsBuy,
		AmountBase:        e.AmountBase,
		AmountQuote:       e.AmountQuote,
		ReserveBaseAfter:  e.ReserveBase,
		ReserveQuoteAfter: e.ReserveQuote,
		Timestamp:         e.Ts,
	}

	// Update state (No Mutex needed here as we are in the Hotpath)
	next, quote := s.engine.OnTrade(*st, obs)
	*st = next

	if persist {
		s.persist(e.PoolID, e.Seq, next)
	}
	if s.onQuoteUpdate != nil {
		s.onQuoteUpdate(e.PoolID, next, quote)
	}
}

// persist writes the state snapshot and journals the quote. Persistence
// failure halts the process, matching the WAL-first discipline: a quote the
// journal never saw must not reach consumers.
func (s *Sequencer) persist(poolID string, seq uint64, st domain.EngineState) {
	if s.store == nil {
		return
	}
	if err := s.store.SaveState(poolID, st); err != nil {
		panic(fmt.Sprintf("PERSISTENCE_FAILURE: %v", err))
	}
	rec := &domain.QuoteRecord{
		Seq:       seq,
		PoolID:    poolID,
		Regime:    st.Regime.String(),
		BidFee:    st.BidFee.String(),
		AskFee:    st.AskFee.String(),
		CreatedAt: time.Now(),
	}
	if err := s.store.AppendQuote(rec); err != nil {
		panic(fmt.Sprintf("PERSISTENCE_FAILURE: %v", err))
	}
}

// GetPoolState returns a snapshot of a pool's state (external read).
func (s *Sequencer) GetPoolState(poolID string) (domain.EngineState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.pools[poolID]
	if !ok {
		return domain.EngineState{}, false
	}
	return *st, true // Return copy
}

// DumpState writes the entire internal state to a file (for post-mortem).
func (s *Sequencer) DumpState(filename string) {
	slog.Info("Dumping internal state...", slog.String("file", filename))

	data := struct {
		NextSeq uint64                         `json:"next_seq"`
		Pools   map[string]*domain.EngineState `json:"pools"`
	}{
		NextSeq: s.nextSeq,
		Pools:   s.pools,
	}

	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		slog.Error("Failed to marshal state", slog.Any("error", err))
		return
	}

	err = os.WriteFile(filename, b, 0644)
	if err != nil {
		slog.Error("Failed to write state dump", slog.Any("error", err))
	}
}
