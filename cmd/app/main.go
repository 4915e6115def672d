package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"poolfee_go/internal/app"
	"poolfee_go/internal/domain"
	"poolfee_go/internal/engine"
	"poolfee_go/internal/event"
	"poolfee_go/internal/infra"
	"poolfee_go/internal/infra/swapfeed"
	"poolfee_go/internal/service"

	_ "net/http/pprof" // For pprof profiling
)

func main() {
	// 1. Pprof Server (for performance profiling)
	go func() {
		// Localhost only for security
		slog.Info("Pprof server started on localhost:6060")
		if err := http.ListenAndServe("localhost:6060", nil); err != nil {
			slog.Error("Pprof server failed", slog.Any("error", err))
		}
	}()

	// 2. System Bootstrapping
	bootstrap := app.NewBootstrap()
	if err := bootstrap.Initialize(); err != nil {
		slog.Error("Bootstrapping failed", slog.Any("error", err))
		os.Exit(1)
	}
	cfg := bootstrap.Config

	// 3. Graceful Shutdown Context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Fee Engine from configured preset
	eng, err := engine.New(cfg.EngineParameters())
	if err != nil {
		slog.Error("Engine construction failed", slog.Any("error", err))
		os.Exit(1)
	}
	slog.Info("Fee engine ready", slog.String("preset", cfg.Engine.Preset))

	// 5. Read-side quote cache, fed by the sequencer callback
	quotes := service.NewQuoteService()
	onUpdate := func(poolID string, st domain.EngineState, quote domain.FeeQuote) {
		infra.GlobalMetrics.RecordQuote()
		if quotes.Update(poolID, st, quote) {
			infra.GlobalMetrics.RecordRegimeTransition()
			slog.Info("Regime transition",
				slog.String("pool", poolID),
				slog.String("regime", st.Regime.String()))
		}
		infra.GlobalMetrics.SetTrackedPools(int32(quotes.Count()))
		p := eng.Params()
		if quote.BidFee == p.FeeMin || quote.BidFee == p.FeeMax ||
			quote.AskFee == p.FeeMin || quote.AskFee == p.FeeMax {
			infra.GlobalMetrics.RecordFeeClamp()
		}
	}

	// 6. Sequencer (The Hotpath Loop)
	event.Warmup()
	seq := engine.NewSequencer(1024, bootstrap.Storage, eng, onUpdate)
	seq.Restore(bootstrap.RestoredStates)
	go seq.Run(ctx)
	slog.InfoContext(ctx, "Sequencer (Hotpath) started")

	// 7. Swap feed gateway
	nextSeq := uint64(0)
	if cfg.Feed.WSURL != "" {
		var feedWorker domain.FeedWorker = swapfeed.NewWorker(cfg.Feed.WSURL, cfg.Feed.Pools, seq.Inbox(), &nextSeq)
		if err := feedWorker.Connect(ctx); err != nil {
			slog.Error("Failed to connect swap feed", slog.Any("error", err))
		}
		defer feedWorker.Disconnect()
		slog.InfoContext(ctx, "Swap feed started", slog.Int("pools", len(cfg.Feed.Pools)))
	}

	slog.InfoContext(ctx, "Pool fee engine fully operational. Press Ctrl+C to exit.")

	// Wait for shutdown signal
	<-ctx.Done()

	slog.InfoContext(ctx, "Shutting down gracefully...")
}
