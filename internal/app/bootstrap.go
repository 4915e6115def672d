package app

import (
	"log/slog"

	"poolfee_go/internal/domain"
	"poolfee_go/internal/infra"
	"poolfee_go/internal/infra/storage"
)

// Bootstrap orchestrates the application startup sequence
type Bootstrap struct {
	Config  *infra.Config
	Storage *storage.Storage

	// RestoredStates holds the persisted pool states loaded at startup,
	// ready to seed the sequencer.
	RestoredStates map[string]domain.EngineState
}

// NewBootstrap creates a new Bootstrap instance
func NewBootstrap() *Bootstrap {
	return &Bootstrap{}
}

// Initialize performs core system initialization (config, logger, DB)
func (b *Bootstrap) Initialize() error {
	slog.Info("Bootstrapping pool fee engine...")

	// 1. Load Config
	cfg, err := infra.LoadConfig("configs/config.yaml")
	if err != nil {
		return err // Let main handle the error
	}
	b.Config = cfg

	// 2. Setup Logger
	logger := infra.NewLogger(cfg)
	slog.SetDefault(logger)

	// 3. Initialize Storage (DB)
	store, err := storage.NewStorage(cfg.Storage.Path)
	if err != nil {
		return err
	}
	b.Storage = store
	slog.Info("Database initialized", slog.String("path", cfg.Storage.Path))

	// 4. Restore persisted pool states
	states, err := store.LoadStates()
	if err != nil {
		return err
	}
	b.RestoredStates = states
	infra.GlobalMetrics.SetTrackedPools(int32(len(states)))
	slog.Info("Pool states restored", slog.Int("pools", len(states)))

	return nil
}
