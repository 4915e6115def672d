package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"poolfee_go/internal/domain"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Storage persists pool decision states and the fee-quote journal.
type Storage struct {
	db *gorm.DB
}

// NewStorage creates a new SQLite storage instance at the given path.
func NewStorage(dbPath string) (*Storage, error) {
	// Ensure directory exists
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create DB directory: %w", err)
	}

	// Connect to SQLite (Pure Go)
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Auto Migration
	if err := db.AutoMigrate(&domain.PoolStateRecord{}, &domain.QuoteRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Storage{db: db}, nil
}

// ======================================================================================
// State Operations
// ======================================================================================

// SaveState upserts the latest EngineState snapshot for a pool.
func (s *Storage) SaveState(poolID string, state domain.EngineState) error {
	encoded, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}
	rec := domain.PoolStateRecord{
		PoolID:    poolID,
		State:     string(encoded),
		Regime:    state.Regime.String(),
		UpdatedAt: time.Now(),
	}
	return s.db.Save(&rec).Error
}

// LoadStates retrieves all persisted pool states, keyed by pool ID.
// Records that fail to decode are skipped rather than blocking startup.
func (s *Storage) LoadStates() (map[string]domain.EngineState, error) {
	var recs []domain.PoolStateRecord
	if err := s.db.Find(&recs).Error; err != nil {
		return nil, err
	}

	result := make(map[string]domain.EngineState, len(recs))
	for _, rec := range recs {
		var st domain.EngineState
		if err := json.Unmarshal([]byte(rec.State), &st); err != nil {
			continue
		}
		result[rec.PoolID] = st
	}
	return result, nil
}

// DeleteState removes a pool's state snapshot (pool retired).
func (s *Storage) DeleteState(poolID string) error {
	return s.db.Where("pool_id = ?", poolID).Delete(&domain.PoolStateRecord{}).Error
}

// ======================================================================================
// Quote Journal Operations
// ======================================================================================

// AppendQuote appends one quote to the journal.
func (s *Storage) AppendQuote(rec *domain.QuoteRecord) error {
	return s.db.Create(rec).Error
}

// RecentQuotes returns the most recent n quotes for a pool, newest first.
func (s *Storage) RecentQuotes(poolID string, n int) ([]domain.QuoteRecord, error) {
	var recs []domain.QuoteRecord
	err := s.db.Where("pool_id = ?", poolID).
		Order("seq desc").
		Limit(n).
		Find(&recs).Error
	return recs, err
}
