package domain

import (
	"time"
)

// PoolStateRecord holds the latest serialized EngineState for one pool.
// The engine itself performs no I/O; the app shell persists these between
// trades so a restart resumes from the last decision state.
type PoolStateRecord struct {
	PoolID    string    `gorm:"primaryKey" json:"pool_id"`
	State     string    `json:"state"` // JSON-encoded EngineState
	Regime    string    `gorm:"index" json:"regime"`
	UpdatedAt time.Time `json:"updated_at"`
}

// QuoteRecord is one row of the append-only fee-quote journal.
type QuoteRecord struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Seq       uint64    `gorm:"index" json:"seq"`
	PoolID    string    `gorm:"index" json:"pool_id"`
	Regime    string    `json:"regime"`
	BidFee    string    `json:"bid_fee"` // decimal string, exact
	AskFee    string    `json:"ask_fee"`
	CreatedAt time.Time `json:"created_at"`
}
