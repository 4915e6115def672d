package domain

import (
	"context"
)

// FeedWorker defines the interface for swap-event gateway connectors
type FeedWorker interface {
	Connect(ctx context.Context) error
	Disconnect()
	IsConnected() bool
}

// StateStore defines how the sequencer persists decision state and quotes.
// Implemented by the sqlite storage layer; nil in tests that do not need
// persistence.
type StateStore interface {
	SaveState(poolID string, state EngineState) error
	LoadStates() (map[string]EngineState, error)
	AppendQuote(rec *QuoteRecord) error
}
