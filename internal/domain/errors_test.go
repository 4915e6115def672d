package domain

import (
	"errors"
	"testing"
)

func TestIsRetriable(t *testing.T) {
	base := errors.New("connection reset")

	if !IsRetriable(NewFeedError("dial", base)) {
		t.Error("feed dial errors must be retriable")
	}
	if IsRetriable(NewFatalFeedError("auth", base)) {
		t.Error("fatal feed errors must not be retriable")
	}
	if IsRetriable(&ConfigError{Field: "engine.preset", Err: ErrUnknownPreset}) {
		t.Error("config errors must never be retriable")
	}
	if IsRetriable(base) {
		t.Error("plain errors default to non-retriable")
	}
}

func TestErrorUnwrapping(t *testing.T) {
	err := NewFeedError("read", ErrPoolNotFound)
	if !errors.Is(err, ErrPoolNotFound) {
		t.Error("FeedError must unwrap to its cause")
	}

	cfgErr := &ConfigError{Field: "engine.preset", Err: ErrUnknownPreset}
	if !errors.Is(cfgErr, ErrUnknownPreset) {
		t.Error("ConfigError must unwrap to its cause")
	}
}
