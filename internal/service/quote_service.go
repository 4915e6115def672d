package service

import (
	"sort"
	"sync"
	"time"

	"poolfee_go/internal/domain"

	"github.com/shopspring/decimal"
)

// QuoteView is the read-side projection of one pool's latest quote.
type QuoteView struct {
	PoolID     string
	Regime     domain.Regime
	BidFee     decimal.Decimal
	AskFee     decimal.Decimal
	Volatility decimal.Decimal
	TradeCount uint64
	UpdatedAt  time.Time
}

// QuoteService caches the latest fee quote per pool for external readers
// (UI, status endpoints). It never feeds back into the decision path.
type QuoteService struct {
	mu     sync.RWMutex
	quotes map[string]*QuoteView
}

// NewQuoteService creates a new QuoteService instance
func NewQuoteService() *QuoteService {
	return &QuoteService{
		quotes: make(map[string]*QuoteView),
	}
}

// Update stores the latest quote for a pool and reports whether the pool
// changed regime since the previous update.
func (s *QuoteService) Update(poolID string, st domain.EngineState, quote domain.FeeQuote) (regimeChanged bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, exists := s.quotes[poolID]
	regimeChanged = exists && prev.Regime != st.Regime

	s.quotes[poolID] = &QuoteView{
		PoolID:     poolID,
		Regime:     st.Regime,
		BidFee:     quote.BidFee.Decimal(),
		AskFee:     quote.AskFee.Decimal(),
		Volatility: st.Volatility.Decimal(),
		TradeCount: st.TradeCount,
		UpdatedAt:  time.Now(),
	}
	return regimeChanged
}

// Get returns the latest quote view for a pool.
func (s *QuoteService) Get(poolID string) (QuoteView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	view, ok := s.quotes[poolID]
	if !ok {
		return QuoteView{}, domain.ErrPoolNotFound
	}
	return *view, nil
}

// GetAll returns all quote views sorted by pool ID.
func (s *QuoteService) GetAll() []QuoteView {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]QuoteView, 0, len(s.quotes))
	for _, view := range s.quotes {
		result = append(result, *view)
	}

	// Sort by pool ID for consistent ordering
	sort.Slice(result, func(i, j int) bool {
		return result[i].PoolID < result[j].PoolID
	})

	return result
}

// Count returns the number of pools with a cached quote.
func (s *QuoteService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.quotes)
}
