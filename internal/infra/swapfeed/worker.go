// Package swapfeed connects to a swap-event websocket stream and turns
// executed trades into sequencer events. It is the caller-side collaborator
// of the fee engine: the engine itself never does I/O.
package swapfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"poolfee_go/internal/domain"
	"poolfee_go/internal/event"
	"poolfee_go/internal/infra"
	"poolfee_go/pkg/quant"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
)

const (
	maxRetries   = 10
	pingInterval = 30 * time.Second
	readTimeout  = 60 * time.Second
)

// swapMessage represents one message on the swap stream. pool_created
// announces a new pool; swap reports an executed trade with post-trade
// reserves. Quantities arrive as decimal strings.
type swapMessage struct {
	Type   string `json:"type"` // "swap" or "pool_created"
	Pool   string `json:"pool"`
	IsBuy  bool   `json:"is_buy"`
	Amount struct {
		Base  string `json:"base"`
		Quote string `json:"quote"`
	} `json:"amount"`
	Reserve struct {
		Base  string `json:"base"`
		Quote string `json:"quote"`
	} `json:"reserve"`
	Timestamp int64 `json:"timestamp"`
}

// Worker handles the swap-feed WebSocket connection
type Worker struct {
	wsURL     string
	pools     []string
	inbox     chan<- event.Event
	seq       *uint64
	conn      *websocket.Conn
	mu        sync.RWMutex
	writeMu   sync.Mutex
	connected bool
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// NewWorker creates a new swap-feed gateway worker
func NewWorker(wsURL string, pools []string, inbox chan<- event.Event, seq *uint64) *Worker {
	return &Worker{
		wsURL: wsURL,
		pools: pools,
		inbox: inbox,
		seq:   seq,
	}
}

// Connect starts the WebSocket connection
func (w *Worker) Connect(ctx context.Context) error {
	ctx, w.cancel = context.WithCancel(ctx)
	w.wg.Add(1)
	go w.connectionLoop(ctx)
	return nil
}

// IsConnected reports whether the websocket is currently up.
func (w *Worker) IsConnected() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.connected
}

func (w *Worker) connectionLoop(ctx context.Context) {
	defer w.wg.Done()
	retryCount := 0
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := w.connect(ctx); err != nil {
			if !domain.IsRetriable(err) {
				slog.Error("Swap feed failed permanently", slog.Any("error", err))
				return
			}
			slog.Warn("Swap feed connection failed", slog.Any("error", err), slog.Int("retry", retryCount))
			infra.GlobalMetrics.RecordFeedReconnect()
			delay := infra.CalculateBackoff(retryCount)
			retryCount++
			if retryCount > maxRetries {
				retryCount = 0
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
				continue
			}
		} else {
			retryCount = 0
			w.readLoop(ctx)
		}
	}
}

func (w *Worker) connect(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	header := make(http.Header)

	conn, _, err := dialer.DialContext(ctx, w.wsURL, header)
	if err != nil {
		return domain.NewFeedError("dial", err)
	}

	w.mu.Lock()
	w.conn = conn
	w.connected = true
	w.mu.Unlock()
	infra.GlobalMetrics.SetActiveConnections(1)

	if err := w.subscribe(); err != nil {
		w.closeConnection()
		return domain.NewFeedError("subscribe", err)
	}

	slog.Info("Swap feed connected", slog.Int("subs", len(w.pools)))
	return nil
}

func (w *Worker) subscribe() error {
	msg := map[string]interface{}{
		"op":    "subscribe",
		"pools": w.pools,
	}
	b, _ := json.Marshal(msg)
	return w.threadSafeWrite(websocket.TextMessage, b)
}

func (w *Worker) threadSafeWrite(msgType int, data []byte) error {
	w.writeMu.Lock()
	defer w.writeMu.Unlock()
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.conn == nil {
		return fmt.Errorf("no conn")
	}
	return w.conn.WriteMessage(msgType, data)
}

func (w *Worker) readLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		w.mu.RLock()
		if w.conn == nil {
			w.mu.RUnlock()
			return
		}
		w.conn.SetReadDeadline(time.Now().Add(readTimeout))
		w.mu.RUnlock()

		_, msg, err := w.conn.ReadMessage()
		if err != nil {
			w.closeConnection()
			return
		}
		w.handleMessage(msg)
	}
}

func (w *Worker) handleMessage(msg []byte) {
	var m swapMessage
	if json.Unmarshal(msg, &m) != nil || m.Pool == "" {
		return
	}

	switch m.Type {
	case "pool_created":
		rb, err1 := decimal.NewFromString(m.Reserve.Base)
		rq, err2 := decimal.NewFromString(m.Reserve.Quote)
		if err1 != nil || err2 != nil {
			return
		}
		ev := event.AcquirePoolCreatedEvent()
		ev.Seq = quant.NextSeq(w.seq)
		ev.Ts = quant.TimeStamp(m.Timestamp)
		ev.PoolID = m.Pool
		ev.ReserveBase = rb
		ev.ReserveQuote = rq
		w.send(ev)

	case "swap":
		ab, err1 := decimal.NewFromString(m.Amount.Base)
		aq, err2 := decimal.NewFromString(m.Amount.Quote)
		rb, err3 := decimal.NewFromString(m.Reserve.Base)
		rq, err4 := decimal.NewFromString(m.Reserve.Quote)
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			return
		}
		ev := event.AcquireTradeExecutedEvent()
		ev.Seq = quant.NextSeq(w.seq)
		ev.Ts = quant.TimeStamp(m.Timestamp)
		ev.PoolID = m.Pool
		ev.IsBuy = m.IsBuy
		ev.AmountBase = ab
		ev.AmountQuote = aq
		ev.ReserveBase = rb
		ev.ReserveQuote = rq
		w.send(ev)
	}
}

func (w *Worker) send(ev event.Event) {
	select {
	case w.inbox <- ev:
	default: // DROP
		infra.GlobalMetrics.RecordFeedDrop()
	}
}

func (w *Worker) closeConnection() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.conn != nil {
		w.conn.Close()
		w.conn = nil
	}
	w.connected = false
	infra.GlobalMetrics.SetActiveConnections(0)
}

// Disconnect stops the worker and closes the connection.
func (w *Worker) Disconnect() {
	if w.cancel != nil {
		w.cancel()
	}
	w.closeConnection()
	w.wg.Wait()
}
