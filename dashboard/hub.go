package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"
)

// Hub broadcasts scheduler events to every connected WebSocket subscriber.
// Writes are per-subscriber buffered; a subscriber that cannot keep up is
// disconnected rather than allowed to stall the broadcast.
type Hub struct {
	sendBuffer   int
	writeTimeout time.Duration
	logger       *zap.Logger

	mu          sync.Mutex
	subscribers map[*subscriber]struct{}
}

type subscriber struct {
	events    chan []byte
	closeSlow func()
}

// NewHub creates a broadcast hub. sendBuffer is the per-subscriber event
// queue length; zero falls back to 16.
func NewHub(sendBuffer int, logger *zap.Logger) *Hub {
	if sendBuffer <= 0 {
		sendBuffer = 16
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		sendBuffer:   sendBuffer,
		writeTimeout: 5 * time.Second,
		logger:       logger.With(zap.String("component", "dashboard_hub")),
		subscribers:  make(map[*subscriber]struct{}),
	}
}

// ServeHTTP upgrades the request to a WebSocket connection and streams
// events to it until the client disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // dashboard is served cross-origin in the demo setup
	})
	if err != nil {
		h.logger.Warn("websocket accept failed", zap.Error(err))
		return
	}
	defer conn.CloseNow()

	if err := h.stream(r.Context(), conn); err != nil {
		if websocket.CloseStatus(err) == websocket.StatusNormalClosure ||
			websocket.CloseStatus(err) == websocket.StatusGoingAway ||
			err == context.Canceled {
			return
		}
		h.logger.Debug("subscriber stream ended", zap.Error(err))
	}
}

// stream registers a subscriber and forwards queued events to its
// connection until the context ends.
func (h *Hub) stream(ctx context.Context, conn *websocket.Conn) error {
	sub := &subscriber{
		events: make(chan []byte, h.sendBuffer),
		closeSlow: func() {
			conn.Close(websocket.StatusPolicyViolation, "subscriber too slow to keep up")
		},
	}
	h.addSubscriber(sub)
	defer h.removeSubscriber(sub)

	// The hub never reads application data; CloseRead keeps draining control
	// frames and cancels the context when the peer closes the connection.
	ctx = conn.CloseRead(ctx)

	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "")
			return ctx.Err()
		case msg := <-sub.events:
			if err := h.write(ctx, conn, msg); err != nil {
				return err
			}
		}
	}
}

func (h *Hub) write(ctx context.Context, conn *websocket.Conn, msg []byte) error {
	writeCtx, cancel := context.WithTimeout(ctx, h.writeTimeout)
	defer cancel()
	return conn.Write(writeCtx, websocket.MessageText, msg)
}

// Notify implements Notifier: the event is marshaled once and queued to
// every subscriber. Subscribers with a full queue are dropped.
func (h *Hub) Notify(_ context.Context, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal dashboard event: %w", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subscribers {
		select {
		case sub.events <- data:
		default:
			go sub.closeSlow()
		}
	}
	return nil
}

// Close disconnects every subscriber. Used during shutdown.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subscribers {
		go sub.closeSlow()
	}
}

// SubscriberCount returns the number of connected subscribers.
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

func (h *Hub) addSubscriber(sub *subscriber) {
	h.mu.Lock()
	h.subscribers[sub] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) removeSubscriber(sub *subscriber) {
	h.mu.Lock()
	delete(h.subscribers, sub)
	h.mu.Unlock()
}
