// Package telemetry provides a websocket fan-out of committed telemetry
// frames to any number of connected dashboard clients, grounded on
// niceyeti-tabular's server.go: an Upgrader-based handler pushing
// WriteJSON under a write deadline, generalized here from "one assumed
// client" to a registered set guarded by a mutex.
package telemetry

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/motorengine/motorengine"
)

const (
	writeWait      = 1 * time.Second
	closeGracePeriod = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Broadcaster implements motorengine.TelemetrySink by fanning out every
// committed frame to all currently connected websocket clients. A slow or
// disconnected client is dropped rather than blocking the cycle loop.
type Broadcaster struct {
	logger motorengine.Logger

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

// NewBroadcaster constructs an empty broadcaster.
func NewBroadcaster(logger motorengine.Logger) *Broadcaster {
	if logger == nil {
		logger = motorengine.NopLogger()
	}
	return &Broadcaster{logger: logger, clients: make(map[*websocket.Conn]struct{})}
}

// ServeHTTP upgrades the request to a websocket and registers the
// connection as a broadcast target until it errors or closes.
func (b *Broadcaster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		b.logger.Log("level", "error", "message", "websocket upgrade failed", "err", err)
		return
	}
	b.register(ws)
	b.pump(ws)
}

func (b *Broadcaster) register(ws *websocket.Conn) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clients[ws] = struct{}{}
}

func (b *Broadcaster) unregister(ws *websocket.Conn) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.clients, ws)
}

// pump blocks reading (and discarding) control frames until the
// connection closes, so the websocket library's ping/pong handling keeps
// running; the actual telemetry push happens from Send.
func (b *Broadcaster) pump(ws *websocket.Conn) {
	defer b.closeClient(ws)
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			return
		}
	}
}

func (b *Broadcaster) closeClient(ws *websocket.Conn) {
	b.unregister(ws)
	_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
	_ = ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	ws.Close()
}

// Send implements motorengine.TelemetrySink: broadcasts frame as JSON to
// every currently registered client (§4.6, §6 SUPPLEMENT dashboard feed).
func (b *Broadcaster) Send(ctx context.Context, frame motorengine.TelemetryFrame) error {
	b.mu.Lock()
	targets := make([]*websocket.Conn, 0, len(b.clients))
	for ws := range b.clients {
		targets = append(targets, ws)
	}
	b.mu.Unlock()

	for _, ws := range targets {
		if err := ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			b.logger.Log("level", "warn", "message", "set write deadline failed", "err", err)
			b.closeClient(ws)
			continue
		}
		if err := ws.WriteJSON(frame); err != nil {
			b.logger.Log("level", "warn", "message", "websocket write failed, dropping client", "err", err)
			b.closeClient(ws)
		}
	}
	return nil
}

// Close sends a close frame to every connected client and closes it, then
// sleeps for one fifth of closeGracePeriod. It does not wait for the
// clients to acknowledge the closure.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	targets := make([]*websocket.Conn, 0, len(b.clients))
	for ws := range b.clients {
		targets = append(targets, ws)
	}
	b.mu.Unlock()

	for _, ws := range targets {
		b.closeClient(ws)
	}
	time.Sleep(closeGracePeriod / 5)
}
