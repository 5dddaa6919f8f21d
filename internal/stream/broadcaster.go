// Package stream fans the latest simulation snapshot out to websocket
// consumers at the consumer's own cadence, polling the latest-only slot so
// the producer is never blocked by a slow or absent renderer.
package stream

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"simviz/statecore/internal/logging"
)

const (
	sendBuffer   = 256
	pingInterval = 30 * time.Second
)

// PollFunc returns the encoded latest snapshot, or false when nothing fresh
// is pending since the previous poll.
type PollFunc func() ([]byte, bool)

type client struct {
	conn *websocket.Conn
	send chan []byte
	id   string
}

// Broadcaster accepts websocket clients and periodically broadcasts whatever
// the poll function yields. Slow clients are disconnected rather than
// awaited, matching the lossy latest-only contract of the slot it samples.
type Broadcaster struct {
	upgrader websocket.Upgrader
	poll     PollFunc
	interval time.Duration
	logger   *logging.Logger

	mu      sync.Mutex
	clients map[*client]struct{}
	done    chan struct{}
}

// NewBroadcaster constructs a broadcaster polling at the supplied interval.
func NewBroadcaster(interval time.Duration, poll PollFunc, logger *logging.Logger) *Broadcaster {
	if interval <= 0 {
		interval = 33 * time.Millisecond
	}
	if poll == nil {
		poll = func() ([]byte, bool) { return nil, false }
	}
	if logger == nil {
		logger = logging.L()
	}
	return &Broadcaster{
		upgrader: websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
		poll:     poll,
		interval: interval,
		logger:   logger,
		clients:  make(map[*client]struct{}),
	}
}

// Start launches the polling goroutine until the context is cancelled.
func (b *Broadcaster) Start(ctx context.Context) {
	if b == nil {
		return
	}
	b.done = make(chan struct{})
	go func() {
		defer close(b.done)
		ticker := time.NewTicker(b.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				//1.- Only broadcast when a fresh snapshot arrived since the
				// previous poll; idle simulations stay silent.
				if payload, ok := b.poll(); ok {
					b.broadcast(payload)
				}
			}
		}
	}()
}

// Stop waits for the polling goroutine to exit after context cancellation.
func (b *Broadcaster) Stop() {
	if b == nil || b.done == nil {
		return
	}
	<-b.done
	b.done = nil
}

// ClientCount reports the number of connected consumers.
func (b *Broadcaster) ClientCount() int {
	if b == nil {
		return 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.clients)
}

func (b *Broadcaster) broadcast(payload []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for c := range b.clients {
		select {
		case c.send <- payload:
		default:
			//1.- A full send buffer means the consumer stopped draining;
			// drop it so the broadcast loop never stalls.
			close(c.send)
			delete(b.clients, c)
			b.logger.Warn("dropping slow snapshot consumer", logging.String("client", c.id))
		}
	}
}

// ServeHTTP upgrades the request and attaches the client to the broadcast set.
func (b *Broadcaster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		b.logger.Warn("websocket upgrade failed", logging.Error(err))
		return
	}
	c := &client{conn: conn, send: make(chan []byte, sendBuffer), id: r.RemoteAddr}
	b.mu.Lock()
	b.clients[c] = struct{}{}
	b.mu.Unlock()
	b.logger.Debug("snapshot consumer connected", logging.String("client", c.id))

	go b.readLoop(c)
	go b.writeLoop(c)
}

// readLoop drains inbound frames until the peer disappears. Consumers are
// read-only; anything they send is discarded.
func (b *Broadcaster) readLoop(c *client) {
	defer func() {
		b.detach(c)
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (b *Broadcaster) writeLoop(c *client) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case payload, ok := <-c.send:
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteMessage(websocket.PingMessage, []byte{}); err != nil {
				return
			}
		}
	}
}

func (b *Broadcaster) detach(c *client) {
	b.mu.Lock()
	if _, ok := b.clients[c]; ok {
		delete(b.clients, c)
		close(c.send)
	}
	b.mu.Unlock()
}
