package push

import (
	"context"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/AzerQ/sed-notifications/internal/logging"
	"github.com/AzerQ/sed-notifications/internal/ports"
)

// Channel is a WebSocket-backed implementation of ports.PushChannel.
// Events read off the socket are fanned out to subscribers in arrival
// order from a single read pump goroutine.
type Channel struct {
	url    string
	logger logging.Logger
	dialer *websocket.Dialer

	mu        sync.Mutex
	conn      *websocket.Conn
	done      chan struct{}
	subs      map[uint64]func(ports.PushEvent)
	nextSubID uint64
}

// NewChannel creates a channel targeting the given ws:// URL.
func NewChannel(url string, logger logging.Logger) *Channel {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Channel{
		url:    url,
		logger: logger.With("component", "push"),
		dialer: websocket.DefaultDialer,
		subs:   make(map[uint64]func(ports.PushEvent)),
	}
}

// Start dials the server and begins the read pump. Starting an
// already-started channel is a no-op.
func (c *Channel) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.conn != nil {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	conn, resp, err := c.dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("push: dial %s: %w (status %d)", c.url, err, resp.StatusCode)
		}
		return fmt.Errorf("push: dial %s: %w", c.url, err)
	}

	c.mu.Lock()
	c.conn = conn
	c.done = make(chan struct{})
	done := c.done
	c.mu.Unlock()

	go c.readPump(conn, done)
	c.logger.Info("connected", "url", c.url)
	return nil
}

// Stop closes the connection. Safe to call when never started; the
// read pump exits on the closed socket.
func (c *Channel) Stop() error {
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()
	if conn == nil {
		return nil
	}
	// Best effort close handshake before tearing the socket down.
	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return conn.Close()
}

// Connected reports whether the socket is currently open.
func (c *Channel) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

type subscription struct {
	cancel func()
	once   sync.Once
}

func (s *subscription) Cancel() { s.once.Do(s.cancel) }

// Subscribe registers a listener for decoded push events.
func (c *Channel) Subscribe(fn func(ports.PushEvent)) ports.Subscription {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextSubID
	c.nextSubID++
	c.subs[id] = fn
	return &subscription{cancel: func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subs, id)
	}}
}

func (c *Channel) readPump(conn *websocket.Conn, done chan struct{}) {
	defer close(done)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("read failed", "error", err)
			}
			c.mu.Lock()
			if c.conn == conn {
				c.conn = nil
			}
			c.mu.Unlock()
			return
		}

		ev, err := Decode(data)
		if err != nil {
			// Unknown or malformed frames are skipped, not fatal.
			c.logger.Warn("dropped frame", "error", err)
			continue
		}

		c.mu.Lock()
		fns := make([]func(ports.PushEvent), 0, len(c.subs))
		for _, fn := range c.subs {
			fns = append(fns, fn)
		}
		c.mu.Unlock()
		for _, fn := range fns {
			fn(ev)
		}
	}
}
