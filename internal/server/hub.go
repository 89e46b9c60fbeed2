package server

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/AzerQ/sed-notifications/internal/logging"
	"github.com/AzerQ/sed-notifications/internal/push"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// hub fans push frames out to all connected WebSocket clients.
type hub struct {
	logger logging.Logger

	mu      sync.Mutex
	clients map[string]*hubClient
}

type hubClient struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

func newHub(logger logging.Logger) *hub {
	return &hub{
		logger:  logger.With("component", "hub"),
		clients: make(map[string]*hubClient),
	}
}

// handleWS upgrades the request and serves the client until it
// disconnects.
func (h *hub) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	client := &hubClient{
		id:   uuid.New().String(),
		conn: conn,
		send: make(chan []byte, 32),
	}

	h.mu.Lock()
	h.clients[client.id] = client
	count := len(h.clients)
	h.mu.Unlock()
	h.logger.Info("client connected", "client", client.id, "total", count)

	go h.writePump(client)
	h.readPump(client)
}

// broadcast encodes the frame and queues it for every client. Clients
// with a full send buffer are dropped rather than blocking the rest.
func (h *hub) broadcast(frame push.Envelope) {
	data, err := json.Marshal(frame)
	if err != nil {
		h.logger.Error("encode frame failed", "error", err)
		return
	}

	h.mu.Lock()
	var stale []*hubClient
	for _, client := range h.clients {
		select {
		case client.send <- data:
		default:
			stale = append(stale, client)
		}
	}
	for _, client := range stale {
		delete(h.clients, client.id)
		close(client.send)
	}
	h.mu.Unlock()

	for _, client := range stale {
		h.logger.Warn("dropped slow client", "client", client.id)
	}
}

func (h *hub) writePump(client *hubClient) {
	for data := range client.send {
		if err := client.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
	_ = client.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
}

// readPump drains the client until close. The channel is one-way,
// server to client; inbound frames are discarded.
func (h *hub) readPump(client *hubClient) {
	defer h.remove(client)
	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("client read ended", "client", client.id, "error", err)
			}
			return
		}
	}
}

func (h *hub) remove(client *hubClient) {
	h.mu.Lock()
	if _, ok := h.clients[client.id]; ok {
		delete(h.clients, client.id)
		close(client.send)
	}
	h.mu.Unlock()
	_ = client.conn.Close()
	h.logger.Info("client disconnected", "client", client.id)
}

// closeAll disconnects every client, used at shutdown.
func (h *hub) closeAll() {
	h.mu.Lock()
	clients := make([]*hubClient, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.clients = make(map[string]*hubClient)
	for _, c := range clients {
		close(c.send)
	}
	h.mu.Unlock()

	for _, c := range clients {
		_ = c.conn.Close()
	}
}
