package stream

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// DefaultWriteWait bounds a single frame write to one client.
const DefaultWriteWait = 2 * time.Second

// Hub tracks connected clients. Broadcast and SetWelcome may be called from
// any goroutine; commands arrive on the channel returned by Commands.
type Hub struct {
	upgrader websocket.Upgrader
	log      *zap.Logger

	mu      sync.RWMutex
	clients map[*websocket.Conn]*sync.Mutex
	welcome []*websocket.PreparedMessage

	commands chan Command

	// WriteWait is the deadline for each frame write. A client that cannot
	// take a frame in time is dropped.
	WriteWait time.Duration
}

// NewHub creates a hub whose command channel holds up to buffer pending
// commands. Commands arriving while it is full are dropped.
func NewHub(log *zap.Logger, buffer int) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		log:       log,
		clients:   make(map[*websocket.Conn]*sync.Mutex),
		commands:  make(chan Command, buffer),
		WriteWait: DefaultWriteWait,
	}
}

// Commands returns the channel client commands are delivered on.
func (h *Hub) Commands() <-chan Command {
	return h.commands
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// SetWelcome replaces the frames every new client receives first.
func (h *Hub) SetWelcome(frames ...Frame) error {
	msgs := make([]*websocket.PreparedMessage, 0, len(frames))
	for _, f := range frames {
		msg, err := prepare(f)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}

	h.mu.Lock()
	h.welcome = msgs
	h.mu.Unlock()
	return nil
}

// ServeHTTP upgrades the request and serves the client until it disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	connMu := &sync.Mutex{}
	h.mu.Lock()
	h.clients[conn] = connMu
	welcome := h.welcome
	h.mu.Unlock()
	defer h.remove(conn)

	h.log.Info("client connected", zap.String("remote", r.RemoteAddr))

	for _, msg := range welcome {
		if err := h.write(conn, connMu, msg); err != nil {
			h.log.Warn("welcome write failed", zap.Error(err))
			return
		}
	}

	for {
		var cmd Command
		if err := conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.Warn("websocket read failed", zap.Error(err))
			}
			break
		}
		select {
		case h.commands <- cmd:
		default:
			h.log.Warn("command dropped", zap.String("action", cmd.Action))
		}
	}

	h.log.Info("client disconnected", zap.String("remote", r.RemoteAddr))
}

// Broadcast sends a frame to every client. Clients that fail are dropped.
func (h *Hub) Broadcast(f Frame) error {
	msg, err := prepare(f)
	if err != nil {
		return err
	}

	type client struct {
		conn *websocket.Conn
		mu   *sync.Mutex
	}
	h.mu.RLock()
	clients := make([]client, 0, len(h.clients))
	for conn, connMu := range h.clients {
		clients = append(clients, client{conn, connMu})
	}
	h.mu.RUnlock()

	for _, c := range clients {
		if err := h.write(c.conn, c.mu, msg); err != nil {
			h.log.Debug("broadcast write failed", zap.Error(err))
			c.conn.Close()
			h.remove(c.conn)
		}
	}
	return nil
}

func (h *Hub) write(conn *websocket.Conn, connMu *sync.Mutex, msg *websocket.PreparedMessage) error {
	connMu.Lock()
	defer connMu.Unlock()
	if h.WriteWait > 0 {
		if err := conn.SetWriteDeadline(time.Now().Add(h.WriteWait)); err != nil {
			return err
		}
	}
	return conn.WritePreparedMessage(msg)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		conn.Close()
		delete(h.clients, conn)
	}
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
}

func prepare(f Frame) (*websocket.PreparedMessage, error) {
	data, err := json.Marshal(f)
	if err != nil {
		return nil, err
	}
	return websocket.NewPreparedMessage(websocket.TextMessage, data)
}
