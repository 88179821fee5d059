// Package spectate streams running matches to read-only websocket clients.
package spectate

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/thraizz/dominion-server-go/internal/game"
	"go.uber.org/zap"
)

// Message types.
const (
	// Sent by clients.
	TypeWatch   = "watch"
	TypeView    = "view"
	TypeMatches = "matches"

	// Sent by the hub.
	TypeMatchView = "match_view"
	TypeMatchList = "match_list"
	TypeEvent     = "event"
	TypeError     = "error"
)

// Message is the JSON envelope in both directions.
type Message struct {
	Type     string `json:"type"`
	MatchID  string `json:"match_id,omitempty"`
	PlayerID string `json:"player_id,omitempty"`
	Data     any    `json:"data,omitempty"`
}

// Event is the payload of a TypeEvent message.
type Event struct {
	Seq       int                    `json:"seq"`
	Type      string                 `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte

	// matchID is guarded by Hub.mu.
	matchID string
}

type outbound struct {
	client  *client
	message []byte
}

// Hub fans game notifications out to the clients watching each match.
// Clients never act on a match; they pick one to watch and ask for views.
type Hub struct {
	engine   *game.Engine
	logger   *zap.Logger
	upgrader websocket.Upgrader

	mu         sync.RWMutex
	clients    map[*client]bool
	register   chan *client
	unregister chan *client
	broadcast  chan Message
	direct     chan outbound
	done       chan struct{}
}

// NewHub creates a hub reading from engine. Call Run before serving.
func NewHub(engine *game.Engine, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		engine: engine,
		logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients:    make(map[*client]bool),
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan Message),
		direct:     make(chan outbound),
		done:       make(chan struct{}),
	}
}

// Run delivers messages until ctx is cancelled, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				delete(h.clients, c)
				close(c.send)
			}
			return

		case c := <-h.register:
			h.clients[c] = true
			h.logger.Debug("spectator connected", zap.String("remote", c.conn.RemoteAddr().String()))

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				h.logger.Debug("spectator disconnected", zap.String("remote", c.conn.RemoteAddr().String()))
			}

		case out := <-h.direct:
			if _, ok := h.clients[out.client]; ok {
				h.deliver(out.client, out.message)
			}

		case msg := <-h.broadcast:
			payload, err := json.Marshal(msg)
			if err != nil {
				h.logger.Warn("failed to encode event", zap.String("match_id", msg.MatchID), zap.Error(err))
				continue
			}
			h.mu.RLock()
			var watchers []*client
			for c := range h.clients {
				if c.matchID == msg.MatchID {
					watchers = append(watchers, c)
				}
			}
			h.mu.RUnlock()
			for _, c := range watchers {
				h.deliver(c, payload)
			}
		}
	}
}

// deliver drops clients that cannot keep up. Run loop only.
func (h *Hub) deliver(c *client, payload []byte) {
	select {
	case c.send <- payload:
	default:
		h.logger.Warn("dropping slow spectator", zap.String("remote", c.conn.RemoteAddr().String()))
		delete(h.clients, c)
		close(c.send)
	}
}

// Notify is a game.NotificationHandler.
func (h *Hub) Notify(n game.GameNotification) {
	msg := Message{
		Type:     TypeEvent,
		MatchID:  n.MatchID,
		PlayerID: n.PlayerID,
		Data:     Event{Seq: n.Seq, Type: n.Type, Timestamp: n.Timestamp, Data: n.Data},
	}
	select {
	case h.broadcast <- msg:
	case <-h.done:
	}
}

func (h *Hub) reply(c *client, msg Message) {
	payload, err := json.Marshal(msg)
	if err != nil {
		h.logger.Warn("failed to encode reply", zap.String("type", msg.Type), zap.Error(err))
		return
	}
	select {
	case h.direct <- outbound{client: c, message: payload}:
	case <-h.done:
	}
}

func (h *Hub) handleMessage(c *client, msg Message) {
	switch msg.Type {
	case TypeMatches:
		h.reply(c, Message{Type: TypeMatchList, Data: h.engine.MatchIDs()})

	case TypeWatch:
		view, err := h.engine.SpectatorView(msg.MatchID)
		if err != nil {
			h.reply(c, Message{Type: TypeError, MatchID: msg.MatchID, Data: err.Error()})
			return
		}
		h.mu.Lock()
		c.matchID = msg.MatchID
		h.mu.Unlock()
		h.reply(c, Message{Type: TypeMatchView, MatchID: msg.MatchID, Data: view})

	case TypeView:
		h.mu.RLock()
		matchID := c.matchID
		h.mu.RUnlock()
		view, err := h.engine.SpectatorView(matchID)
		if err != nil {
			h.reply(c, Message{Type: TypeError, MatchID: matchID, Data: err.Error()})
			return
		}
		h.reply(c, Message{Type: TypeMatchView, MatchID: matchID, Data: view})

	default:
		h.reply(c, Message{Type: TypeError, Data: "unknown message type " + msg.Type})
	}
}

func (c *client) readPump(h *Hub) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		c.conn.Close()
	}()

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var msg Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			h.logger.Debug("ignoring malformed message", zap.Error(err))
			continue
		}
		h.handleMessage(c, msg)
	}
}

func (c *client) writePump() {
	defer c.conn.Close()

	for payload := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}

// ServeHTTP upgrades the request to a spectator connection.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &client{conn: conn, send: make(chan []byte, 256)}
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}

	go c.writePump()
	go c.readPump(h)
}
