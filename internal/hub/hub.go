// Package hub pushes game snapshots to WebSocket clients and forwards the
// input events they send back to the engine.
//
// A single Run goroutine owns the subscriber map. Every connection gets a
// read pump (client → Applier) and a write pump (hub → client). Clients are
// grouped by game ID; a state change on one game is broadcast to every
// connection watching it.
//
// Protocol:
//   - Incoming text frames: game.Event JSON, e.g. {"type":"char","index":0,"char":"c"}.
//   - Outgoing: {"event":"state","gameId":"…","state":{…snapshot…}} after
//     connect and after every change, or {"event":"error","error":"…"} sent
//     only to the offending client.
package hub

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/construction-wordle/internal/game"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

// Applier applies an input event to a game and returns the resulting
// snapshot. When the state changed it must call Publish itself while the
// game is still locked, so broadcasts follow the order events were applied.
type Applier func(ctx context.Context, gameID string, ev game.Event) (snap game.Snapshot, changed bool, err error)

// Loader hands a game's current snapshot to send, holding the game still
// for the duration of the call.
type Loader func(send func(game.Snapshot)) error

// Message is the outgoing frame.
type Message struct {
	Event  string         `json:"event"`
	GameID string         `json:"gameId,omitempty"`
	State  *game.Snapshot `json:"state,omitempty"`
	Error  string         `json:"error,omitempty"`

	to *Client // set for replies addressed to one client
}

// Client is one WebSocket connection watching a game.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	gameID string
}

// Hub maintains the set of active clients and broadcasts messages.
type Hub struct {
	upgrader websocket.Upgrader
	apply    Applier

	sessions   map[string]map[*Client]bool // owned by Run
	broadcast  chan *Message
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
}

// New creates a hub. allowOrigin decides which browser origins may connect;
// nil allows all.
func New(apply Applier, allowOrigin func(origin string) bool) *Hub {
	h := &Hub{
		apply:      apply,
		sessions:   make(map[string]map[*Client]bool),
		broadcast:  make(chan *Message, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || allowOrigin == nil {
				return true
			}
			return allowOrigin(origin)
		},
	}
	return h
}

// Run starts the hub's event loop and blocks until ctx is canceled.
// All client connections are closed on return.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for _, clients := range h.sessions {
				for c := range clients {
					h.unregisterClient(c)
				}
			}
			return

		case c := <-h.register:
			h.registerClient(c)

		case c := <-h.unregister:
			h.unregisterClient(c)

		case m := <-h.broadcast:
			h.deliver(m)
		}
	}
}

// ServeWS upgrades the request and subscribes the connection to gameID.
// The first frame is the snapshot load produces once the client is
// registered, so no change published in between is lost.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, gameID string, load Loader) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Str("gameId", gameID).Msg("websocket upgrade failed")
		return
	}
	c := &Client{hub: h, conn: conn, send: make(chan []byte, 256), gameID: gameID}

	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}
	err = load(func(snap game.Snapshot) {
		h.enqueue(&Message{Event: "state", GameID: gameID, State: &snap, to: c})
	})
	if err != nil {
		log.Warn().Err(err).Str("gameId", gameID).Msg("websocket initial state")
		h.enqueue(&Message{Event: "error", GameID: gameID, Error: err.Error(), to: c})
	}

	go c.writePump()
	go c.readPump()
}

// Publish broadcasts a snapshot to every client watching gameID.
func (h *Hub) Publish(gameID string, snap game.Snapshot) {
	h.enqueue(&Message{Event: "state", GameID: gameID, State: &snap})
}

// Close disconnects every client watching gameID.
func (h *Hub) Close(gameID string) {
	h.enqueue(&Message{Event: "closed", GameID: gameID})
}

func (h *Hub) enqueue(m *Message) {
	select {
	case h.broadcast <- m:
	case <-h.done:
	}
}

// registerClient adds a client to a game's subscriber set.
func (h *Hub) registerClient(c *Client) {
	if h.sessions[c.gameID] == nil {
		h.sessions[c.gameID] = make(map[*Client]bool)
	}
	h.sessions[c.gameID][c] = true
	log.Debug().Str("gameId", c.gameID).Int("clients", len(h.sessions[c.gameID])).Msg("ws client registered")
}

// unregisterClient removes a client and closes its send channel.
func (h *Hub) unregisterClient(c *Client) {
	clients, ok := h.sessions[c.gameID]
	if !ok || !clients[c] {
		return
	}
	delete(clients, c)
	close(c.send)
	if len(clients) == 0 {
		delete(h.sessions, c.gameID)
	}
	log.Debug().Str("gameId", c.gameID).Int("clients", len(clients)).Msg("ws client unregistered")
}

// deliver writes m to its recipient, or to every client of its game.
func (h *Hub) deliver(m *Message) {
	clients := h.sessions[m.GameID]
	if m.to != nil {
		if !clients[m.to] {
			return
		}
		clients = map[*Client]bool{m.to: true}
	}
	data, err := json.Marshal(m)
	if err != nil {
		log.Error().Err(err).Msg("marshal ws message")
		return
	}
	for c := range clients {
		if m.Event == "closed" {
			h.unregisterClient(c)
			continue
		}
		select {
		case c.send <- data:
		default:
			// send buffer full; drop the slow client
			h.unregisterClient(c)
		}
	}
}

// subscribers reports the number of clients watching gameID.
// Only safe from the Run goroutine or when Run is not running.
func (h *Hub) subscribers(gameID string) int { return len(h.sessions[gameID]) }

// readPump forwards incoming events to the Applier, which publishes the
// resulting state.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Str("gameId", c.gameID).Msg("websocket read")
			}
			return
		}

		var ev game.Event
		if err := json.Unmarshal(data, &ev); err != nil {
			c.hub.enqueue(&Message{Event: "error", GameID: c.gameID, Error: "bad_json", to: c})
			continue
		}
		if _, _, err := c.hub.apply(context.Background(), c.gameID, ev); err != nil {
			c.hub.enqueue(&Message{Event: "error", GameID: c.gameID, Error: err.Error(), to: c})
		}
	}
}

// writePump pumps messages from the hub to the WebSocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
