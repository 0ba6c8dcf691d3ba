// Package server exposes a read-only websocket feed of public game snapshots.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/magefree/coup-engine-go/internal/game"
	"github.com/magefree/coup-engine-go/internal/game/rules"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const (
	sendBuffer      = 64
	broadcastBuffer = 256
	writeWait       = 5 * time.Second
)

// Message is the envelope sent to spectators.
type Message struct {
	Type   string         `json:"type"`
	GameID string         `json:"game_id,omitempty"`
	Data   *SpectatorView `json:"data,omitempty"`
}

// SpectatorView is the public table as serialised on the wire.
type SpectatorView struct {
	Turn         int             `json:"turn"`
	Phase        string          `json:"phase"`
	ActivePlayer string          `json:"active_player"`
	TurnOrder    []string        `json:"turn_order"`
	DeckSize     int             `json:"deck_size"`
	Players      []SpectatorSeat `json:"players"`
	Over         bool            `json:"over"`
	Winner       string          `json:"winner,omitempty"`
	Checksum     string          `json:"checksum"`
}

// SpectatorSeat is one player's public state.
type SpectatorSeat struct {
	Name      string   `json:"name"`
	Coins     int      `json:"coins"`
	Influence int      `json:"influence"`
	Revealed  []string `json:"revealed"`
	Alive     bool     `json:"alive"`
}

// NewSpectatorView converts a public snapshot for the wire. Hidden cards are
// never copied.
func NewSpectatorView(view game.GameView) *SpectatorView {
	out := &SpectatorView{
		Turn:         view.Turn,
		Phase:        view.Phase.String(),
		ActivePlayer: view.ActivePlayer,
		TurnOrder:    view.TurnOrder,
		DeckSize:     view.DeckSize,
		Over:         view.Over,
		Winner:       view.Winner,
		Checksum:     view.Checksum(),
	}
	for _, p := range view.Players {
		revealed := make([]string, 0, len(p.Revealed))
		for _, inf := range p.Revealed {
			revealed = append(revealed, inf.String())
		}
		out.Players = append(out.Players, SpectatorSeat{
			Name:      p.Name,
			Coins:     p.Coins,
			Influence: p.InfluenceCount,
			Revealed:  revealed,
			Alive:     p.Alive,
		})
	}
	return out
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans snapshots out to every connected spectator.
type Hub struct {
	logger     *zap.Logger
	clients    map[*client]bool
	broadcast  chan []byte
	register   chan *client
	unregister chan *client
	done       chan struct{}

	mu     sync.RWMutex
	latest []byte
}

// NewHub creates a hub. Call Run before serving connections.
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		logger:     logger,
		clients:    make(map[*client]bool),
		broadcast:  make(chan []byte, broadcastBuffer),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
	}
}

// Run services registrations and broadcasts until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				close(c.send)
				delete(h.clients, c)
			}
			return

		case c := <-h.register:
			h.clients[c] = true
			h.logger.Debug("spectator connected", zap.Int("spectators", len(h.clients)))
			if latest := h.Latest(); latest != nil {
				c.send <- latest
			}

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				h.logger.Debug("spectator disconnected", zap.Int("spectators", len(h.clients)))
			}

		case message := <-h.broadcast:
			h.mu.Lock()
			h.latest = message
			h.mu.Unlock()
			for c := range h.clients {
				select {
				case c.send <- message:
				default:
					close(c.send)
					delete(h.clients, c)
				}
			}
		}
	}
}

// Latest returns the most recent broadcast payload.
func (h *Hub) Latest() []byte {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.latest
}

// Publish queues msg for every spectator. It never blocks the game; when the
// queue is full the message is dropped.
func (h *Hub) Publish(msg Message) {
	payload, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("failed to encode spectator message", zap.Error(err))
		return
	}
	select {
	case h.broadcast <- payload:
	default:
		h.logger.Warn("spectator queue full, dropping snapshot", zap.String("type", msg.Type))
	}
}

// Follow publishes a public snapshot of g after every turn and at game over.
// It returns the bus subscription handles.
func (h *Hub) Follow(bus *rules.EventBus, g *game.Game) []int {
	forward := func(evt rules.Event) {
		h.Publish(Message{
			Type:   string(evt.Type),
			GameID: evt.GameID,
			Data:   NewSpectatorView(g.Snapshot("")),
		})
	}
	return []int{
		bus.SubscribeTyped(rules.EventTurnEnded, forward),
		bus.SubscribeTyped(rules.EventGameOver, forward),
	}
}

// Handler returns the HTTP handler serving the /ws endpoint.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.serveWS)
	return mux
}

func (h *Hub) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	c := &client{
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}

	go h.writePump(c)
	go h.readPump(c)
}

// readPump only watches for the spectator going away.
func (h *Hub) readPump(c *client) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	defer c.conn.Close()

	for message := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// ListenAndServe serves the spectator feed on addr until ctx is done.
func (h *Hub) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	h.logger.Info("spectator feed listening", zap.String("address", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
