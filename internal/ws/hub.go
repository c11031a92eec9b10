package ws

import (
	"context"
	"encoding/json"
	"sync"

	"bomb_royale/internal/domain"
	"bomb_royale/internal/logger"
)

// maxSubscriptions bounds the games one connection may watch.
const maxSubscriptions = 16

// Hub fans committed game events out to the websocket spectators of each
// game. It is an events.Sink.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[*Client]struct{}
	// games watched per client, for cleanup on disconnect
	watching map[*Client]map[string]struct{}
}

func NewHub() *Hub {
	return &Hub{
		subs:     make(map[string]map[*Client]struct{}),
		watching: make(map[*Client]map[string]struct{}),
	}
}

// Subscribe registers c as a spectator of the game token.
func (h *Hub) Subscribe(c *Client, token string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	games := h.watching[c]
	if games == nil {
		games = make(map[string]struct{})
		h.watching[c] = games
	}
	if _, ok := games[token]; !ok && len(games) >= maxSubscriptions {
		return false
	}
	games[token] = struct{}{}

	clients := h.subs[token]
	if clients == nil {
		clients = make(map[*Client]struct{})
		h.subs[token] = clients
	}
	clients[c] = struct{}{}
	return true
}

func (h *Hub) Unsubscribe(c *Client, token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.unsubscribeLocked(c, token)
}

func (h *Hub) unsubscribeLocked(c *Client, token string) {
	if clients, ok := h.subs[token]; ok {
		delete(clients, c)
		if len(clients) == 0 {
			delete(h.subs, token)
		}
	}
	if games, ok := h.watching[c]; ok {
		delete(games, token)
	}
}

// Remove drops every subscription of c.
func (h *Hub) Remove(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for token := range h.watching[c] {
		h.unsubscribeLocked(c, token)
	}
	delete(h.watching, c)
}

// Spectators returns the number of clients watching token.
func (h *Hub) Spectators(token string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[token])
}

// Publish delivers events to the spectators of their game. Slow clients
// whose buffer is full miss the event.
func (h *Hub) Publish(_ context.Context, evs ...domain.Event) {
	for i := range evs {
		ev := evs[i]
		msg, err := json.Marshal(Message{Type: MsgEvent, Game: ev.Token, Event: &ev})
		if err != nil {
			logger.Error("ws: marshal event", "error", err)
			continue
		}

		h.mu.RLock()
		for c := range h.subs[ev.Token] {
			if !c.trySend(msg) {
				logger.Warn("ws: client buffer full, event dropped", "address", c.Address, "game", ev.Token)
			}
		}
		h.mu.RUnlock()
	}
}
