package ws

import "bomb_royale/internal/domain"

// client → server
type Request struct {
	Type string `json:"type"`
	Game string `json:"game,omitempty"`
}

// server → client
type Message struct {
	Type  string        `json:"type"`
	Game  string        `json:"game,omitempty"`
	Event *domain.Event `json:"event,omitempty"`
	Error string        `json:"error,omitempty"`
}
