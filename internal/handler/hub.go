package handler

import (
	"fmt"
	"sync"

	"github.com/freeeve/pokebattle/internal/protocol"
)

// Hub maps registered player ids to their live sessions so battle
// broadcasts can reach the opponent's connection. One session per player;
// binding happens at Connect, unbinding at disconnect.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]*Session // player id -> session
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{sessions: make(map[string]*Session)}
}

// Bind associates a player id with a session.
func (h *Hub) Bind(playerID string, s *Session) {
	h.mu.Lock()
	h.sessions[playerID] = s
	h.mu.Unlock()
}

// Bound reports whether a player currently has a live session.
func (h *Hub) Bound(playerID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.sessions[playerID]
	return ok
}

// Unbind removes a player's session and closes its send channel. Closing
// under the hub lock means no SendToPlayer can be mid-enqueue on it.
func (h *Hub) Unbind(playerID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if s, ok := h.sessions[playerID]; ok {
		delete(h.sessions, playerID)
		s.closeSend()
	}
}

// SendToPlayer encodes and queues a message for a player's connection.
// A delivery failure is reported, never retried: by the time a send fails
// the state mutation it describes has already been applied.
func (h *Hub) SendToPlayer(playerID string, msgType int, payload any) error {
	frame, err := protocol.Encode(msgType, payload)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}

	// Enqueue under the read lock so Unbind cannot close the channel
	// between lookup and send.
	h.mu.RLock()
	defer h.mu.RUnlock()

	s, ok := h.sessions[playerID]
	if !ok {
		return fmt.Errorf("player %s not connected", playerID)
	}
	if !s.enqueue(frame) {
		return fmt.Errorf("player %s send buffer full", playerID)
	}
	return nil
}

// ConnectionCount returns the number of bound sessions.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}
