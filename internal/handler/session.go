package handler

import (
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/freeeve/pokebattle/internal/model"
	"github.com/freeeve/pokebattle/internal/protocol"
)

// Session is one WebSocket connection's server-side state: a connection id
// for the registry, a buffered send channel drained by the write pump, and
// the player identity once Connect has succeeded.
//
// player is written and read only by the session's read goroutine; everyone
// else reaches the session through the hub and its send channel.
type Session struct {
	id        string
	conn      *websocket.Conn
	send      chan []byte
	player    *model.Player
	closeOnce sync.Once
}

func newSession(conn *websocket.Conn) *Session {
	return &Session{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, sendBufSize),
	}
}

// enqueue pushes a pre-encoded frame to the write pump, dropping it if the
// client has stopped draining its buffer.
func (s *Session) enqueue(frame []byte) bool {
	select {
	case s.send <- frame:
		return true
	default:
		log.Warn().Str("session_id", s.id).Msg("Dropping WebSocket message, buffer full")
		return false
	}
}

// closeSend shuts the send channel exactly once, signalling the write pump
// to finish. Safe to call from both the hub and the read pump.
func (s *Session) closeSend() {
	s.closeOnce.Do(func() { close(s.send) })
}

// sendMessage encodes an envelope and queues it for delivery.
func (s *Session) sendMessage(msgType int, payload any) {
	frame, err := protocol.Encode(msgType, payload)
	if err != nil {
		log.Error().Err(err).Int("type", msgType).Msg("Failed to encode message")
		return
	}
	s.enqueue(frame)
}
