package handler

import (
	"encoding/json"
	"testing"

	"github.com/freeeve/pokebattle/internal/protocol"
)

func TestHubSendToPlayer(t *testing.T) {
	h := NewHub()
	s := newTestSession()
	h.Bind("player-1", s)

	if err := h.SendToPlayer("player-1", protocol.ServerStatus, protocol.ConnStatus{
		Status:   "idle",
		Username: "TestPlayer",
	}); err != nil {
		t.Fatalf("send: %v", err)
	}

	data := <-s.send
	var msg protocol.Message
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if msg.Type != protocol.ServerStatus {
		t.Errorf("expected type %d, got %d", protocol.ServerStatus, msg.Type)
	}
}

func TestHubSendToUnknownPlayer(t *testing.T) {
	h := NewHub()
	if err := h.SendToPlayer("nobody", protocol.ServerStatus, struct{}{}); err == nil {
		t.Error("expected error for unbound player")
	}
}

func TestHubUnbindClosesSend(t *testing.T) {
	h := NewHub()
	s := newTestSession()
	h.Bind("player-1", s)
	if !h.Bound("player-1") {
		t.Error("player should be bound after Bind")
	}

	h.Unbind("player-1")
	if h.Bound("player-1") {
		t.Error("player should not be bound after Unbind")
	}
	if h.ConnectionCount() != 0 {
		t.Errorf("expected 0 bound sessions, got %d", h.ConnectionCount())
	}
	if _, ok := <-s.send; ok {
		t.Error("send channel should be closed after unbind")
	}

	// Further sends fail cleanly instead of panicking on the closed channel.
	if err := h.SendToPlayer("player-1", protocol.ServerStatus, struct{}{}); err == nil {
		t.Error("expected error after unbind")
	}

	// Idempotent alongside the read pump's own closeSend.
	h.Unbind("player-1")
	s.closeSend()
}

func TestHubSendDropsWhenBufferFull(t *testing.T) {
	h := NewHub()
	s := newTestSession()
	h.Bind("player-1", s)

	for i := 0; i < sendBufSize; i++ {
		if err := h.SendToPlayer("player-1", protocol.ServerStatus, struct{}{}); err != nil {
			t.Fatalf("send %d: %v", i, err)
		}
	}
	if err := h.SendToPlayer("player-1", protocol.ServerStatus, struct{}{}); err == nil {
		t.Error("expected error once the buffer is full")
	}
}

func TestHubRebind(t *testing.T) {
	h := NewHub()
	s1, s2 := newTestSession(), newTestSession()

	h.Bind("player-1", s1)
	h.Bind("player-1", s2)
	if h.ConnectionCount() != 1 {
		t.Errorf("expected 1 bound session, got %d", h.ConnectionCount())
	}

	if err := h.SendToPlayer("player-1", protocol.ServerStatus, struct{}{}); err != nil {
		t.Fatalf("send: %v", err)
	}
	select {
	case <-s2.send:
	default:
		t.Error("message should reach the latest bound session")
	}
	select {
	case <-s1.send:
		t.Error("stale session should not receive messages")
	default:
	}
}
