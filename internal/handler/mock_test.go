package handler

import (
	"context"
	"encoding/json"
	"sync"
)

type archivedResult struct {
	battleID string
	winnerID string
	loserID  string
	turns    int
}

// mockArchive records RecordResult calls for assertions.
type mockArchive struct {
	mu      sync.Mutex
	results []archivedResult
}

func (m *mockArchive) RecordResult(_ context.Context, battleID, winnerID, loserID string, turns int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, archivedResult{battleID, winnerID, loserID, turns})
	return nil
}

func (m *mockArchive) all() []archivedResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]archivedResult(nil), m.results...)
}

// mockLiveStore records the mirrored snapshots and deletions.
type mockLiveStore struct {
	mu      sync.Mutex
	states  map[string]json.RawMessage
	deleted []string
}

func newMockLiveStore() *mockLiveStore {
	return &mockLiveStore{states: make(map[string]json.RawMessage)}
}

func (m *mockLiveStore) SetBattleState(_ context.Context, battleID string, state json.RawMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[battleID] = append(json.RawMessage(nil), state...)
	return nil
}

func (m *mockLiveStore) DeleteBattleState(_ context.Context, battleID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, battleID)
	m.deleted = append(m.deleted, battleID)
	return nil
}

func (m *mockLiveStore) get(battleID string) (json.RawMessage, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.states[battleID]
	return s, ok
}

func (m *mockLiveStore) deletions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.deleted...)
}
