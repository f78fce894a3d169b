package battle

import (
	"sync"

	"github.com/google/uuid"

	"github.com/freeeve/pokebattle/internal/model"
)

// Manager is the lookup table of live battles, addressed by battle id.
type Manager struct {
	mu      sync.RWMutex
	battles map[string]*Battle
}

// NewManager creates an empty Manager.
func NewManager() *Manager {
	return &Manager{battles: make(map[string]*Battle)}
}

// Create allocates a battle id and registers a new battle. The first player
// is the one who was already waiting and therefore acts first.
func (m *Manager) Create(first, second *model.Player) *Battle {
	b := New(uuid.NewString(), first, second)
	m.mu.Lock()
	m.battles[b.id] = b
	m.mu.Unlock()
	return b
}

// Get returns the battle with the given id.
func (m *Manager) Get(id string) (*Battle, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.battles[id]
	return b, ok
}

// FindByPlayer returns the battle a player is participating in, if any.
func (m *Manager) FindByPlayer(playerID string) (*Battle, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, b := range m.battles {
		if b.sides[0].player.ID == playerID || b.sides[1].player.ID == playerID {
			return b, true
		}
	}
	return nil, false
}

// Remove drops a battle from the table. Called once the battle has ended
// and both participants have been notified.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	delete(m.battles, id)
	m.mu.Unlock()
}

// Count returns the number of live battles.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.battles)
}
