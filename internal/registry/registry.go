// Package registry maps live connections to registered player identities.
package registry

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/freeeve/pokebattle/internal/creatures"
	"github.com/freeeve/pokebattle/internal/model"
)

var (
	ErrAlreadyRegistered = errors.New("connection already registered")
	ErrUsernameRequired  = errors.New("username is required")
	ErrEmptyTeam         = errors.New("team must have at least one creature")
)

// Registry owns all registered players, keyed by connection id. A connection
// holds at most one identity; the already-registered check and the insertion
// are atomic under the registry mutex.
type Registry struct {
	mu      sync.Mutex
	players map[string]*model.Player // connection id -> player
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{players: make(map[string]*model.Player)}
}

// Register allocates a new player identity for a connection. The team is
// built from species ids at full HP; unknown species fail registration.
func (r *Registry) Register(connID, username string, speciesIDs []int) (*model.Player, error) {
	if username == "" {
		return nil, ErrUsernameRequired
	}
	if len(speciesIDs) == 0 {
		return nil, ErrEmptyTeam
	}

	team, err := creatures.BuildTeam(speciesIDs)
	if err != nil {
		return nil, fmt.Errorf("build team: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.players[connID]; exists {
		return nil, ErrAlreadyRegistered
	}

	player := model.NewPlayer(uuid.NewString(), username, team)
	r.players[connID] = player

	log.Info().
		Str("player_id", player.ID).
		Str("username", username).
		Int("team_size", len(team)).
		Msg("Player registered")

	return player, nil
}

// Unregister removes a connection's identity. Idempotent; returns the
// removed player, or nil if the connection had none. Queue and battle
// cleanup is the caller's responsibility (the router owns both).
func (r *Registry) Unregister(connID string) *model.Player {
	r.mu.Lock()
	defer r.mu.Unlock()

	player, exists := r.players[connID]
	if !exists {
		return nil
	}
	delete(r.players, connID)

	log.Info().
		Str("player_id", player.ID).
		Str("username", player.Username).
		Msg("Player unregistered")

	return player
}

// Get returns the player registered on a connection.
func (r *Registry) Get(connID string) (*model.Player, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.players[connID]
	return p, ok
}

// Count returns the number of registered players.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.players)
}
