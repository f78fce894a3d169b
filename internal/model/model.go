package model

import "sync"

// PlayerStatus tracks where a player currently is in the session lifecycle.
type PlayerStatus int

const (
	StatusIdle PlayerStatus = iota
	StatusQueued
	StatusInBattle
)

func (s PlayerStatus) String() string {
	switch s {
	case StatusQueued:
		return "queued"
	case StatusInBattle:
		return "in_battle"
	default:
		return "idle"
	}
}

// Creature is one member of a player's team. Position is 1-based and stable
// for the team's lifetime; only the battle engine owning the enclosing
// battle mutates CurrentHP and IsFainted.
type Creature struct {
	Position  int    `json:"position"`
	SpeciesID int    `json:"species_id"`
	Name      string `json:"name"`
	MaxHP     int    `json:"max_hp"`
	CurrentHP int    `json:"current_hp"`
	Attack    int    `json:"attack"`
	Defense   int    `json:"defense"`
	IsFainted bool   `json:"is_fainted"`
}

// Player is a registered identity bound to exactly one connection.
type Player struct {
	ID       string
	Username string
	Team     []*Creature

	mu     sync.Mutex
	status PlayerStatus
}

// NewPlayer creates an idle player with the given team.
func NewPlayer(id, username string, team []*Creature) *Player {
	return &Player{ID: id, Username: username, Team: team}
}

// Status returns the player's current lifecycle status.
func (p *Player) Status() PlayerStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// SetStatus transitions the player to a new lifecycle status.
func (p *Player) SetStatus(s PlayerStatus) {
	p.mu.Lock()
	p.status = s
	p.mu.Unlock()
}

// CreatureAt returns the creature at a 1-based team position, or nil.
func (p *Player) CreatureAt(position int) *Creature {
	for _, c := range p.Team {
		if c.Position == position {
			return c
		}
	}
	return nil
}
