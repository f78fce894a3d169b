// Package protocol defines the JSON wire contract: message envelopes, the
// fixed client/server type codes, and the payload shapes exchanged over the
// battle WebSocket.
package protocol

import "encoding/json"

// Client-originated message types.
const (
	ClientConnect       = 1
	ClientAttack        = 2
	ClientChangePokemon = 3
	ClientSurrender     = 4
	ClientStatus        = 5
	ClientMatch         = 6
)

// Server-originated message types.
const (
	ServerAcceptConnection = 50
	ServerAttack           = 51
	ServerChangePokemon    = 52
	ServerStatus           = 53
	ServerBattleEnded      = 54
	ServerDisconnect       = 55
	ServerError            = 56
	ServerMatchFound       = 57
	ServerQueueJoined      = 58
)

// Message is the envelope for every frame in both directions.
type Message struct {
	Type    int             `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Encode marshals a payload into a complete envelope frame.
func Encode(msgType int, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Message{Type: msgType, Payload: raw})
}

// ConnectRequest registers an identity and a team on a fresh connection.
type ConnectRequest struct {
	Username string `json:"username" validate:"required"`
	Pokemons []int  `json:"pokemons" validate:"required,min=1,dive,gt=0"`
}

// ConnectAccepted confirms registration.
type ConnectAccepted struct {
	Username string `json:"username"`
	UUID     string `json:"uuid"`
}

// MatchRequest asks to join the matchmaking queue. No fields.
type MatchRequest struct{}

// QueueJoined tells a player they are waiting for an opponent.
type QueueJoined struct {
	Message   string `json:"message"`
	QueueSize int    `json:"queue_size"`
}

// CreatureInfo is the wire view of one team member.
type CreatureInfo struct {
	Position  int    `json:"position"`
	SpeciesID int    `json:"species_id"`
	Name      string `json:"name"`
	CurrentHP int    `json:"current_hp"`
	MaxHP     int    `json:"max_hp"`
	IsFainted bool   `json:"is_fainted"`
}

// PlayerInfo is one side of a battle as seen on the wire.
type PlayerInfo struct {
	PlayerID       string         `json:"player_id"`
	Username       string         `json:"username"`
	Team           []CreatureInfo `json:"team"`
	ActivePosition int            `json:"active_position,omitempty"`
}

// MatchFound is delivered to both paired players.
type MatchFound struct {
	BattleID     string     `json:"battle_id"`
	YourInfo     PlayerInfo `json:"your_info"`
	OpponentInfo PlayerInfo `json:"opponent_info"`
}

// AttackRequest submits an attack for the caller's active creature.
type AttackRequest struct {
	BattleID string `json:"battle_id" validate:"required,uuid"`
	MoveID   int    `json:"move_id" validate:"required"`
}

// ChangePokemonRequest switches the caller's active creature.
type ChangePokemonRequest struct {
	BattleID string `json:"battle_id" validate:"required,uuid"`
	Position int    `json:"position" validate:"required,gt=0"`
}

// SurrenderRequest concedes the battle.
type SurrenderRequest struct {
	BattleID string `json:"battle_id" validate:"required,uuid"`
}

// StatusRequest queries current state. BattleID is ignored outside a battle.
type StatusRequest struct {
	BattleID string `json:"battle_id" validate:"omitempty,uuid"`
}

// BattleState is the perspective-adjusted snapshot broadcast after every
// battle mutation, and returned for in-battle Status queries.
type BattleState struct {
	BattleID     string     `json:"battle_id"`
	Message      string     `json:"message"`
	YourInfo     PlayerInfo `json:"your_info"`
	OpponentInfo PlayerInfo `json:"opponent_info"`
	BattleEnded  bool       `json:"battle_ended"`
	Winner       string     `json:"winner,omitempty"`
}

// ConnStatus answers a Status query for a player who is not in a battle.
type ConnStatus struct {
	Status   string `json:"status"`
	Username string `json:"username"`
}

// ErrorPayload is the structured error sent for any rejected message.
type ErrorPayload struct {
	Code    int               `json:"code"`
	Msg     string            `json:"msg"`
	Details map[string]string `json:"details,omitempty"`
}
