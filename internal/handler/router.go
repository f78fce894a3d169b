package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/freeeve/pokebattle/internal/battle"
	"github.com/freeeve/pokebattle/internal/matchmaking"
	"github.com/freeeve/pokebattle/internal/model"
	"github.com/freeeve/pokebattle/internal/protocol"
	"github.com/freeeve/pokebattle/internal/registry"
	"github.com/freeeve/pokebattle/internal/repository"
)

// Router dispatches inbound envelopes to the registry, queue, or the
// sender's current battle, and fans the resulting snapshots back out.
// Every message is handled to completion on the session's read goroutine;
// nothing waits for the other player.
type Router struct {
	registry *registry.Registry
	queue    *matchmaking.Queue
	battles  *battle.Manager
	hub      *Hub
	archive  repository.MatchArchive
	live     repository.LiveStateStore
	validate *validator.Validate
}

// NewRouter creates a Router.
func NewRouter(reg *registry.Registry, queue *matchmaking.Queue, battles *battle.Manager,
	hub *Hub, archive repository.MatchArchive, live repository.LiveStateStore) *Router {
	return &Router{
		registry: reg,
		queue:    queue,
		battles:  battles,
		hub:      hub,
		archive:  archive,
		live:     live,
		validate: validator.New(),
	}
}

// HandleMessage processes one inbound frame from a session.
func (rt *Router) HandleMessage(s *Session, data []byte) {
	var msg protocol.Message
	if err := json.Unmarshal(data, &msg); err != nil {
		sendError(s, http.StatusBadRequest, msgInvalidFields,
			map[string]string{"error": "invalid message envelope"})
		return
	}

	if msg.Type == protocol.ClientConnect {
		rt.handleConnect(s, msg)
		return
	}

	if s.player == nil {
		sendBadRequest(s, "not connected")
		return
	}

	switch msg.Type {
	case protocol.ClientMatch:
		rt.handleMatch(s)
	case protocol.ClientAttack:
		rt.handleAttack(s, msg)
	case protocol.ClientChangePokemon:
		rt.handleChangePokemon(s, msg)
	case protocol.ClientSurrender:
		rt.handleSurrender(s, msg)
	case protocol.ClientStatus:
		rt.handleStatus(s, msg)
	default:
		sendError(s, http.StatusBadRequest, msgBadRequest,
			map[string]string{"error": "unknown message type"})
	}
}

func (rt *Router) handleConnect(s *Session, msg protocol.Message) {
	if s.player != nil {
		sendError(s, http.StatusBadRequest, msgAlreadyConnected,
			map[string]string{"type": "Already connected"})
		return
	}

	var req protocol.ConnectRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		sendError(s, http.StatusBadRequest, msgInvalidFields,
			map[string]string{"error": "invalid payload"})
		return
	}
	if details, ok := validateStruct(rt.validate, req); !ok {
		sendError(s, http.StatusBadRequest, msgInvalidFields, details)
		return
	}

	player, err := rt.registry.Register(s.id, req.Username, req.Pokemons)
	if err != nil {
		if errors.Is(err, registry.ErrAlreadyRegistered) {
			sendError(s, http.StatusBadRequest, msgAlreadyConnected,
				map[string]string{"type": "Already connected"})
			return
		}
		sendError(s, http.StatusBadRequest, msgInvalidFields,
			map[string]string{"error": err.Error()})
		return
	}

	s.player = player
	rt.hub.Bind(player.ID, s)

	s.sendMessage(protocol.ServerAcceptConnection, protocol.ConnectAccepted{
		Username: player.Username,
		UUID:     player.ID,
	})
}

func (rt *Router) handleMatch(s *Session) {
	res, err := rt.queue.Join(s.player)
	if err != nil {
		if errors.Is(err, matchmaking.ErrNotIdle) {
			sendBadRequest(s, "player is not idle")
			return
		}
		sendBadRequest(s, err.Error())
		return
	}

	if res.Opponent == nil {
		s.sendMessage(protocol.ServerQueueJoined, protocol.QueueJoined{
			Message:   "Joined matchmaking queue, waiting for opponent...",
			QueueSize: res.QueueSize,
		})
		return
	}

	rt.startMatch(s, res.Opponent)
}

// startMatch registers the battle for a fresh pairing and announces it to
// both players. The opponent was dequeued before the battle existed, so a
// disconnect landing in that window finds neither a queue entry nor a
// battle to forfeit; once the battle is registered, a vanished opponent is
// forfeited here on their behalf.
func (rt *Router) startMatch(s *Session, opponent *model.Player) {
	// The waiting player comes first and owns the opening turn.
	b := rt.battles.Create(opponent, s.player)
	snap, err := b.Snapshot(s.player.ID)
	if err != nil {
		log.Error().Err(err).Str("battle_id", b.ID()).Msg("Failed to snapshot new battle")
		return
	}
	rt.mirrorState(snap)

	s.sendMessage(protocol.ServerMatchFound, matchFoundFor(snap, s.player.ID))
	if err := rt.hub.SendToPlayer(opponent.ID, protocol.ServerMatchFound,
		matchFoundFor(snap, opponent.ID)); err != nil {
		log.Warn().Err(err).Str("opponent_id", opponent.ID).Msg("Failed to notify opponent of match")
	}

	if rt.hub.Bound(opponent.ID) {
		return
	}

	// A Disconnect racing with this may forfeit first; ErrEnded means the
	// cleanup already happened and nothing is owed here.
	end, err := b.Forfeit(opponent.ID)
	if err != nil {
		return
	}
	log.Info().
		Str("battle_id", b.ID()).
		Str("player_id", opponent.ID).
		Msg("Opponent disconnected before battle start, forfeiting")
	s.sendMessage(protocol.ServerBattleEnded, viewFor(end, s.player.ID))
	rt.finish(end)
}

func (rt *Router) handleAttack(s *Session, msg protocol.Message) {
	var req protocol.AttackRequest
	if !rt.decodeAndValidate(s, msg, &req) {
		return
	}

	b, ok := rt.getBattle(s, req.BattleID)
	if !ok {
		return
	}

	res, err := b.Attack(s.player.ID, req.MoveID)
	if err != nil {
		rt.sendBattleError(s, err)
		return
	}

	rt.broadcast(s, res, protocol.ServerAttack)
	rt.finish(res)
}

func (rt *Router) handleChangePokemon(s *Session, msg protocol.Message) {
	var req protocol.ChangePokemonRequest
	if !rt.decodeAndValidate(s, msg, &req) {
		return
	}

	b, ok := rt.getBattle(s, req.BattleID)
	if !ok {
		return
	}

	res, err := b.Switch(s.player.ID, req.Position)
	if err != nil {
		rt.sendBattleError(s, err)
		return
	}

	rt.broadcast(s, res, protocol.ServerChangePokemon)
	rt.finish(res)
}

func (rt *Router) handleSurrender(s *Session, msg protocol.Message) {
	var req protocol.SurrenderRequest
	if !rt.decodeAndValidate(s, msg, &req) {
		return
	}

	b, ok := rt.getBattle(s, req.BattleID)
	if !ok {
		return
	}

	res, err := b.Surrender(s.player.ID)
	if err != nil {
		rt.sendBattleError(s, err)
		return
	}

	rt.broadcast(s, res, protocol.ServerBattleEnded)
	rt.finish(res)
}

// handleStatus answers the requester only and never consumes a turn.
func (rt *Router) handleStatus(s *Session, msg protocol.Message) {
	if s.player.Status() == model.StatusInBattle {
		if b, ok := rt.battles.FindByPlayer(s.player.ID); ok {
			res, err := b.Snapshot(s.player.ID)
			if err != nil {
				rt.sendBattleError(s, err)
				return
			}
			s.sendMessage(protocol.ServerStatus, viewFor(res, s.player.ID))
			return
		}
	}

	s.sendMessage(protocol.ServerStatus, protocol.ConnStatus{
		Status:   s.player.Status().String(),
		Username: s.player.Username,
	})
}

// Disconnect tears down a closed connection: leave the queue, forfeit any
// live battle, release the identity. Idempotent for unregistered sessions.
func (rt *Router) Disconnect(s *Session) {
	player := rt.registry.Unregister(s.id)
	if player == nil {
		return
	}
	rt.hub.Unbind(player.ID)
	rt.queue.Leave(player)

	if b, ok := rt.battles.FindByPlayer(player.ID); ok {
		res, err := b.Forfeit(player.ID)
		if err != nil {
			log.Warn().Err(err).Str("player_id", player.ID).Msg("Forfeit on disconnect failed")
			return
		}
		for _, side := range res.Sides {
			if side.PlayerID == player.ID {
				continue
			}
			if err := rt.hub.SendToPlayer(side.PlayerID, protocol.ServerBattleEnded,
				viewFor(res, side.PlayerID)); err != nil {
				log.Warn().Err(err).Str("player_id", side.PlayerID).Msg("Failed to notify opponent of forfeit")
			}
		}
		rt.finish(res)
	}
}

// decodeAndValidate unmarshals a battle-action payload and runs its
// validator tags, reporting a wire error itself on failure.
func (rt *Router) decodeAndValidate(s *Session, msg protocol.Message, req any) bool {
	if err := json.Unmarshal(msg.Payload, req); err != nil {
		sendError(s, http.StatusBadRequest, msgInvalidFields,
			map[string]string{"error": "invalid payload"})
		return false
	}
	if details, ok := validateStruct(rt.validate, req); !ok {
		sendError(s, http.StatusBadRequest, msgInvalidFields, details)
		return false
	}
	return true
}

func (rt *Router) getBattle(s *Session, battleID string) (*battle.Battle, bool) {
	b, ok := rt.battles.Get(battleID)
	if !ok {
		sendError(s, http.StatusNotFound, msgNotFound,
			map[string]string{"error": "battle not found"})
		return nil, false
	}
	return b, true
}

// sendBattleError maps engine sentinels to wire errors.
func (rt *Router) sendBattleError(s *Session, err error) {
	switch {
	case errors.Is(err, battle.ErrNotYourTurn):
		sendBadRequest(s, "not your turn")
	case errors.Is(err, battle.ErrEnded):
		sendBadRequest(s, "battle already ended")
	case errors.Is(err, battle.ErrInvalidTarget):
		sendBadRequest(s, "invalid switch target")
	case errors.Is(err, battle.ErrNotParticipant):
		sendBadRequest(s, "player is not in this battle")
	default:
		sendBadRequest(s, err.Error())
	}
}

// broadcast sends the actor's and the opponent's views of one Result. Both
// views are rendered from the same snapshot; a failed delivery is logged
// and never re-applies the mutation.
func (rt *Router) broadcast(s *Session, res *battle.Result, msgType int) {
	s.sendMessage(msgType, viewFor(res, s.player.ID))

	for _, side := range res.Sides {
		if side.PlayerID == s.player.ID {
			continue
		}
		if err := rt.hub.SendToPlayer(side.PlayerID, msgType, viewFor(res, side.PlayerID)); err != nil {
			log.Warn().Err(err).
				Str("player_id", side.PlayerID).
				Str("battle_id", res.BattleID).
				Msg("Failed to deliver battle update")
		}
	}
}

// finish mirrors a snapshot to the live store, and on termination removes
// the battle, clears the mirror, and archives the result.
func (rt *Router) finish(res *battle.Result) {
	ctx := context.Background()

	if !res.Ended {
		rt.mirrorState(res)
		return
	}

	rt.battles.Remove(res.BattleID)

	if err := rt.live.DeleteBattleState(ctx, res.BattleID); err != nil {
		log.Warn().Err(err).Str("battle_id", res.BattleID).Msg("Failed to clear live state")
	}

	loserID := ""
	for _, side := range res.Sides {
		if side.PlayerID != res.WinnerID {
			loserID = side.PlayerID
		}
	}
	if err := rt.archive.RecordResult(ctx, res.BattleID, res.WinnerID, loserID, res.Turns); err != nil {
		log.Error().Err(err).Str("battle_id", res.BattleID).Msg("Failed to archive match result")
	}

	log.Info().
		Str("battle_id", res.BattleID).
		Str("winner_id", res.WinnerID).
		Int("turns", res.Turns).
		Msg("Battle completed")
}

func (rt *Router) mirrorState(res *battle.Result) {
	state, err := json.Marshal(liveStateOf(res))
	if err != nil {
		log.Error().Err(err).Str("battle_id", res.BattleID).Msg("Failed to marshal live state")
		return
	}
	if err := rt.live.SetBattleState(context.Background(), res.BattleID, state); err != nil {
		log.Warn().Err(err).Str("battle_id", res.BattleID).Msg("Failed to mirror live state")
	}
}
