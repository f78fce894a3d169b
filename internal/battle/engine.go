// Package battle implements the per-battle turn state machine. Each Battle
// serializes its two participants' requests behind one mutex; every mutation
// returns a single deep-copied Result from which both players' views are
// rendered.
package battle

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/freeeve/pokebattle/internal/model"
)

var (
	ErrNotYourTurn    = errors.New("not your turn")
	ErrEnded          = errors.New("battle already ended")
	ErrNotParticipant = errors.New("player is not in this battle")
	ErrInvalidTarget  = errors.New("invalid switch target")
)

// side is one player's half of the battle state.
type side struct {
	player *model.Player
	active int // 1-based position of the front-line creature
}

// Battle is one paired match running to completion.
type Battle struct {
	mu     sync.Mutex
	id     string
	sides  [2]side // index 0 acted first (the previously-queued player)
	turn   int     // index of the player who may act
	turns  int     // completed turn-consuming actions
	ended  bool
	winner string // player id, set in the same transition as ended
}

// New creates a battle between two players. The first player (the one who
// was already waiting in the queue) owns the opening turn. Both sides start
// with their position-1 creature active.
func New(id string, first, second *model.Player) *Battle {
	return &Battle{
		id: id,
		sides: [2]side{
			{player: first, active: 1},
			{player: second, active: 1},
		},
	}
}

// ID returns the battle id.
func (b *Battle) ID() string {
	return b.id
}

// SideState is a copy of one player's half of a Result snapshot.
type SideState struct {
	PlayerID       string
	Username       string
	ActivePosition int
	Team           []model.Creature
}

// Result is the canonical snapshot emitted by every engine operation. It is
// fully detached from live state, so it can be rendered and sent after the
// battle lock is released.
type Result struct {
	BattleID string
	Message  string
	ActorID  string
	Sides    [2]SideState
	Ended    bool
	WinnerID string
	Turns    int
}

// Attack resolves the caller's active creature against the opponent's.
// Damage is max(1, attack-defense), clamped at the defender's remaining HP.
// A faint auto-advances the defender to the lowest surviving position; if
// none survives the battle ends with the attacker as winner. Otherwise the
// turn passes.
func (b *Battle) Attack(playerID string, moveID int) (*Result, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	idx, err := b.sideOf(playerID)
	if err != nil {
		return nil, err
	}
	if b.ended {
		return nil, ErrEnded
	}
	if b.turn != idx {
		return nil, ErrNotYourTurn
	}

	opp := 1 - idx
	attacker := b.sides[idx].player.CreatureAt(b.sides[idx].active)
	defender := b.sides[opp].player.CreatureAt(b.sides[opp].active)

	dmg := damage(attacker, defender)
	if dmg > defender.CurrentHP {
		dmg = defender.CurrentHP
	}
	defender.CurrentHP -= dmg

	msg := fmt.Sprintf("%s dealt %d damage to %s (%d HP left)",
		attacker.Name, dmg, defender.Name, defender.CurrentHP)

	if defender.CurrentHP == 0 {
		defender.IsFainted = true
		msg += fmt.Sprintf(". %s fainted", defender.Name)

		if next := lowestSurviving(b.sides[opp].player.Team); next > 0 {
			b.sides[opp].active = next
		} else {
			b.endLocked(idx)
			msg += fmt.Sprintf(". %s wins the battle", b.sides[idx].player.Username)
		}
	}

	if !b.ended {
		b.turn = opp
	}
	b.turns++

	log.Info().
		Str("battle_id", b.id).
		Str("attacker_id", playerID).
		Int("move_id", moveID).
		Int("damage", dmg).
		Bool("fainted", defender.IsFainted).
		Bool("battle_ended", b.ended).
		Msg("Attack resolved")

	return b.resultLocked(msg, playerID), nil
}

// Switch changes the caller's active creature to the given position. The
// target must exist, be alive, and differ from the current active creature.
// Switching consumes the turn exactly like an attack.
func (b *Battle) Switch(playerID string, position int) (*Result, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	idx, err := b.sideOf(playerID)
	if err != nil {
		return nil, err
	}
	if b.ended {
		return nil, ErrEnded
	}
	if b.turn != idx {
		return nil, ErrNotYourTurn
	}

	target := b.sides[idx].player.CreatureAt(position)
	if target == nil || target.IsFainted || position == b.sides[idx].active {
		return nil, ErrInvalidTarget
	}

	b.sides[idx].active = position
	b.turn = 1 - idx
	b.turns++

	msg := fmt.Sprintf("%s switched to %s", b.sides[idx].player.Username, target.Name)

	log.Info().
		Str("battle_id", b.id).
		Str("player_id", playerID).
		Int("position", position).
		Msg("Creature switched")

	return b.resultLocked(msg, playerID), nil
}

// Surrender ends the battle immediately with the other player as winner.
// Legal for either participant regardless of turn.
func (b *Battle) Surrender(playerID string) (*Result, error) {
	return b.concede(playerID, "surrendered")
}

// Forfeit is the disconnect path: same outcome as Surrender, distinct
// message for the remaining player.
func (b *Battle) Forfeit(playerID string) (*Result, error) {
	return b.concede(playerID, "disconnected")
}

func (b *Battle) concede(playerID, verb string) (*Result, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	idx, err := b.sideOf(playerID)
	if err != nil {
		return nil, err
	}
	if b.ended {
		return nil, ErrEnded
	}

	winner := 1 - idx
	b.endLocked(winner)

	msg := fmt.Sprintf("%s %s. %s wins the battle",
		b.sides[idx].player.Username, verb, b.sides[winner].player.Username)

	log.Info().
		Str("battle_id", b.id).
		Str("player_id", playerID).
		Str("winner_id", b.winner).
		Msg("Battle conceded")

	return b.resultLocked(msg, playerID), nil
}

// Snapshot returns the current state without consuming a turn or mutating
// anything. Available to either participant at any time.
func (b *Battle) Snapshot(playerID string) (*Result, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, err := b.sideOf(playerID); err != nil {
		return nil, err
	}

	msg := fmt.Sprintf("It is %s's turn", b.sides[b.turn].player.Username)
	if b.ended {
		msg = "Battle has ended"
	}
	return b.resultLocked(msg, playerID), nil
}

// endLocked performs the single ended=true transition. Winner and loser
// both return to idle; re-queueing before the termination messages land is
// harmless because the battle is already terminal.
func (b *Battle) endLocked(winnerIdx int) {
	b.ended = true
	b.winner = b.sides[winnerIdx].player.ID
	b.sides[0].player.SetStatus(model.StatusIdle)
	b.sides[1].player.SetStatus(model.StatusIdle)
}

func (b *Battle) sideOf(playerID string) (int, error) {
	for i := range b.sides {
		if b.sides[i].player.ID == playerID {
			return i, nil
		}
	}
	return 0, ErrNotParticipant
}

func (b *Battle) resultLocked(msg, actorID string) *Result {
	res := &Result{
		BattleID: b.id,
		Message:  msg,
		ActorID:  actorID,
		Ended:    b.ended,
		WinnerID: b.winner,
		Turns:    b.turns,
	}
	for i := range b.sides {
		s := b.sides[i]
		team := make([]model.Creature, len(s.player.Team))
		for j, c := range s.player.Team {
			team[j] = *c
		}
		res.Sides[i] = SideState{
			PlayerID:       s.player.ID,
			Username:       s.player.Username,
			ActivePosition: s.active,
			Team:           team,
		}
	}
	return res
}

// damage is the attack resolution policy: flat attack minus defense with a
// floor of 1. Kept as its own function so the policy stays replaceable.
func damage(attacker, defender *model.Creature) int {
	d := attacker.Attack - defender.Defense
	if d < 1 {
		d = 1
	}
	return d
}

// lowestSurviving returns the lowest 1-based position with HP remaining,
// or 0 if the whole team has fainted.
func lowestSurviving(team []*model.Creature) int {
	best := 0
	for _, c := range team {
		if c.CurrentHP > 0 && (best == 0 || c.Position < best) {
			best = c.Position
		}
	}
	return best
}
