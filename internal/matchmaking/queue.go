// Package matchmaking pairs idle players into battles in strict FIFO order.
package matchmaking

import (
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/freeeve/pokebattle/internal/model"
)

var ErrNotIdle = errors.New("player is not idle")

// JoinResult is the outcome of a Join call. Exactly one of the two cases
// holds: Opponent is non-nil (matched) or QueueSize is the player's position
// after insertion.
type JoinResult struct {
	Opponent  *model.Player
	QueueSize int
}

// Queue is the FIFO waiting list. The join-or-match decision is atomic under
// the queue mutex, so two concurrent joins can never both observe an empty
// queue or both dequeue the same opponent.
type Queue struct {
	mu      sync.Mutex
	waiting []*model.Player
}

// New creates an empty Queue.
func New() *Queue {
	return &Queue{}
}

// Join matches the player with the oldest waiting player, or appends them to
// the queue if nobody is waiting. Matching happens the instant the second
// player arrives; there is no batching window.
func (q *Queue) Join(p *model.Player) (JoinResult, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if p.Status() != model.StatusIdle {
		return JoinResult{}, ErrNotIdle
	}

	if len(q.waiting) > 0 {
		opponent := q.waiting[0]
		q.waiting = q.waiting[1:]
		opponent.SetStatus(model.StatusInBattle)
		p.SetStatus(model.StatusInBattle)

		log.Info().
			Str("player1_id", opponent.ID).
			Str("player2_id", p.ID).
			Msg("Players matched")

		return JoinResult{Opponent: opponent}, nil
	}

	q.waiting = append(q.waiting, p)
	p.SetStatus(model.StatusQueued)

	log.Info().
		Str("player_id", p.ID).
		Str("username", p.Username).
		Int("queue_size", len(q.waiting)).
		Msg("Player entered matchmaking queue")

	return JoinResult{QueueSize: len(q.waiting)}, nil
}

// Leave removes a player from the queue if present and returns whether
// anything was removed. Used on disconnect; no-op otherwise.
func (q *Queue) Leave(p *model.Player) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, waiting := range q.waiting {
		if waiting.ID == p.ID {
			q.waiting = append(q.waiting[:i], q.waiting[i+1:]...)
			p.SetStatus(model.StatusIdle)
			log.Info().
				Str("player_id", p.ID).
				Msg("Player removed from matchmaking queue")
			return true
		}
	}
	return false
}

// Size returns the number of waiting players.
func (q *Queue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.waiting)
}
