package repository

import (
	"context"
	"encoding/json"
)

// MatchArchive records finished battles. Write-only: the engine never reads
// results back, so a failed write can cost a history row but never battle
// state.
type MatchArchive interface {
	RecordResult(ctx context.Context, battleID, winnerID, loserID string, turns int) error
}

// LiveStateStore mirrors in-flight battle snapshots for observability. The
// in-memory engine stays authoritative; the mirror is advisory and best
// effort.
type LiveStateStore interface {
	SetBattleState(ctx context.Context, battleID string, state json.RawMessage) error
	DeleteBattleState(ctx context.Context, battleID string) error
}

// NoopArchive is used when no database is configured.
type NoopArchive struct{}

func (NoopArchive) RecordResult(context.Context, string, string, string, int) error { return nil }

// NoopLiveStore is used when no Redis is configured.
type NoopLiveStore struct{}

func (NoopLiveStore) SetBattleState(context.Context, string, json.RawMessage) error { return nil }
func (NoopLiveStore) DeleteBattleState(context.Context, string) error               { return nil }
