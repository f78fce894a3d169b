package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// MatchRepo archives finished battles.
type MatchRepo struct {
	db *sql.DB
}

// NewMatchRepo creates a MatchRepo.
func NewMatchRepo(db *sql.DB) *MatchRepo {
	return &MatchRepo{db: db}
}

// RecordResult inserts one row per finished battle.
func (r *MatchRepo) RecordResult(ctx context.Context, battleID, winnerID, loserID string, turns int) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO match_results (battle_id, winner_id, loser_id, turns, finished_at)
		VALUES ($1, $2, $3, $4, NOW())`,
		battleID, winnerID, loserID, turns)
	if err != nil {
		return fmt.Errorf("record result: %w", err)
	}
	return nil
}
