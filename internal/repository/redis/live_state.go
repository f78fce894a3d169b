package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

func stateKey(battleID string) string { return "battle:" + battleID + ":state" }

// stateTTL bounds how long an orphaned mirror entry can linger if the
// process dies between a battle ending and the delete landing.
const stateTTL = 24 * time.Hour

// SetBattleState stores the latest battle snapshot JSON.
func (c *Client) SetBattleState(ctx context.Context, battleID string, state json.RawMessage) error {
	if err := c.rdb.Set(ctx, stateKey(battleID), []byte(state), stateTTL).Err(); err != nil {
		return fmt.Errorf("set battle state: %w", err)
	}
	return nil
}

// DeleteBattleState removes the mirror entry once a battle ends.
func (c *Client) DeleteBattleState(ctx context.Context, battleID string) error {
	if err := c.rdb.Del(ctx, stateKey(battleID)).Err(); err != nil {
		return fmt.Errorf("delete battle state: %w", err)
	}
	return nil
}
