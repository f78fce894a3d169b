//go:build integration

package redis

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"

	"github.com/freeeve/pokebattle/internal/testutil"
)

func TestSetAndDeleteBattleState(t *testing.T) {
	rdb := testutil.SetupRedis(t)
	testutil.CleanupRedis(t, rdb)
	client := NewClientFromPool(rdb)
	ctx := context.Background()

	battleID := uuid.NewString()
	state := json.RawMessage(`{"battle_id":"` + battleID + `","turns":3}`)

	if err := client.SetBattleState(ctx, battleID, state); err != nil {
		t.Fatalf("set battle state: %v", err)
	}

	stored, err := rdb.Get(ctx, stateKey(battleID)).Bytes()
	if err != nil {
		t.Fatalf("read back state: %v", err)
	}
	if string(stored) != string(state) {
		t.Errorf("stored state mismatch: %s", stored)
	}

	ttl, err := rdb.TTL(ctx, stateKey(battleID)).Result()
	if err != nil {
		t.Fatalf("ttl: %v", err)
	}
	if ttl <= 0 || ttl > stateTTL {
		t.Errorf("expected bounded TTL, got %v", ttl)
	}

	if err := client.SetBattleState(ctx, battleID, json.RawMessage(`{"turns":4}`)); err != nil {
		t.Fatalf("overwrite state: %v", err)
	}

	if err := client.DeleteBattleState(ctx, battleID); err != nil {
		t.Fatalf("delete battle state: %v", err)
	}
	if _, err := rdb.Get(ctx, stateKey(battleID)).Result(); err == nil {
		t.Error("state should be gone after delete")
	}
}

func TestDeleteMissingBattleState(t *testing.T) {
	rdb := testutil.SetupRedis(t)
	testutil.CleanupRedis(t, rdb)
	client := NewClientFromPool(rdb)

	if err := client.DeleteBattleState(context.Background(), uuid.NewString()); err != nil {
		t.Errorf("delete of missing state should be a no-op, got %v", err)
	}
}
