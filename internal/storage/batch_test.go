package storage_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huyle/flashdeck/internal/storage"
)

// flakyStore wraps a MemoryStore and fails writes while broken is set.
type flakyStore struct {
	*storage.MemoryStore
	broken bool
}

func (f *flakyStore) Set(ctx context.Context, key, value string) error {
	if f.broken {
		return errors.New("disk on fire")
	}
	return f.MemoryStore.Set(ctx, key, value)
}

func (f *flakyStore) Delete(ctx context.Context, key string) error {
	if f.broken {
		return errors.New("disk on fire")
	}
	return f.MemoryStore.Delete(ctx, key)
}

func TestBatchExecuteAppliesInOrder(t *testing.T) {
	ctx := context.Background()
	adapter := storage.NewAdapter(storage.NewMemoryStore())

	batch := adapter.Batch().
		Set(storage.KeyDailyGoal, 5).
		Set(storage.KeyDailyGoal, 8).
		Set(storage.KeyStudyStreak, 2).
		Remove(storage.KeyStudyStreak)

	require.Equal(t, 4, batch.Len())
	require.True(t, batch.Execute(ctx))
	assert.Zero(t, batch.Len(), "queue clears on success")

	var goal int
	require.True(t, adapter.GetItem(ctx, storage.KeyDailyGoal, &goal))
	assert.Equal(t, 8, goal, "later set wins")

	var streak int
	assert.False(t, adapter.GetItem(ctx, storage.KeyStudyStreak, &streak), "remove after set leaves no value")
}

func TestBatchExecuteKeepsRemainingOnFailure(t *testing.T) {
	ctx := context.Background()
	store := &flakyStore{MemoryStore: storage.NewMemoryStore()}
	adapter := storage.NewAdapter(store)

	batch := adapter.Batch().
		Set(storage.KeyDailyGoal, 5).
		Set(storage.KeyStudyStreak, 2).
		Set(storage.KeyLastStudyDate, "2026-08-31")

	// First op lands, then the store breaks.
	require.True(t, adapter.SetItem(ctx, "warmup", "ok")) // sanity: store works
	store.broken = true
	// Nothing applied while broken; the whole queue survives.
	require.False(t, batch.Execute(ctx))
	assert.Equal(t, 3, batch.Len())

	// After recovery the same batch applies cleanly.
	store.broken = false
	require.True(t, batch.Execute(ctx))
	assert.Zero(t, batch.Len())

	var goal, streak int
	var last string
	require.True(t, adapter.GetItem(ctx, storage.KeyDailyGoal, &goal))
	require.True(t, adapter.GetItem(ctx, storage.KeyStudyStreak, &streak))
	require.True(t, adapter.GetItem(ctx, storage.KeyLastStudyDate, &last))
	assert.Equal(t, 5, goal)
	assert.Equal(t, 2, streak)
	assert.Equal(t, "2026-08-31", last)
}

func TestBatchPartialFailureDropsOnlyApplied(t *testing.T) {
	ctx := context.Background()
	store := &flakyStore{MemoryStore: storage.NewMemoryStore()}
	adapter := storage.NewAdapter(store)

	applied := 0
	cancel := adapter.Watch(storage.KeyDailyGoal, func([]byte) { applied++ })
	defer cancel()

	batch := adapter.Batch().
		Set(storage.KeyDailyGoal, 5).
		Set(storage.KeyStudyStreak, 2)

	// Break the store between the two operations by watching the first key.
	cancel2 := adapter.Watch(storage.KeyDailyGoal, func([]byte) { store.broken = true })
	defer cancel2()

	require.False(t, batch.Execute(ctx))
	assert.Equal(t, 1, batch.Len(), "only the applied op leaves the queue")
	assert.Equal(t, 1, applied)

	store.broken = false
	require.True(t, batch.Execute(ctx))

	var streak int
	require.True(t, adapter.GetItem(ctx, storage.KeyStudyStreak, &streak))
	assert.Equal(t, 2, streak)
}
