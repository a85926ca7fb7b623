package main

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huyle/flashdeck/internal/deck"
	apperrors "github.com/huyle/flashdeck/internal/errors"
	"github.com/huyle/flashdeck/internal/progress"
	"github.com/huyle/flashdeck/internal/storage"
)

func newTestApp(t *testing.T) (context.Context, *storage.Adapter, *deck.Store, *progress.Tracker) {
	t.Helper()
	ctx := context.Background()
	adapter := storage.NewAdapter(storage.NewMemoryStore())
	return ctx, adapter, deck.NewStore(ctx, adapter), progress.NewTracker(ctx, adapter)
}

func TestRunReportsUnknownCardID(t *testing.T) {
	ctx, adapter, cards, tracker := newTestApp(t)

	for _, args := range [][]string{
		{"update", "12345", "front", "back", "category"},
		{"delete", "12345"},
		{"learned", "12345"},
	} {
		err := run(ctx, args, adapter, cards, tracker)
		require.Error(t, err, "command %q", args[0])

		var appErr *apperrors.AppError
		require.True(t, errors.As(err, &appErr), "command %q", args[0])
		assert.Equal(t, apperrors.ErrCodeNotFound, appErr.Code)
	}
	assert.Zero(t, cards.Len())
}

func TestRunCardCommands(t *testing.T) {
	ctx, adapter, cards, tracker := newTestApp(t)

	require.NoError(t, run(ctx, []string{"add", "hola", "hello", "spanish"}, adapter, cards, tracker))
	require.Equal(t, 1, cards.Len())
	id := strconv.FormatInt(cards.Cards()[0].ID, 10)

	require.NoError(t, run(ctx, []string{"update", id, "adios", "goodbye", "spanish"}, adapter, cards, tracker))
	require.NoError(t, run(ctx, []string{"learned", id}, adapter, cards, tracker))

	got := cards.Cards()[0]
	assert.Equal(t, "adios", got.Front)
	assert.True(t, got.Learned)

	require.NoError(t, run(ctx, []string{"delete", id}, adapter, cards, tracker))
	assert.Zero(t, cards.Len())
}
