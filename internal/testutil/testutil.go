package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/huyle/flashdeck/internal/storage/sqlite"
)

// NewTestStore creates an in-memory SQLite key/value store with migrations
// applied. The caller owns closing it (see MustClose).
func NewTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	store, err := sqlite.Open("file::memory:")
	require.NoError(t, err)
	return store
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	t.Helper()
	require.NoError(t, closer.Close())
}
