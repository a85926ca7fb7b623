package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/huyle/flashdeck/internal/storage/sqlite"
	"github.com/huyle/flashdeck/internal/testutil"
)

type StoreSuite struct {
	suite.Suite
	store *sqlite.Store
}

func (s *StoreSuite) SetupTest() {
	s.store = testutil.NewTestStore(s.T())
}

func (s *StoreSuite) TearDownTest() {
	testutil.MustClose(s.T(), s.store)
}

func (s *StoreSuite) TestGetMissingKey() {
	ctx := context.Background()

	_, ok, err := s.store.Get(ctx, "nope")
	s.Require().NoError(err)
	s.Assert().False(ok)
}

func (s *StoreSuite) TestSetAndGet() {
	ctx := context.Background()

	s.Require().NoError(s.store.Set(ctx, "greeting", `"hello"`))

	value, ok, err := s.store.Get(ctx, "greeting")
	s.Require().NoError(err)
	s.Require().True(ok)
	s.Assert().Equal(`"hello"`, value)
}

func (s *StoreSuite) TestSetOverwrites() {
	ctx := context.Background()

	s.Require().NoError(s.store.Set(ctx, "counter", "1"))
	s.Require().NoError(s.store.Set(ctx, "counter", "2"))

	value, ok, err := s.store.Get(ctx, "counter")
	s.Require().NoError(err)
	s.Require().True(ok)
	s.Assert().Equal("2", value)
}

func (s *StoreSuite) TestDelete() {
	ctx := context.Background()

	s.Require().NoError(s.store.Set(ctx, "temp", "x"))
	s.Require().NoError(s.store.Delete(ctx, "temp"))

	_, ok, err := s.store.Get(ctx, "temp")
	s.Require().NoError(err)
	s.Assert().False(ok)

	// Deleting an absent key is not an error.
	s.Require().NoError(s.store.Delete(ctx, "temp"))
}

func (s *StoreSuite) TestGetMany() {
	ctx := context.Background()

	s.Require().NoError(s.store.Set(ctx, "a", "1"))
	s.Require().NoError(s.store.Set(ctx, "b", "2"))
	s.Require().NoError(s.store.Set(ctx, "c", "3"))

	values, err := s.store.GetMany(ctx, []string{"a", "c", "missing"})
	s.Require().NoError(err)
	s.Assert().Equal(map[string]string{"a": "1", "c": "3"}, values)
}

func (s *StoreSuite) TestKeys() {
	ctx := context.Background()

	s.Require().NoError(s.store.Set(ctx, "b", "2"))
	s.Require().NoError(s.store.Set(ctx, "a", "1"))

	keys, err := s.store.Keys(ctx)
	s.Require().NoError(err)
	s.Assert().Equal([]string{"a", "b"}, keys)
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func TestOpenCreatesFileAndReopens(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "flashdeck.db")

	store, err := sqlite.Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "k", "v"))
	require.NoError(t, store.Close())

	// Reopen: migrations are idempotent and data survives.
	store, err = sqlite.Open(path)
	require.NoError(t, err)
	defer store.Close()

	value, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "v", value)
}
