package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/onehilltech/gatekeeper-go/store"
	"github.com/onehilltech/gatekeeper-go/token"
	"github.com/stretchr/testify/require"
)

func newSQLiteStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "gatekeeper.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t)

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	require.Nil(t, loaded)

	saved := testUserToken()
	require.NoError(t, s.Save(ctx, saved))

	loaded, err = s.Load(ctx)
	require.NoError(t, err)
	require.True(t, saved.Equal(loaded))
	require.Equal(t, saved.AccessToken, loaded.AccessToken)
	require.True(t, saved.Expiration.Equal(loaded.Expiration))
}

func TestSQLiteStoreSingleRow(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t)

	require.NoError(t, s.Save(ctx, testUserToken()))
	require.NoError(t, s.Save(ctx, &token.UserToken{Username: "bob", AccessToken: "B"}))

	// Saving a second token replaces the row rather than adding one.
	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "bob", loaded.Username)
	require.False(t, loaded.CanRefresh())
}

func TestSQLiteStoreDelete(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t)

	require.NoError(t, s.Save(ctx, testUserToken()))

	require.NoError(t, s.Delete(ctx, "bob"))
	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)

	require.NoError(t, s.Delete(ctx, "alice"))
	loaded, err = s.Load(ctx)
	require.NoError(t, err)
	require.Nil(t, loaded)

	require.NoError(t, s.Delete(ctx, "alice"))
}
