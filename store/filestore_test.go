package store_test

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/onehilltech/gatekeeper-go/store"
	"github.com/onehilltech/gatekeeper-go/token"
	"github.com/stretchr/testify/require"
)

func testUserToken() *token.UserToken {
	return &token.UserToken{
		Username:     "alice",
		AccessToken:  "A",
		RefreshToken: "R",
		Expiration:   time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	fs, err := store.NewFileStore(filepath.Join(t.TempDir(), "token.json"))
	require.NoError(t, err)

	loaded, err := fs.Load(ctx)
	require.NoError(t, err)
	require.Nil(t, loaded)

	saved := testUserToken()
	require.NoError(t, fs.Save(ctx, saved))

	loaded, err = fs.Load(ctx)
	require.NoError(t, err)
	require.True(t, saved.Equal(loaded))
	require.Equal(t, saved.AccessToken, loaded.AccessToken)
	require.True(t, saved.Expiration.Equal(loaded.Expiration))
}

func TestFileStoreDelete(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "token.json")
	fs, err := store.NewFileStore(path)
	require.NoError(t, err)

	require.NoError(t, fs.Save(ctx, testUserToken()))

	// Deleting another user's row leaves the file alone.
	require.NoError(t, fs.Delete(ctx, "bob"))
	loaded, err := fs.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)

	require.NoError(t, fs.Delete(ctx, "alice"))
	loaded, err = fs.Load(ctx)
	require.NoError(t, err)
	require.Nil(t, loaded)

	// Deleting a missing row is a no-op.
	require.NoError(t, fs.Delete(ctx, "alice"))
}

func TestFileStoreEncrypted(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "token.bin")

	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)

	fs, err := store.NewFileStore(path, store.WithEncryptionKey(key))
	require.NoError(t, err)

	saved := testUserToken()
	require.NoError(t, fs.Save(ctx, saved))

	// The file must not contain the token in the clear.
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.False(t, json.Valid(raw))
	require.NotContains(t, string(raw), saved.AccessToken)

	loaded, err := fs.Load(ctx)
	require.NoError(t, err)
	require.True(t, saved.Equal(loaded))
}

func TestFileStoreRejectsShortKey(t *testing.T) {
	_, err := store.NewFileStore("token.bin", store.WithEncryptionKey([]byte("short")))
	require.Error(t, err)
}
