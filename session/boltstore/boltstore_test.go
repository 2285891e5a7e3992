package boltstore_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/foodieshq/foodies-client/internal/errors"
	"github.com/foodieshq/foodies-client/session"
	"github.com/foodieshq/foodies-client/session/boltstore"
)

func TestBoltStore_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := boltstore.Open(dir, "passphrase")
	require.NoError(t, err)
	defer store.Close()

	t.Run("missing key", func(t *testing.T) {
		_, err := store.Get(session.KeyUserID)
		require.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("set and get", func(t *testing.T) {
		require.NoError(t, store.Set(session.KeyUserID, "user-1"))
		got, err := store.Get(session.KeyUserID)
		require.NoError(t, err)
		require.Equal(t, "user-1", got)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.Delete(session.KeyUserID))
		_, err := store.Get(session.KeyUserID)
		require.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestBoltStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	store, err := boltstore.Open(dir, "passphrase")
	require.NoError(t, err)
	require.NoError(t, store.Set(session.KeyAccessToken, "token-1"))
	require.NoError(t, store.Set(session.KeyUserName, "Jane"))
	require.NoError(t, store.Close())

	reopened, err := boltstore.Open(dir, "passphrase")
	require.NoError(t, err)
	defer reopened.Close()

	token, err := reopened.Get(session.KeyAccessToken)
	require.NoError(t, err)
	require.Equal(t, "token-1", token)

	name, err := reopened.Get(session.KeyUserName)
	require.NoError(t, err)
	require.Equal(t, "Jane", name)
}

func TestBoltStore_TokensSealedAtRest(t *testing.T) {
	dir := t.TempDir()

	store, err := boltstore.Open(dir, "passphrase")
	require.NoError(t, err)
	require.NoError(t, store.Set(session.KeyAccessToken, "super-secret-token"))
	require.NoError(t, store.Close())

	raw, err := os.ReadFile(filepath.Join(dir, "session.db"))
	require.NoError(t, err)
	require.False(t, strings.Contains(string(raw), "super-secret-token"))
}

func TestBoltStore_WrongPassphrase(t *testing.T) {
	dir := t.TempDir()

	store, err := boltstore.Open(dir, "passphrase")
	require.NoError(t, err)
	require.NoError(t, store.Set(session.KeyAccessToken, "token-1"))
	require.NoError(t, store.Close())

	reopened, err := boltstore.Open(dir, "another-passphrase")
	require.NoError(t, err)
	defer reopened.Close()

	_, err = reopened.Get(session.KeyAccessToken)
	require.ErrorIs(t, err, apperrors.ErrWrongPassphrase)
}
