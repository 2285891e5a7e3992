package session_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	apperrors "github.com/foodieshq/foodies-client/internal/errors"
	"github.com/foodieshq/foodies-client/session"
	"github.com/foodieshq/foodies-client/session/storefake"
)

func testSession() session.Session {
	return session.Session{
		AccessToken:  "access-123",
		RefreshToken: "refresh-456",
		UserID:       "user-1",
		UserName:     "Jane",
	}
}

func TestStore_SaveAndCurrent(t *testing.T) {
	store := session.NewStore(storefake.NewFakeSessionRepo())

	t.Run("no session initially", func(t *testing.T) {
		_, err := store.Current()
		require.ErrorIs(t, err, apperrors.ErrNoSession)
		require.False(t, store.Authenticated())
	})

	t.Run("save then read back", func(t *testing.T) {
		require.NoError(t, store.Save(testSession()))
		got, err := store.Current()
		require.NoError(t, err)
		require.Equal(t, testSession(), got)
		require.True(t, store.Authenticated())
	})

	t.Run("save replaces wholesale", func(t *testing.T) {
		replacement := session.Session{
			AccessToken:  "a2",
			RefreshToken: "r2",
			UserID:       "user-2",
			UserName:     "Joe",
		}
		require.NoError(t, store.Save(replacement))
		got, err := store.Current()
		require.NoError(t, err)
		require.Equal(t, replacement, got)
	})
}

func TestStore_SetAccessToken(t *testing.T) {
	store := session.NewStore(storefake.NewFakeSessionRepo())
	require.NoError(t, store.Save(testSession()))

	require.NoError(t, store.SetAccessToken("rotated"))

	got, err := store.Current()
	require.NoError(t, err)
	require.Equal(t, "rotated", got.AccessToken)
	require.Equal(t, "refresh-456", got.RefreshToken)
}

func TestStore_Clear(t *testing.T) {
	repo := storefake.NewFakeSessionRepo()
	store := session.NewStore(repo)
	require.NoError(t, store.Save(testSession()))
	require.NoError(t, store.BeginSignupTxn("txn-1"))

	require.NoError(t, store.Clear())

	_, err := store.Current()
	require.ErrorIs(t, err, apperrors.ErrNoSession)
	require.Empty(t, store.AccessToken())

	// Clear destroys the session only; the pending transaction survives.
	pending, err := store.PendingTxn()
	require.NoError(t, err)
	require.Equal(t, "txn-1", pending.TxnID)

	// Clearing an already-empty store is not an error.
	require.NoError(t, store.Clear())
}

func TestStore_SignupTxn(t *testing.T) {
	store := session.NewStore(storefake.NewFakeSessionRepo())

	t.Run("absent by default", func(t *testing.T) {
		_, err := store.PendingTxn()
		require.ErrorIs(t, err, apperrors.ErrNoPendingSignup)
	})

	t.Run("begin and read", func(t *testing.T) {
		require.NoError(t, store.BeginSignupTxn("txn-9"))
		pending, err := store.PendingTxn()
		require.NoError(t, err)
		require.Equal(t, session.PendingSignup{TxnID: "txn-9", EmailPending: true}, pending)
	})

	t.Run("clear consumes it", func(t *testing.T) {
		require.NoError(t, store.ClearSignupTxn())
		_, err := store.PendingTxn()
		require.ErrorIs(t, err, apperrors.ErrNoPendingSignup)
	})
}

func TestStore_Flags(t *testing.T) {
	store := session.NewStore(storefake.NewFakeSessionRepo())

	require.Empty(t, store.Flag(session.KeyLeavingOTP))
	require.NoError(t, store.SetFlag(session.KeyLeavingOTP, "1"))
	require.Equal(t, "1", store.Flag(session.KeyLeavingOTP))
	require.NoError(t, store.ClearFlag(session.KeyLeavingOTP))
	require.Empty(t, store.Flag(session.KeyLeavingOTP))
}

func TestStore_TokenExpiry(t *testing.T) {
	store := session.NewStore(storefake.NewFakeSessionRepo())

	t.Run("no session", func(t *testing.T) {
		_, err := store.TokenExpiry()
		require.ErrorIs(t, err, apperrors.ErrNoSession)
	})

	t.Run("opaque token", func(t *testing.T) {
		sess := testSession()
		require.NoError(t, store.Save(sess))
		_, err := store.TokenExpiry()
		require.ErrorIs(t, err, apperrors.ErrMalformedToken)
	})

	t.Run("jwt with exp claim", func(t *testing.T) {
		exp := time.Now().Add(15 * time.Minute).Truncate(time.Second)
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": "user-1",
			"exp": exp.Unix(),
		})
		signed, err := token.SignedString([]byte("test-key"))
		require.NoError(t, err)

		sess := testSession()
		sess.AccessToken = signed
		require.NoError(t, store.Save(sess))

		got, err := store.TokenExpiry()
		require.NoError(t, err)
		require.True(t, got.Equal(exp))
	})

	t.Run("jwt without exp claim", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "user-1"})
		signed, err := token.SignedString([]byte("test-key"))
		require.NoError(t, err)

		sess := testSession()
		sess.AccessToken = signed
		require.NoError(t, store.Save(sess))

		_, err = store.TokenExpiry()
		require.ErrorIs(t, err, apperrors.ErrNoExpiryClaim)
	})
}
