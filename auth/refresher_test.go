package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/foodieshq/foodies-client/auth"
	apperrors "github.com/foodieshq/foodies-client/internal/errors"
	"github.com/foodieshq/foodies-client/session"
	"github.com/foodieshq/foodies-client/session/storefake"
)

func seededStore(t *testing.T) *session.Store {
	t.Helper()
	store := session.NewStore(storefake.NewFakeSessionRepo())
	require.NoError(t, store.Save(session.Session{
		AccessToken:  "access-stale",
		RefreshToken: "refresh-1",
		UserID:       "user-1",
		UserName:     "Jane",
	}))
	return store
}

func TestRefresher_RotatesToken(t *testing.T) {
	store := seededStore(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/refreshtoken", r.URL.Path)
		require.Equal(t, "refresh-1", r.Header.Get("refreshtoken"))
		require.Equal(t, "user-1", r.Header.Get("id"))
		_, _ = w.Write([]byte(`{"accessToken": "access-fresh"}`))
	}))
	defer srv.Close()

	refresher := auth.NewRefresher(srv.URL, store, nil)
	token, err := refresher.Refresh(context.Background())
	require.NoError(t, err)
	require.Equal(t, "access-fresh", token)

	sess, err := store.Current()
	require.NoError(t, err)
	require.Equal(t, "access-fresh", sess.AccessToken)
	require.Equal(t, "refresh-1", sess.RefreshToken)
}

func TestRefresher_TerminalLogout(t *testing.T) {
	store := seededStore(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"logout": true, "message": "Session revoked"}`))
	}))
	defer srv.Close()

	var redirected bool
	nav := auth.NavigatorFunc(func() { redirected = true })

	refresher := auth.NewRefresher(srv.URL, store, nav)
	_, err := refresher.Refresh(context.Background())
	require.ErrorIs(t, err, apperrors.ErrSessionExpired)
	require.True(t, redirected)

	_, err = store.Current()
	require.ErrorIs(t, err, apperrors.ErrNoSession)
}

func TestRefresher_SignoutFlagIsAlsoTerminal(t *testing.T) {
	store := seededStore(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"signout": true}`))
	}))
	defer srv.Close()

	refresher := auth.NewRefresher(srv.URL, store, nil)
	_, err := refresher.Refresh(context.Background())
	require.ErrorIs(t, err, apperrors.ErrSessionExpired)
	require.False(t, store.Authenticated())
}

func TestRefresher_PlainRejectionKeepsSession(t *testing.T) {
	store := seededStore(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message": "Try again later"}`))
	}))
	defer srv.Close()

	refresher := auth.NewRefresher(srv.URL, store, nil)
	_, err := refresher.Refresh(context.Background())
	require.ErrorIs(t, err, apperrors.ErrRefreshFailed)

	// Not terminal: the session stays as it was.
	sess, err := store.Current()
	require.NoError(t, err)
	require.Equal(t, "access-stale", sess.AccessToken)
}

func TestRefresher_TransportFailureKeepsSession(t *testing.T) {
	store := seededStore(t)

	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	refresher := auth.NewRefresher(srv.URL, store, nil)
	_, err := refresher.Refresh(context.Background())
	require.Error(t, err)

	sess, err := store.Current()
	require.NoError(t, err)
	require.Equal(t, "access-stale", sess.AccessToken)
}

func TestRefresher_NoSession(t *testing.T) {
	store := session.NewStore(storefake.NewFakeSessionRepo())

	refresher := auth.NewRefresher("http://unused", store, nil)
	_, err := refresher.Refresh(context.Background())
	require.ErrorIs(t, err, apperrors.ErrNoSession)
}

func TestRefresher_ConcurrentCallersShareOneExchange(t *testing.T) {
	store := seededStore(t)

	var exchanges int32
	entered := make(chan struct{})
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&exchanges, 1) == 1 {
			close(entered)
			<-release
		}
		_, _ = w.Write([]byte(`{"accessToken": "access-fresh"}`))
	}))
	defer srv.Close()

	refresher := auth.NewRefresher(srv.URL, store, nil)

	var wg sync.WaitGroup
	tokens := make([]string, 2)
	errs := make([]error, 2)
	refresh := func(i int) {
		defer wg.Done()
		tokens[i], errs[i] = refresher.Refresh(context.Background())
	}

	wg.Add(1)
	go refresh(0)
	<-entered

	// The second caller observes the stale token and queues on the lock
	// while the first exchange is still in flight.
	wg.Add(1)
	go refresh(1)
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	for i := range tokens {
		require.NoError(t, errs[i])
		require.Equal(t, "access-fresh", tokens[i])
	}
	require.Equal(t, int32(1), atomic.LoadInt32(&exchanges))
}
