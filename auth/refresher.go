// Package auth implements the session refresh protocol: a single lazy
// attempt to exchange the stored refresh token for a new access token,
// invoked only after a request observed a 401.
package auth

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	apperrors "github.com/foodieshq/foodies-client/internal/errors"
	"github.com/foodieshq/foodies-client/session"
)

// Navigator is the redirect hook fired when the session is beyond saving.
type Navigator interface {
	NavigateToSignIn()
}

// NavigatorFunc adapts a function to the Navigator interface.
type NavigatorFunc func()

func (f NavigatorFunc) NavigateToSignIn() { f() }

// Refresher coordinates token refreshes. Concurrent attempts are
// serialized; a caller that waited behind a completed refresh reuses the
// rotated token instead of spending its own exchange.
type Refresher struct {
	baseURL string
	http    *http.Client
	store   *session.Store
	nav     Navigator

	mu sync.Mutex
}

// Option configures a Refresher.
type Option func(*Refresher)

// WithHTTPClient replaces the underlying HTTP client (primarily for tests).
func WithHTTPClient(h *http.Client) Option {
	return func(r *Refresher) { r.http = h }
}

func NewRefresher(baseURL string, store *session.Store, nav Navigator, options ...Option) *Refresher {
	r := &Refresher{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		store:   store,
		nav:     nav,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// Refresh performs one token exchange and stores the new access token.
// A 401 carrying the backend's logout or signout flag is terminal: the
// session is wiped and the navigator redirects to sign-in. Transport
// failures leave the session untouched. No retry, no backoff.
func (r *Refresher) Refresh(ctx context.Context) (string, error) {
	stale := r.store.AccessToken()

	r.mu.Lock()
	defer r.mu.Unlock()

	// Another caller may have finished a refresh while this one waited on
	// the lock; its token is still fresh.
	if current := r.store.AccessToken(); current != "" && current != stale {
		return current, nil
	}

	sess, err := r.store.Current()
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/auth/refreshtoken", nil)
	if err != nil {
		return "", errors.Wrap(err, "build refresh request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("refreshtoken", sess.RefreshToken)
	req.Header.Set("id", sess.UserID)

	resp, err := r.http.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "refresh token exchange")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "read refresh response")
	}

	var env struct {
		AccessToken string `json:"accessToken"`
		Logout      bool   `json:"logout"`
		Signout     bool   `json:"signout"`
		Message     string `json:"message"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return "", errors.Wrap(err, "decode refresh response")
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		if err := r.store.SetAccessToken(env.AccessToken); err != nil {
			return "", errors.Wrap(err, "store refreshed token")
		}
		log.Debug().Msg("Access token refreshed")
		return env.AccessToken, nil
	case resp.StatusCode == http.StatusUnauthorized && (env.Logout || env.Signout):
		if err := r.store.Clear(); err != nil {
			log.Err(err).Msg("Failed to clear session")
		}
		if r.nav != nil {
			r.nav.NavigateToSignIn()
		}
		log.Warn().Str("message", env.Message).Msg("Session terminated by backend")
		return "", apperrors.ErrSessionExpired
	default:
		return "", apperrors.ErrRefreshFailed
	}
}
