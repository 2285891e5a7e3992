// Package api is the request dispatcher: it issues exactly one HTTP call
// per operation against the Foodies backend and normalizes every outcome
// into a Result. Nothing in this package throws into the caller; all
// failures come back as Results.
package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/foodieshq/foodies-client/session"
)

// MsgServerUnreachable is the one generic message shown for transport and
// parse failures; the original cause is logged, not surfaced.
const MsgServerUnreachable = "Unable to connect to the server. Please check your internet connection."

// Result is the universal contract every caller consumes.
type Result struct {
	Success bool
	Data    json.RawMessage
	Message string
}

// TokenRefresher exchanges the stored refresh token for a new access
// token. Implemented by auth.Refresher.
type TokenRefresher interface {
	Refresh(ctx context.Context) (string, error)
}

// Client dispatches operations. It reads the Session Store for auth
// headers and never writes it, except indirectly through the refresher.
type Client struct {
	baseURL   string
	http      *http.Client
	store     *session.Store
	refresher TokenRefresher
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client (primarily for tests).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// New creates a dispatcher against baseURL. The refresher may be nil, in
// which case a 401 is returned to the caller as a plain failure.
func New(baseURL string, store *session.Store, refresher TokenRefresher, options ...Option) *Client {
	c := &Client{
		baseURL:   baseURL,
		http:      &http.Client{Timeout: 30 * time.Second},
		store:     store,
		refresher: refresher,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Do issues the request. On a 401 carrying the backend's unauthorized
// flag it runs the refresh protocol and retries the original request
// exactly once with the rotated token; a second 401 is a plain failure.
func (c *Client) Do(ctx context.Context, req Request) Result {
	res, unauthorized := c.attempt(ctx, req)
	if !unauthorized {
		return res
	}

	if c.refresher == nil {
		return failure(res.Message)
	}
	if _, err := c.refresher.Refresh(ctx); err != nil {
		log.Err(err).Str("operation", req.Operation().String()).Msg("Token refresh failed")
		return failure(res.Message)
	}

	res, unauthorized = c.attempt(ctx, req)
	if unauthorized {
		return failure(res.Message)
	}
	return res
}

// attempt performs one HTTP exchange. The bool reports a 401 with the
// body's unauthorized flag set, which Do treats as refreshable.
func (c *Client) attempt(ctx context.Context, req Request) (Result, bool) {
	sess, err := c.store.Current()
	if err != nil {
		sess = session.Session{}
	}

	spec, err := req.spec(sess)
	if err != nil {
		log.Err(err).Str("operation", req.Operation().String()).Msg("Failed to build request")
		return failure(MsgServerUnreachable), false
	}

	target := c.baseURL + spec.path
	if len(spec.query) > 0 {
		target += "?" + spec.query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, spec.method, target, spec.body)
	if err != nil {
		log.Err(err).Str("operation", req.Operation().String()).Msg("Failed to build request")
		return failure(MsgServerUnreachable), false
	}

	switch spec.encoding {
	case encodeMultipart:
		httpReq.Header.Set("Content-Type", spec.contentType)
	default:
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if spec.authenticated {
		httpReq.Header.Set("accesstoken", sess.AccessToken)
		httpReq.Header.Set("id", sess.UserID)
	}
	for k, v := range spec.headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		log.Err(err).Str("operation", req.Operation().String()).Msg("Request failed")
		return failure(MsgServerUnreachable), false
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Err(err).Str("operation", req.Operation().String()).Msg("Failed to read response")
		return failure(MsgServerUnreachable), false
	}

	if !json.Valid(body) {
		log.Error().Str("operation", req.Operation().String()).Int("status", resp.StatusCode).Msg("Response is not JSON")
		return failure(MsgServerUnreachable), false
	}

	// Flags live on object bodies; array bodies simply leave them unset.
	var envelope struct {
		Unauthorized bool   `json:"unauthorized"`
		Message      string `json:"message"`
	}
	_ = json.Unmarshal(body, &envelope)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return Result{Success: true, Data: body}, false
	case resp.StatusCode == http.StatusUnauthorized && envelope.Unauthorized:
		return failure(envelope.Message), true
	default:
		return failure(envelope.Message), false
	}
}

func failure(message string) Result {
	return Result{Success: false, Message: message}
}
