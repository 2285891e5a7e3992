package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/foodieshq/foodies-client/internal/errors"
)

// TokenExpiry reports when the stored access token expires, by parsing
// its exp claim without verifying the signature. Verification is the
// backend's job; the client only needs the timestamp for display and
// diagnostics. Refreshing stays lazy and 401-driven regardless.
func (s *Store) TokenExpiry() (time.Time, error) {
	token := s.AccessToken()
	if token == "" {
		return time.Time{}, apperrors.ErrNoSession
	}

	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, apperrors.ErrMalformedToken
	}

	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, apperrors.ErrNoExpiryClaim
	}
	return exp.Time, nil
}
