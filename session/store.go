package session

import (
	"sync"

	"github.com/pkg/errors"

	apperrors "github.com/foodieshq/foodies-client/internal/errors"
)

// Store is the session service used by every other component. It fronts a
// Repo with an in-memory cache so repeated reads during a request do not
// hit storage.
type Store struct {
	repo Repo

	mu    sync.RWMutex
	cache map[string]string
}

func NewStore(repo Repo) *Store {
	return &Store{
		repo:  repo,
		cache: make(map[string]string),
	}
}

func (s *Store) get(key string) (string, error) {
	s.mu.RLock()
	if v, ok := s.cache[key]; ok {
		s.mu.RUnlock()
		return v, nil
	}
	s.mu.RUnlock()

	v, err := s.repo.Get(key)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.cache[key] = v
	s.mu.Unlock()
	return v, nil
}

func (s *Store) set(key, value string) error {
	if err := s.repo.Set(key, value); err != nil {
		return errors.Wrapf(err, "set %q", key)
	}
	s.mu.Lock()
	s.cache[key] = value
	s.mu.Unlock()
	return nil
}

func (s *Store) delete(key string) error {
	if err := s.repo.Delete(key); err != nil && !apperrors.Is(err, apperrors.ErrNotFound) {
		return errors.Wrapf(err, "delete %q", key)
	}
	s.mu.Lock()
	delete(s.cache, key)
	s.mu.Unlock()
	return nil
}

// Save persists a complete session, replacing any previous one.
func (s *Store) Save(sess Session) error {
	pairs := map[string]string{
		KeyAccessToken:  sess.AccessToken,
		KeyRefreshToken: sess.RefreshToken,
		KeyUserID:       sess.UserID,
		KeyUserName:     sess.UserName,
	}
	for key, value := range pairs {
		if err := s.set(key, value); err != nil {
			return err
		}
	}
	return nil
}

// Current returns the stored session, or ErrNoSession when any of its
// four values is absent.
func (s *Store) Current() (Session, error) {
	var sess Session
	for key, dst := range map[string]*string{
		KeyAccessToken:  &sess.AccessToken,
		KeyRefreshToken: &sess.RefreshToken,
		KeyUserID:       &sess.UserID,
		KeyUserName:     &sess.UserName,
	} {
		v, err := s.get(key)
		if err != nil {
			if apperrors.Is(err, apperrors.ErrNotFound) {
				return Session{}, apperrors.ErrNoSession
			}
			return Session{}, err
		}
		*dst = v
	}
	return sess, nil
}

// SetAccessToken replaces the access token in place. Used by the refresh
// coordinator after a successful token exchange.
func (s *Store) SetAccessToken(token string) error {
	return s.set(KeyAccessToken, token)
}

// AccessToken returns the stored access token, or "" when absent.
func (s *Store) AccessToken() string {
	v, err := s.get(KeyAccessToken)
	if err != nil {
		return ""
	}
	return v
}

// Authenticated reports whether an access token is stored.
func (s *Store) Authenticated() bool {
	return s.AccessToken() != ""
}

// Clear destroys the session: access token, refresh token, user id and
// display name. Transaction and flag keys are left alone.
func (s *Store) Clear() error {
	for _, key := range []string{KeyAccessToken, KeyRefreshToken, KeyUserID, KeyUserName} {
		if err := s.delete(key); err != nil {
			return err
		}
	}
	return nil
}

// BeginSignupTxn records a pending signup or password-reset transaction.
func (s *Store) BeginSignupTxn(txnID string) error {
	if err := s.set(KeyTxnID, txnID); err != nil {
		return err
	}
	return s.set(KeyEmailPending, "true")
}

// PendingTxn returns the pending transaction, or ErrNoPendingSignup.
func (s *Store) PendingTxn() (PendingSignup, error) {
	txnID, err := s.get(KeyTxnID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return PendingSignup{}, apperrors.ErrNoPendingSignup
		}
		return PendingSignup{}, err
	}
	pending, _ := s.get(KeyEmailPending)
	return PendingSignup{TxnID: txnID, EmailPending: pending == "true"}, nil
}

// ClearSignupTxn consumes the pending transaction. Called on OTP verify,
// password-reset completion, or when the user returns to sign-in.
func (s *Store) ClearSignupTxn() error {
	if err := s.delete(KeyTxnID); err != nil {
		return err
	}
	return s.delete(KeyEmailPending)
}

// SetFlag stores a transient navigation guard value.
func (s *Store) SetFlag(key, value string) error {
	return s.set(key, value)
}

// Flag returns a navigation guard value, or "" when unset.
func (s *Store) Flag(key string) string {
	v, err := s.get(key)
	if err != nil {
		return ""
	}
	return v
}

// ClearFlag removes a navigation guard value.
func (s *Store) ClearFlag(key string) error {
	return s.delete(key)
}

// Close releases the underlying storage.
func (s *Store) Close() error {
	return s.repo.Close()
}
