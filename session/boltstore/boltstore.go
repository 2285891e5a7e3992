// Package boltstore persists session state in a bbolt file, the desktop
// analogue of browser local storage. Token values are sealed before they
// touch disk.
package boltstore

import (
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"

	apperrors "github.com/foodieshq/foodies-client/internal/errors"
	"github.com/foodieshq/foodies-client/internal/seal"
	"github.com/foodieshq/foodies-client/session"
)

var _ session.Repo = (*Store)(nil)

var bucketName = []byte("session")

// Token values are encrypted at rest; the remaining keys are plain.
var sealedKeys = map[string]bool{
	session.KeyAccessToken:  true,
	session.KeyRefreshToken: true,
}

type Store struct {
	db     *bolt.DB
	sealer *seal.Sealer
}

// Open creates or opens the session database under dataFolder. The
// passphrase seals token values; it must stay stable across restarts or
// previously stored tokens become unreadable.
func Open(dataFolder, passphrase string) (*Store, error) {
	sealer, err := seal.New(passphrase)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(dataFolder, "session.db")
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "create session bucket")
	}

	return &Store{db: db, sealer: sealer}, nil
}

func (s *Store) Get(key string) (string, error) {
	var value string
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(bucketName).Get([]byte(key))
		if raw == nil {
			return apperrors.ErrNotFound
		}
		value = string(raw)
		return nil
	})
	if err != nil {
		return "", err
	}
	if sealedKeys[key] {
		return s.sealer.Open(value)
	}
	return value, nil
}

func (s *Store) Set(key, value string) error {
	if sealedKeys[key] {
		sealed, err := s.sealer.Seal(value)
		if err != nil {
			return err
		}
		value = sealed
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(key), []byte(value))
	})
}

func (s *Store) Delete(key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Delete([]byte(key))
	})
}

func (s *Store) Close() error {
	return s.db.Close()
}
