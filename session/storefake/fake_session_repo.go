package storefake

import (
	"sync"

	apperrors "github.com/foodieshq/foodies-client/internal/errors"
	"github.com/foodieshq/foodies-client/session"
)

var _ session.Repo = (*FakeSessionRepo)(nil)

// FakeSessionRepo is an in-memory session.Repo for tests.
type FakeSessionRepo struct {
	values map[string]string
	lock   sync.RWMutex
}

func NewFakeSessionRepo() *FakeSessionRepo {
	return &FakeSessionRepo{values: make(map[string]string)}
}

func (r *FakeSessionRepo) Get(key string) (string, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	v, ok := r.values[key]
	if !ok {
		return "", apperrors.ErrNotFound
	}
	return v, nil
}

func (r *FakeSessionRepo) Set(key, value string) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.values[key] = value
	return nil
}

func (r *FakeSessionRepo) Delete(key string) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if _, ok := r.values[key]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.values, key)
	return nil
}

func (r *FakeSessionRepo) Close() error {
	return nil
}

// Len reports how many keys are stored. Test helper.
func (r *FakeSessionRepo) Len() int {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return len(r.values)
}
