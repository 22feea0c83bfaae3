package storefake

import (
	"context"
	"sync"

	"github.com/onehilltech/gatekeeper-go/store"
	"github.com/onehilltech/gatekeeper-go/token"
)

var _ store.TokenStore = (*FakeTokenStore)(nil)

// FakeTokenStore is an in-memory TokenStore for tests.
type FakeTokenStore struct {
	lock sync.RWMutex
	row  *token.UserToken

	// LoadErr, SaveErr and DeleteErr, when set, are returned by the
	// corresponding operation.
	LoadErr   error
	SaveErr   error
	DeleteErr error
}

func NewFakeTokenStore() *FakeTokenStore {
	return &FakeTokenStore{}
}

func (f *FakeTokenStore) Load(_ context.Context) (*token.UserToken, error) {
	f.lock.RLock()
	defer f.lock.RUnlock()
	if f.LoadErr != nil {
		return nil, f.LoadErr
	}
	return f.row, nil
}

func (f *FakeTokenStore) Save(_ context.Context, t *token.UserToken) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	if f.SaveErr != nil {
		return f.SaveErr
	}
	f.row = t
	return nil
}

func (f *FakeTokenStore) Delete(_ context.Context, username string) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	if f.row != nil && f.row.Username == username {
		f.row = nil
	}
	return nil
}

// Row returns the currently persisted token, or nil.
func (f *FakeTokenStore) Row() *token.UserToken {
	f.lock.RLock()
	defer f.lock.RUnlock()
	return f.row
}
