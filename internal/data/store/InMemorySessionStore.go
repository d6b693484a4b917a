package store

import (
	"context"
	"sync"

	"github.com/elvispulaj/insight-forge/internal/domain/sessionModel"
)

type InMemorySessionStore struct {
	sessionLock *sync.RWMutex
	sessionMap  map[string]sessionModel.Session
}

func InitInMemorySessionStore() *InMemorySessionStore {
	return &InMemorySessionStore{
		sessionLock: new(sync.RWMutex),
		sessionMap:  make(map[string]sessionModel.Session),
	}
}

func (store *InMemorySessionStore) SaveSession(ctx context.Context, session sessionModel.Session) error {
	store.sessionLock.Lock()
	defer store.sessionLock.Unlock()
	store.sessionMap[session.Id] = session
	return nil
}

func (store *InMemorySessionStore) GetSession(ctx context.Context, id string) (sessionModel.Session, bool) {
	store.sessionLock.RLock()
	defer store.sessionLock.RUnlock()
	session, found := store.sessionMap[id]
	return session, found
}

func (store *InMemorySessionStore) DeleteSession(ctx context.Context, id string) {
	store.sessionLock.Lock()
	defer store.sessionLock.Unlock()
	delete(store.sessionMap, id)
}
