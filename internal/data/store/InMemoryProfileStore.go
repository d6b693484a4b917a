package store

import (
	"context"
	"sync"

	"github.com/elvispulaj/insight-forge/internal/domain/sessionModel"
)

type InMemoryProfileStore struct {
	profileLock *sync.RWMutex
	profileMap  map[string]sessionModel.Profile
}

func InitInMemoryProfileStore() *InMemoryProfileStore {
	return &InMemoryProfileStore{
		profileLock: new(sync.RWMutex),
		profileMap:  make(map[string]sessionModel.Profile),
	}
}

func (store *InMemoryProfileStore) SaveProfile(ctx context.Context, profile sessionModel.Profile) error {
	store.profileLock.Lock()
	defer store.profileLock.Unlock()
	store.profileMap[profile.Username] = profile
	return nil
}

func (store *InMemoryProfileStore) GetProfile(ctx context.Context, username string) (sessionModel.Profile, bool) {
	store.profileLock.RLock()
	defer store.profileLock.RUnlock()
	profile, found := store.profileMap[username]
	return profile, found
}
