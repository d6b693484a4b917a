package store

import (
	"context"
	"errors"
	"sync"

	"github.com/elvispulaj/insight-forge/internal/adapter/utils"
	"github.com/elvispulaj/insight-forge/internal/config"
	"github.com/elvispulaj/insight-forge/internal/domain/jobModel"
)

type InMemoryConversationStore struct {
	convLock *sync.RWMutex
	convMap  map[string][]string
}

func InitConversationStore() *InMemoryConversationStore {
	return &InMemoryConversationStore{
		convLock: new(sync.RWMutex),
		convMap:  make(map[string][]string),
	}
}

func (store *InMemoryConversationStore) ValidateSessionId(ctx context.Context, sessionId string) bool {
	store.convLock.RLock()
	defer store.convLock.RUnlock()
	_, ok := store.convMap[sessionId]
	return ok
}

func (store *InMemoryConversationStore) TrySaveExchange(ctx context.Context, sessionId string, payload jobModel.JobPayload) error {
	store.convLock.Lock()
	defer store.convLock.Unlock()
	if _, ok := store.convMap[sessionId]; !ok {
		return errors.New("invalid session id")
	}
	store.convMap[sessionId] = append(store.convMap[sessionId], formatExchange(payload))
	return nil
}

func (store *InMemoryConversationStore) InitConversation(ctx context.Context, sessionId string) error {
	store.convLock.Lock()
	defer store.convLock.Unlock()
	store.convMap[sessionId] = make([]string, 0)
	return nil
}

func (store *InMemoryConversationStore) ClearConversation(ctx context.Context, sessionId string) error {
	store.convLock.Lock()
	defer store.convLock.Unlock()
	delete(store.convMap, sessionId)
	return nil
}

func (store *InMemoryConversationStore) GetHistory(ctx context.Context, sessionId string) (error, []string) {
	store.convLock.RLock()
	defer store.convLock.RUnlock()
	log := store.convMap[sessionId]
	if len(log) > config.ConversationHistoryDepth {
		log = log[len(log)-config.ConversationHistoryDepth:]
	}
	out := make([]string, len(log))
	copy(out, log)
	return nil, utils.ReverseStringArray(out)
}
