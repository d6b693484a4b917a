package store

import (
	"context"
	"encoding/json"

	"github.com/elvispulaj/insight-forge/internal/config"
	"github.com/elvispulaj/insight-forge/internal/data/redisStore"
	"github.com/elvispulaj/insight-forge/internal/domain/sessionModel"
	"github.com/elvispulaj/insight-forge/pkg/logger_i"
)

type RedisSessionStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func GetRedisSessionStore(ctx context.Context) *RedisSessionStore {
	rs := redisStore.GetRedisStore(ctx, config.RedisSessionStore)
	if rs == nil {
		return nil
	}
	return &RedisSessionStore{
		store:  rs,
		logger: logger_i.NewLogger("SessionStore"),
	}
}

func sessionKey(id string) string {
	return "session:" + id
}

func (s *RedisSessionStore) SaveSession(ctx context.Context, session sessionModel.Session) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "session Id", session.Id)
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	err = s.store.Set(ctx, sessionKey(session.Id), data, config.RedisSessionStoreTTL)
	if err == nil {
		log.Debug("Saved session to Redis")
	}
	return err
}

func (s *RedisSessionStore) GetSession(ctx context.Context, id string) (sessionModel.Session, bool) {
	var session sessionModel.Session
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "session Id", id)

	val, err := s.store.Get(ctx, sessionKey(id))
	if s.store.IsNil(err) {
		return session, false
	} else if err != nil {
		log.Error("Error reading session", "error", err)
		return session, false
	}

	if err = json.Unmarshal([]byte(val), &session); err != nil {
		return session, false
	}
	return session, true
}

func (s *RedisSessionStore) DeleteSession(ctx context.Context, id string) {
	if err := s.store.Del(ctx, sessionKey(id)); err != nil {
		s.logger.Error("Error deleting session from Redis", "sessionId", id)
	}
}

func TestSessionStore(store *redisStore.Store) *RedisSessionStore {
	return &RedisSessionStore{
		store:  store,
		logger: logger_i.NewLogger("test session"),
	}
}
