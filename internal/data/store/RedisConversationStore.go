package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/elvispulaj/insight-forge/internal/adapter/utils"
	"github.com/elvispulaj/insight-forge/internal/config"
	"github.com/elvispulaj/insight-forge/internal/data/redisStore"
	"github.com/elvispulaj/insight-forge/internal/domain/jobModel"
	"github.com/elvispulaj/insight-forge/pkg/logger_i"
)

// RedisConversationStore keeps the question/answer log for each session so
// follow-up questions can carry recent exchanges back into the prompt.
type RedisConversationStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func GetRedisConversationStore(ctx context.Context) *RedisConversationStore {
	rs := redisStore.GetRedisStore(ctx, config.RedisConversationStore)
	if rs == nil {
		return nil
	}
	return &RedisConversationStore{
		store:  rs,
		logger: logger_i.NewLogger("ConversationStore"),
	}
}

func conversationKey(sessionId string) string {
	return "conversation:" + sessionId
}

func formatExchange(payload jobModel.JobPayload) string {
	return fmt.Sprintf("Q: %s\nA: %s", payload.Question, payload.Answer)
}

func (s *RedisConversationStore) ValidateSessionId(ctx context.Context, sessionId string) bool {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "session Id", sessionId)
	isFound, err := s.store.Exists(ctx, conversationKey(sessionId))
	if s.store.IsNil(err) {
		return false
	} else if err != nil {
		log.Error("Failed to check if session exists", "err", err)
		return false
	}
	return isFound
}

func (s *RedisConversationStore) TrySaveExchange(ctx context.Context, sessionId string, payload jobModel.JobPayload) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "session Id", sessionId)
	if !s.ValidateSessionId(ctx, sessionId) {
		err := errors.New("invalid session id")
		log.Error("Failed validation before saving", "err", err)
		return err
	}
	return s.saveExchange(ctx, sessionId, formatExchange(payload))
}

func (s *RedisConversationStore) saveExchange(ctx context.Context, sessionId string, exchange string) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "session Id", sessionId)
	key := conversationKey(sessionId)
	err := s.store.ListPush(ctx, key, exchange)
	if err != nil {
		log.Error("error saving exchange", "error:", err)
		return err
	}
	if err := s.store.Expire(ctx, key, config.RedisConversationStoreTTL); err != nil {
		log.Error("error refreshing conversation ttl", "error:", err)
	}
	log.Debug("Saved exchange successfully")
	return nil
}

func (s *RedisConversationStore) InitConversation(ctx context.Context, sessionId string) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "session Id", sessionId)
	log.Debug("Initializing conversation")
	if err := s.store.Del(ctx, conversationKey(sessionId)); err != nil && !s.store.IsNil(err) {
		log.Error("Error initializing conversation", "error:", err)
	}
	// seed entry so ValidateSessionId sees the key
	return s.saveExchange(ctx, sessionId, "")
}

func (s *RedisConversationStore) ClearConversation(ctx context.Context, sessionId string) error {
	return s.store.Del(ctx, conversationKey(sessionId))
}

func (s *RedisConversationStore) GetHistory(ctx context.Context, sessionId string) (error, []string) {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "session Id", sessionId)
	log.Debug("Getting conversation history")

	res, err := s.store.ListTail(ctx, conversationKey(sessionId), config.ConversationHistoryDepth)
	if err != nil {
		log.Error("Error getting history", "error:", err)
		return err, nil
	}
	return nil, utils.ReverseStringArray(dropEmpty(res))
}

func dropEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func TestConversationStore(store *redisStore.Store) *RedisConversationStore {
	return &RedisConversationStore{
		store:  store,
		logger: logger_i.NewLogger("test conversation"),
	}
}
