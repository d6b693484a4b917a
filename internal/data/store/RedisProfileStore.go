package store

import (
	"context"
	"encoding/json"

	"github.com/elvispulaj/insight-forge/internal/config"
	"github.com/elvispulaj/insight-forge/internal/data/redisStore"
	"github.com/elvispulaj/insight-forge/internal/domain/sessionModel"
	"github.com/elvispulaj/insight-forge/pkg/logger_i"
)

// RedisProfileStore keeps per-user settings. Profiles never expire, a user
// keeps their stored credential across deploys.
type RedisProfileStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func GetRedisProfileStore(ctx context.Context) *RedisProfileStore {
	rs := redisStore.GetRedisStore(ctx, config.RedisProfileStore)
	if rs == nil {
		return nil
	}
	return &RedisProfileStore{
		store:  rs,
		logger: logger_i.NewLogger("ProfileStore"),
	}
}

func profileKey(username string) string {
	return "profile:" + username
}

func (s *RedisProfileStore) SaveProfile(ctx context.Context, profile sessionModel.Profile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, profileKey(profile.Username), data, 0)
}

func (s *RedisProfileStore) GetProfile(ctx context.Context, username string) (sessionModel.Profile, bool) {
	var profile sessionModel.Profile

	val, err := s.store.Get(ctx, profileKey(username))
	if s.store.IsNil(err) {
		return profile, false
	} else if err != nil {
		s.logger.Error("Error reading profile", "error", err)
		return profile, false
	}

	if err = json.Unmarshal([]byte(val), &profile); err != nil {
		return profile, false
	}
	return profile, true
}

func TestProfileStore(store *redisStore.Store) *RedisProfileStore {
	return &RedisProfileStore{
		store:  store,
		logger: logger_i.NewLogger("test profile"),
	}
}
