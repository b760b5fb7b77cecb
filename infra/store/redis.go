package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/gridmate/gridmate/core/model"
)

const (
	rulesKeyFmt     = "gridmate:prefs:%s:automation_rules"
	favoritesKeyFmt = "gridmate:prefs:%s:favorites"
)

// RedisConfig defines the Redis connection for the preference store.
type RedisConfig struct {
	Addr     string `json:"addr"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

// RedisStore is a PreferenceStore backed by Redis, holding namespaced JSON
// blobs per owner.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisStore{client: client}, nil
}

// LoadRules returns the owner's rules, or defaults when none are stored.
func (s *RedisStore) LoadRules(ctx context.Context, ownerID string) (model.AutomationRules, error) {
	var rules model.AutomationRules
	raw, err := s.client.Get(ctx, fmt.Sprintf(rulesKeyFmt, ownerID)).Bytes()
	if errors.Is(err, redis.Nil) {
		rules.SetDefaults()
		return rules, nil
	}
	if err != nil {
		return rules, err
	}
	if err := json.Unmarshal(raw, &rules); err != nil {
		return rules, fmt.Errorf("decode rules: %w", err)
	}
	rules.SetDefaults()
	return rules, nil
}

// SaveRules stores the owner's rules.
func (s *RedisStore) SaveRules(ctx context.Context, ownerID string, rules model.AutomationRules) error {
	raw, err := json.Marshal(rules)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, fmt.Sprintf(rulesKeyFmt, ownerID), raw, 0).Err()
}

// LoadFavorites returns the owner's favorite device ids.
func (s *RedisStore) LoadFavorites(ctx context.Context, ownerID string) ([]string, error) {
	raw, err := s.client.Get(ctx, fmt.Sprintf(favoritesKeyFmt, ownerID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, fmt.Errorf("decode favorites: %w", err)
	}
	return ids, nil
}

// SaveFavorites stores the owner's favorite device ids.
func (s *RedisStore) SaveFavorites(ctx context.Context, ownerID string, ids []string) error {
	raw, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, fmt.Sprintf(favoritesKeyFmt, ownerID), raw, 0).Err()
}

// Close releases the Redis client.
func (s *RedisStore) Close() error { return s.client.Close() }
