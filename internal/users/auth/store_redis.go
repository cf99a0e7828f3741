// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/libris/internal/platform/apperr"
	"github.com/taibuivan/libris/internal/platform/constants"
)

// RedisSessionRepository keeps session id → user id pairs with a TTL.
type RedisSessionRepository struct {
	client *redis.Client
}

func NewSessionRepository(client *redis.Client) *RedisSessionRepository {
	return &RedisSessionRepository{client: client}
}

func (repository *RedisSessionRepository) Create(context context.Context, sessionID, userID string, ttl time.Duration) error {
	if err := repository.client.Set(context, sessionKey(sessionID), userID, ttl).Err(); err != nil {
		return fmt.Errorf("redis_session_set_failed: %w", err)
	}
	return nil
}

/*
UserID resolves a session id.

Returns:
  - string: the user id stored with the session
  - error: apperr.NotFound when the key is absent or expired
*/
func (repository *RedisSessionRepository) UserID(context context.Context, sessionID string) (string, error) {
	userID, err := repository.client.Get(context, sessionKey(sessionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperr.NotFound("Session")
		}
		return "", fmt.Errorf("redis_session_get_failed: %w", err)
	}
	return userID, nil
}

func (repository *RedisSessionRepository) Delete(context context.Context, sessionID string) error {
	if err := repository.client.Del(context, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis_session_delete_failed: %w", err)
	}
	return nil
}

func sessionKey(sessionID string) string {
	return constants.RedisPrefixSession + sessionID
}
