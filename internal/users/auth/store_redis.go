// Copyright (c) 2026 YaMDb. All rights reserved.

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Groozzy/api-yamdb/internal/platform/constants"
)

// ErrCodeNotFound marks an absent or expired confirmation code. The service
// translates it into the same validation error as a wrong code so callers
// cannot distinguish the two cases.
var ErrCodeNotFound = errors.New("auth: confirmation code not found")

// RedisCodeRepository implements [CodeRepository] using Redis.
//
// Only bcrypt hashes are stored; a Redis dump never reveals usable codes.
type RedisCodeRepository struct {
	client *redis.Client
}

// NewRedisCodeRepository creates a new Redis-backed [CodeRepository].
func NewRedisCodeRepository(client *redis.Client) *RedisCodeRepository {
	return &RedisCodeRepository{client: client}
}

/*
Set stores the code hash for a username with a TTL, overwriting any
previous hash so only the most recently issued code is exchangeable.
*/
func (repository *RedisCodeRepository) Set(context context.Context, username, codeHash string, ttl time.Duration) error {
	key := constants.RedisPrefixConfirmationCode + username

	if err := repository.client.Set(context, key, codeHash, ttl).Err(); err != nil {
		return fmt.Errorf("redis_confirmation_code_set_failed: %w", err)
	}

	return nil
}

/*
Get retrieves the stored code hash for a username.

Returns:
  - string: The bcrypt hash of the latest issued code
  - error: ErrCodeNotFound when absent or expired, connectivity errors otherwise
*/
func (repository *RedisCodeRepository) Get(context context.Context, username string) (string, error) {
	key := constants.RedisPrefixConfirmationCode + username

	codeHash, err := repository.client.Get(context, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrCodeNotFound
		}
		return "", fmt.Errorf("redis_confirmation_code_get_failed: %w", err)
	}

	return codeHash, nil
}

/*
Delete removes the code hash, consuming the code after a successful
exchange.
*/
func (repository *RedisCodeRepository) Delete(context context.Context, username string) error {
	key := constants.RedisPrefixConfirmationCode + username

	if err := repository.client.Del(context, key).Err(); err != nil {
		return fmt.Errorf("redis_confirmation_code_delete_failed: %w", err)
	}

	return nil
}
