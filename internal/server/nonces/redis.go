package nonces

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/easyadmin/internal/common"
	"github.com/redis/go-redis/v9"
)

const defaultPrefix = "easyadmin:nonce"

// RedisRegistry shares nonces between server replicas. Keys are
// "<prefix>:<clientID>" and carry no TTL.
type RedisRegistry struct {
	redis  redis.UniversalClient
	prefix string
}

func NewRedisRegistry(client redis.UniversalClient, prefix string) *RedisRegistry {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &RedisRegistry{redis: client, prefix: prefix}
}

func (r *RedisRegistry) key(clientID string) string {
	return r.prefix + ":" + clientID
}

func (r *RedisRegistry) Issue(ctx context.Context, clientID string) (string, error) {
	nonce, err := newNonce(clientID)
	if err != nil {
		return "", err
	}

	if err := r.redis.Set(ctx, r.key(clientID), nonce, 0).Err(); err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrBackend, err)
	}
	return nonce, nil
}

func (r *RedisRegistry) Current(ctx context.Context, clientID string) (string, bool, error) {
	nonce, err := r.redis.Get(ctx, r.key(clientID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("%w: %v", common.ErrBackend, err)
	}
	return nonce, true, nil
}

var errMismatch = errors.New("nonce mismatch")

// Consume runs GET and DEL inside a WATCH transaction so two concurrent
// logins cannot both spend the same nonce.
func (r *RedisRegistry) Consume(ctx context.Context, clientID, nonce string) (bool, error) {
	const maxRetries = 4
	key := r.key(clientID)

	for i := 0; i < maxRetries; i++ {
		err := r.redis.Watch(ctx, func(tx *redis.Tx) error {
			current, err := tx.Get(ctx, key).Result()
			if err != nil {
				return err
			}
			if subtle.ConstantTimeCompare([]byte(current), []byte(nonce)) != 1 {
				return errMismatch
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Del(ctx, key)
				return nil
			})
			return err
		}, key)

		switch {
		case err == nil:
			return true, nil
		case errors.Is(err, redis.TxFailedErr):
			continue
		case errors.Is(err, redis.Nil), errors.Is(err, errMismatch):
			return false, nil
		default:
			return false, fmt.Errorf("%w: %v", common.ErrBackend, err)
		}
	}

	// the key kept changing under us; whoever won the race holds the nonce
	return false, nil
}
