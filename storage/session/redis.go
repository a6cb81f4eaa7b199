package session

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/ArKa3003/arkamed/core"
)

const (
	revokedKeyPrefix = "session:revoked:"
	userKeyPrefix    = "session:user:"
)

type redisStore struct {
	client *redis.Client
}

var _ Store = (*redisStore)(nil)

func NewRedisStore(conf core.RedisConfig) (Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     conf.Addr,
		Password: conf.Password,
		DB:       conf.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.Wrap(err, "pinging redis")
	}
	return &redisStore{client: client}, nil
}

func (store *redisStore) Touch(ctx context.Context, sessionID, userID string, ttl time.Duration) error {
	key := userKeyPrefix + userID
	pipe := store.client.TxPipeline()
	pipe.SAdd(ctx, key, sessionID)
	pipe.Expire(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrap(err, "touching session")
	}
	return nil
}

func (store *redisStore) Revoke(ctx context.Context, sessionID string, ttl time.Duration) error {
	if err := store.client.Set(ctx, revokedKeyPrefix+sessionID, 1, ttl).Err(); err != nil {
		return errors.Wrap(err, "revoking session")
	}
	return nil
}

func (store *redisStore) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	n, err := store.client.Exists(ctx, revokedKeyPrefix+sessionID).Result()
	if err != nil {
		return false, errors.Wrap(err, "checking session revocation")
	}
	return n > 0, nil
}

func (store *redisStore) RevokeAll(ctx context.Context, userID string, ttl time.Duration) error {
	ids, err := store.client.SMembers(ctx, userKeyPrefix+userID).Result()
	if err != nil {
		return errors.Wrap(err, "listing user sessions")
	}
	for _, id := range ids {
		if err = store.Revoke(ctx, id, ttl); err != nil {
			return err
		}
	}
	return nil
}
