package account

import (
	"context"
	"encoding/json"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
)

// DefaultRedisKey holds the JSON encoded account list.
const DefaultRedisKey = "email-storm:email-configs"

// RedisStore keeps accounts under a single Redis key.
type RedisStore struct {
	client redis.Cmdable
	key    string
}

func NewRedisStore(client redis.Cmdable, key string) *RedisStore {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStore{client: client, key: key}
}

func (s *RedisStore) Save(ctx context.Context, accounts []Account) error {
	if accounts == nil {
		accounts = []Account{}
	}
	data, err := json.Marshal(accounts)
	if err != nil {
		return errors.WithStack(err)
	}
	return errors.Wrapf(s.client.Set(ctx, s.key, data, 0).Err(), "redis set %s", s.key)
}

func (s *RedisStore) Load(ctx context.Context) ([]Account, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return []Account{}, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "redis get %s", s.key)
	}
	return decodeAccounts(data)
}
