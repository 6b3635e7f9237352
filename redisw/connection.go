package redisw

import (
	"context"
	"time"

	"github.com/AndreeJait/email-storm/loggerw"
	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
)

func ConnectToRedis(ctx context.Context, log loggerw.Logger, redisConfig RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     redisConfig.Addr(),
		DB:       redisConfig.DB,
		Password: redisConfig.Password,
	})

	timeout := redisConfig.DialTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrapf(err, "connect to redis %s", redisConfig.Addr())
	}
	log.WithField("addr", redisConfig.Addr()).Info("successfully connect to redis")
	return client, nil
}
