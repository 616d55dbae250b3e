package db

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var Redis *redis.Client

const reportCachePrefix = "finbrief:report:"

func ConnectRedis() error {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		return fmt.Errorf("REDIS_URL environment variable is not set")
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		opt = &redis.Options{Addr: redisURL}
	}

	Redis = redis.NewClient(opt)

	return Redis.Ping(context.Background()).Err()
}

func CloseRedis() {
	if Redis != nil {
		Redis.Close()
	}
}

// GetCachedReport returns the cached response payload for a topic, or empty
// when there is no entry.
func GetCachedReport(ctx context.Context, topic string) (string, error) {
	val, err := Redis.Get(ctx, reportCachePrefix+topic).Result()
	if err == redis.Nil {
		return "", nil
	}
	return val, err
}

func SetCachedReport(ctx context.Context, topic, payload string, ttl time.Duration) error {
	return Redis.Set(ctx, reportCachePrefix+topic, payload, ttl).Err()
}
