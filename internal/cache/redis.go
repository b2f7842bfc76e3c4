package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// redisClient 是 NewRedisClient 需要的最小介面，測試時可替換。
type redisClient interface {
	Cache
	Ping(ctx context.Context) *redis.StatusCmd
}

var redisNewClient = func(opt *redis.Options) redisClient {
	return redis.NewClient(opt)
}

// NewRedisClient 連線到 Redis 並以 PING 確認可用。
// 佇列與工作結果都放在同一個 db index。
func NewRedisClient(ctx context.Context, addr, password string, db int) (Cache, error) {
	client := redisNewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return client, nil
}
