package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"sealedauction/internal/config"

	"github.com/go-redis/redis/v8"
)

var RedisClient *redis.Client

func InitRedis(cfg *config.RedisConfig) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		slog.Error("redis connect failed", "err", err)
		panic(err)
	}

	RedisClient = client
	slog.Info("redis connected", "addr", client.Options().Addr)
	return client
}
