package document

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/mohammad-safakhou/computesales/config"
)

type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// RedisSource reads documents named redis:<key> from string values.
type RedisSource struct {
	client stringGetter
}

// NewRedisClient opens a client for cfg. Connections are made lazily.
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return redis.NewClient(&redis.Options{
		Addr:        net.JoinHostPort(cfg.Host, cfg.Port),
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.Timeout,
		ReadTimeout: cfg.Timeout,
	}), nil
}

func NewRedisSource(client *redis.Client) *RedisSource {
	return &RedisSource{client: client}
}

func (r *RedisSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	key, ok := strings.CutPrefix(name, redisPrefix)
	if !ok || key == "" {
		return nil, fmt.Errorf("redis name must be redis:<key>: %s", name)
	}
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return data, nil
}
