package history

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// Order history: pdv:order_history -> list of product codes, oldest first.
	KeyOrderHistory = "pdv:order_history"
)

type Redis struct {
	rdb *redis.Client
}

func NewRedis(addr string) *Redis {
	return &Redis{rdb: redis.NewClient(&redis.Options{
		Addr:         addr,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})}
}

func NewRedisFromClient(rdb *redis.Client) *Redis { return &Redis{rdb: rdb} }

func (r *Redis) Load(ctx context.Context) ([]string, error) {
	return r.rdb.LRange(ctx, KeyOrderHistory, 0, -1).Result()
}

func (r *Redis) Append(ctx context.Context, codes []string) error {
	if len(codes) == 0 {
		return nil
	}
	vals := make([]interface{}, len(codes))
	for i, c := range codes {
		vals[i] = c
	}
	return r.rdb.RPush(ctx, KeyOrderHistory, vals...).Err()
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}
