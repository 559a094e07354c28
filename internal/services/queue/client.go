package queue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const dialCheckTimeout = 5 * time.Second

// Client owns the Redis connection shared by the command queue and the
// session event stream.
type Client struct {
	rdb    *redis.Client
	logger *slog.Logger
}

// NewClient connects to redisURL and fails fast if the server does not
// answer a PING within dialCheckTimeout.
func NewClient(redisURL string, logger *slog.Logger) (*Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), dialCheckTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis at %s is unreachable: %w", opt.Addr, err)
	}

	logger.Info("Redis ready for session commands and events", "addr", opt.Addr, "db", opt.DB)
	return &Client{rdb: rdb, logger: logger}, nil
}

// Ping is used by the health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *Client) Close() error {
	c.logger.Debug("Closing Redis connection")
	return c.rdb.Close()
}

// Redis exposes the connection for the event broadcaster and SSE subscribers.
func (c *Client) Redis() *redis.Client {
	return c.rdb
}
