// Package redis wraps the go-redis client with health checking.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"veridoc/internal/platform/config"
)

// Client wraps the go-redis client.
type Client struct {
	*redis.Client
}

// New creates a redis client from configuration. Returns nil (and no
// error) if the URL is empty: redis is optional.
func New(cfg config.RedisConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	opts.DialTimeout = cfg.DialTimeout
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{Client: client}, nil
}

// Health checks if the redis connection is healthy.
func (c *Client) Health(ctx context.Context) error {
	return c.Ping(ctx).Err()
}

// Close closes the redis connection.
func (c *Client) Close() error {
	return c.Client.Close()
}
