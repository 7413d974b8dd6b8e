package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

type Client struct {
	cli *redis.Client
}

func New(ctx context.Context, url string) (*Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis parse url: %w", err)
	}
	cli := redis.NewClient(opts)
	if err := cli.Ping(ctx).Err(); err != nil {
		if closeErr := cli.Close(); closeErr != nil {
			return nil, fmt.Errorf("redis ping: %w (close: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &Client{cli: cli}, nil
}

func (c *Client) Close() error {
	return c.cli.Close()
}

// PutIfAbsent uses SET NX so the existence check and the insert are a single
// Redis command. TTL equals the token lifetime: the entry can never outlive
// the token it maps to.
func (c *Client) PutIfAbsent(ctx context.Context, userID, token string, ttl time.Duration) (bool, error) {
	return c.cli.SetNX(ctx, sessionKeyPrefix+userID, token, ttl).Result()
}

func (c *Client) Get(ctx context.Context, userID string) (string, error) {
	val, err := c.cli.Get(ctx, sessionKeyPrefix+userID).Result()
	if err == redis.Nil {
		return "", nil
	}
	return val, err
}

func (c *Client) Delete(ctx context.Context, userID string) error {
	return c.cli.Del(ctx, sessionKeyPrefix+userID).Err()
}

// FlushDB clears the current Redis database (used to reset sessions in tests).
func (c *Client) FlushDB(ctx context.Context) error {
	return c.cli.FlushDB(ctx).Err()
}
