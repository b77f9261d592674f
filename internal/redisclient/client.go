package redisclient

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

type Client struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewClient creates a new Redis client
func NewClient(addr, password string, db int, ttl time.Duration) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb, ttl: ttl}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

func stockKey(productID string) string {
	return fmt.Sprintf("estoque:%s", productID)
}

// GetStock returns the cached available stock for a product. The
// database is the source of truth; a miss or error means "ask the DB".
func (c *Client) GetStock(ctx context.Context, productID string) (int, bool, error) {
	val, err := c.rdb.Get(ctx, stockKey(productID)).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	stock, err := strconv.Atoi(val)
	if err != nil {
		return 0, false, fmt.Errorf("corrupt stock cache entry for %s: %w", productID, err)
	}
	return stock, true, nil
}

// SetStock caches a product's available stock with the configured TTL.
func (c *Client) SetStock(ctx context.Context, productID string, stock int) error {
	return c.rdb.Set(ctx, stockKey(productID), stock, c.ttl).Err()
}

// InvalidateStock drops the cached stock for a product.
func (c *Client) InvalidateStock(ctx context.Context, productID string) error {
	return c.rdb.Del(ctx, stockKey(productID)).Err()
}
