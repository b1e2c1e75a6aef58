package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Key lifecycles. Every entry this client writes carries an explicit TTL so
// nothing accumulates as ambient state.
const (
	emailCodeTTL = 5 * time.Minute

	refreshTokenPrefix = "refresh_token:"
	blacklistPrefix    = "token_blacklist:"
	emailCodePrefix    = "email_code:"
)

// Client wraps the redis client with token and verification-code operations
type Client struct {
	client *redis.Client
}

// NewClient creates a new redis client and verifies the connection
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Client{client: rdb}, nil
}

// SaveRefreshToken stores a member's refresh token for its full lifetime.
// A member holds at most one refresh token; re-login overwrites it.
func (c *Client) SaveRefreshToken(ctx context.Context, memberID uint, token string, ttl time.Duration) error {
	key := fmt.Sprintf("%s%d", refreshTokenPrefix, memberID)
	return c.client.Set(ctx, key, token, ttl).Err()
}

// GetRefreshToken returns the stored refresh token for a member, or "" if
// none is stored
func (c *Client) GetRefreshToken(ctx context.Context, memberID uint) (string, error) {
	key := fmt.Sprintf("%s%d", refreshTokenPrefix, memberID)
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get refresh token: %w", err)
	}
	return val, nil
}

// DeleteRefreshToken removes a member's refresh token
func (c *Client) DeleteRefreshToken(ctx context.Context, memberID uint) error {
	key := fmt.Sprintf("%s%d", refreshTokenPrefix, memberID)
	return c.client.Del(ctx, key).Err()
}

// BlacklistToken marks an access token as revoked until it would have
// expired anyway
func (c *Client) BlacklistToken(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return c.client.Set(ctx, blacklistPrefix+token, "logout", ttl).Err()
}

// IsBlacklisted reports whether an access token was revoked
func (c *Client) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	_, err := c.client.Get(ctx, blacklistPrefix+token).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check token blacklist: %w", err)
	}
	return true, nil
}

// SaveEmailCode stores an e-mail verification code for five minutes
func (c *Client) SaveEmailCode(ctx context.Context, email, code string) error {
	return c.client.Set(ctx, emailCodePrefix+email, code, emailCodeTTL).Err()
}

// ConsumeEmailCode checks a verification code and deletes it on match so it
// cannot be replayed
func (c *Client) ConsumeEmailCode(ctx context.Context, email, code string) (bool, error) {
	key := emailCodePrefix + email
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check email code: %w", err)
	}
	if val != code {
		return false, nil
	}
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return false, fmt.Errorf("failed to consume email code: %w", err)
	}
	return true, nil
}

// Close closes the redis connection
func (c *Client) Close() error {
	return c.client.Close()
}
