package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenDenylist marks a user's outstanding tokens as stale after a role
// change. Tokens themselves stay stateless; the mark lives exactly as long as
// the longest-lived token could, so the list never grows without bound.
// Key format: revoked:<user_id>
type TokenDenylist struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTokenDenylist creates a TokenDenylist whose marks expire after ttl,
// which must equal the token expiry window.
func NewTokenDenylist(client *redis.Client, ttl time.Duration) *TokenDenylist {
	return &TokenDenylist{client: client, ttl: ttl}
}

// Mark records that every token issued to the user before now is stale.
func (d *TokenDenylist) Mark(ctx context.Context, userID string) error {
	if err := d.client.Set(ctx, d.key(userID), "1", d.ttl).Err(); err != nil {
		return fmt.Errorf("denylist mark: %w", err)
	}
	return nil
}

// Contains reports whether the user's tokens have been marked stale.
func (d *TokenDenylist) Contains(ctx context.Context, userID string) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(userID)).Result()
	if err != nil {
		return false, fmt.Errorf("denylist check: %w", err)
	}
	return n > 0, nil
}

func (d *TokenDenylist) key(userID string) string {
	return "revoked:" + userID
}
