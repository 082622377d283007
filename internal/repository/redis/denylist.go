// Package redis keeps revoked token identifiers until they expire.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dtroode/storefront-server/internal/model"
)

const denylistPrefix = "token:denylist:"

var _ model.TokenDenylist = (*Denylist)(nil)

// Denylist implements model.TokenDenylist with one expiring key per token.
type Denylist struct {
	client redis.UniversalClient
}

func NewDenylist(client redis.UniversalClient) *Denylist {
	return &Denylist{client: client}
}

// Add marks the token as revoked for ttl.
func (d *Denylist) Add(ctx context.Context, tokenID string, ttl time.Duration) error {
	if tokenID == "" {
		return errors.New("token id cannot be empty")
	}
	if ttl <= 0 {
		return nil
	}

	if err := d.client.Set(ctx, denylistPrefix+tokenID, 1, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (d *Denylist) Contains(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}

	n, err := d.client.Exists(ctx, denylistPrefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists: %w", err)
	}
	return n > 0, nil
}
