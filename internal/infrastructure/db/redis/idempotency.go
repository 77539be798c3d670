package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const idempotencyTTL = 24 * time.Hour

// idempotencyKeyPrefix namespaces the order key space so other storefront
// uses of the same Redis database cannot collide with it.
const idempotencyKeyPrefix = "order:idem:"

// IdempotencyStore maps (user, idempotency key) pairs to the order id they
// produced, so a replayed checkout returns the original order.
// Key format: order:idem:<user_id>:<key>
type IdempotencyStore struct {
	client *redis.Client
}

// NewIdempotencyStore creates an IdempotencyStore wrapping the given client.
func NewIdempotencyStore(client *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{client: client}
}

// Lookup returns the order id recorded for the key, or "" when unseen.
func (s *IdempotencyStore) Lookup(ctx context.Context, userID, key string) (string, error) {
	orderID, err := s.client.Get(ctx, s.key(userID, key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("idempotency lookup: %w", err)
	}
	return orderID, nil
}

// Remember records the order produced by the key (expires after idempotencyTTL).
func (s *IdempotencyStore) Remember(ctx context.Context, userID, key, orderID string) error {
	return s.client.Set(ctx, s.key(userID, key), orderID, idempotencyTTL).Err()
}

func (s *IdempotencyStore) key(userID, key string) string {
	return fmt.Sprintf("%s%s:%s", idempotencyKeyPrefix, userID, key)
}
