// Package cache provides the client-side cache layer for fetched
// product collections and records. Keys are derived from the acting
// user so one user's mutations never invalidate another's entries.
package cache

import (
	"context"
	"time"
)

// DefaultTTL bounds how long a cached collection or record is served
// before the next read refetches.
const DefaultTTL = 5 * time.Minute

// Store is a key-value cache with TTL semantics. Get reports a miss as
// (false, nil); dest is only populated on a hit.
type Store interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// ProductsKey is the cache key for a user's full product collection.
func ProductsKey(userID string) string {
	return "products:" + userID
}

// ProductKey is the cache key for one product of one user.
func ProductKey(userID, id string) string {
	return "products:" + userID + ":" + id
}
