package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/neexbeast/hajj-compare/internal/catalog"
)

// DefaultTTL bounds how long a snapshot survives without an invalidation.
const DefaultTTL = time.Hour

// versionKey holds the catalog generation. Snapshots are stored per
// generation, so a snapshot assembled before a write lands under a key that
// readers no longer look up.
const versionKey = "catalog:version"

func snapshotKey(version int64) string {
	return fmt.Sprintf("catalog:snapshot:%d", version)
}

// Cache keeps the merged catalog snapshot in Redis so reads do not have to
// re-assemble it from Postgres.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache constructs a Cache. A non-positive ttl falls back to DefaultTTL.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{client: client, ttl: ttl}
}

// Get retrieves the snapshot of the current generation and returns that
// generation, which the caller passes back to Set after a miss.
// Returns nil, version, nil on a cache miss (not an error). A cached empty
// catalog comes back as an empty, non-nil slice.
func (c *Cache) Get(ctx context.Context) ([]catalog.Package, int64, error) {
	version, err := c.client.Get(ctx, versionKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, 0, fmt.Errorf("cache get for catalog version: %w", err)
	}

	val, err := c.client.Get(ctx, snapshotKey(version)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, version, nil
		}
		return nil, 0, fmt.Errorf("cache get for catalog snapshot: %w", err)
	}

	pkgs := []catalog.Package{}
	if err := json.Unmarshal(val, &pkgs); err != nil {
		return nil, 0, fmt.Errorf("unmarshaling cached catalog snapshot: %w", err)
	}

	return pkgs, version, nil
}

// Set stores the snapshot assembled for generation version with the
// configured TTL. If an invalidation has happened since, the entry is never
// read and simply expires.
func (c *Cache) Set(ctx context.Context, version int64, pkgs []catalog.Package) error {
	if pkgs == nil {
		pkgs = []catalog.Package{}
	}

	b, err := json.Marshal(pkgs)
	if err != nil {
		return fmt.Errorf("marshaling catalog snapshot: %w", err)
	}

	if err := c.client.Set(ctx, snapshotKey(version), b, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set for catalog snapshot: %w", err)
	}

	return nil
}

// Invalidate moves the cache to a new generation. Every catalog write calls
// it after the write has committed.
func (c *Cache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, versionKey).Err(); err != nil {
		return fmt.Errorf("cache invalidate for catalog snapshot: %w", err)
	}
	return nil
}
