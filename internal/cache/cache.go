// Package cache stores per-subject aggregate blobs with a TTL. One JSON
// object per subject maps aggregate names to their last-computed values;
// independent endpoints write different slots of the same entry, so every
// write is a read-merge-write that preserves sibling slots.
//
// A per-aggregate key layout (subject:name with independent TTLs) would
// remove the merge race; callers only see Fetch/Merge, so the entry layout
// can change without touching them.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store is the minimal string store the cache needs. Absence is an empty
// string, not an error.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// RedisStore backs the cache with Redis.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore connects a Redis-backed store.
func NewRedisStore(host string, port int) *RedisStore {
	return &RedisStore{
		rdb: redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%d", host, port)}),
	}
}

// Ping verifies the connection at startup.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// Close releases the connection pool.
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	val, err := s.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get cache key %s: %w", key, err)
	}
	return val, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache key %s: %w", key, err)
	}
	return nil
}

// Entry is one subject's decoded cache blob: aggregate name to raw value.
type Entry map[string]json.RawMessage

// Client is the subject-entry cache. Exactly one instance per process,
// injected into the handlers that need it.
type Client struct {
	store      Store
	defaultTTL time.Duration
}

// New wires a cache client with its default entry TTL.
func New(store Store, defaultTTL time.Duration) *Client {
	if defaultTTL <= 0 {
		defaultTTL = 30 * time.Minute
	}
	return &Client{store: store, defaultTTL: defaultTTL}
}

// Fetch returns the subject's entry. A miss, a store failure, or a corrupt
// blob all come back as an empty entry: the cache never fails a caller.
func (c *Client) Fetch(ctx context.Context, subject string) Entry {
	raw, err := c.store.Get(ctx, subject)
	if err != nil {
		log.Printf("⚠️ cache read failed for %s, treating as miss: %v", subject, err)
		return Entry{}
	}
	if raw == "" {
		return Entry{}
	}
	var entry Entry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		log.Printf("⚠️ cache entry for %s is corrupt, treating as miss: %v", subject, err)
		return Entry{}
	}
	return entry
}

// Field decodes one aggregate slot into out, reporting whether it was
// present.
func (c *Client) Field(ctx context.Context, subject, name string, out interface{}) bool {
	raw, ok := c.Fetch(ctx, subject)[name]
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		log.Printf("⚠️ cache slot %s/%s is corrupt, ignoring: %v", subject, name, err)
		return false
	}
	return true
}

// Merge writes one aggregate slot into the subject's entry, preserving the
// other slots, and resets the entry TTL (the optional override wins over
// the default). Write failures are logged and swallowed: a lost write only
// means the aggregate is recomputed on the next call.
func (c *Client) Merge(ctx context.Context, subject, name string, value interface{}, ttl ...time.Duration) {
	raw, err := json.Marshal(value)
	if err != nil {
		log.Printf("⚠️ failed to encode aggregate %s for %s: %v", name, subject, err)
		return
	}

	entry := c.Fetch(ctx, subject)
	entry[name] = raw

	blob, err := json.Marshal(entry)
	if err != nil {
		log.Printf("⚠️ failed to encode cache entry for %s: %v", subject, err)
		return
	}

	expiry := c.defaultTTL
	if len(ttl) > 0 && ttl[0] > 0 {
		expiry = ttl[0]
	}
	if err := c.store.Set(ctx, subject, string(blob), expiry); err != nil {
		log.Printf("⚠️ cache write failed for %s: %v", subject, err)
	}
}
