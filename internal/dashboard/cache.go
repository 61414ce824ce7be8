package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ranirkini2004/Open-Hub-API/internal/backend"
)

const (
	snapshotKeyPrefix = "web:dashboard:" // Snapshot per session: web:dashboard:{sid}
	snapshotTTL       = 2 * time.Minute  // Expiry forces a fresh fan-out
)

// Snapshot is the per-session view state of the dashboard sections.
// Mutation handlers patch it in place of a full re-fetch.
type Snapshot struct {
	Repos     []backend.Repo        `json:"repos"`
	Requests  []backend.JoinRequest `json:"requests"`
	Joined    []backend.Project     `json:"joined"`
	Owned     []backend.Project     `json:"owned"`
	FetchedAt time.Time             `json:"fetched_at"`
}

// Cache stores dashboard snapshots in Redis.
type Cache struct {
	client *redis.Client
}

// NewCache creates a snapshot cache.
func NewCache(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// Get returns the snapshot for the session, or ok=false when absent or expired.
func (c *Cache) Get(ctx context.Context, sid string) (*Snapshot, bool, error) {
	data, err := c.client.Get(ctx, c.key(sid)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &snap, true, nil
}

// Put stores the snapshot for the session.
func (c *Cache) Put(ctx context.Context, sid string, snap *Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := c.client.Set(ctx, c.key(sid), data, snapshotTTL).Err(); err != nil {
		return fmt.Errorf("failed to store snapshot: %w", err)
	}
	return nil
}

// Patch applies fn to the stored snapshot and writes it back. A
// missing snapshot is a no-op: the next page view re-fetches anyway.
func (c *Cache) Patch(ctx context.Context, sid string, fn func(*Snapshot)) error {
	snap, ok, err := c.Get(ctx, sid)
	if err != nil || !ok {
		return err
	}
	fn(snap)
	return c.Put(ctx, sid, snap)
}

// Drop removes the snapshot for the session.
func (c *Cache) Drop(ctx context.Context, sid string) error {
	if err := c.client.Del(ctx, c.key(sid)).Err(); err != nil {
		return fmt.Errorf("failed to drop snapshot: %w", err)
	}
	return nil
}

func (c *Cache) key(sid string) string {
	return snapshotKeyPrefix + sid
}
