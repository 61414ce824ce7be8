package backend

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	lru "github.com/hashicorp/golang-lru"
)

// PublicReader covers the unauthenticated reads used by the feed,
// project detail and profile pages.
type PublicReader interface {
	ListProjects(ctx context.Context, search string) ([]Project, error)
	GetProject(ctx context.Context, id int) (*Project, error)
	GetProfile(ctx context.Context, username string) (*Profile, error)
}

// CachedReader wraps the public reads with an LRU cache. Entries older
// than the TTL are treated as misses. Authenticated calls never go
// through here: only data that is the same for every visitor is cached.
type CachedReader struct {
	reader PublicReader
	cache  *lru.Cache
	ttl    time.Duration
}

// NewCachedReader creates a CachedReader with the given cache size and entry TTL.
func NewCachedReader(reader PublicReader, size int, ttl time.Duration) (*CachedReader, error) {
	if size <= 0 {
		return nil, errors.New("cache size must be greater than 0")
	}
	cache, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("creating lru cache: %w", err)
	}

	return &CachedReader{
		reader: reader,
		cache:  cache,
		ttl:    ttl,
	}, nil
}

// ListProjects returns the public feed, optionally filtered by a search term.
func (c *CachedReader) ListProjects(ctx context.Context, search string) ([]Project, error) {
	key := "feed:" + search
	if val, ok := c.get(key); ok {
		return val.([]Project), nil
	}

	projects, err := c.reader.ListProjects(ctx, search)
	if err != nil {
		return nil, err
	}
	c.put(key, projects)
	return projects, nil
}

// GetProject returns a single project with its team.
func (c *CachedReader) GetProject(ctx context.Context, id int) (*Project, error) {
	key := "project:" + strconv.Itoa(id)
	if val, ok := c.get(key); ok {
		return val.(*Project), nil
	}

	p, err := c.reader.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	c.put(key, p)
	return p, nil
}

// GetProfile returns a user's public profile.
func (c *CachedReader) GetProfile(ctx context.Context, username string) (*Profile, error) {
	key := "profile:" + username
	if val, ok := c.get(key); ok {
		return val.(*Profile), nil
	}

	p, err := c.reader.GetProfile(ctx, username)
	if err != nil {
		return nil, err
	}
	c.put(key, p)
	return p, nil
}

// Invalidate drops a cached profile so an updated profile renders fresh.
func (c *CachedReader) Invalidate(username string) {
	c.cache.Remove("profile:" + username)
}

type cacheEntry struct {
	created time.Time
	data    any
}

func (c *CachedReader) get(key string) (any, bool) {
	val, ok := c.cache.Get(key)
	if !ok {
		return nil, false
	}
	entry := val.(cacheEntry)
	if entry.created.Add(c.ttl).Before(time.Now()) {
		return nil, false
	}
	return entry.data, true
}

func (c *CachedReader) put(key string, data any) {
	c.cache.Add(key, cacheEntry{created: time.Now(), data: data})
}
