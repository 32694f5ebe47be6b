package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"project_finance/pkg/core/timeline"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DefaultTimelineTTL applies when NewTimelineCache is given a non-positive ttl.
const DefaultTimelineTTL = time.Hour

// TimelineCache stores timeline responses keyed by the request payload.
// With a pool it uses the timeline_cache table; without one it writes JSON files under dir.
// Entries older than the TTL are treated as misses.
type TimelineCache struct {
	pool    *pgxpool.Pool
	fileDir string
	ttl     time.Duration
	now     func() time.Time
}

// NewTimelineCache creates a cache. If pool is nil and dir is empty, .cache/timelines is used.
func NewTimelineCache(pool *pgxpool.Pool, dir string, ttl time.Duration) *TimelineCache {
	if ttl <= 0 {
		ttl = DefaultTimelineTTL
	}
	if pool == nil && dir == "" {
		dir = filepath.Join(".cache", "timelines")
	}
	if pool == nil {
		if err := os.MkdirAll(dir, 0755); err != nil {
			fmt.Printf("[WARNING] Check TimelineCache dir: %v\n", err)
		}
	}
	return &TimelineCache{pool: pool, fileDir: dir, ttl: ttl, now: time.Now}
}

// TimelineEntry is one cached response.
type TimelineEntry struct {
	ID        string            `json:"id"`
	Key       string            `json:"key"`
	Inputs    json.RawMessage   `json:"inputs"`
	Response  timeline.Response `json:"response"`
	CreatedAt time.Time         `json:"created_at"`
}

// CacheKey hashes the canonical JSON form of payload, so key order and struct vs map
// representations of the same inputs share an entry.
func CacheKey(payload interface{}) (string, json.RawMessage, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", nil, fmt.Errorf("failed to marshal cache key: %w", err)
	}
	var generic interface{}
	if err := json.Unmarshal(raw, &generic); err != nil {
		return "", nil, fmt.Errorf("failed to normalise cache key: %w", err)
	}
	canonical, err := json.Marshal(generic)
	if err != nil {
		return "", nil, fmt.Errorf("failed to marshal cache key: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), canonical, nil
}

// Get returns the cached response for payload. A miss, including an expired entry,
// returns ok == false and no error.
func (c *TimelineCache) Get(ctx context.Context, payload interface{}) (timeline.Response, bool, error) {
	key, _, err := CacheKey(payload)
	if err != nil {
		return nil, false, err
	}

	if c.pool != nil {
		var data []byte
		var createdAt time.Time
		err := c.pool.QueryRow(ctx, `SELECT response, created_at FROM timeline_cache WHERE cache_key = $1`, key).Scan(&data, &createdAt)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		if err != nil {
			return nil, false, fmt.Errorf("failed to load cached timeline: %w", err)
		}
		if c.expired(createdAt) {
			return nil, false, nil
		}
		var resp timeline.Response
		if err := json.Unmarshal(data, &resp); err != nil {
			return nil, false, fmt.Errorf("failed to unmarshal cached timeline: %w", err)
		}
		return resp, true, nil
	}

	entry, err := c.loadEntry(c.keyPath(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	if c.expired(entry.CreatedAt) {
		return nil, false, nil
	}
	return entry.Response, true, nil
}

func (c *TimelineCache) expired(createdAt time.Time) bool {
	return c.now().Sub(createdAt) > c.ttl
}

// Put stores resp for payload, replacing any previous entry.
func (c *TimelineCache) Put(ctx context.Context, payload interface{}, resp timeline.Response) error {
	key, canonical, err := CacheKey(payload)
	if err != nil {
		return err
	}
	entry := TimelineEntry{
		ID:        uuid.New().String(),
		Key:       key,
		Inputs:    canonical,
		Response:  resp,
		CreatedAt: c.now().UTC(),
	}

	if c.pool != nil {
		respJSON, err := json.Marshal(resp)
		if err != nil {
			return fmt.Errorf("failed to marshal timeline: %w", err)
		}
		query := `
			INSERT INTO timeline_cache (cache_key, id, inputs, response, created_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (cache_key)
			DO UPDATE SET
				id = EXCLUDED.id,
				response = EXCLUDED.response,
				created_at = EXCLUDED.created_at;
		`
		if _, err := c.pool.Exec(ctx, query, key, entry.ID, []byte(canonical), respJSON, entry.CreatedAt); err != nil {
			return fmt.Errorf("failed to save timeline: %w", err)
		}
		return nil
	}

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal timeline entry: %w", err)
	}
	if err := os.WriteFile(c.keyPath(key), data, 0644); err != nil {
		return fmt.Errorf("failed to save to file cache: %w", err)
	}
	return nil
}

// Clear drops every cached entry.
func (c *TimelineCache) Clear(ctx context.Context) error {
	if c.pool != nil {
		if _, err := c.pool.Exec(ctx, `DELETE FROM timeline_cache`); err != nil {
			return fmt.Errorf("failed to clear timeline cache: %w", err)
		}
		return nil
	}

	files, err := filepath.Glob(filepath.Join(c.fileDir, "*.json"))
	if err != nil {
		return err
	}
	for _, f := range files {
		if err := os.Remove(f); err != nil {
			return fmt.Errorf("failed to remove %s: %w", f, err)
		}
	}
	return nil
}

func (c *TimelineCache) keyPath(key string) string {
	return filepath.Join(c.fileDir, key+".json")
}

func (c *TimelineCache) loadEntry(path string) (*TimelineEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entry TimelineEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("corrupt cache entry %s: %w", filepath.Base(path), err)
	}
	return &entry, nil
}
