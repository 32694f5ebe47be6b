package store

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"project_finance/pkg/core/formula"
	"project_finance/pkg/core/timeline"
)

func TestCacheKey_Canonical(t *testing.T) {
	in := timeline.DefaultInputs()
	structKey, _, err := CacheKey(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var asMap map[string]interface{}
	data, _ := json.Marshal(in)
	json.Unmarshal(data, &asMap)
	mapKey, _, _ := CacheKey(asMap)
	if structKey != mapKey {
		t.Error("struct and map forms of the same inputs should share a key")
	}

	in.TenorOfPPA = 20
	otherKey, _, _ := CacheKey(in)
	if otherKey == structKey {
		t.Error("different inputs should not share a key")
	}
}

func TestTimelineCache_FileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cache := NewTimelineCache(nil, dir, 0)
	ctx := context.Background()
	in := timeline.DefaultInputs()

	if _, ok, err := cache.Get(ctx, in); ok || err != nil {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}

	resp := timeline.Response{"annual": json.RawMessage(`{"start_date":"2025-01-01","end_date":"2053-01-31","columns":[],"rows":[]}`)}
	if err := cache.Put(ctx, in, resp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, ok, err := cache.Get(ctx, in)
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	grid, err := got.Grid("annual")
	if err != nil || grid.EndDate != "2053-01-31" {
		t.Errorf("unexpected cached grid %+v (err=%v)", grid, err)
	}

	files, _ := filepath.Glob(filepath.Join(dir, "*.json"))
	if len(files) != 1 {
		t.Fatalf("expected one cache file, got %d", len(files))
	}
	var entry TimelineEntry
	raw, _ := os.ReadFile(files[0])
	if err := json.Unmarshal(raw, &entry); err != nil || entry.ID == "" || entry.CreatedAt.IsZero() {
		t.Errorf("entry metadata missing: %+v (err=%v)", entry, err)
	}

	if err := cache.Clear(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok, _ := cache.Get(ctx, in); ok {
		t.Error("expected miss after clear")
	}
}

func TestTimelineCache_CorruptEntry(t *testing.T) {
	dir := t.TempDir()
	cache := NewTimelineCache(nil, dir, 0)
	key, _, _ := CacheKey(map[string]int{"a": 1})
	os.WriteFile(filepath.Join(dir, key+".json"), []byte("{not json"), 0644)

	if _, ok, err := cache.Get(context.Background(), map[string]int{"a": 1}); ok || err == nil {
		t.Errorf("expected corrupt entry error, got ok=%v err=%v", ok, err)
	}
}

func TestCalculationRepo_Memory(t *testing.T) {
	repo := NewCalculationRepo(nil)
	ctx := context.Background()

	inputs := formula.Context{"field_58": 100}
	results := formula.NewEngine().Calculate(inputs)
	run, err := repo.Save(ctx, inputs, results)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if run.ID == "" {
		t.Fatal("expected run id")
	}

	loaded, err := repo.Load(ctx, run.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loaded.Results["field_59"] != 0 {
		t.Errorf("unexpected stored results: %v", loaded.Results)
	}

	if _, err := repo.Load(ctx, "missing"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
}

func TestNewPool_EmptyURL(t *testing.T) {
	if _, err := NewPool(context.Background(), ""); err == nil {
		t.Error("expected error for empty database URL")
	}
	if err := Migrate(context.Background(), nil); err == nil {
		t.Error("expected error without pool")
	}
}

func TestCalculationRepo_MemoryBound(t *testing.T) {
	repo := NewCalculationRepo(nil)
	repo.limit = 3
	ctx := context.Background()

	var ids []string
	for i := 0; i < 5; i++ {
		run, err := repo.Save(ctx, formula.Context{"field_58": i}, formula.Results{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		ids = append(ids, run.ID)
	}

	if len(repo.runs) != 3 || len(repo.order) != 3 {
		t.Fatalf("expected 3 retained runs, got %d (order %d)", len(repo.runs), len(repo.order))
	}
	for _, evicted := range ids[:2] {
		if _, err := repo.Load(ctx, evicted); !errors.Is(err, ErrRunNotFound) {
			t.Errorf("expected oldest run %s to be evicted, got %v", evicted, err)
		}
	}
	for _, kept := range ids[2:] {
		if _, err := repo.Load(ctx, kept); err != nil {
			t.Errorf("expected run %s to be kept, got %v", kept, err)
		}
	}
}

func TestNewCalculationRepo_DefaultBound(t *testing.T) {
	if repo := NewCalculationRepo(nil); repo.limit != MaxMemoryRuns {
		t.Errorf("expected default limit %d, got %d", MaxMemoryRuns, repo.limit)
	}
}

func TestTimelineCache_Expiry(t *testing.T) {
	cache := NewTimelineCache(nil, t.TempDir(), time.Minute)
	ctx := context.Background()
	in := timeline.DefaultInputs()

	start := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return start }
	if err := cache.Put(ctx, in, timeline.Response{"annual": json.RawMessage(`{}`)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cache.now = func() time.Time { return start.Add(30 * time.Second) }
	if _, ok, err := cache.Get(ctx, in); !ok || err != nil {
		t.Fatalf("expected fresh hit, got ok=%v err=%v", ok, err)
	}

	cache.now = func() time.Time { return start.Add(2 * time.Minute) }
	if _, ok, err := cache.Get(ctx, in); ok || err != nil {
		t.Errorf("expected expired miss, got ok=%v err=%v", ok, err)
	}
}

func TestNewTimelineCache_DefaultTTL(t *testing.T) {
	if c := NewTimelineCache(nil, t.TempDir(), 0); c.ttl != DefaultTimelineTTL {
		t.Errorf("expected default ttl, got %v", c.ttl)
	}
}
