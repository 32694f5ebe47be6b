package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	apiTimeline "project_finance/pkg/api/timeline"
	coreConfig "project_finance/pkg/core/config"
	"project_finance/pkg/core/timeline"

	"github.com/jackc/pgx/v5/pgxpool"
)

func TestNewTimelineCache_DisabledWithPool(t *testing.T) {
	if c := newTimelineCache(coreConfig.CacheConfig{Enabled: false}, &pgxpool.Pool{}); c != nil {
		t.Fatal("a pool must not enable a disabled cache")
	}

	var calls int32
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"annual":{"start_date":"2025-01-01","end_date":"2025-12-31","columns":[],"rows":[]}}`)
	}))
	defer backend.Close()

	h := apiTimeline.NewHandler(timeline.NewClient(backend.URL), newTimelineCache(coreConfig.CacheConfig{Enabled: false}, &pgxpool.Pool{}))
	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		h.HandleGenerate(rec, httptest.NewRequest(http.MethodPost, "/api/timelines/generate", strings.NewReader(`{"model_start_date":"2025-01-01"}`)))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	}
	if n := atomic.LoadInt32(&calls); n != 2 {
		t.Errorf("every request should reach the service, got %d calls", n)
	}
}

func TestNewTimelineCache_Enabled(t *testing.T) {
	c := newTimelineCache(coreConfig.CacheConfig{Enabled: true, Dir: t.TempDir(), TTLMinutes: 5}, nil)
	if c == nil {
		t.Fatal("expected a cache when enabled")
	}
}

func TestStorageMode(t *testing.T) {
	if got := storageMode(nil); got != "file" {
		t.Errorf("expected file, got %q", got)
	}
	if got := storageMode(&pgxpool.Pool{}); got != "postgres" {
		t.Errorf("expected postgres, got %q", got)
	}
}
