package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"project_finance/pkg/api/assumption"
	"project_finance/pkg/api/config"
	apiFormula "project_finance/pkg/api/formula"
	apiTimeline "project_finance/pkg/api/timeline"
	coreAssumption "project_finance/pkg/core/assumption"
	coreConfig "project_finance/pkg/core/config"
	"project_finance/pkg/core/formula"
	"project_finance/pkg/core/store"
	"project_finance/pkg/core/timeline"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	godotenv.Load()

	cfg, err := coreConfig.Load(coreConfig.DefaultPath)
	if err != nil {
		fmt.Printf("[FATAL] %v\n", err)
		os.Exit(1)
	}

	// Postgres is optional; without it caches and run history fall back to file and memory.
	var pool *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		pool, err = store.NewPool(ctx, cfg.DatabaseURL)
		if err == nil {
			err = store.Migrate(ctx, pool)
		}
		cancel()
		if err != nil {
			fmt.Printf("[WARNING] Database unavailable, using file storage: %v\n", err)
			if pool != nil {
				pool.Close()
				pool = nil
			}
		} else {
			fmt.Println("[STORE] Connected to Postgres")
			defer pool.Close()
		}
	}

	var engineOpts []formula.Option
	if len(cfg.Formula.LiveCaseDefaults) > 0 {
		engineOpts = append(engineOpts, formula.WithLiveCaseDefaults(cfg.Formula.LiveCaseDefaults))
	}
	if cfg.Formula.StrictLookups {
		engineOpts = append(engineOpts, formula.WithStrictLookups())
	}
	engine := formula.NewEngine(engineOpts...)

	var timelineOpts []timeline.ClientOption
	if t := cfg.Timeline.Timeout(); t > 0 {
		timelineOpts = append(timelineOpts, timeline.WithTimeout(t))
	}
	timelineClient := timeline.NewClient(cfg.Timeline.BaseURL, timelineOpts...)

	timelineCache := newTimelineCache(cfg.Cache, pool)

	// Config endpoints
	configHandler := config.NewHandler(cfg, storageMode(pool))
	http.HandleFunc("/api/config", configHandler.HandleConfig)

	// Formula endpoints
	formulaHandler := apiFormula.NewHandler(engine, store.NewCalculationRepo(pool))
	http.HandleFunc("/api/formulas", formulaHandler.HandleFormulas)
	http.HandleFunc("/api/formulas/calculate", formulaHandler.HandleCalculate)
	http.HandleFunc("/api/formulas/runs", formulaHandler.HandleRun)

	// Assumption endpoints
	assumptionHandler := assumption.NewHandler(coreAssumption.DefaultCatalog())
	http.HandleFunc("/api/assumptions/derive", assumptionHandler.HandleDerive)
	http.HandleFunc("/api/assumptions/validate", assumptionHandler.HandleValidate)
	http.HandleFunc("/api/assumptions/fields", assumptionHandler.HandleFields)

	// Timeline endpoints
	timelineHandler := apiTimeline.NewHandler(timelineClient, timelineCache)
	http.HandleFunc("/api/timelines/generate", timelineHandler.HandleGenerate)
	http.HandleFunc("/api/timelines/health", timelineHandler.HandleHealth)
	http.HandleFunc("/api/timelines/clear-cache", timelineHandler.HandleClearCache)

	fmt.Printf("API server starting on %s...\n", cfg.Server.Addr)
	fmt.Println("  - GET  /api/config")
	fmt.Println("  - GET  /api/formulas  (?format=markdown|html)")
	fmt.Println("  - POST /api/formulas/calculate")
	fmt.Println("  - GET  /api/formulas/runs?id=")
	fmt.Println("  - POST /api/assumptions/derive")
	fmt.Println("  - POST /api/assumptions/validate")
	fmt.Println("  - GET  /api/assumptions/fields  (?type=input|calculated)")
	fmt.Printf("  - POST /api/timelines/generate  (backend %s)\n", timelineClient.BaseURL())
	fmt.Println("  - GET  /api/timelines/health")
	fmt.Println("  - POST /api/timelines/clear-cache")

	if err := http.ListenAndServe(cfg.Server.Addr, nil); err != nil {
		fmt.Printf("[FATAL] Server failed to start: %v\n", err)
		os.Exit(1)
	}
}

// newTimelineCache returns nil unless caching is enabled; a pool only picks the backing store.
func newTimelineCache(cfg coreConfig.CacheConfig, pool *pgxpool.Pool) *store.TimelineCache {
	if !cfg.Enabled {
		return nil
	}
	fmt.Printf("[STORE] Timeline cache enabled (%s, ttl %v)\n", storageMode(pool), cfg.TTL())
	return store.NewTimelineCache(pool, cfg.Dir, cfg.TTL())
}

// storageMode reports the store actually in use after startup fallbacks.
func storageMode(pool *pgxpool.Pool) string {
	if pool != nil {
		return config.StoragePostgres
	}
	return config.StorageFile
}
