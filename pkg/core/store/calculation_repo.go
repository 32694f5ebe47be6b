package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"project_finance/pkg/core/formula"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrRunNotFound is returned by CalculationRepo.Load for an unknown id.
var ErrRunNotFound = errors.New("formula run not found")

// CalculationRun is one recorded evaluation of the formula table.
type CalculationRun struct {
	ID        string          `json:"id"`
	Inputs    formula.Context `json:"inputs"`
	Results   formula.Results `json:"results"`
	CreatedAt time.Time       `json:"created_at"`
}

// MaxMemoryRuns bounds the in-memory history; the oldest run is evicted first.
const MaxMemoryRuns = 1000

// CalculationRepo records formula runs. Without a pool the most recent runs are kept in memory.
type CalculationRepo struct {
	pool *pgxpool.Pool

	mu    sync.RWMutex
	runs  map[string]*CalculationRun
	order []string // insertion order, oldest first
	limit int
}

// NewCalculationRepo creates a repository instance.
func NewCalculationRepo(pool *pgxpool.Pool) *CalculationRepo {
	return &CalculationRepo{pool: pool, runs: make(map[string]*CalculationRun), limit: MaxMemoryRuns}
}

// Save stores the run and returns its new id.
func (r *CalculationRepo) Save(ctx context.Context, inputs formula.Context, results formula.Results) (*CalculationRun, error) {
	run := &CalculationRun{
		ID:        uuid.New().String(),
		Inputs:    inputs,
		Results:   results,
		CreatedAt: time.Now().UTC(),
	}

	if r.pool == nil {
		r.mu.Lock()
		r.runs[run.ID] = run
		r.order = append(r.order, run.ID)
		for len(r.order) > r.limit {
			delete(r.runs, r.order[0])
			r.order = r.order[1:]
		}
		r.mu.Unlock()
		return run, nil
	}

	inputsJSON, err := json.Marshal(inputs)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal inputs: %w", err)
	}
	resultsJSON, err := json.Marshal(results)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal results: %w", err)
	}

	query := `INSERT INTO formula_runs (id, inputs, results, created_at) VALUES ($1, $2, $3, $4)`
	if _, err := r.pool.Exec(ctx, query, run.ID, inputsJSON, resultsJSON, run.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to save formula run: %w", err)
	}
	return run, nil
}

// Load retrieves a run by id.
func (r *CalculationRepo) Load(ctx context.Context, id string) (*CalculationRun, error) {
	if r.pool == nil {
		r.mu.RLock()
		defer r.mu.RUnlock()
		run, ok := r.runs[id]
		if !ok {
			return nil, ErrRunNotFound
		}
		return run, nil
	}

	var inputsJSON, resultsJSON []byte
	run := &CalculationRun{ID: id}
	err := r.pool.QueryRow(ctx, `SELECT inputs, results, created_at FROM formula_runs WHERE id = $1`, id).
		Scan(&inputsJSON, &resultsJSON, &run.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to load formula run: %w", err)
	}
	if err := json.Unmarshal(inputsJSON, &run.Inputs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal inputs: %w", err)
	}
	if err := json.Unmarshal(resultsJSON, &run.Results); err != nil {
		return nil, fmt.Errorf("failed to unmarshal results: %w", err)
	}
	return run, nil
}
