// Package timeline proxies timeline generation to the external timeline service.
package timeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"project_finance/pkg/core/store"
	coreTimeline "project_finance/pkg/core/timeline"
	"project_finance/pkg/core/utils"
)

// ErrorResponse is the failure body of POST /api/timelines/generate.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Handler holds dependencies for timeline endpoints
type Handler struct {
	Client *coreTimeline.Client
	Cache  *store.TimelineCache // optional
}

// NewHandler creates a new timeline handler
func NewHandler(client *coreTimeline.Client, cache *store.TimelineCache) *Handler {
	return &Handler{Client: client, Cache: cache}
}

// HandleGenerate forwards the timeline assumptions and returns the service grids verbatim.
// Any failure, including an unreadable body, answers 500 with a JSON error.
func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	resp, err := h.generate(r)
	if err != nil {
		fmt.Printf("[TIMELINE] Error generating timelines: %v\n", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Failed to generate timelines: " + err.Error()})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (h *Handler) generate(r *http.Request) (coreTimeline.Response, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	var payload map[string]interface{}
	if err := utils.DecodeLenient(body, &payload); err != nil {
		return nil, err
	}

	fmt.Printf("[TIMELINE] Generating timelines via %s\n", h.Client.BaseURL())
	ctx := r.Context()

	if h.Cache != nil {
		cached, ok, err := h.Cache.Get(ctx, payload)
		if err != nil {
			fmt.Printf("[WARNING] Timeline cache read failed: %v\n", err)
		} else if ok {
			fmt.Println("[TIMELINE] CACHE HIT")
			return cached, nil
		}
	}

	resp, err := h.Client.Generate(ctx, payload)
	if err != nil {
		return nil, err
	}
	fmt.Printf("[TIMELINE] Successfully generated timelines: %v\n", resp.Names())

	if h.Cache != nil {
		if err := h.Cache.Put(ctx, payload, resp); err != nil {
			fmt.Printf("[WARNING] Timeline cache write failed: %v\n", err)
		}
	}
	return resp, nil
}

// HandleHealth reports whether the timeline service is reachable.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status, err := h.Client.Health(ctx)
	w.Header().Set("Content-Type", "application/json")
	if err != nil {
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(ErrorResponse{Error: err.Error()})
		return
	}
	json.NewEncoder(w).Encode(status)
}

// HandleClearCache drops cached timeline responses.
func (h *Handler) HandleClearCache(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if h.Cache == nil {
		fmt.Fprint(w, "Cache disabled")
		return
	}
	if err := h.Cache.Clear(r.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	fmt.Fprint(w, "Success: Timeline cache cleared")
}
