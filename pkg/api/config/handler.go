package config

import (
	"encoding/json"
	"net/http"

	coreConfig "project_finance/pkg/core/config"
)

// Storage modes reported by GET /api/config.
const (
	StoragePostgres = "postgres"
	StorageFile     = "file"
)

// Response describes the running configuration. Secrets are never included.
type Response struct {
	coreConfig.Config
	Database string `json:"database"`
}

// Handler holds dependencies for config endpoints
type Handler struct {
	Config  coreConfig.Config
	Storage string // mode in use after startup, not the configured one
}

// NewHandler creates a new config handler
func NewHandler(cfg coreConfig.Config, storage string) *Handler {
	if storage == "" {
		storage = StorageFile
	}
	return &Handler{Config: cfg, Storage: storage}
}

func (h *Handler) HandleConfig(w http.ResponseWriter, r *http.Request) {
	// Add CORS headers for local dev
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	resp := Response{Config: h.Config, Database: h.Storage}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
