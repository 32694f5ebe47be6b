package formula

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"project_finance/pkg/core/formula"
	"project_finance/pkg/core/store"
	"project_finance/pkg/core/utils"
)

// CalculateResponse is the body of POST /api/formulas/calculate.
type CalculateResponse struct {
	Results formula.Results `json:"results"`
	RunID   string          `json:"run_id,omitempty"`
}

// Handler holds dependencies for formula endpoints
type Handler struct {
	Engine *formula.Engine
	Runs   *store.CalculationRepo // optional
}

// NewHandler creates a new formula handler
func NewHandler(engine *formula.Engine, runs *store.CalculationRepo) *Handler {
	return &Handler{Engine: engine, Runs: runs}
}

// FormData extracts the field mapping from a request body.
// Both {"form_data": {...}} and a bare object are accepted.
func FormData(r *http.Request) (formula.Context, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	var raw map[string]interface{}
	if err := utils.DecodeLenient(body, &raw); err != nil {
		return nil, err
	}
	if fd, ok := raw["form_data"].(map[string]interface{}); ok {
		return formula.Context(fd), nil
	}
	return formula.Context(raw), nil
}

func (h *Handler) HandleCalculate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	form, err := FormData(r)
	if err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	resp := CalculateResponse{Results: h.Engine.Calculate(form)}
	fmt.Printf("[FORMULA] Calculated %d fields from %d inputs\n", len(resp.Results), len(form))

	if h.Runs != nil {
		run, err := h.Runs.Save(r.Context(), form, resp.Results)
		if err != nil {
			fmt.Printf("[WARNING] Failed to record formula run: %v\n", err)
		} else {
			resp.RunID = run.ID
		}
	}

	writeJSON(w, resp)
}

// HandleFormulas lists the formula table. ?format=markdown or ?format=html renders it as a table.
func (h *Handler) HandleFormulas(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	switch format := r.URL.Query().Get("format"); format {
	case "", "json":
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(h.Engine.AvailableFormulas())
	case "markdown", "md":
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		io.WriteString(w, h.markdown())
	case "html":
		html, err := utils.RenderHTML(h.markdown())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		io.WriteString(w, html)
	default:
		http.Error(w, fmt.Sprintf("Unsupported format: %s", format), http.StatusBadRequest)
	}
}

// HandleRun returns a recorded calculation by ?id=.
func (h *Handler) HandleRun(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	if h.Runs == nil {
		http.Error(w, "Run history disabled", http.StatusNotFound)
		return
	}
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "Missing id", http.StatusBadRequest)
		return
	}

	run, err := h.Runs.Load(r.Context(), id)
	if errors.Is(err, store.ErrRunNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(run)
}

// writeJSON encodes v before writing so an encoding failure becomes a 500 instead of an empty 200.
func writeJSON(w http.ResponseWriter, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		fmt.Printf("[FORMULA] Failed to encode response: %v\n", err)
		http.Error(w, "Failed to encode response: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(append(data, '\n'))
}

func (h *Handler) markdown() string {
	formulas := h.Engine.Formulas()
	rows := make([][]string, 0, len(formulas))
	for _, f := range formulas {
		rows = append(rows, []string{"`" + f.ID + "`", f.Name, "`" + f.Expression + "`"})
	}
	return "# Formula Table\n\n" + utils.MarkdownTable([]string{"Field", "Name", "Expression"}, rows)
}
