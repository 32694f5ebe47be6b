// Package assumption serves the enterprise assumptions form: derived values, validation
// and the field catalog.
package assumption

import (
	"encoding/json"
	"fmt"
	"net/http"

	apiFormula "project_finance/pkg/api/formula"
	"project_finance/pkg/core/assumption"
)

type ValidateResponse struct {
	Valid  bool                         `json:"valid"`
	Errors []assumption.ValidationError `json:"errors"`
}

// Handler holds dependencies for assumption endpoints
type Handler struct {
	Catalog *assumption.Catalog
}

// NewHandler creates a new assumption handler
func NewHandler(catalog *assumption.Catalog) *Handler {
	return &Handler{Catalog: catalog}
}

func (h *Handler) HandleDerive(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	form, err := apiFormula.FormData(r)
	if err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	data, err := json.Marshal(assumption.Derive(form))
	if err != nil {
		http.Error(w, "Failed to encode derived values: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func (h *Handler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	form, err := apiFormula.FormData(r)
	if err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	errs := assumption.ValidateForm(h.Catalog, form)
	if errs == nil {
		errs = []assumption.ValidationError{}
	}
	if len(errs) > 0 {
		fmt.Printf("[ASSUMPTIONS] %d invalid fields\n", len(errs))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ValidateResponse{Valid: len(errs) == 0, Errors: errs})
}

// HandleFields lists catalog fields, optionally filtered by ?type=input|calculated.
func (h *Handler) HandleFields(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	var fields []*assumption.Field
	switch t := r.URL.Query().Get("type"); assumption.FieldType(t) {
	case "":
		fields = h.Catalog.Fields()
	case assumption.FieldInput:
		fields = h.Catalog.InputFields()
	case assumption.FieldCalculated:
		fields = h.Catalog.CalculatedFields()
	default:
		http.Error(w, fmt.Sprintf("Unknown field type: %s", t), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(fields)
}
