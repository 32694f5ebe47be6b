// Package timeline talks to the external timeline-generation service.
// The service owns the period algorithm; this package only shapes the request and
// hands the response back untouched.
package timeline

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Granularities are the grids the service returns, in display order.
var Granularities = []string{"monthly", "quarterly", "semiannual", "annual"}

// Inputs are the timeline assumptions of the Time sheet.
// Optional dates are sent as empty strings, which the service treats as unset.
type Inputs struct {
	ModelStartDate              string `json:"model_start_date"`
	PPASigningDate              string `json:"ppa_signing_date"`
	FinancialCloseDate          string `json:"financial_close_date,omitempty"`
	ConstructionPeriodStartDate string `json:"construction_period_start_date,omitempty"`
	ConstructionPeriod          int    `json:"construction_period"` // months
	ScheduledPCODAsPerPPA       string `json:"scheduled_pcod_as_per_ppa"`
	ScheduledPCOD               string `json:"scheduled_pcod"`
	CommercialOperationDate     string `json:"commercial_operation_date,omitempty"`
	TenorOfPPA                  int    `json:"tenor_of_ppa"` // years
	EndOfCommercialOperations   string `json:"end_of_commercial_operations"`
	ExtensionInPPA              int    `json:"extension_in_ppa"` // years
	EndOfExtensionPeriod        string `json:"end_of_extension_period"`
	MonthsInQuarterlyPeriod     int    `json:"months_in_quarterly_period"`
}

// DefaultInputs returns the Time sheet base case.
func DefaultInputs() Inputs {
	return Inputs{
		ModelStartDate:            "2025-01-01",
		PPASigningDate:            "2025-09-17",
		ConstructionPeriod:        25,
		ScheduledPCODAsPerPPA:     "2028-01-30",
		ScheduledPCOD:             "2028-01-31",
		TenorOfPPA:                25,
		EndOfCommercialOperations: "2053-01-31",
		ExtensionInPPA:            0,
		EndOfExtensionPeriod:      "2053-01-31",
		MonthsInQuarterlyPeriod:   3,
	}
}

// Grid is one period-granularity table of the response.
type Grid struct {
	Type         string                   `json:"type,omitempty"`
	TotalPeriods int                      `json:"total_periods,omitempty"`
	StartDate    string                   `json:"start_date"`
	EndDate      string                   `json:"end_date"`
	Columns      []map[string]interface{} `json:"columns"`
	Rows         []map[string]interface{} `json:"rows"`
}

// Response maps a granularity name to its grid, kept as the raw bytes the service sent.
type Response map[string]json.RawMessage

// Grid decodes one granularity from the response.
func (r Response) Grid(name string) (*Grid, error) {
	raw, ok := r[name]
	if !ok {
		return nil, fmt.Errorf("timeline %q not in response", name)
	}
	var g Grid
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil, fmt.Errorf("failed to decode %s timeline: %w", name, err)
	}
	return &g, nil
}

// Names returns the granularities present, sorted.
func (r Response) Names() []string {
	names := make([]string, 0, len(r))
	for k := range r {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// HealthStatus is the body of the service health endpoint.
type HealthStatus struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}
