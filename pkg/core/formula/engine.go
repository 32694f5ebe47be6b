package formula

import (
	"fmt"
	"math"
)

// Formula is one entry of the fixed formula table.
// Compute returns ok == false when its prerequisite inputs are missing; the field is then omitted.
type Formula struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Expression string `json:"expression"`

	Compute func(c Context) (interface{}, bool) `json:"-"`
}

// Engine evaluates the formula table against a Context.
// It keeps no state between calls; one Engine can serve concurrent requests.
type Engine struct {
	formulas []Formula
	defaults map[string]interface{}
	strict   bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithLiveCaseDefaults overrides the fallback values used by the INDEX lookups.
// Ids not named in the map keep their built-in default.
func WithLiveCaseDefaults(defaults map[string]interface{}) Option {
	return func(e *Engine) {
		for id, v := range defaults {
			e.defaults[id] = v
		}
	}
}

// WithStrictLookups makes INDEX lookups omit a field that is absent from the context
// instead of substituting its LiveCase default.
func WithStrictLookups() Option {
	return func(e *Engine) {
		e.strict = true
	}
}

// NewEngine builds an engine with the workbook formula table.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{defaults: LiveCaseDefaults()}
	for _, opt := range opts {
		opt(e)
	}
	e.formulas = e.buildTable()
	return e
}

// Calculate evaluates every formula independently and returns a fresh result mapping.
// It never fails: formulas whose prerequisites are missing, or whose value is not finite,
// are left out.
func (e *Engine) Calculate(c Context) Results {
	if c == nil {
		c = Context{}
	}
	results := make(Results, len(e.formulas))
	for _, f := range e.formulas {
		v, ok := f.Compute(c)
		if !ok {
			continue
		}
		// NaN and infinities cannot be encoded as JSON; an overflowing formula is left out.
		if n, isFloat := v.(float64); isFloat && (math.IsNaN(n) || math.IsInf(n, 0)) {
			continue
		}
		results[f.ID] = v
	}
	return results
}

// Formulas returns the table in evaluation order.
func (e *Engine) Formulas() []Formula {
	out := make([]Formula, len(e.formulas))
	copy(out, e.formulas)
	return out
}

// Formula looks up a single table entry.
func (e *Engine) Formula(id string) (Formula, error) {
	for _, f := range e.formulas {
		if f.ID == id {
			return f, nil
		}
	}
	return Formula{}, fmt.Errorf("unknown formula: %s", id)
}

// AvailableFormulas maps each field id to its spreadsheet expression.
func (e *Engine) AvailableFormulas() map[string]string {
	out := make(map[string]string, len(e.formulas))
	for _, f := range e.formulas {
		out[f.ID] = f.Expression
	}
	return out
}

func (e *Engine) buildTable() []Formula {
	table := []Formula{
		{
			ID:         "field_41",
			Name:       "Project construction over date",
			Expression: "= EDATE( F32, F37 + F40 ) - 1",
			Compute:    ConstructionOverDate,
		},
		{
			ID:         "field_59",
			Name:       "Project Shareholding check",
			Expression: "= IF( F58 = 100%, 0, 1 )",
			Compute:    ShareholdingCheck,
		},
		{
			ID:         "field_2128",
			Name:       "PV project Cap on EGR period Delay LD to SPPC",
			Expression: "= F2125 * F2126 * Days_per_bank_month / thousand",
			Compute:    DelayLiquidatedDamagesCap,
		},
	}

	for _, l := range indexLookups {
		table = append(table, Formula{
			ID:         l.id,
			Name:       l.name,
			Expression: fmt.Sprintf("= INDEX( $K%[1]s:$%[2]s%[1]s, 0, LiveCase + 1 )", l.row, l.lastCol),
			Compute:    e.lookup(l.id),
		})
	}

	table = append(table,
		Formula{
			ID:         "field_47",
			Name:       "End of extension period",
			Expression: "= EOMONTH( F45, F46 * Months_per_year)",
			Compute:    EndOfExtensionPeriod,
		},
		Formula{
			ID:         "field_1229",
			Name:       "Swap allocation check - Cons",
			Expression: "= IF( ( F1214 + F1219 + F1224 ) <> 1, 1, 0 )",
			Compute:    swapAllocationCheck("field_1214", "field_1219", "field_1224"),
		},
		Formula{
			ID:         "field_1230",
			Name:       "Swap allocation check - Ops",
			Expression: "= IF( ( F1215 + F1220 + F1225 ) <> 1, 1, 0 )",
			Compute:    swapAllocationCheck("field_1215", "field_1220", "field_1225"),
		},
		Formula{
			ID:         "total_project_cost",
			Name:       "Total Project Cost",
			Expression: "= SUM(Civil Works + Equipment + Installation + Contingency)",
			Compute:    always(TotalProjectCost),
		},
		Formula{
			ID:         "debt_service_coverage",
			Name:       "Debt Service Coverage Ratio",
			Expression: "= EBITDA / Annual Debt Service",
			Compute:    always(DebtServiceCoverage),
		},
		Formula{
			ID:         "equity_irr",
			Name:       "Equity IRR",
			Expression: "= IRR(Equity Cash Flows)",
			Compute:    always(ApproximateEquityIRR),
		},
		Formula{
			ID:         "project_npv",
			Name:       "Project NPV",
			Expression: "= NPV(Discount Rate, Project Cash Flows)",
			Compute:    projectNPV,
		},
	)
	return table
}

// lookup stands in for INDEX(row, 0, LiveCase + 1) over the scenario columns.
func (e *Engine) lookup(id string) func(Context) (interface{}, bool) {
	return func(c Context) (interface{}, bool) {
		// A field sent as null is present and passes through as null.
		if v, ok := c[id]; ok {
			return v, true
		}
		if e.strict {
			return nil, false
		}
		if def, ok := e.defaults[id]; ok && def != nil {
			return def, true
		}
		return 0, true
	}
}

func projectNPV(c Context) (interface{}, bool) {
	return ProjectNPV(c)
}

func always(fn func(Context) float64) func(Context) (interface{}, bool) {
	return func(c Context) (interface{}, bool) {
		return fn(c), true
	}
}
