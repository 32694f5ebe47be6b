package assumption

import (
	"math"

	"project_finance/pkg/core/formula"
)

// HoursPerYear converts an average capacity into annual energy.
const HoursPerYear = 8760

// Derive returns a copy of the form with the enterprise-level derived assumptions added:
//
//	debt_percentage          = D/E / (1 + D/E) * 100
//	equity_percentage        = 100 - debt_percentage
//	annual_energy_generation = plant_capacity_ac * plf/100 * 8760
//	debt_amount              = total_project_cost * debt_percentage/100
//
// Each is computed only when its inputs are present and non-zero, and kept only when finite.
func Derive(form formula.Context) formula.Context {
	out := make(formula.Context, len(form)+4)
	for k, v := range form {
		out[k] = v
	}

	if out.Truthy("debt_equity_ratio") {
		if ratio, ok := out.Number("debt_equity_ratio"); ok {
			debtPct := ratio / (1 + ratio) * 100
			setFinite(out, "debt_percentage", debtPct)
			setFinite(out, "equity_percentage", 100-debtPct)
		}
	}

	if out.Truthy("plant_capacity_ac") && out.Truthy("plf") {
		capacity, ok1 := out.Number("plant_capacity_ac")
		plf, ok2 := out.Number("plf")
		if ok1 && ok2 {
			setFinite(out, "annual_energy_generation", capacity*(plf/100)*HoursPerYear)
		}
	}

	if out.Truthy("total_project_cost") && out.Truthy("debt_percentage") {
		cost, ok1 := out.Number("total_project_cost")
		debtPct, ok2 := out.Number("debt_percentage")
		if ok1 && ok2 {
			setFinite(out, "debt_amount", cost*(debtPct/100))
		}
	}

	return out
}

func setFinite(c formula.Context, id string, v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return
	}
	c[id] = v
}
