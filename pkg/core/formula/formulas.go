package formula

import (
	"math"

	"github.com/shopspring/decimal"
)

const (
	// DaysPerBankMonth is the Days_per_bank_month named cell.
	DaysPerBankMonth = 30
	// Thousand is the "thousand" named cell used for unit normalisation.
	Thousand = 1000
	// MonthsPerYear is the Months_per_year named cell.
	MonthsPerYear = 12

	DefaultDiscountRate     = 0.08
	DefaultProjectLifeYears = 25
)

// CostComponents are the construction cost fields summed into total_project_cost.
var CostComponents = []string{
	"civil_works_cost",
	"equipment_cost",
	"installation_cost",
	"contingency_cost",
}

// ConstructionOverDate computes field_41 = EDATE(F32, F37 + F40) - 1.
// F32 is the construction start, F37 and F40 are month counts.
func ConstructionOverDate(c Context) (interface{}, bool) {
	if !c.Truthy("field_32") || !c.Truthy("field_37") || !c.Truthy("field_40") {
		return nil, false
	}
	start, ok := c.Date("field_32")
	if !ok {
		return nil, false
	}
	m1, ok1 := c.Number("field_37")
	m2, ok2 := c.Number("field_40")
	if !ok1 || !ok2 {
		return nil, false
	}
	// EDATE truncates fractional months.
	end := EDate(start, int(m1+m2)).AddDate(0, 0, -1)
	return end.Format(DateLayout), true
}

// ShareholdingCheck computes field_59: 0 when F58 is exactly 100, otherwise 1.
func ShareholdingCheck(c Context) (interface{}, bool) {
	if !c.Has("field_58") {
		return nil, false
	}
	if n, ok := c.Number("field_58"); ok && n == 100 {
		return 0, true
	}
	return 1, true
}

// DelayLiquidatedDamagesCap computes field_2128 = F2125 * F2126 * Days_per_bank_month / thousand.
func DelayLiquidatedDamagesCap(c Context) (interface{}, bool) {
	if !c.Truthy("field_2125") || !c.Truthy("field_2126") {
		return nil, false
	}
	rate, ok1 := c.Number("field_2125")
	period, ok2 := c.Number("field_2126")
	if !ok1 || !ok2 {
		return nil, false
	}
	return rate * period * DaysPerBankMonth / Thousand, true
}

// EndOfExtensionPeriod computes field_47 = EOMONTH(F45, F46 * Months_per_year).
// F46 (extension years) defaults to zero.
func EndOfExtensionPeriod(c Context) (interface{}, bool) {
	end, ok := c.Date("field_45")
	if !ok {
		return nil, false
	}
	years, _ := c.Number("field_46")
	return EOMonth(end, int(years*MonthsPerYear)).Format(DateLayout), true
}

func swapAllocationCheck(ids ...string) func(Context) (interface{}, bool) {
	return func(c Context) (interface{}, bool) {
		present := false
		var sum float64
		for _, id := range ids {
			if n, ok := c.Number(id); ok {
				present = true
				sum += n
			}
		}
		if !present {
			return nil, false
		}
		if math.Abs(sum-1) > 1e-9 {
			return 1, true
		}
		return 0, true
	}
}

// TotalProjectCost sums the four construction cost components; a missing component counts as zero.
// The sum is taken in decimal to keep currency amounts exact.
func TotalProjectCost(c Context) float64 {
	total := decimal.Zero
	for _, id := range CostComponents {
		if n, ok := c.Number(id); ok {
			total = total.Add(decimal.NewFromFloat(n))
		}
	}
	return total.InexactFloat64()
}

// DebtServiceCoverage computes EBITDA / annual debt service.
// An absent or zero debt service is replaced by 1.
func DebtServiceCoverage(c Context) float64 {
	ebitda := c.NumberOr("annual_ebitda", 0)
	debtService := c.NumberOr("annual_debt_service", 1)
	return ebitda / debtService
}

// ApproximateEquityIRR is a closed-form return on equity in percent:
// (annual cash flow * life - equity) / equity * 100.
// It is not an IRR solve; it ignores the time value of money.
func ApproximateEquityIRR(c Context) float64 {
	equity := c.NumberOr("total_equity", 0)
	if equity == 0 {
		return 0
	}
	cashFlow := c.NumberOr("annual_equity_cashflow", 0)
	life := c.NumberOr("project_life_years", DefaultProjectLifeYears)
	return (cashFlow*life - equity) / equity * 100
}

// ProjectNPV discounts a constant annual project cash flow over the project life and
// subtracts the initial investment. The investment is total_project_cost from the context,
// or the summed cost components when the form does not carry it.
// ok is false when the discount rate is -100% or below.
func ProjectNPV(c Context) (float64, bool) {
	rate := c.NumberOr("discount_rate", DefaultDiscountRate)
	cashFlow := c.NumberOr("annual_project_cashflow", 0)
	life := c.NumberOr("project_life_years", DefaultProjectLifeYears)

	investment, ok := c.Number("total_project_cost")
	if !ok {
		investment = TotalProjectCost(c)
	}
	return NPV(rate, cashFlow, life, investment)
}

// NPV = -investment + sum over y = 1..years of cashFlow / (1 + rate)^y,
// evaluated as the annuity cashFlow * (1 - (1+rate)^-n) / rate so any horizon costs O(1).
// Fractional years are truncated; a non-positive horizon leaves only the investment.
func NPV(rate, cashFlow, years, investment float64) (float64, bool) {
	if 1+rate <= 0 {
		return 0, false
	}
	n := math.Trunc(years)
	if n <= 0 {
		return -investment, true
	}
	if rate == 0 {
		return cashFlow*n - investment, true
	}
	return cashFlow*(1-math.Pow(1+rate, -n))/rate - investment, true
}
