package assumption

// DefaultCatalog returns the built-in project finance model.
// Ids and rows follow the input sheet; app-level fields carry no row.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(
		projectDetails(),
		constructionCosts(),
		revenueTariff(),
		debtFinancing(),
		financialStructure(),
		timelineCalculations(),
	)
	if err != nil {
		// The built-in sections are static; a duplicate id is a programming error.
		panic(err)
	}
	return c
}

func floatPtr(f float64) *float64 { return &f }

func projectDetails() *Section {
	return &Section{
		ID:    "project_details",
		Name:  "Project Details",
		Color: "blue",
		Headings: []*Heading{
			{
				ID:   "basic_information",
				Name: "Basic Information",
				Fields: []*Field{
					{ID: "field_10", Name: "Project Name", Row: 10, Type: FieldInput, DataType: DataText, Value: "NJN", Formula: "= E6", Required: true},
					{ID: "field_32", Name: "Construction start date", Row: 32, Type: FieldInput, DataType: DataDate, Value: "2025-01-01", Required: true},
					{ID: "field_37", Name: "Construction period", Row: 37, Type: FieldInput, DataType: DataNumber, Value: 25, Unit: "months", Required: true,
						Validation: &Validation{Required: true, Min: floatPtr(1), Max: floatPtr(120)}},
					{ID: "field_40", Name: "Construction delay allowance", Row: 40, Type: FieldInput, DataType: DataNumber, Value: 0, Unit: "months",
						Validation: &Validation{Min: floatPtr(0)}},
					{ID: "field_58", Name: "Project shareholding", Row: 58, Type: FieldInput, DataType: DataPercentage, Value: 100, Unit: "%", Required: true,
						Validation: &Validation{Required: true, Min: floatPtr(0), Max: floatPtr(100)}},
					{ID: "field_61", Name: "Bidder share in project co", Row: 61, Type: FieldInput, DataType: DataNumber, Value: 1,
						Formula: "= INDEX( $K61:$Q61, 0, LiveCase + 1 )", IsNamedCell: true, NamedCell: "F61", Required: true},
					{ID: "field_78", Name: "Reference date for indexation", Row: 78, Type: FieldInput, DataType: DataDate, Value: "2025-01-01",
						Formula: "= INDEX( $K78:$Q78, 0, LiveCase + 1 )", IsNamedCell: true, NamedCell: "F78", Required: true},
					{ID: "field_838", Name: "Project capacity - AC", Row: 838, Type: FieldInput, DataType: DataNumber, Value: 1351, Unit: "MW",
						Formula: "= INDEX( $K838:$Q838, 0, LiveCase + 1 )", IsNamedCell: true, NamedCell: "F838", Required: true},
					{ID: "field_839", Name: "Project capacity - DC", Row: 839, Type: FieldInput, DataType: DataNumber, Value: 1622.01, Unit: "MW",
						Formula: "= INDEX( $K839:$P839, 0, LiveCase + 1 )", IsNamedCell: true, NamedCell: "F839", Required: true},
				},
			},
			{
				ID:   "calculated_fields",
				Name: "Calculated Fields",
				Fields: []*Field{
					{ID: "field_41", Name: "Project construction over date", Row: 41, Type: FieldCalculated, DataType: DataDate,
						Value: "2028-01-31", Formula: "= EDATE( F32, F37 + F40 ) - 1", Required: true},
					{ID: "field_59", Name: "Project Shareholding check", Row: 59, Type: FieldCalculated, DataType: DataNumber,
						Value: 0, Formula: "= IF( F58 = 100%, 0, 1 )", Required: true},
					{ID: "field_2128", Name: "PV project Cap on EGR period Delay LD to SPPC", Row: 2128, Type: FieldCalculated, DataType: DataNumber,
						Value: 0, Formula: "= F2125 * F2126 * Days_per_bank_month / thousand", Unit: "years", Required: true},
				},
			},
		},
	}
}

func constructionCosts() *Section {
	return &Section{
		ID:    "construction_costs",
		Name:  "Construction Costs",
		Color: "orange",
		Headings: []*Heading{
			{
				ID:   "cost_components",
				Name: "Cost Components",
				Fields: []*Field{
					{ID: "civil_works_cost", Name: "Civil Works Cost", Type: FieldInput, DataType: DataCurrency, Value: 0, Unit: "USD", Required: true,
						Validation: &Validation{Min: floatPtr(0)}},
					{ID: "equipment_cost", Name: "Equipment Cost", Type: FieldInput, DataType: DataCurrency, Value: 0, Unit: "USD", Required: true,
						Validation: &Validation{Min: floatPtr(0)}},
					{ID: "installation_cost", Name: "Installation Cost", Type: FieldInput, DataType: DataCurrency, Value: 0, Unit: "USD", Required: true,
						Validation: &Validation{Min: floatPtr(0)}},
					{ID: "contingency_cost", Name: "Contingency Cost", Type: FieldInput, DataType: DataCurrency, Value: 0, Unit: "USD",
						Validation: &Validation{Min: floatPtr(0)}},
					{ID: "total_project_cost", Name: "Total Project Cost", Type: FieldCalculated, DataType: DataCurrency, Value: 0, Unit: "USD",
						Formula: "= SUM(Civil Works + Equipment + Installation + Contingency)", Required: true},
				},
			},
		},
	}
}

func revenueTariff() *Section {
	return &Section{
		ID:    "revenue_tariff",
		Name:  "Revenue & Tariff",
		Color: "green",
		Headings: []*Heading{
			{
				ID:   "plant_performance",
				Name: "Plant Performance",
				Fields: []*Field{
					{ID: "plant_capacity_ac", Name: "Plant Capacity (AC)", Type: FieldInput, DataType: DataNumber, Value: 0, Unit: "MW",
						Validation: &Validation{Required: true, Min: floatPtr(0)}},
					{ID: "plf", Name: "Plant Load Factor", Type: FieldInput, DataType: DataPercentage, Value: 0, Unit: "%",
						Validation: &Validation{Required: true, Min: floatPtr(0), Max: floatPtr(100)}},
					{ID: "annual_energy_generation", Name: "Annual Energy Generation", Type: FieldCalculated, DataType: DataNumber, Value: 0, Unit: "MWh",
						Formula: "= Plant_Capacity_AC * PLF * 8760"},
				},
			},
			{
				ID:   "tariff_structure",
				Name: "Tariff Structure",
				Fields: []*Field{
					{ID: "base_tariff", Name: "Base Tariff Rate", Type: FieldInput, DataType: DataCurrency, Value: 0, Unit: "USD/MWh", Required: true,
						Validation: &Validation{Min: floatPtr(0)}},
					{ID: "annual_escalation", Name: "Annual Escalation Rate", Type: FieldInput, DataType: DataPercentage, Value: 0, Unit: "%", Required: true,
						Validation: &Validation{Min: floatPtr(0), Max: floatPtr(100)}},
					{ID: "annual_ebitda", Name: "Annual EBITDA", Type: FieldInput, DataType: DataCurrency, Value: 0, Unit: "USD"},
					{ID: "annual_project_cashflow", Name: "Annual Project Cash Flow", Type: FieldInput, DataType: DataCurrency, Value: 0, Unit: "USD"},
				},
			},
		},
	}
}

func debtFinancing() *Section {
	return &Section{
		ID:    "debt_financing",
		Name:  "Debt Financing",
		Color: "red",
		Headings: []*Heading{
			{
				ID:   "loan_terms",
				Name: "Loan Terms",
				Fields: []*Field{
					{ID: "debt_equity_ratio", Name: "Debt to Equity Ratio", Type: FieldInput, DataType: DataNumber, Value: 0,
						Validation: &Validation{Min: floatPtr(0)}},
					{ID: "debt_percentage", Name: "Debt Percentage", Type: FieldCalculated, DataType: DataPercentage, Value: 0, Unit: "%",
						Formula: "= D/E / (1 + D/E)"},
					{ID: "equity_percentage", Name: "Equity Percentage", Type: FieldCalculated, DataType: DataPercentage, Value: 0, Unit: "%",
						Formula: "= 100% - Debt_Percentage"},
					{ID: "debt_amount", Name: "Total Debt Amount", Type: FieldCalculated, DataType: DataCurrency, Value: 0, Unit: "USD",
						Formula: "= Total_Project_Cost * Debt_Percentage"},
					{ID: "interest_rate", Name: "Interest Rate", Type: FieldInput, DataType: DataPercentage, Value: 0, Unit: "%", Required: true,
						Validation: &Validation{Min: floatPtr(0), Max: floatPtr(100)}},
					{ID: "loan_tenor", Name: "Loan Tenor", Type: FieldInput, DataType: DataNumber, Value: 0, Unit: "years", Required: true,
						Validation: &Validation{Min: floatPtr(0), Max: floatPtr(40)}},
					{ID: "annual_debt_service", Name: "Annual Debt Service", Type: FieldInput, DataType: DataCurrency, Value: 0, Unit: "USD"},
				},
			},
		},
	}
}

func financialStructure() *Section {
	return &Section{
		ID:    "financial_structure",
		Name:  "Financial Structure",
		Color: "purple",
		Headings: []*Heading{
			{
				ID:   "equity",
				Name: "Equity",
				Fields: []*Field{
					{ID: "total_equity", Name: "Total Equity", Type: FieldInput, DataType: DataCurrency, Value: 0, Unit: "USD"},
					{ID: "annual_equity_cashflow", Name: "Annual Equity Cash Flow", Type: FieldInput, DataType: DataCurrency, Value: 0, Unit: "USD"},
					{ID: "project_life_years", Name: "Project Life", Type: FieldInput, DataType: DataNumber, Value: 25, Unit: "years",
						Validation: &Validation{Min: floatPtr(1), Max: floatPtr(60)}},
					{ID: "discount_rate", Name: "Discount Rate", Type: FieldInput, DataType: DataNumber, Value: 0.08,
						Validation: &Validation{Min: floatPtr(0), Max: floatPtr(1)}},
					{ID: "field_2042", Name: "Tax during EGR period funded as project cost?", Row: 2042, Type: FieldInput, DataType: DataCurrency, Value: 1,
						Formula: "= INDEX( $K2042:$Q2042, 0, LiveCase + 1 )", IsNamedCell: true, NamedCell: "F2042", Unit: "USD", Required: true},
				},
			},
			{
				ID:   "returns",
				Name: "Returns",
				Fields: []*Field{
					{ID: "equity_irr", Name: "Equity IRR", Type: FieldCalculated, DataType: DataPercentage, Value: 0, Unit: "%",
						Formula: "= IRR(Equity Cash Flows)", Required: true},
					{ID: "project_npv", Name: "Project NPV", Type: FieldCalculated, DataType: DataCurrency, Value: 0, Unit: "USD",
						Formula: "= NPV(Discount Rate, Project Cash Flows)", Required: true},
					{ID: "debt_service_coverage", Name: "Debt Service Coverage Ratio", Type: FieldCalculated, DataType: DataNumber, Value: 0,
						Formula: "= EBITDA / Annual Debt Service", Required: true},
				},
			},
		},
	}
}

func timelineCalculations() *Section {
	return &Section{
		ID:    "sensitivity_analysis",
		Name:  "Sensitivity Analysis",
		Color: "red",
		Headings: []*Heading{
			{
				ID:   "timeline_calculations",
				Name: "Timeline Calculations",
				Fields: []*Field{
					{ID: "field_45", Name: "End of commercial operations", Row: 45, Type: FieldInput, DataType: DataDate, Value: "2053-01-31"},
					{ID: "field_46", Name: "Extension in PPA", Row: 46, Type: FieldInput, DataType: DataNumber, Value: 0, Unit: "years",
						Validation: &Validation{Min: floatPtr(0)}},
					{ID: "field_47", Name: "End of extension period", Row: 47, Type: FieldCalculated, DataType: DataDate, Value: "2053-01-31",
						Formula: "= EOMONTH( F45, F46 * Months_per_year)"},
				},
			},
			{
				ID:   "project_calculations",
				Name: "Project Calculations",
				Fields: []*Field{
					{ID: "field_1229", Name: "Swap allocation check - Cons", Row: 1229, Type: FieldCalculated, DataType: DataNumber, Value: 0,
						Formula: "= IF( ( F1214 + F1219 + F1224 ) <> 1, 1, 0 )"},
					{ID: "field_1230", Name: "Swap allocation check - Ops", Row: 1230, Type: FieldCalculated, DataType: DataNumber, Value: 0,
						Formula: "= IF( ( F1215 + F1220 + F1225 ) <> 1, 1, 0 )"},
					{ID: "field_2125", Name: "PV project delay rate", Row: 2125, Type: FieldInput, DataType: DataNumber, Value: 0,
						Formula: "= INDEX( $K2125:$Q2125, 0, LiveCase + 1 )", IsNamedCell: true, NamedCell: "F2125"},
					{ID: "field_2126", Name: "PV project delay period", Row: 2126, Type: FieldInput, DataType: DataNumber, Value: 0},
					{ID: "field_2127", Name: "Solar project delay rate", Row: 2127, Type: FieldInput, DataType: DataNumber, Value: 0,
						Formula: "= INDEX( $K2127:$Q2127, 0, LiveCase + 1 )", IsNamedCell: true, NamedCell: "F2127"},
				},
			},
		},
	}
}
