package assumption

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"project_finance/pkg/core/formula"
)

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()

	if len(c.Sections) == 0 {
		t.Fatal("expected built-in sections")
	}
	f, err := c.FieldByID("field_839")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Value != 1622.01 || f.Unit != "MW" || !f.IsNamedCell {
		t.Errorf("unexpected field_839: %+v", f)
	}

	if _, err := c.FieldByID("missing"); err == nil {
		t.Error("expected error for unknown field")
	}

	inputs, calculated := c.InputFields(), c.CalculatedFields()
	if len(inputs)+len(calculated) != len(c.Fields()) {
		t.Errorf("every field should be input or calculated: %d + %d != %d", len(inputs), len(calculated), len(c.Fields()))
	}
	for _, f := range calculated {
		if f.Formula == "" {
			t.Errorf("calculated field %s has no formula", f.ID)
		}
	}
}

func TestCatalogFormulasMatchEngine(t *testing.T) {
	c := DefaultCatalog()
	for id, expr := range formula.NewEngine().AvailableFormulas() {
		f, err := c.FieldByID(id)
		if err != nil {
			t.Errorf("engine formula %s missing from catalog", id)
			continue
		}
		if f.Formula != expr {
			t.Errorf("%s: catalog formula %q differs from engine %q", id, f.Formula, expr)
		}
	}
}

func TestNewCatalog_Duplicate(t *testing.T) {
	s := &Section{ID: "s", Headings: []*Heading{{ID: "h", Fields: []*Field{{ID: "a"}, {ID: "a"}}}}}
	if _, err := NewCatalog(s); err == nil {
		t.Error("expected duplicate id to be rejected")
	}

	c, _ := NewCatalog(&Section{ID: "one", Headings: []*Heading{{ID: "h", Fields: []*Field{{ID: "x"}}}}})
	if err := c.AddSection(&Section{ID: "two", Headings: []*Heading{{ID: "h", Fields: []*Field{{ID: "x"}}}}}); err == nil {
		t.Error("expected duplicate across sections to be rejected")
	}
	if len(c.Sections) != 1 {
		t.Errorf("rejected section should not be appended, got %d", len(c.Sections))
	}
}

func TestCatalog_JSONRoundTrip(t *testing.T) {
	data, err := DefaultCatalog().ToJSON()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c, err := FromJSON(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := c.FieldByID("field_41"); err != nil {
		t.Errorf("index not rebuilt: %v", err)
	}
}

func TestDerive(t *testing.T) {
	form := formula.Context{
		"debt_equity_ratio":  3,
		"plant_capacity_ac":  100,
		"plf":                25,
		"total_project_cost": 200000000,
	}
	out := Derive(form)

	if got := out["debt_percentage"].(float64); math.Abs(got-75) > 1e-9 {
		t.Errorf("expected debt 75%%, got %f", got)
	}
	if got := out["equity_percentage"].(float64); math.Abs(got-25) > 1e-9 {
		t.Errorf("expected equity 25%%, got %f", got)
	}
	if got := out["annual_energy_generation"].(float64); math.Abs(got-219000) > 1e-6 {
		t.Errorf("expected 219000 MWh, got %f", got)
	}
	if got := out["debt_amount"].(float64); math.Abs(got-150000000) > 1e-3 {
		t.Errorf("expected 150M debt, got %f", got)
	}
	if _, ok := form["debt_percentage"]; ok {
		t.Error("input form must not be modified")
	}
}

func TestDerive_MissingInputs(t *testing.T) {
	out := Derive(formula.Context{"plant_capacity_ac": 100, "total_project_cost": 1})
	for _, id := range []string{"debt_percentage", "equity_percentage", "annual_energy_generation", "debt_amount"} {
		if _, ok := out[id]; ok {
			t.Errorf("%s should not be derived", id)
		}
	}
}

func TestValidate(t *testing.T) {
	c := DefaultCatalog()
	period, _ := c.FieldByID("field_37")
	share, _ := c.FieldByID("field_58")
	start, _ := c.FieldByID("field_32")

	tests := []struct {
		name  string
		field *Field
		value interface{}
		want  string
	}{
		{"required missing", period, nil, "Construction period is required"},
		{"required blank", period, " ", "Construction period is required"},
		{"not a number", period, "abc", "Construction period must be a valid number"},
		{"below min", period, 0, "Construction period must be at least 1"},
		{"above max", period, 121, "Construction period must be at most 120"},
		{"ok", period, "24", ""},
		{"bad percentage", share, "lots", "Project shareholding must be a valid percentage"},
		{"percentage above max", share, 120, "Project shareholding must be at most 100%"},
		{"percentage ok", share, "100%", ""},
		{"bad date", start, "soon", "Construction start date must be a valid date"},
		{"date ok", start, "2025-01-01", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.field, tt.value)
			if tt.want == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected %q, got nil", tt.want)
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if ve.Message != tt.want || ve.FieldID != tt.field.ID {
				t.Errorf("expected %q on %s, got %q on %s", tt.want, tt.field.ID, ve.Message, ve.FieldID)
			}
		})
	}
}

func TestValidate_OptionalEmpty(t *testing.T) {
	f := &Field{ID: "x", Name: "X", DataType: DataNumber, Validation: &Validation{Min: floatPtr(1)}}
	if err := Validate(f, ""); err != nil {
		t.Errorf("optional empty field should pass, got %v", err)
	}
	if err := Validate(&Field{ID: "y", Name: "Y", DataType: DataText}, nil); err != nil {
		t.Errorf("field without validation should pass, got %v", err)
	}
}

func TestValidateForm(t *testing.T) {
	errs := ValidateForm(DefaultCatalog(), formula.Context{
		"field_37": 24,
		"field_58": 100,
		"plf":      140,
	})

	byField := make(map[string]string)
	for _, e := range errs {
		byField[e.FieldID] = e.Message
	}
	if byField["plf"] != "Plant Load Factor must be at most 100%" {
		t.Errorf("unexpected plf error: %q", byField["plf"])
	}
	if byField["plant_capacity_ac"] != "Plant Capacity (AC) is required" {
		t.Errorf("unexpected capacity error: %q", byField["plant_capacity_ac"])
	}
	if _, ok := byField["field_37"]; ok {
		t.Error("field_37 is valid")
	}
}

func TestDerive_NonFinite(t *testing.T) {
	out := Derive(formula.Context{"debt_equity_ratio": -1, "total_project_cost": 1000, "plant_capacity_ac": 1e308, "plf": 1e308})
	for _, id := range []string{"debt_percentage", "equity_percentage", "debt_amount", "annual_energy_generation"} {
		if v, ok := out[id]; ok {
			t.Errorf("%s should be left out, got %v", id, v)
		}
	}
	if _, err := json.Marshal(out); err != nil {
		t.Errorf("derived form must encode: %v", err)
	}
}
