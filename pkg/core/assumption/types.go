// Package assumption holds the assumption field catalog of the project finance model,
// the derived enterprise assumptions and field validation.
package assumption

import (
	"encoding/json"
	"fmt"
)

// =============================================================================
// FIELD DEFINITIONS
// Matches the input sheet of the source workbook: one row per field.
// =============================================================================

// FieldType separates user-entered cells from formula cells.
type FieldType string

const (
	FieldInput      FieldType = "input"
	FieldCalculated FieldType = "calculated"
)

// DataType is the declared value type of a field.
type DataType string

const (
	DataText       DataType = "text"
	DataNumber     DataType = "number"
	DataCurrency   DataType = "currency"
	DataPercentage DataType = "percentage"
	DataDate       DataType = "date"
	DataBoolean    DataType = "boolean"
)

// Validation bounds an input field.
type Validation struct {
	Required bool     `json:"required,omitempty" yaml:"required"`
	Min      *float64 `json:"min,omitempty" yaml:"min"`
	Max      *float64 `json:"max,omitempty" yaml:"max"`
}

// Field is a single assumption cell.
type Field struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Row         int         `json:"row,omitempty"`
	Type        FieldType   `json:"type"`
	DataType    DataType    `json:"dataType"`
	Value       interface{} `json:"value"`
	Formula     string      `json:"formula,omitempty"`
	IsNamedCell bool        `json:"isNamedCell"`
	NamedCell   string      `json:"namedCell,omitempty"`
	Required    bool        `json:"required"`
	Unit        string      `json:"unit,omitempty"`
	Validation  *Validation `json:"validation,omitempty"`
}

// Heading groups fields inside a section.
type Heading struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Fields []*Field `json:"assumptions"`
}

// Section is a top-level group of the model (project details, debt financing...).
type Section struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Color    string     `json:"color,omitempty"`
	Headings []*Heading `json:"headings"`
}

// =============================================================================
// CATALOG
// =============================================================================

// Catalog holds the sections of the model and an id index over their fields.
type Catalog struct {
	Sections []*Section `json:"sections"`

	index map[string]*Field
}

// NewCatalog indexes the given sections. Duplicate field ids are rejected.
func NewCatalog(sections ...*Section) (*Catalog, error) {
	c := &Catalog{index: make(map[string]*Field)}
	for _, s := range sections {
		if err := c.AddSection(s); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// AddSection appends a section and indexes its fields.
func (c *Catalog) AddSection(s *Section) error {
	if s.ID == "" {
		return fmt.Errorf("section ID cannot be empty")
	}
	seen := make(map[string]bool)
	for _, h := range s.Headings {
		for _, f := range h.Fields {
			if f.ID == "" {
				return fmt.Errorf("field in section '%s' has no ID", s.ID)
			}
			if _, exists := c.index[f.ID]; exists || seen[f.ID] {
				return fmt.Errorf("field '%s' already exists", f.ID)
			}
			seen[f.ID] = true
		}
	}
	for _, h := range s.Headings {
		for _, f := range h.Fields {
			c.index[f.ID] = f
		}
	}
	c.Sections = append(c.Sections, s)
	return nil
}

// FieldByID returns a field by its id.
func (c *Catalog) FieldByID(id string) (*Field, error) {
	f, ok := c.index[id]
	if !ok {
		return nil, fmt.Errorf("field '%s' not found", id)
	}
	return f, nil
}

// Fields returns every field in section order.
func (c *Catalog) Fields() []*Field {
	var out []*Field
	for _, s := range c.Sections {
		for _, h := range s.Headings {
			out = append(out, h.Fields...)
		}
	}
	return out
}

// InputFields returns the user-entered fields.
func (c *Catalog) InputFields() []*Field {
	return c.filter(FieldInput)
}

// CalculatedFields returns the formula fields.
func (c *Catalog) CalculatedFields() []*Field {
	return c.filter(FieldCalculated)
}

func (c *Catalog) filter(t FieldType) []*Field {
	var out []*Field
	for _, f := range c.Fields() {
		if f.Type == t {
			out = append(out, f)
		}
	}
	return out
}

// ToJSON serializes the catalog for the form wizard.
func (c *Catalog) ToJSON() ([]byte, error) {
	return json.Marshal(c)
}

// FromJSON rebuilds a catalog, re-validating field ids.
func FromJSON(data []byte) (*Catalog, error) {
	var raw struct {
		Sections []*Section `json:"sections"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return NewCatalog(raw.Sections...)
}
