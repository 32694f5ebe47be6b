package assumption

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"project_finance/pkg/core/formula"
)

// ValidationError reports one invalid field value.
type ValidationError struct {
	FieldID string `json:"field_id"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validate checks a value against the field's declared type and bounds.
// Zero is a valid value for a required field; only nil and empty strings count as missing.
func Validate(f *Field, value interface{}) error {
	v := f.Validation
	if v == nil {
		v = &Validation{}
	}

	if isEmpty(value) {
		if v.Required {
			return &ValidationError{FieldID: f.ID, Message: fmt.Sprintf("%s is required", f.Name)}
		}
		return nil
	}

	switch f.DataType {
	case DataNumber, DataCurrency:
		n, ok := parseNumber(value)
		if !ok {
			return &ValidationError{FieldID: f.ID, Message: fmt.Sprintf("%s must be a valid number", f.Name)}
		}
		return checkBounds(f, v, n, "")
	case DataPercentage:
		n, ok := parseNumber(value)
		if !ok {
			return &ValidationError{FieldID: f.ID, Message: fmt.Sprintf("%s must be a valid percentage", f.Name)}
		}
		return checkBounds(f, v, n, "%")
	case DataDate:
		if _, ok := (formula.Context{"v": value}).Date("v"); !ok {
			return &ValidationError{FieldID: f.ID, Message: fmt.Sprintf("%s must be a valid date", f.Name)}
		}
	}
	return nil
}

// ValidateForm validates every input field of the catalog against the form.
func ValidateForm(c *Catalog, form formula.Context) []ValidationError {
	var errs []ValidationError
	for _, f := range c.InputFields() {
		if err := Validate(f, form[f.ID]); err != nil {
			var ve *ValidationError
			if errors.As(err, &ve) {
				errs = append(errs, *ve)
			}
		}
	}
	return errs
}

func checkBounds(f *Field, v *Validation, n float64, suffix string) error {
	if v.Min != nil && n < *v.Min {
		return &ValidationError{FieldID: f.ID, Message: fmt.Sprintf("%s must be at least %s%s", f.Name, formatBound(*v.Min), suffix)}
	}
	if v.Max != nil && n > *v.Max {
		return &ValidationError{FieldID: f.ID, Message: fmt.Sprintf("%s must be at most %s%s", f.Name, formatBound(*v.Max), suffix)}
	}
	return nil
}

func formatBound(b float64) string {
	return strconv.FormatFloat(b, 'f', -1, 64)
}

func isEmpty(value interface{}) bool {
	if value == nil {
		return true
	}
	if s, ok := value.(string); ok && strings.TrimSpace(s) == "" {
		return true
	}
	return false
}

func parseNumber(value interface{}) (float64, bool) {
	return formula.Context{"v": value}.Number("v")
}
