package dto

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// RegisterValidations adds the custom tags used by request DTOs to v.
func RegisterValidations(v *validator.Validate) error {
	if err := v.RegisterValidation("splitsum", validateSplitSum); err != nil {
		return fmt.Errorf("registering splitsum validation: %w", err)
	}
	return nil
}

// validateSplitSum checks that split template percentages add up to 100.
func validateSplitSum(fl validator.FieldLevel) bool {
	entries, ok := fl.Field().Interface().([]SplitEntryDTO)
	if !ok {
		return false
	}
	total := 0
	for _, e := range entries {
		total += e.Percentage
	}
	return total == 100
}
