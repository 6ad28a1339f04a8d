// Package helpers provides validation utilities.
package helpers

import (
	"strings"

	"evalgo.org/dumppublisher/internal/domain"
	"evalgo.org/dumppublisher/internal/rdf"
)

// ValidateRequired checks that a value is present
func ValidateRequired(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return domain.NewValidationError(field, "is required")
	}
	return nil
}

// ValidateURI checks that value is a non-empty absolute IRI
func ValidateURI(field, value string) error {
	if err := ValidateRequired(field, value); err != nil {
		return err
	}
	if !rdf.ValidIRI(value) {
		return domain.NewValidationError(field, "is not a valid absolute URI: "+value)
	}
	return nil
}

// ValidateOptionalURI checks value only when it is set
func ValidateOptionalURI(field, value string) error {
	if value == "" {
		return nil
	}
	return ValidateURI(field, value)
}

// ValidatePositive checks that n is greater than zero
func ValidatePositive(field string, n int) error {
	if n <= 0 {
		return domain.NewValidationError(field, "must be greater than zero")
	}
	return nil
}
