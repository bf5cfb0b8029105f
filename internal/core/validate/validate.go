// Package validate provides shared validation functions.
package validate

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/hay-kot/criterio"
)

// Required validates a value is non-empty after trimming whitespace.
func Required(value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("is required")
	}
	return nil
}

// RequiredField returns a criterio validator for required values.
func RequiredField(field, value string) error {
	return criterio.Run(field, value, Required)
}

// ID validates an item or preset id. Ids are passed as command arguments,
// so they must be non-empty and contain no whitespace.
func ID(id string) error {
	if id == "" {
		return fmt.Errorf("is required")
	}
	if strings.IndexFunc(id, unicode.IsSpace) >= 0 {
		return fmt.Errorf("%q must not contain whitespace", id)
	}
	return nil
}

// IDField returns a criterio validator for ids.
func IDField(field, id string) error {
	return criterio.Run(field, id, ID)
}
