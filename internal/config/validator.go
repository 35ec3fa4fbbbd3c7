package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validate validates Settings using struct tags, following the teacher's
// internal/config.Validate pattern (go-playground/validator with
// WithRequiredStructEnabled).
func (s *Settings) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(s); err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

// formatValidationErrors turns validator field errors into one readable,
// multi-line error message instead of the library's default terse form.
func formatValidationErrors(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	var messages []string
	for _, fe := range verrs {
		messages = append(messages, fmt.Sprintf("%s: failed on %q", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("validation failed: %s", strings.Join(messages, "; "))
}
