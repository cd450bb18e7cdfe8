package validator

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// New builds the validator used by every handler, with the custom rules
// registered. Handlers and tests must share this constructor so a DTO
// never validates differently across the app.
func New() *validator.Validate {
	v := validator.New()

	// "notblank" rejects whitespace-only strings. A member's full name,
	// a reward title or an event title may not be just spaces even
	// though they pass "required" once the field is set.
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		str, ok := fl.Field().Interface().(string)
		if !ok {
			return true // Not a string, let other validators handle it
		}
		return strings.TrimSpace(str) != ""
	})

	return v
}
