package validator

import "strings"

// RequiredString validates that a string is not empty after trimming whitespace.
func RequiredString(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return strings.TrimSpace(value) != ""
		},
		Error: ValidationError{
			Field:          field,
			Message:        "field is required",
			TranslationKey: "validation.required",
			TranslationValues: map[string]any{
				"field": field,
			},
		},
	}
}

// EmptyString validates that a string is empty. Used for values the server
// assigns and a client must not supply.
func EmptyString(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return value == ""
		},
		Error: ValidationError{
			Field:          field,
			Message:        "must not be set by the client",
			TranslationKey: "validation.forbidden",
			TranslationValues: map[string]any{
				"field": field,
			},
		},
	}
}
