package validator

import (
	"fmt"
)

func InList[T comparable](field string, value T, allowedValues []T) Rule {
	return Rule{
		Check: func() bool {
			for _, allowed := range allowedValues {
				if value == allowed {
					return true
				}
			}
			return false
		},
		Error: ValidationError{
			Field:          field,
			Message:        fmt.Sprintf("must be one of: %v", allowedValues),
			TranslationKey: "validation.in_list",
			TranslationValues: map[string]any{
				"field":          field,
				"allowed_values": allowedValues,
			},
		},
	}
}

// OptionalInList is InList that accepts the zero value, for enums where
// "unset" is later replaced by a default.
func OptionalInList[T comparable](field string, value T, allowedValues []T) Rule {
	rule := InList(field, value, allowedValues)
	check := rule.Check
	rule.Check = func() bool {
		var zero T
		return value == zero || check()
	}
	return rule
}
