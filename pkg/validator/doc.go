// Package validator provides small declarative validation rules.
//
// A Rule couples a boolean Check with translation-friendly error metadata.
// First evaluates rules in order and reports the first failure as
// ValidationErrors, which implements error.
//
//	err := validator.First(
//	    validator.RequiredString("firstName", in.FirstName),
//	    validator.RequiredString("email", in.Email),
//	)
//	if verrs := validator.ExtractValidationErrors(err); verrs != nil {
//	    // verrs.Fields() names the offending field
//	}
//
// ValidationErrors survives wrapping with errors.Join or %w, so
// ExtractValidationErrors works on wrapped errors.
package validator
