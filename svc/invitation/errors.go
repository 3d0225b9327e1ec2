package invitation

import "errors"

var (
	// ErrValidation is returned for malformed or missing input and for illegal state transitions.
	ErrValidation = errors.New("invitation: validation failed")

	// ErrNotFound is returned when the identifier has no live record.
	ErrNotFound = errors.New("invitation: not found")

	// ErrDuplicate is returned when an identifier collides with an existing record on create.
	ErrDuplicate = errors.New("invitation: duplicate identifier")

	// ErrInternal marks a store or mailer invariant violation, or an aborted batch.
	ErrInternal = errors.New("invitation: internal server error")
)
