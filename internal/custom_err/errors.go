package custom_err

import "errors"

var (
	// Lookup errors
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")

	// Referential integrity
	ErrEntityReferenced = errors.New("entity is referenced by transactions")

	// Upload errors
	ErrInvalidEncoding = errors.New("file is not valid UTF-8")

	// Validation errors
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
)
