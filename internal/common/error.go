package common

import "errors"

var (
	// repository specific errors
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exist")

	// service specific errors
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")

	// user-specific validation errors
	ErrMissingEmail    = validationError("missing email")
	ErrMissingPassword = validationError("missing password")

	// file-specific validation errors
	ErrMissingName      = validationError("missing name")
	ErrMissingType      = validationError("missing type")
	ErrMissingData      = validationError("missing data")
	ErrParentNotFound   = validationError("parent not found")
	ErrParentNotAFolder = validationError("parent is not a folder")
	ErrNotAFile         = validationError("a folder doesn't have content")
)

// validationError creates a sentinel that matches both itself and ErrorValidation.
func validationError(msg string) error {
	return &fieldError{msg: msg}
}

type fieldError struct {
	msg string
}

func (e *fieldError) Error() string { return e.msg }

func (e *fieldError) Unwrap() error { return ErrorValidation }
