package apperror

import "errors"

var (
	ErrAuthentication       = errors.New("invalid credentials")
	ErrDuplicateAccount     = errors.New("an account with this email already exists")
	ErrProfileMissing       = errors.New("profile document missing")
	ErrUnsupportedOperation = errors.New("operation not supported by this backend")
	ErrConfiguration        = errors.New("backend is not configured for this operation")
	ErrNotFound             = errors.New("record not found")
	ErrValidation           = errors.New("validation failed")
	ErrInvalidTransition    = errors.New("invalid status transition")
	ErrStageClosed          = errors.New("stage is not open")
	ErrForbidden            = errors.New("not allowed")
)
