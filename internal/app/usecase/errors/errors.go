package usecase

import "errors"

// Lifecycle error taxonomy. Handlers translate these into the uniform
// {"error": <message>} body with the matching HTTP status.
var (
	ErrUnauthorized  = errors.New("unauthorized")
	ErrValidation    = errors.New("bad request")
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict resource")
	ErrLimitExceeded = errors.New("limit exceeded")
	ErrInternal      = errors.New("unknown error, try again later")
)
