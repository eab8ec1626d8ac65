package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrInvalidCode           = errors.New("invalid or expired code")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
