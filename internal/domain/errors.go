package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a unique key (slug, sku) is already taken.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidInput marks caller errors that map to HTTP 400.
	ErrInvalidInput = errors.New("invalid input")
)
