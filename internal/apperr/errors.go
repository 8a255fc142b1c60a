// Package apperr holds sentinel errors shared across packages.
package apperr

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrMalformedArtifact = errors.New("malformed artifact")
	ErrFinalized         = errors.New("pipeline already finalized")
)
