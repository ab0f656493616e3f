// Package apperr defines sentinel errors shared across layers.
package apperr

import "errors"

var (
	// ErrNotFound indicates a note identifier with no entry in the
	// converted document.
	ErrNotFound = errors.New("not found")
)
