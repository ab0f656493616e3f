// Package ident generates short identifiers for notes and tokens.
package ident

import "github.com/google/uuid"

// Length of generated identifiers.
const Length = 8

// New returns a fresh 8-character identifier taken from a random UUID.
// Collisions are statistically negligible within one import run; there is
// no collision detection.
func New() string {
	return uuid.NewString()[:Length]
}
