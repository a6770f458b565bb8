package entities

import "errors"

var (
	// ErrInvalidInput is returned when a request carries no usable prompt or
	// an undecodable deck. No generation is attempted.
	ErrInvalidInput = errors.New("invalid input")

	// ErrGenerationFailure wraps any unexpected fault while assembling a deck
	ErrGenerationFailure = errors.New("generation failure")

	// ErrSessionNotFound is returned by deck stores for unknown session ids
	ErrSessionNotFound = errors.New("session not found")
)
