package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrEmailAlreadyTaken is returned when an attempt to register a new user
	// fails because a user with the same normalized email already exists.
	ErrEmailAlreadyTaken = errors.New("email already taken")

	// ErrUserNotFound is returned when a query expected to match a user
	// record produces an empty result set.
	ErrUserNotFound = errors.New("user not found")

	// ErrUserNotUpdated is returned when an UPDATE targeting a single user
	// row completes without error but affects zero rows, indicating the
	// user no longer exists.
	ErrUserNotUpdated = errors.New("user was not updated")
)
