package service

import "errors"

var (
	// ErrForbiddenUser is returned when an authenticated caller asks for another user's proposals.
	ErrForbiddenUser = errors.New("cannot request recommendations for another user")
	// ErrInvalidUser is returned when an unauthenticated caller sends no usable user_id.
	ErrInvalidUser = errors.New("user_id must be a positive integer when unauthenticated")
	// ErrInvalidRequest is returned when hard constraints are missing.
	ErrInvalidRequest = errors.New("max_time and max_calories are required")
	// ErrMissingInventory is returned when an unauthenticated caller sends no inventory.
	ErrMissingInventory = errors.New("no inventory supplied; log in or send inventory")
	// ErrEmptyCatalog is returned when no recipe could be loaded.
	ErrEmptyCatalog = errors.New("no recipes are registered")
	// ErrNoProposals is returned when no recipe survives filtering.
	ErrNoProposals = errors.New("no recipes match the current inventory and constraints")
	// ErrInternal hides unexpected failures during ranking.
	ErrInternal = errors.New("failed to compute recommendations")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidToken       = errors.New("invalid token")
	ErrRecipeNotFound     = errors.New("recipe not found")
)
