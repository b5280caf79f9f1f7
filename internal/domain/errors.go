package domain

import "errors"

// Repository-level errors
var (
	ErrDuplicateKey = errors.New("unique constraint violation")
)

// Profile errors
var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrNotProfileOwner = errors.New("profile does not belong to current user")
)

// Game errors
var (
	ErrGameNotFound = errors.New("game not found")
)
