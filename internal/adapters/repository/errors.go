package repository

import "errors"

// Sentinel kinds for store and leaderboard errors.
var (
	ErrValidation     = errors.New("invalid record input")
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEntry = errors.New("duplicate leaderboard entry")
	ErrInvalidLimit   = errors.New("invalid leaderboard limit")
)
