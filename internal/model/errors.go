package model

import "errors"

// Shared error classes. Callers test with errors.Is; packages wrap these
// with context via fmt.Errorf("...: %w", ...).
var (
	// ErrInvalidArgument marks malformed input (symbol, date, range).
	// Never retried, surfaced synchronously.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidOperation marks a violated precondition (uninitialized
	// provider, unbound resolver) or an unrecoverable collaborator failure.
	ErrInvalidOperation = errors.New("invalid operation")
)
