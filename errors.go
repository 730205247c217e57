package authgate

import "errors"

var (
	// ErrProjectNotFound covers both a missing project and a denied one.
	// Denials surface as "not found" so probing cannot reveal that a
	// project exists.
	ErrProjectNotFound = errors.New("project not found")
	// ErrValidation is a malformed identifier, rejected before any
	// resolver runs.
	ErrValidation = errors.New("invalid identifier")
	// ErrRateLimited is an exhausted attempt budget.
	ErrRateLimited = errors.New("rate limited")
	// ErrEngineNotReady is returned by Build when required collaborators
	// are missing.
	ErrEngineNotReady = errors.New("engine not initialized")
)
