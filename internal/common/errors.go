// Package common defines shared constants and sentinel errors used across
// SteamKeeper layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound    = errors.New("not found")
	ErrPersistence = errors.New("persistence error")

	// Service-level errors.
	ErrValidation   = errors.New("validation error")
	ErrPrecondition = errors.New("precondition not met")

	// Collaborator errors.
	ErrRemoteFetch = errors.New("remote fetch failed")
	ErrLaunch      = errors.New("launch failed")
)
