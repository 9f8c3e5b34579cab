package models

import "errors"

var (
	// ErrAlreadyRegistered is matched by store errors caused by the unique email constraint
	ErrAlreadyRegistered = errors.New("email already registered")
	// ErrServerNotConfigured means the store URL or service key is missing
	ErrServerNotConfigured = errors.New("server not configured")
)
