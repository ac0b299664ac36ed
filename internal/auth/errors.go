package auth

import "errors"

var (
	// ErrClientExists indicates a client with the same name is already provisioned.
	ErrClientExists = errors.New("client already exists")
	// ErrInvalidCredentials is returned when authentication fails.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrClientNotFound signals that the client could not be located.
	ErrClientNotFound = errors.New("client not found")
	// ErrUnauthorized represents missing or invalid authentication tokens.
	ErrUnauthorized = errors.New("unauthorized")
)
