package auth

import (
	"time"

	"github.com/google/uuid"
)

// Client is an API consumer allowed to change documents.
type Client struct {
	ID         uuid.UUID
	Name       string
	SecretHash string
	CreatedAt  time.Time
	LastUsedAt *time.Time
}

// SafeClient removes sensitive fields for response payloads.
func (c Client) SafeClient() Client {
	c.SecretHash = ""
	return c
}

// Credentials is returned once when a client is provisioned; the secret is not stored in clear.
type Credentials struct {
	Client Client
	Secret string
}

// AccessToken is a signed bearer token and its expiry.
type AccessToken struct {
	Token     string
	ExpiresAt time.Time
}
