package domain

import (
	"context"
	"time"
)

// User represents an account synced from the external identity provider.
// ExternalID is the provider's opaque identifier; it is the only key the
// provider hands us at request time.
// swagger:model User
type User struct {
	ID         string    `json:"id"`
	ExternalID string    `json:"external_id"`
	Email      string    `json:"email"`
	Username   string    `json:"username"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	PhotoURL   string    `json:"photo_url"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// UserRepository defines the interface for user storage.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByExternalID(ctx context.Context, externalID string) (*User, error)
	Update(ctx context.Context, user *User) (*User, error)
	DeleteByExternalID(ctx context.Context, externalID string) error
}

// UserService syncs users pushed by the identity provider's webhooks. This
// service never provisions identities itself.
type UserService interface {
	Create(ctx context.Context, user *User) (*User, error)
	UpdateByExternalID(ctx context.Context, externalID string, user *User) (*User, error)
	DeleteByExternalID(ctx context.Context, externalID string) error
	GetByExternalID(ctx context.Context, externalID string) (*User, error)
}

// TokenVerifier verifies an identity-provider session token and returns the
// external user id it was issued for.
type TokenVerifier interface {
	Verify(token string) (externalID string, err error)
}
