package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository provides access to user accounts
type UserRepository interface {
	// FindByID retrieves a user by ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByIDForUpdate retrieves a user by ID and locks the row for the
	// duration of the surrounding transaction (SELECT ... FOR UPDATE).
	// Callers must be inside a transaction; the lock serializes concurrent
	// quota check-and-consume operations for the same user.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*User, error)

	// Save persists a new user
	Save(ctx context.Context, user *User) error

	// Update persists changes to an existing user
	Update(ctx context.Context, user *User) error
}

// SubscriptionTierRepository provides access to subscription tiers
type SubscriptionTierRepository interface {
	// FindByID retrieves a tier by ID
	FindByID(ctx context.Context, id uuid.UUID) (*SubscriptionTier, error)

	// FindByName retrieves a tier by its name
	FindByName(ctx context.Context, tier TierName) (*SubscriptionTier, error)

	// Save persists a new tier
	Save(ctx context.Context, tier *SubscriptionTier) error
}

// IngestTokenRepository provides access to ingest tokens
type IngestTokenRepository interface {
	// FindLiveByToken retrieves a live token by its exact secret.
	// Deprecated tokens are not returned.
	FindLiveByToken(ctx context.Context, token string) (*IngestToken, error)

	// FindByID retrieves a token by ID
	FindByID(ctx context.Context, id uuid.UUID) (*IngestToken, error)

	// ListByUser retrieves all tokens owned by a user, newest first
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*IngestToken, error)

	// Save persists a new token
	Save(ctx context.Context, token *IngestToken) error

	// Update persists changes to an existing token
	Update(ctx context.Context, token *IngestToken) error
}
