package identity

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/google/uuid"
	"github.com/tracepulse/backend/internal/domain/shared"
)

// TokenStatus represents the lifecycle state of an ingest token
type TokenStatus string

const (
	// TokenStatusLive authorizes ingestion
	TokenStatusLive TokenStatus = "live"

	// TokenStatusDeprecated marks a revoked token. Revocation is logical;
	// token rows are never deleted.
	TokenStatusDeprecated TokenStatus = "deprecated"
)

// String returns the string representation of TokenStatus
func (s TokenStatus) String() string {
	return string(s)
}

// tokenPrefix makes ingest tokens recognizable in logs and support tickets
// without revealing the secret portion.
const tokenPrefix = "tp_"

// IngestToken is a per-user secret that authorizes telemetry submission.
type IngestToken struct {
	shared.BaseEntity
	UserID uuid.UUID
	Name   string
	Token  string
	Status TokenStatus
}

// NewIngestToken creates a live token with a freshly generated secret.
func NewIngestToken(userID uuid.UUID, name string) (*IngestToken, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}

	secret, err := generateTokenSecret()
	if err != nil {
		return nil, err
	}

	return &IngestToken{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		Name:       name,
		Token:      secret,
		Status:     TokenStatusLive,
	}, nil
}

// IsLive returns true if the token authorizes ingestion
func (t *IngestToken) IsLive() bool {
	return t.Status == TokenStatusLive
}

// Deprecate revokes the token. Already-deprecated tokens stay deprecated.
func (t *IngestToken) Deprecate() {
	t.Status = TokenStatusDeprecated
	t.MarkUpdated()
}

func generateTokenSecret() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", shared.NewDomainError("TOKEN_GENERATION", "Failed to generate token secret")
	}
	return tokenPrefix + hex.EncodeToString(buf), nil
}
