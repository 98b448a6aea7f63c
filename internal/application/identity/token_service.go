package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tracepulse/backend/internal/domain/identity"
	"github.com/tracepulse/backend/internal/domain/shared"
)

// TokenService manages the ingest token lifecycle
type TokenService struct {
	tokens identity.IngestTokenRepository
	logger *zap.Logger
}

// NewTokenService creates a token service
func NewTokenService(tokens identity.IngestTokenRepository, logger *zap.Logger) *TokenService {
	return &TokenService{tokens: tokens, logger: logger}
}

// Issue creates a new live token for the user. The secret is returned
// exactly once, in the created token.
func (s *TokenService) Issue(ctx context.Context, userID uuid.UUID, name string) (*identity.IngestToken, error) {
	token, err := identity.NewIngestToken(userID, name)
	if err != nil {
		return nil, err
	}
	if err := s.tokens.Save(ctx, token); err != nil {
		return nil, fmt.Errorf("save ingest token: %w", err)
	}

	s.logger.Info("ingest token issued",
		zap.String("user_id", userID.String()),
		zap.String("token_id", token.ID.String()))
	return token, nil
}

// List returns all tokens owned by the user, live and deprecated
func (s *TokenService) List(ctx context.Context, userID uuid.UUID) ([]*identity.IngestToken, error) {
	return s.tokens.ListByUser(ctx, userID)
}

// Deprecate revokes a token owned by the user. Revoking an already
// deprecated token is a no-op. A token owned by someone else is
// reported as forbidden.
func (s *TokenService) Deprecate(ctx context.Context, userID, tokenID uuid.UUID) (*identity.IngestToken, error) {
	token, err := s.tokens.FindByID(ctx, tokenID)
	if err != nil {
		return nil, err
	}
	if token.UserID != userID {
		return nil, shared.ErrForbidden
	}
	if !token.IsLive() {
		return token, nil
	}

	token.Deprecate()
	if err := s.tokens.Update(ctx, token); err != nil {
		return nil, fmt.Errorf("update ingest token: %w", err)
	}

	s.logger.Info("ingest token deprecated",
		zap.String("user_id", userID.String()),
		zap.String("token_id", token.ID.String()))
	return token, nil
}

// Authenticate resolves a bearer secret to its live token. Deprecated
// or unknown secrets both surface as unauthorized; callers cannot tell
// the two apart.
func (s *TokenService) Authenticate(ctx context.Context, secret string) (*identity.IngestToken, error) {
	if secret == "" {
		return nil, shared.ErrUnauthorized
	}
	token, err := s.tokens.FindLiveByToken(ctx, secret)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, shared.ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	return token, nil
}
