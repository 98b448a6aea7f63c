package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tracepulse/backend/internal/domain/identity"
	"github.com/tracepulse/backend/internal/domain/shared"
	"github.com/tracepulse/backend/internal/infrastructure/persistence/models"
)

// IngestTokenRepository implements identity.IngestTokenRepository using GORM
type IngestTokenRepository struct {
	db *gorm.DB
}

// NewIngestTokenRepository creates a new ingest token repository
func NewIngestTokenRepository(db *gorm.DB) *IngestTokenRepository {
	return &IngestTokenRepository{db: db}
}

// FindLiveByToken retrieves a live token by its exact secret. Deprecated
// tokens are invisible to this lookup.
func (r *IngestTokenRepository) FindLiveByToken(ctx context.Context, token string) (*identity.IngestToken, error) {
	var model models.IngestTokenModel
	err := r.db.WithContext(ctx).
		Where("token = ?", token).
		Where("status = ?", identity.TokenStatusLive.String()).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByID retrieves a token by ID
func (r *IngestTokenRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.IngestToken, error) {
	var model models.IngestTokenModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ListByUser retrieves all tokens owned by a user, newest first
func (r *IngestTokenRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*identity.IngestToken, error) {
	var list []models.IngestTokenModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}

	tokens := make([]*identity.IngestToken, len(list))
	for i := range list {
		tokens[i] = list[i].ToDomain()
	}
	return tokens, nil
}

// Save persists a new token
func (r *IngestTokenRepository) Save(ctx context.Context, token *identity.IngestToken) error {
	var model models.IngestTokenModel
	model.FromDomain(token)
	return r.db.WithContext(ctx).Create(&model).Error
}

// Update persists changes to an existing token
func (r *IngestTokenRepository) Update(ctx context.Context, token *identity.IngestToken) error {
	var model models.IngestTokenModel
	model.FromDomain(token)
	return r.db.WithContext(ctx).Save(&model).Error
}
