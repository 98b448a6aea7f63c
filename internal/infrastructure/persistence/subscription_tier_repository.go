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

// SubscriptionTierRepository implements identity.SubscriptionTierRepository using GORM
type SubscriptionTierRepository struct {
	db *gorm.DB
}

// NewSubscriptionTierRepository creates a new subscription tier repository
func NewSubscriptionTierRepository(db *gorm.DB) *SubscriptionTierRepository {
	return &SubscriptionTierRepository{db: db}
}

// FindByID retrieves a tier by ID
func (r *SubscriptionTierRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.SubscriptionTier, error) {
	var model models.SubscriptionTierModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByName retrieves a tier by its name
func (r *SubscriptionTierRepository) FindByName(ctx context.Context, tier identity.TierName) (*identity.SubscriptionTier, error) {
	var model models.SubscriptionTierModel
	if err := r.db.WithContext(ctx).First(&model, "tier = ?", tier.String()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save persists a new tier
func (r *SubscriptionTierRepository) Save(ctx context.Context, tier *identity.SubscriptionTier) error {
	var model models.SubscriptionTierModel
	model.FromDomain(tier)
	return r.db.WithContext(ctx).Create(&model).Error
}
