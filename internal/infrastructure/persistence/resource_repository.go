package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tracepulse/backend/internal/domain/shared"
	"github.com/tracepulse/backend/internal/domain/telemetry"
	"github.com/tracepulse/backend/internal/infrastructure/persistence/models"
)

// ResourceRepository implements telemetry.ResourceRepository using GORM
type ResourceRepository struct {
	db *gorm.DB
}

// NewResourceRepository creates a new resource repository
func NewResourceRepository(db *gorm.DB) *ResourceRepository {
	return &ResourceRepository{db: db}
}

// FindByIdentity retrieves a resource by its (user, service name,
// version, namespace) identity
func (r *ResourceRepository) FindByIdentity(ctx context.Context, userID uuid.UUID, serviceName, serviceVersion, serviceNamespace string) (*telemetry.Resource, error) {
	var model models.ResourceModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("service_name = ?", serviceName).
		Where("service_version = ?", serviceVersion).
		Where("service_namespace = ?", serviceNamespace).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save persists a new resource
func (r *ResourceRepository) Save(ctx context.Context, resource *telemetry.Resource) error {
	var model models.ResourceModel
	model.FromDomain(resource)
	return r.db.WithContext(ctx).Create(&model).Error
}

// Update persists changes to an existing resource
func (r *ResourceRepository) Update(ctx context.Context, resource *telemetry.Resource) error {
	var model models.ResourceModel
	model.FromDomain(resource)
	return r.db.WithContext(ctx).Save(&model).Error
}

// FindAttribute retrieves an attribute by resource and key
func (r *ResourceRepository) FindAttribute(ctx context.Context, resourceID uuid.UUID, key string) (*telemetry.ResourceAttribute, error) {
	var model models.ResourceAttributeModel
	err := r.db.WithContext(ctx).
		Where("resource_id = ?", resourceID).
		Where("key = ?", key).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// SaveAttribute persists a new resource attribute
func (r *ResourceRepository) SaveAttribute(ctx context.Context, attr *telemetry.ResourceAttribute) error {
	var model models.ResourceAttributeModel
	model.FromDomain(attr)
	return r.db.WithContext(ctx).Create(&model).Error
}
