package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tracepulse/backend/internal/domain/shared"
	"github.com/tracepulse/backend/internal/domain/telemetry"
	"github.com/tracepulse/backend/internal/infrastructure/persistence/models"
)

// TraceRepository implements telemetry.TraceRepository using GORM
type TraceRepository struct {
	db *gorm.DB
}

// NewTraceRepository creates a new trace repository
func NewTraceRepository(db *gorm.DB) *TraceRepository {
	return &TraceRepository{db: db}
}

// FindByGroupingKey retrieves the trace for an exact (resource, token,
// start time) triple
func (r *TraceRepository) FindByGroupingKey(ctx context.Context, resourceID, ingestTokenID uuid.UUID, startTime time.Time) (*telemetry.Trace, error) {
	var model models.TraceModel
	err := r.db.WithContext(ctx).
		Where("resource_id = ?", resourceID).
		Where("ingest_token_id = ?", ingestTokenID).
		Where("start_time = ?", startTime).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save persists a new trace
func (r *TraceRepository) Save(ctx context.Context, trace *telemetry.Trace) error {
	var model models.TraceModel
	model.FromDomain(trace)
	return r.db.WithContext(ctx).Create(&model).Error
}

// Update persists changes to an existing trace
func (r *TraceRepository) Update(ctx context.Context, trace *telemetry.Trace) error {
	var model models.TraceModel
	model.FromDomain(trace)
	return r.db.WithContext(ctx).Save(&model).Error
}
