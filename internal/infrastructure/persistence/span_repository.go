package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/tracepulse/backend/internal/domain/telemetry"
	"github.com/tracepulse/backend/internal/infrastructure/persistence/models"
)

// SpanRepository implements telemetry.SpanRepository using GORM. Spans
// and their child rows are insert-only.
type SpanRepository struct {
	db *gorm.DB
}

// NewSpanRepository creates a new span repository
func NewSpanRepository(db *gorm.DB) *SpanRepository {
	return &SpanRepository{db: db}
}

// Save persists a new span
func (r *SpanRepository) Save(ctx context.Context, span *telemetry.Span) error {
	var model models.SpanModel
	model.FromDomain(span)
	return r.db.WithContext(ctx).Create(&model).Error
}

// SaveAttribute persists a new span attribute
func (r *SpanRepository) SaveAttribute(ctx context.Context, attr *telemetry.SpanAttribute) error {
	var model models.SpanAttributeModel
	model.FromDomain(attr)
	return r.db.WithContext(ctx).Create(&model).Error
}

// SaveEvent persists a new span event
func (r *SpanRepository) SaveEvent(ctx context.Context, event *telemetry.SpanEvent) error {
	var model models.SpanEventModel
	model.FromDomain(event)
	return r.db.WithContext(ctx).Create(&model).Error
}

// SaveEventAttribute persists a new span event attribute
func (r *SpanRepository) SaveEventAttribute(ctx context.Context, attr *telemetry.SpanEventAttribute) error {
	var model models.SpanEventAttributeModel
	model.FromDomain(attr)
	return r.db.WithContext(ctx).Create(&model).Error
}

// SaveLink persists a new span link
func (r *SpanRepository) SaveLink(ctx context.Context, link *telemetry.SpanLink) error {
	var model models.SpanLinkModel
	model.FromDomain(link)
	return r.db.WithContext(ctx).Create(&model).Error
}

// SaveLinkAttribute persists a new span link attribute
func (r *SpanRepository) SaveLinkAttribute(ctx context.Context, attr *telemetry.SpanLinkAttribute) error {
	var model models.SpanLinkAttributeModel
	model.FromDomain(attr)
	return r.db.WithContext(ctx).Create(&model).Error
}
