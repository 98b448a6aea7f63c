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

// MetricRepository implements telemetry.MetricRepository using GORM
type MetricRepository struct {
	db *gorm.DB
}

// NewMetricRepository creates a new metric repository
func NewMetricRepository(db *gorm.DB) *MetricRepository {
	return &MetricRepository{db: db}
}

// FindMostRecentByValue retrieves the newest sample for the given
// resource, metric name, and exact value. Backed by the
// (resource_id, name, value) index for the write-time dedup check.
func (r *MetricRepository) FindMostRecentByValue(ctx context.Context, resourceID uuid.UUID, name string, value float64) (*telemetry.Metric, error) {
	var model models.MetricModel
	err := r.db.WithContext(ctx).
		Where("resource_id = ?", resourceID).
		Where("name = ?", name).
		Where("value = ?", value).
		Order("timestamp DESC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save persists a new metric sample
func (r *MetricRepository) Save(ctx context.Context, metric *telemetry.Metric) error {
	var model models.MetricModel
	model.FromDomain(metric)
	return r.db.WithContext(ctx).Create(&model).Error
}

// SaveAttribute persists a new metric attribute
func (r *MetricRepository) SaveAttribute(ctx context.Context, attr *telemetry.MetricAttribute) error {
	var model models.MetricAttributeModel
	model.FromDomain(attr)
	return r.db.WithContext(ctx).Create(&model).Error
}

// SaveBucket persists a new histogram bucket
func (r *MetricRepository) SaveBucket(ctx context.Context, bucket *telemetry.HistogramBucket) error {
	var model models.HistogramBucketModel
	model.FromDomain(bucket)
	return r.db.WithContext(ctx).Create(&model).Error
}

// ListBuckets retrieves a sample's buckets ordered by bucket index
func (r *MetricRepository) ListBuckets(ctx context.Context, metricID uuid.UUID) ([]*telemetry.HistogramBucket, error) {
	var list []models.HistogramBucketModel
	err := r.db.WithContext(ctx).
		Where("metric_id = ?", metricID).
		Order("bucket_index ASC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}

	buckets := make([]*telemetry.HistogramBucket, len(list))
	for i := range list {
		buckets[i] = list[i].ToDomain()
	}
	return buckets, nil
}
