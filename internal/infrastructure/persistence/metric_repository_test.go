package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracepulse/backend/internal/domain/shared"
	"github.com/tracepulse/backend/internal/domain/telemetry"
)

func TestMetricRepository_FindMostRecentByValue(t *testing.T) {
	db := newTestDB(t)
	repo := NewMetricRepository(db)
	ctx := context.Background()

	resourceID := uuid.New()
	base := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	older := telemetry.NewMetric(resourceID, uuid.New(), "http.requests", telemetry.MetricTypeCounter, base, 152)
	require.NoError(t, repo.Save(ctx, older))

	newer := telemetry.NewMetric(resourceID, uuid.New(), "http.requests", telemetry.MetricTypeCounter, base.Add(time.Minute), 152)
	require.NoError(t, repo.Save(ctx, newer))

	t.Run("returns the newest sample for the value", func(t *testing.T) {
		found, err := repo.FindMostRecentByValue(ctx, resourceID, "http.requests", 152)
		require.NoError(t, err)
		assert.Equal(t, newer.ID, found.ID)
	})

	t.Run("different value misses", func(t *testing.T) {
		_, err := repo.FindMostRecentByValue(ctx, resourceID, "http.requests", 153)
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})

	t.Run("different resource misses", func(t *testing.T) {
		_, err := repo.FindMostRecentByValue(ctx, uuid.New(), "http.requests", 152)
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})
}

func TestMetricRepository_Buckets(t *testing.T) {
	db := newTestDB(t)
	repo := NewMetricRepository(db)
	ctx := context.Background()

	metric := telemetry.NewMetric(uuid.New(), uuid.New(), "http.duration", telemetry.MetricTypeHistogram,
		time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC), 0.93)
	require.NoError(t, repo.Save(ctx, metric))

	bounds := []float64{0.5, 1.0}
	// Insert out of order; ListBuckets must sort by index
	require.NoError(t, repo.SaveBucket(ctx, telemetry.NewHistogramBucket(metric.ID, 2, nil, 1)))
	require.NoError(t, repo.SaveBucket(ctx, telemetry.NewHistogramBucket(metric.ID, 0, &bounds[0], 3)))
	require.NoError(t, repo.SaveBucket(ctx, telemetry.NewHistogramBucket(metric.ID, 1, &bounds[1], 2)))

	buckets, err := repo.ListBuckets(ctx, metric.ID)
	require.NoError(t, err)
	require.Len(t, buckets, 3)

	assert.Equal(t, []int64{3, 2, 1}, []int64{buckets[0].BucketCount, buckets[1].BucketCount, buckets[2].BucketCount})
	assert.Nil(t, buckets[2].ExplicitBound, "overflow bucket has no bound")
	require.NotNil(t, buckets[0].ExplicitBound)
	assert.Equal(t, 0.5, *buckets[0].ExplicitBound)
}
