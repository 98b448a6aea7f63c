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

func TestTraceRepository_FindByGroupingKey(t *testing.T) {
	db := newTestDB(t)
	repo := NewTraceRepository(db)
	ctx := context.Background()

	resourceID := uuid.New()
	tokenID := uuid.New()
	startTime := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	trace := telemetry.NewTrace(resourceID, tokenID, "GET /checkout", startTime)
	require.NoError(t, repo.Save(ctx, trace))

	t.Run("exact triple matches", func(t *testing.T) {
		found, err := repo.FindByGroupingKey(ctx, resourceID, tokenID, startTime)
		require.NoError(t, err)
		assert.Equal(t, trace.ID, found.ID)
		assert.Equal(t, "GET /checkout", found.Name)
	})

	t.Run("different start time is a different trace", func(t *testing.T) {
		_, err := repo.FindByGroupingKey(ctx, resourceID, tokenID, startTime.Add(time.Millisecond))
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})

	t.Run("different resource is a different trace", func(t *testing.T) {
		_, err := repo.FindByGroupingKey(ctx, uuid.New(), tokenID, startTime)
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})
}

func TestTraceRepository_Update(t *testing.T) {
	db := newTestDB(t)
	repo := NewTraceRepository(db)
	ctx := context.Background()

	startTime := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	trace := telemetry.NewTrace(uuid.New(), uuid.New(), "GET /checkout", startTime)
	require.NoError(t, repo.Save(ctx, trace))

	endTime := startTime.Add(2 * time.Second)
	trace.RecordSpan(&endTime, true)
	require.NoError(t, repo.Update(ctx, trace))

	found, err := repo.FindByGroupingKey(ctx, trace.ResourceID, trace.IngestTokenID, startTime)
	require.NoError(t, err)
	assert.Equal(t, telemetry.TraceStatusError, found.Status)
	assert.Equal(t, 1, found.SpanCount)
	require.NotNil(t, found.EndTime)
	assert.True(t, found.EndTime.Equal(endTime))
}
