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

func TestResourceRepository_FindByIdentity(t *testing.T) {
	db := newTestDB(t)
	repo := NewResourceRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	seenAt := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	resource, err := telemetry.NewResource(userID, "checkout-api", "1.2.0", "shop", seenAt)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, resource))

	t.Run("finds by the full identity tuple", func(t *testing.T) {
		found, err := repo.FindByIdentity(ctx, userID, "checkout-api", "1.2.0", "shop")
		require.NoError(t, err)
		assert.Equal(t, resource.ID, found.ID)
		assert.True(t, found.FirstSeen.Equal(seenAt))
		assert.True(t, found.LastSeen.Equal(seenAt))
	})

	t.Run("same service under another user is a different identity", func(t *testing.T) {
		_, err := repo.FindByIdentity(ctx, uuid.New(), "checkout-api", "1.2.0", "shop")
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})

	t.Run("a version bump is a different identity", func(t *testing.T) {
		_, err := repo.FindByIdentity(ctx, userID, "checkout-api", "1.3.0", "shop")
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})

	t.Run("unknown service name", func(t *testing.T) {
		_, err := repo.FindByIdentity(ctx, userID, "payments-api", "1.2.0", "shop")
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})
}

func TestResourceRepository_Update_AdvancesLastSeen(t *testing.T) {
	db := newTestDB(t)
	repo := NewResourceRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	firstSeen := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	resource, err := telemetry.NewResource(userID, "checkout-api", "", "", firstSeen)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, resource))

	resource.Touch(firstSeen.Add(10 * time.Minute))
	require.NoError(t, repo.Update(ctx, resource))

	found, err := repo.FindByIdentity(ctx, userID, "checkout-api", "", "")
	require.NoError(t, err)
	assert.True(t, found.FirstSeen.Equal(firstSeen))
	assert.True(t, found.LastSeen.Equal(firstSeen.Add(10*time.Minute)))
}

func TestResourceRepository_Attributes(t *testing.T) {
	db := newTestDB(t)
	repo := NewResourceRepository(db)
	ctx := context.Background()

	resource, err := telemetry.NewResource(uuid.New(), "checkout-api", "", "", time.Now())
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, resource))

	attr := telemetry.NewResourceAttribute(resource.ID, "deployment.environment", telemetry.StringAttr("staging"))
	require.NoError(t, repo.SaveAttribute(ctx, attr))

	t.Run("finds attribute by key", func(t *testing.T) {
		found, err := repo.FindAttribute(ctx, resource.ID, "deployment.environment")
		require.NoError(t, err)
		assert.Equal(t, "staging", found.Value.StringValue)
	})

	t.Run("missing key returns not found", func(t *testing.T) {
		_, err := repo.FindAttribute(ctx, resource.ID, "host.name")
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})

	t.Run("typed values round-trip", func(t *testing.T) {
		intAttr := telemetry.NewResourceAttribute(resource.ID, "process.pid", telemetry.IntAttr(4312))
		require.NoError(t, repo.SaveAttribute(ctx, intAttr))

		found, err := repo.FindAttribute(ctx, resource.ID, "process.pid")
		require.NoError(t, err)
		assert.Equal(t, telemetry.AttributeTypeInt, found.Value.Type)
		assert.Equal(t, int64(4312), found.Value.IntValue)
	})
}
