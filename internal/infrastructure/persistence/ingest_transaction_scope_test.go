package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracepulse/backend/internal/application/ingest"
	"github.com/tracepulse/backend/internal/domain/identity"
	"github.com/tracepulse/backend/internal/domain/shared"
)

func TestGormTransactionScope_CommitsOnSuccess(t *testing.T) {
	db := newTestDB(t)
	scope := NewGormTransactionScope(db)
	ctx := context.Background()

	user, err := identity.NewUser("dev@example.com", uuid.New())
	require.NoError(t, err)

	err = scope.Execute(ctx, func(repos ingest.TransactionalRepositories) error {
		return repos.Users.Save(ctx, user)
	})
	require.NoError(t, err)

	found, err := NewUserRepository(db).FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, found.Email)
}

func TestGormTransactionScope_RollsBackOnError(t *testing.T) {
	db := newTestDB(t)
	scope := NewGormTransactionScope(db)
	ctx := context.Background()

	user, err := identity.NewUser("dev@example.com", uuid.New())
	require.NoError(t, err)

	boom := errors.New("batch rejected")
	err = scope.Execute(ctx, func(repos ingest.TransactionalRepositories) error {
		if err := repos.Users.Save(ctx, user); err != nil {
			return err
		}
		return boom
	})
	assert.True(t, errors.Is(err, boom))

	_, err = NewUserRepository(db).FindByID(ctx, user.ID)
	assert.True(t, errors.Is(err, shared.ErrNotFound), "rolled-back write must not be visible")
}
