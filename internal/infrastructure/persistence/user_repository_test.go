package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/tracepulse/backend/internal/domain/identity"
	"github.com/tracepulse/backend/internal/domain/shared"
)

func TestUserRepository_SaveAndFind(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user, err := identity.NewUser("dev@example.com", uuid.New())
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, user))

	found, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, found.Email)
	assert.Equal(t, int64(0), found.MonthlyCounter)
}

func TestUserRepository_FindByID_NotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}

func TestUserRepository_Update(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user, err := identity.NewUser("dev@example.com", uuid.New())
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, user))

	require.NoError(t, user.ConsumeCredits(42))
	require.NoError(t, repo.Update(ctx, user))

	found, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(42), found.MonthlyCounter)
}

// SQLite has no row-level locks, so the locking clause is asserted
// against the generated SQL with sqlmock instead.
func TestUserRepository_FindByIDForUpdate_LocksRow(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       sqlDB,
		DriverName: "postgres",
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	repo := NewUserRepository(db)
	userID := uuid.New()
	tierID := uuid.New()

	rows := sqlmock.NewRows([]string{
		"id", "email", "monthly_counter", "last_counter_reset", "subscription_tier_id",
	}).AddRow(userID, "dev@example.com", int64(7), time.Now(), tierID)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1 .* FOR UPDATE`).
		WithArgs(userID, 1).
		WillReturnRows(rows)

	user, err := repo.FindByIDForUpdate(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), user.MonthlyCounter)
	assert.NoError(t, mock.ExpectationsWereMet())
}
