package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/tracepulse/backend/internal/application/ingest"
)

// GormTransactionScope implements ingest.TransactionScope using GORM
// transactions. All repositories handed to the closure share one
// transaction, so an ingestion batch commits or rolls back as a unit.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos ingest.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ingest.TransactionalRepositories{
			Users:     NewUserRepository(tx),
			Tiers:     NewSubscriptionTierRepository(tx),
			Resources: NewResourceRepository(tx),
			Traces:    NewTraceRepository(tx),
			Spans:     NewSpanRepository(tx),
			Metrics:   NewMetricRepository(tx),
		})
	})
}

// Ensure GormTransactionScope implements TransactionScope
var _ ingest.TransactionScope = (*GormTransactionScope)(nil)
