package ingest

import (
	"context"

	"github.com/tracepulse/backend/internal/domain/identity"
	"github.com/tracepulse/backend/internal/domain/telemetry"
)

// TransactionalRepositories bundles the repositories an ingestion
// transaction operates on. All instances handed to the closure share one
// database transaction.
type TransactionalRepositories struct {
	Users     identity.UserRepository
	Tiers     identity.SubscriptionTierRepository
	Resources telemetry.ResourceRepository
	Traces    telemetry.TraceRepository
	Spans     telemetry.SpanRepository
	Metrics   telemetry.MetricRepository
}

// TransactionScope executes a function within a single database
// transaction. The transaction commits when fn returns nil and rolls
// back on error, so a quota rejection or malformed span discards every
// write of the batch.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}
