package integration

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tracepulse/backend/internal/application/ingest"
	"github.com/tracepulse/backend/internal/domain/billing"
	"github.com/tracepulse/backend/internal/domain/identity"
	"github.com/tracepulse/backend/internal/infrastructure/persistence"
)

// seedFreeTierToken creates a user on the seeded free tier with a live
// ingest token, and returns the identity the HTTP layer would attach
// after token authentication.
func seedFreeTierToken(t *testing.T, tdb *TestDB) ingest.TokenIdentity {
	t.Helper()
	ctx := context.Background()

	tier, err := persistence.NewSubscriptionTierRepository(tdb.DB).FindByName(ctx, identity.TierFree)
	require.NoError(t, err)

	user, err := identity.NewUser(fmt.Sprintf("%s@example.com", uuid.New()), tier.ID)
	require.NoError(t, err)
	require.NoError(t, persistence.NewUserRepository(tdb.DB).Save(ctx, user))

	token, err := identity.NewIngestToken(user.ID, "integration")
	require.NoError(t, err)
	require.NoError(t, persistence.NewIngestTokenRepository(tdb.DB).Save(ctx, token))

	return ingest.TokenIdentity{UserID: user.ID, TokenID: token.ID}
}

// traceBatch builds an export payload with spanCount finished spans for
// one service. Each call produces distinct span identifiers so batches
// never collide on parent resolution.
func traceBatch(serviceName string, spanCount int) *ingest.ExportRequest {
	spans := make([]ingest.OTLPSpan, 0, spanCount)
	for i := 0; i < spanCount; i++ {
		start := ingest.FlexUint64(1700000000000000000 + uint64(i)*1_000_000_000)
		end := start + ingest.FlexUint64(500_000_000)
		spans = append(spans, ingest.OTLPSpan{
			TraceID:           "4bf92f3577b34da6a3ce929d0e0e4736",
			SpanID:            fmt.Sprintf("%016x", uuid.New().ID()),
			Name:              fmt.Sprintf("operation-%d", i),
			StartTimeUnixNano: &start,
			EndTimeUnixNano:   &end,
		})
	}

	name := serviceName
	return &ingest.ExportRequest{
		ResourceSpans: []ingest.ResourceSpans{{
			Resource: &ingest.OTLPResource{
				Attributes: []ingest.KeyValue{
					{Key: "service.name", Value: ingest.AnyValue{StringValue: &name}},
				},
			},
			ScopeSpans: []ingest.ScopeSpans{{Spans: spans}},
		}},
	}
}

func TestConcurrentIngestDoesNotLoseUsage(t *testing.T) {
	if testing.Short() {
		t.Skip("requires docker")
	}

	tdb := NewTestDB(t)
	token := seedFreeTierToken(t, tdb)
	coordinator := ingest.NewCoordinator(persistence.NewGormTransactionScope(tdb.DB), zap.NewNop())

	const workers = 4
	const spansPerBatch = 5

	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = coordinator.Ingest(context.Background(), token, traceBatch("checkout", spansPerBatch))
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "batch %d", i)
	}

	user, err := persistence.NewUserRepository(tdb.DB).FindByID(context.Background(), token.UserID)
	require.NoError(t, err)
	assert.Equal(t, int64(workers*spansPerBatch), user.MonthlyCounter,
		"concurrent batches for the same user must serialize on the counter")
}

func TestConcurrentIngestAdmitsOnlyWithinQuota(t *testing.T) {
	if testing.Short() {
		t.Skip("requires docker")
	}

	tdb := NewTestDB(t)
	token := seedFreeTierToken(t, tdb)
	ctx := context.Background()

	// Prime the counter so only one 4-span batch still fits under the
	// free tier quota of 100000.
	users := persistence.NewUserRepository(tdb.DB)
	user, err := users.FindByID(ctx, token.UserID)
	require.NoError(t, err)
	require.NoError(t, user.ConsumeCredits(99995))
	require.NoError(t, users.Update(ctx, user))

	coordinator := ingest.NewCoordinator(persistence.NewGormTransactionScope(tdb.DB), zap.NewNop())

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = coordinator.Ingest(ctx, token, traceBatch("checkout", 4))
		}(i)
	}
	wg.Wait()

	accepted, rejected := 0, 0
	for _, err := range errs {
		var quotaErr *billing.QuotaExceededError
		switch {
		case err == nil:
			accepted++
		case errors.As(err, &quotaErr):
			rejected++
		default:
			t.Fatalf("unexpected ingest error: %v", err)
		}
	}
	assert.Equal(t, 1, accepted, "exactly one batch fits under the quota")
	assert.Equal(t, 1, rejected, "the other batch must be rejected, not half-applied")

	user, err = users.FindByID(ctx, token.UserID)
	require.NoError(t, err)
	assert.Equal(t, int64(99999), user.MonthlyCounter,
		"the rejected batch must not move the counter")
}
