package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tracepulse/backend/internal/domain/billing"
	"github.com/tracepulse/backend/internal/domain/identity"
)

// SnapshotCache caches usage snapshots keyed by user. A miss returns
// (nil, nil); cache errors degrade to a miss at the call site.
type SnapshotCache interface {
	Get(ctx context.Context, userID uuid.UUID) (*billing.UsageSnapshot, error)
	Set(ctx context.Context, userID uuid.UUID, snapshot billing.UsageSnapshot) error
	Invalidate(ctx context.Context, userID uuid.UUID) error
}

// UsageService serves read-only usage snapshots for the dashboard. Reads
// never mutate the counter: an elapsed cycle is presented as zero usage
// and the stored row is left for the next ingest to reset.
type UsageService struct {
	users  identity.UserRepository
	tiers  identity.SubscriptionTierRepository
	cache  SnapshotCache
	logger *zap.Logger
	now    func() time.Time
}

// NewUsageService creates a usage service
func NewUsageService(
	users identity.UserRepository,
	tiers identity.SubscriptionTierRepository,
	cache SnapshotCache,
	logger *zap.Logger,
) *UsageService {
	return &UsageService{
		users:  users,
		tiers:  tiers,
		cache:  cache,
		logger: logger,
		now:    time.Now,
	}
}

// GetUsage returns the user's current quota position, reading through
// the snapshot cache.
func (s *UsageService) GetUsage(ctx context.Context, userID uuid.UUID) (billing.UsageSnapshot, error) {
	if cached, err := s.cache.Get(ctx, userID); err != nil {
		s.logger.Warn("usage cache read failed", zap.Error(err))
	} else if cached != nil {
		return *cached, nil
	}

	snapshot, err := s.loadSnapshot(ctx, userID)
	if err != nil {
		return billing.UsageSnapshot{}, err
	}

	if err := s.cache.Set(ctx, userID, snapshot); err != nil {
		s.logger.Warn("usage cache write failed", zap.Error(err))
	}
	return snapshot, nil
}

// InvalidateSnapshot drops the cached snapshot after an accepted batch
// moved the counter.
func (s *UsageService) InvalidateSnapshot(ctx context.Context, userID uuid.UUID) {
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		s.logger.Warn("usage cache invalidation failed", zap.Error(err))
	}
}

func (s *UsageService) loadSnapshot(ctx context.Context, userID uuid.UUID) (billing.UsageSnapshot, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return billing.UsageSnapshot{}, fmt.Errorf("load user: %w", err)
	}

	tier, err := s.tiers.FindByID(ctx, user.SubscriptionTierID)
	if err != nil {
		return billing.UsageSnapshot{}, fmt.Errorf("load subscription tier: %w", err)
	}

	snapshot := billing.UsageSnapshot{
		CurrentUsage: user.MonthlyCounter,
		MonthlyQuota: tier.MonthlyQuota,
		Tier:         tier.Tier.String(),
		PeriodStart:  user.LastCounterReset,
	}

	if billing.ShouldResetCounter(user.LastCounterReset, s.now()) {
		snapshot.CurrentUsage = 0
	}
	return snapshot, nil
}
