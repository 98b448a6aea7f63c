package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tracepulse/backend/internal/domain/billing"
)

// QuotaLedger performs the atomic quota check-and-consume for an
// ingestion batch. It must run inside the batch transaction: the user
// row is locked for update, so concurrent batches for the same user
// serialize and cannot both pass the check on stale usage.
type QuotaLedger struct {
	now func() time.Time
}

// NewQuotaLedger creates a ledger using the given clock
func NewQuotaLedger(now func() time.Time) *QuotaLedger {
	if now == nil {
		now = time.Now
	}
	return &QuotaLedger{now: now}
}

// CheckAndConsume locks the user row, applies the monthly rollover if
// the cycle elapsed, and either consumes the credits or returns a
// billing.QuotaExceededError carrying the pre-batch snapshot. On
// unlimited tiers the counter still advances. The updated user row is
// written back before returning.
func (l *QuotaLedger) CheckAndConsume(
	ctx context.Context,
	repos TransactionalRepositories,
	userID uuid.UUID,
	credits int64,
) (billing.UsageSnapshot, error) {
	user, err := repos.Users.FindByIDForUpdate(ctx, userID)
	if err != nil {
		return billing.UsageSnapshot{}, fmt.Errorf("lock user for quota update: %w", err)
	}

	now := l.now()
	if billing.ShouldResetCounter(user.LastCounterReset, now) {
		user.ResetMonthlyCounter(now)
	}

	tier, err := repos.Tiers.FindByID(ctx, user.SubscriptionTierID)
	if err != nil {
		return billing.UsageSnapshot{}, fmt.Errorf("load subscription tier: %w", err)
	}

	snapshot := billing.UsageSnapshot{
		CurrentUsage: user.MonthlyCounter,
		MonthlyQuota: tier.MonthlyQuota,
		Tier:         tier.Tier.String(),
		PeriodStart:  user.LastCounterReset,
	}

	if snapshot.WouldExceed(credits) {
		return snapshot, &billing.QuotaExceededError{Snapshot: snapshot}
	}

	if err := user.ConsumeCredits(credits); err != nil {
		return snapshot, err
	}
	if err := repos.Users.Update(ctx, user); err != nil {
		return snapshot, fmt.Errorf("persist usage counter: %w", err)
	}

	snapshot.CurrentUsage = user.MonthlyCounter
	return snapshot, nil
}
