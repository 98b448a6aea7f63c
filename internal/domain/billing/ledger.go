package billing

import (
	"fmt"
	"time"
)

// CreditsPerSpan is the cost of one span in quota credits. Metric data
// points are currently uncharged; only spans consume credits.
const CreditsPerSpan int64 = 1

// SpanCredits returns the credit cost of a batch of spans.
func SpanCredits(spanCount int) int64 {
	return int64(spanCount) * CreditsPerSpan
}

// ShouldResetCounter reports whether a user's billing cycle has elapsed.
// The cycle is a calendar month anchored at the last reset: a reset
// recorded on Jan 31 rolls over on Feb 28/29 (AddDate normalization).
// The boundary instant itself triggers a reset.
func ShouldResetCounter(lastReset, now time.Time) bool {
	return !lastReset.After(now.AddDate(0, -1, 0))
}

// UsageSnapshot captures a user's quota position at a point in time.
// MonthlyQuota is nil for unlimited tiers.
type UsageSnapshot struct {
	CurrentUsage int64     `json:"currentUsage"`
	MonthlyQuota *int64    `json:"monthlyQuota"`
	Tier         string    `json:"tier"`
	PeriodStart  time.Time `json:"periodStart"`
}

// WouldExceed reports whether consuming the given credits on top of the
// snapshot's current usage would break the quota. Unlimited tiers never
// exceed. Usage exactly reaching the quota is allowed; only going past
// it is rejected.
func (s UsageSnapshot) WouldExceed(credits int64) bool {
	if s.MonthlyQuota == nil {
		return false
	}
	return s.CurrentUsage+credits > *s.MonthlyQuota
}

// QuotaExceededError signals that an ingestion batch was rejected because
// it would push the user past their monthly quota. It carries the snapshot
// taken before any counter mutation, so handlers can report the standing
// usage rather than the rejected attempt.
type QuotaExceededError struct {
	Snapshot UsageSnapshot
}

// Error implements the error interface
func (e *QuotaExceededError) Error() string {
	if e.Snapshot.MonthlyQuota == nil {
		return "monthly quota exceeded"
	}
	return fmt.Sprintf("monthly quota exceeded: %d/%d credits used on tier %s",
		e.Snapshot.CurrentUsage, *e.Snapshot.MonthlyQuota, e.Snapshot.Tier)
}

// HTTPStatusCode returns 429 for quota rejections
func (e *QuotaExceededError) HTTPStatusCode() int {
	return 429
}
