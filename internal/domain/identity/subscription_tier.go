package identity

import (
	"github.com/tracepulse/backend/internal/domain/shared"
)

// TierName identifies a subscription tier
type TierName string

const (
	TierFree       TierName = "free"
	TierGrowth     TierName = "growth"
	TierScale      TierName = "scale"
	TierEnterprise TierName = "enterprise"
)

// String returns the string representation of TierName
func (t TierName) String() string {
	return string(t)
}

// IsValid returns true if the tier name is known
func (t TierName) IsValid() bool {
	switch t {
	case TierFree, TierGrowth, TierScale, TierEnterprise:
		return true
	}
	return false
}

// SubscriptionTier defines the monthly span-credit allowance for a plan.
// A nil MonthlyQuota means the tier is unlimited: ingestion is always
// allowed, though the usage counter still advances for reporting.
type SubscriptionTier struct {
	shared.BaseEntity
	Tier         TierName
	MonthlyQuota *int64
}

// NewSubscriptionTier creates a tier with the given quota. Pass nil for an
// unlimited tier.
func NewSubscriptionTier(tier TierName, monthlyQuota *int64) (*SubscriptionTier, error) {
	if !tier.IsValid() {
		return nil, shared.NewDomainError("INVALID_TIER", "Invalid subscription tier")
	}
	if monthlyQuota != nil && *monthlyQuota < 0 {
		return nil, shared.NewDomainError("INVALID_QUOTA", "Monthly quota cannot be negative")
	}

	return &SubscriptionTier{
		BaseEntity:   shared.NewBaseEntity(),
		Tier:         tier,
		MonthlyQuota: monthlyQuota,
	}, nil
}

// IsUnlimited returns true if the tier has no quota
func (t *SubscriptionTier) IsUnlimited() bool {
	return t.MonthlyQuota == nil
}
