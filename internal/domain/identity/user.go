package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/tracepulse/backend/internal/domain/shared"
)

// User is an account that owns ingest tokens and telemetry data.
// MonthlyCounter tracks span credits consumed in the current billing cycle;
// it is only ever mutated inside the quota ledger transaction and is never
// decremented except by the monthly reset.
type User struct {
	shared.BaseEntity
	Email              string
	MonthlyCounter     int64
	LastCounterReset   time.Time
	SubscriptionTierID uuid.UUID
}

// NewUser creates a new user on the given subscription tier with a fresh
// usage counter.
func NewUser(email string, tierID uuid.UUID) (*User, error) {
	if email == "" {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if tierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TIER", "Subscription tier cannot be empty")
	}

	return &User{
		BaseEntity:         shared.NewBaseEntity(),
		Email:              email,
		MonthlyCounter:     0,
		LastCounterReset:   time.Now(),
		SubscriptionTierID: tierID,
	}, nil
}

// ResetMonthlyCounter starts a new billing cycle at the given instant.
func (u *User) ResetMonthlyCounter(now time.Time) {
	u.MonthlyCounter = 0
	u.LastCounterReset = now
	u.UpdatedAt = now
}

// ConsumeCredits adds the given credits to the monthly counter.
func (u *User) ConsumeCredits(credits int64) error {
	if credits < 0 {
		return shared.NewDomainError("INVALID_CREDITS", "Credits cannot be negative")
	}
	u.MonthlyCounter += credits
	u.MarkUpdated()
	return nil
}
