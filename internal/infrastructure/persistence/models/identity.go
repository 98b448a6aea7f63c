package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/tracepulse/backend/internal/domain/identity"
)

// SubscriptionTierModel is the persistence model for SubscriptionTier.
// A NULL monthly_quota marks an unlimited tier.
type SubscriptionTierModel struct {
	BaseModel
	Tier         string `gorm:"type:varchar(20);not null;uniqueIndex"`
	MonthlyQuota *int64
}

// TableName returns the table name for GORM
func (SubscriptionTierModel) TableName() string {
	return "subscription_tiers"
}

// ToDomain converts the persistence model to a domain SubscriptionTier
func (m *SubscriptionTierModel) ToDomain() *identity.SubscriptionTier {
	return &identity.SubscriptionTier{
		BaseEntity:   m.BaseModel.ToDomain(),
		Tier:         identity.TierName(m.Tier),
		MonthlyQuota: m.MonthlyQuota,
	}
}

// FromDomain populates the persistence model from a domain SubscriptionTier
func (m *SubscriptionTierModel) FromDomain(t *identity.SubscriptionTier) {
	m.FromDomainBaseEntity(t.BaseEntity)
	m.Tier = t.Tier.String()
	m.MonthlyQuota = t.MonthlyQuota
}

// UserModel is the persistence model for the User domain entity
type UserModel struct {
	BaseModel
	Email              string    `gorm:"type:varchar(200);not null;uniqueIndex"`
	MonthlyCounter     int64     `gorm:"not null;default:0"`
	LastCounterReset   time.Time `gorm:"not null"`
	SubscriptionTierID uuid.UUID `gorm:"type:uuid;not null;index"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseEntity:         m.BaseModel.ToDomain(),
		Email:              m.Email,
		MonthlyCounter:     m.MonthlyCounter,
		LastCounterReset:   m.LastCounterReset,
		SubscriptionTierID: m.SubscriptionTierID,
	}
}

// FromDomain populates the persistence model from a domain User
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainBaseEntity(u.BaseEntity)
	m.Email = u.Email
	m.MonthlyCounter = u.MonthlyCounter
	m.LastCounterReset = u.LastCounterReset
	m.SubscriptionTierID = u.SubscriptionTierID
}

// IngestTokenModel is the persistence model for IngestToken. Tokens are
// never deleted; revocation flips status to deprecated.
type IngestTokenModel struct {
	BaseModel
	UserID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name   string    `gorm:"type:varchar(200)"`
	Token  string    `gorm:"type:varchar(100);not null;uniqueIndex"`
	Status string    `gorm:"type:varchar(20);not null;default:'live';index"`
}

// TableName returns the table name for GORM
func (IngestTokenModel) TableName() string {
	return "ingest_tokens"
}

// ToDomain converts the persistence model to a domain IngestToken
func (m *IngestTokenModel) ToDomain() *identity.IngestToken {
	return &identity.IngestToken{
		BaseEntity: m.BaseModel.ToDomain(),
		UserID:     m.UserID,
		Name:       m.Name,
		Token:      m.Token,
		Status:     identity.TokenStatus(m.Status),
	}
}

// FromDomain populates the persistence model from a domain IngestToken
func (m *IngestTokenModel) FromDomain(t *identity.IngestToken) {
	m.FromDomainBaseEntity(t.BaseEntity)
	m.UserID = t.UserID
	m.Name = t.Name
	m.Token = t.Token
	m.Status = t.Status.String()
}
