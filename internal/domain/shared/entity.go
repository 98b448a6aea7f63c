package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity carries the identifier and audit instants shared by every
// persisted entity. Embed it by value; the persistence layer maps it
// onto the id, created_at, and updated_at columns.
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBaseEntity assigns a fresh random ID with both audit instants set
// to now
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// MarkUpdated stamps the entity as modified now
func (e *BaseEntity) MarkUpdated() {
	e.UpdatedAt = time.Now()
}
