package telemetry

import (
	"time"

	"github.com/google/uuid"
	"github.com/tracepulse/backend/internal/domain/shared"
)

// DefaultServiceName is used when a resource carries no service.name
// attribute.
const DefaultServiceName = "unknown"

// Resource is a telemetry-emitting entity (a service instance). Identity
// is the (user, service name, service version, service namespace) tuple:
// all of a user's tokens report into the same resource, but a version
// bump creates a new one.
type Resource struct {
	shared.BaseEntity
	UserID           uuid.UUID
	ServiceName      string
	ServiceVersion   string
	ServiceNamespace string
	FirstSeen        time.Time
	LastSeen         time.Time
}

// NewResource creates a resource first seen at the given instant. An
// empty service name falls back to DefaultServiceName; version and
// namespace may be empty.
func NewResource(userID uuid.UUID, serviceName, serviceVersion, serviceNamespace string, seenAt time.Time) (*Resource, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if serviceName == "" {
		serviceName = DefaultServiceName
	}

	return &Resource{
		BaseEntity:       shared.NewBaseEntity(),
		UserID:           userID,
		ServiceName:      serviceName,
		ServiceVersion:   serviceVersion,
		ServiceNamespace: serviceNamespace,
		FirstSeen:        seenAt,
		LastSeen:         seenAt,
	}, nil
}

// Touch advances the last-seen instant. FirstSeen never changes after
// creation.
func (r *Resource) Touch(seenAt time.Time) {
	if seenAt.After(r.LastSeen) {
		r.LastSeen = seenAt
	}
}

// ResourceAttribute is a key/value pair describing a resource. Attributes
// are write-once: the first observed value for a key wins and later
// payloads do not overwrite it.
type ResourceAttribute struct {
	shared.BaseEntity
	ResourceID uuid.UUID
	Key        string
	Value      AttributeValue
}

// NewResourceAttribute creates an attribute for the given resource
func NewResourceAttribute(resourceID uuid.UUID, key string, value AttributeValue) *ResourceAttribute {
	return &ResourceAttribute{
		BaseEntity: shared.NewBaseEntity(),
		ResourceID: resourceID,
		Key:        key,
		Value:      value,
	}
}
