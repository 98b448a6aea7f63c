package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tracepulse/backend/internal/domain/shared"
	"github.com/tracepulse/backend/internal/domain/telemetry"
)

// ResourceResolver maps an OTLP resource block onto a stored resource,
// creating it on first sight. Resource attributes are write-once: keys
// already stored keep their first observed value.
type ResourceResolver struct {
	now func() time.Time
}

// NewResourceResolver creates a resolver
func NewResourceResolver() *ResourceResolver {
	return NewResourceResolverWithClock(time.Now)
}

// NewResourceResolverWithClock creates a resolver with an injected
// clock, used for the first/last-seen instants.
func NewResourceResolverWithClock(now func() time.Time) *ResourceResolver {
	return &ResourceResolver{now: now}
}

// Resolve returns the resource for the payload's (user, service.name,
// service.version, service.namespace) identity, creating the row and
// recording new attributes as needed. Every call advances the resource's
// last-seen instant; a payload without service.name resolves to the
// "unknown" resource.
func (r *ResourceResolver) Resolve(
	ctx context.Context,
	repos TransactionalRepositories,
	userID uuid.UUID,
	otlpResource *OTLPResource,
) (*telemetry.Resource, error) {
	serviceName := otlpResource.ServiceName()
	if serviceName == "" {
		serviceName = telemetry.DefaultServiceName
	}
	serviceVersion := otlpResource.ServiceVersion()
	serviceNamespace := otlpResource.ServiceNamespace()
	seenAt := r.now()

	resource, err := repos.Resources.FindByIdentity(ctx, userID, serviceName, serviceVersion, serviceNamespace)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		resource, err = telemetry.NewResource(userID, serviceName, serviceVersion, serviceNamespace, seenAt)
		if err != nil {
			return nil, err
		}
		if err := repos.Resources.Save(ctx, resource); err != nil {
			return nil, fmt.Errorf("save resource: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("find resource: %w", err)
	default:
		resource.Touch(seenAt)
		if err := repos.Resources.Update(ctx, resource); err != nil {
			return nil, fmt.Errorf("update resource: %w", err)
		}
	}

	if otlpResource != nil {
		if err := r.recordAttributes(ctx, repos, resource.ID, otlpResource.Attributes); err != nil {
			return nil, err
		}
	}
	return resource, nil
}

func (r *ResourceResolver) recordAttributes(
	ctx context.Context,
	repos TransactionalRepositories,
	resourceID uuid.UUID,
	attrs []KeyValue,
) error {
	for _, kv := range attrs {
		_, err := repos.Resources.FindAttribute(ctx, resourceID, kv.Key)
		if err == nil {
			continue
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return fmt.Errorf("find resource attribute %q: %w", kv.Key, err)
		}
		attr := telemetry.NewResourceAttribute(resourceID, kv.Key, decodeAttributeValue(kv.Value))
		if err := repos.Resources.SaveAttribute(ctx, attr); err != nil {
			return fmt.Errorf("save resource attribute %q: %w", kv.Key, err)
		}
	}
	return nil
}
