package telemetry

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ResourceRepository provides access to resources and their attributes
type ResourceRepository interface {
	// FindByIdentity retrieves a resource by its (user, service name,
	// version, namespace) identity. Returns shared.ErrNotFound when
	// absent.
	FindByIdentity(ctx context.Context, userID uuid.UUID, serviceName, serviceVersion, serviceNamespace string) (*Resource, error)

	// Save persists a new resource
	Save(ctx context.Context, resource *Resource) error

	// Update persists changes to an existing resource (the last-seen
	// instant)
	Update(ctx context.Context, resource *Resource) error

	// FindAttribute retrieves an attribute by resource and key.
	// Returns shared.ErrNotFound when absent.
	FindAttribute(ctx context.Context, resourceID uuid.UUID, key string) (*ResourceAttribute, error)

	// SaveAttribute persists a new resource attribute
	SaveAttribute(ctx context.Context, attr *ResourceAttribute) error
}

// TraceRepository provides access to trace groups
type TraceRepository interface {
	// FindByGroupingKey retrieves the trace for an exact (resource,
	// token, start time) triple. Returns shared.ErrNotFound when absent.
	FindByGroupingKey(ctx context.Context, resourceID, ingestTokenID uuid.UUID, startTime time.Time) (*Trace, error)

	// Save persists a new trace
	Save(ctx context.Context, trace *Trace) error

	// Update persists changes to an existing trace
	Update(ctx context.Context, trace *Trace) error
}

// SpanRepository persists spans and their child rows
type SpanRepository interface {
	Save(ctx context.Context, span *Span) error
	SaveAttribute(ctx context.Context, attr *SpanAttribute) error
	SaveEvent(ctx context.Context, event *SpanEvent) error
	SaveEventAttribute(ctx context.Context, attr *SpanEventAttribute) error
	SaveLink(ctx context.Context, link *SpanLink) error
	SaveLinkAttribute(ctx context.Context, attr *SpanLinkAttribute) error
}

// MetricRepository persists metric samples, attributes, and buckets
type MetricRepository interface {
	// FindMostRecentByValue retrieves the newest sample for the given
	// resource, metric name, and exact value. Used by the write dedup
	// check. Returns shared.ErrNotFound when no such sample exists.
	FindMostRecentByValue(ctx context.Context, resourceID uuid.UUID, name string, value float64) (*Metric, error)

	Save(ctx context.Context, metric *Metric) error
	SaveAttribute(ctx context.Context, attr *MetricAttribute) error
	SaveBucket(ctx context.Context, bucket *HistogramBucket) error

	// ListBuckets retrieves a sample's buckets ordered by bucket index
	ListBuckets(ctx context.Context, metricID uuid.UUID) ([]*HistogramBucket, error)
}
