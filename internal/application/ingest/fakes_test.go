package ingest

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tracepulse/backend/internal/domain/identity"
	"github.com/tracepulse/backend/internal/domain/shared"
	"github.com/tracepulse/backend/internal/domain/telemetry"
)

// In-memory repository fakes for coordinator tests. FindByIDForUpdate
// hands out copies so counter mutations only stick through Update,
// mirroring transactional visibility.

type fakeUserRepo struct {
	users map[uuid.UUID]identity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uuid.UUID]identity.User{}}
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*identity.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &u, nil
}

func (r *fakeUserRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeUserRepo) Save(_ context.Context, user *identity.User) error {
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *identity.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return shared.ErrNotFound
	}
	r.users[user.ID] = *user
	return nil
}

type fakeTierRepo struct {
	tiers map[uuid.UUID]identity.SubscriptionTier
}

func newFakeTierRepo() *fakeTierRepo {
	return &fakeTierRepo{tiers: map[uuid.UUID]identity.SubscriptionTier{}}
}

func (r *fakeTierRepo) FindByID(_ context.Context, id uuid.UUID) (*identity.SubscriptionTier, error) {
	t, ok := r.tiers[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &t, nil
}

func (r *fakeTierRepo) FindByName(_ context.Context, name identity.TierName) (*identity.SubscriptionTier, error) {
	for _, t := range r.tiers {
		if t.Tier == name {
			tier := t
			return &tier, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeTierRepo) Save(_ context.Context, tier *identity.SubscriptionTier) error {
	r.tiers[tier.ID] = *tier
	return nil
}

type fakeResourceRepo struct {
	resources []*telemetry.Resource
	attrs     []*telemetry.ResourceAttribute
}

func (r *fakeResourceRepo) FindByIdentity(_ context.Context, userID uuid.UUID, serviceName, serviceVersion, serviceNamespace string) (*telemetry.Resource, error) {
	for _, res := range r.resources {
		if res.UserID == userID && res.ServiceName == serviceName &&
			res.ServiceVersion == serviceVersion && res.ServiceNamespace == serviceNamespace {
			return res, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeResourceRepo) Save(_ context.Context, resource *telemetry.Resource) error {
	r.resources = append(r.resources, resource)
	return nil
}

func (r *fakeResourceRepo) Update(_ context.Context, resource *telemetry.Resource) error {
	for i, res := range r.resources {
		if res.ID == resource.ID {
			r.resources[i] = resource
			return nil
		}
	}
	return shared.ErrNotFound
}

func (r *fakeResourceRepo) FindAttribute(_ context.Context, resourceID uuid.UUID, key string) (*telemetry.ResourceAttribute, error) {
	for _, a := range r.attrs {
		if a.ResourceID == resourceID && a.Key == key {
			return a, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeResourceRepo) SaveAttribute(_ context.Context, attr *telemetry.ResourceAttribute) error {
	r.attrs = append(r.attrs, attr)
	return nil
}

type fakeTraceRepo struct {
	traces map[uuid.UUID]telemetry.Trace
}

func newFakeTraceRepo() *fakeTraceRepo {
	return &fakeTraceRepo{traces: map[uuid.UUID]telemetry.Trace{}}
}

func (r *fakeTraceRepo) FindByGroupingKey(_ context.Context, resourceID, tokenID uuid.UUID, startTime time.Time) (*telemetry.Trace, error) {
	for _, t := range r.traces {
		if t.ResourceID == resourceID && t.IngestTokenID == tokenID && t.StartTime.Equal(startTime) {
			trace := t
			return &trace, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeTraceRepo) Save(_ context.Context, trace *telemetry.Trace) error {
	r.traces[trace.ID] = *trace
	return nil
}

func (r *fakeTraceRepo) Update(_ context.Context, trace *telemetry.Trace) error {
	if _, ok := r.traces[trace.ID]; !ok {
		return shared.ErrNotFound
	}
	r.traces[trace.ID] = *trace
	return nil
}

type fakeSpanRepo struct {
	spans      []*telemetry.Span
	attrs      []*telemetry.SpanAttribute
	events     []*telemetry.SpanEvent
	eventAttrs []*telemetry.SpanEventAttribute
	links      []*telemetry.SpanLink
	linkAttrs  []*telemetry.SpanLinkAttribute
}

func (r *fakeSpanRepo) Save(_ context.Context, span *telemetry.Span) error {
	r.spans = append(r.spans, span)
	return nil
}

func (r *fakeSpanRepo) SaveAttribute(_ context.Context, attr *telemetry.SpanAttribute) error {
	r.attrs = append(r.attrs, attr)
	return nil
}

func (r *fakeSpanRepo) SaveEvent(_ context.Context, event *telemetry.SpanEvent) error {
	r.events = append(r.events, event)
	return nil
}

func (r *fakeSpanRepo) SaveEventAttribute(_ context.Context, attr *telemetry.SpanEventAttribute) error {
	r.eventAttrs = append(r.eventAttrs, attr)
	return nil
}

func (r *fakeSpanRepo) SaveLink(_ context.Context, link *telemetry.SpanLink) error {
	r.links = append(r.links, link)
	return nil
}

func (r *fakeSpanRepo) SaveLinkAttribute(_ context.Context, attr *telemetry.SpanLinkAttribute) error {
	r.linkAttrs = append(r.linkAttrs, attr)
	return nil
}

type fakeMetricRepo struct {
	metrics []*telemetry.Metric
	attrs   []*telemetry.MetricAttribute
	buckets []*telemetry.HistogramBucket
}

func (r *fakeMetricRepo) FindMostRecentByValue(_ context.Context, resourceID uuid.UUID, name string, value float64) (*telemetry.Metric, error) {
	for i := len(r.metrics) - 1; i >= 0; i-- {
		m := r.metrics[i]
		if m.ResourceID == resourceID && m.Name == name && m.Value == value {
			return m, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeMetricRepo) Save(_ context.Context, metric *telemetry.Metric) error {
	r.metrics = append(r.metrics, metric)
	return nil
}

func (r *fakeMetricRepo) SaveAttribute(_ context.Context, attr *telemetry.MetricAttribute) error {
	r.attrs = append(r.attrs, attr)
	return nil
}

func (r *fakeMetricRepo) SaveBucket(_ context.Context, bucket *telemetry.HistogramBucket) error {
	r.buckets = append(r.buckets, bucket)
	return nil
}

func (r *fakeMetricRepo) ListBuckets(_ context.Context, metricID uuid.UUID) ([]*telemetry.HistogramBucket, error) {
	var out []*telemetry.HistogramBucket
	for _, b := range r.buckets {
		if b.MetricID == metricID {
			out = append(out, b)
		}
	}
	return out, nil
}

type fakeScope struct {
	repos TransactionalRepositories
}

func (s *fakeScope) Execute(_ context.Context, fn func(TransactionalRepositories) error) error {
	return fn(s.repos)
}
