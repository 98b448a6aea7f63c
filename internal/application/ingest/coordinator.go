package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tracepulse/backend/internal/domain/billing"
	"github.com/tracepulse/backend/internal/domain/shared"
	"github.com/tracepulse/backend/internal/domain/telemetry"
)

// MalformedPayloadError rejects a structurally invalid batch before any
// write happens.
type MalformedPayloadError struct {
	Detail string
}

// Error implements the error interface
func (e *MalformedPayloadError) Error() string {
	return fmt.Sprintf("malformed telemetry payload: %s", e.Detail)
}

// TokenIdentity carries the authenticated principal of an ingest request
type TokenIdentity struct {
	UserID  uuid.UUID
	TokenID uuid.UUID
}

// Result summarizes an accepted batch
type Result struct {
	SpansProcessed   int
	MetricsProcessed int
	Usage            billing.UsageSnapshot
}

// Coordinator runs the ingestion pipeline: validate the batch, then in
// one transaction charge the quota, resolve resources, and materialize
// spans and metrics. A batch is all-or-nothing; any failure rolls back
// every write including the usage counter.
type Coordinator struct {
	scope    TransactionScope
	ledger   *QuotaLedger
	resolver *ResourceResolver
	spans    *SpanIngestor
	metrics  *MetricIngestor
	logger   *zap.Logger
}

// NewCoordinator creates an ingestion coordinator
func NewCoordinator(scope TransactionScope, logger *zap.Logger) *Coordinator {
	return NewCoordinatorWithClock(scope, logger, time.Now)
}

// NewCoordinatorWithClock creates a coordinator with an injected clock,
// used by the quota rollover and the resource seen-instants.
func NewCoordinatorWithClock(scope TransactionScope, logger *zap.Logger, now func() time.Time) *Coordinator {
	return &Coordinator{
		scope:    scope,
		ledger:   NewQuotaLedger(now),
		resolver: NewResourceResolverWithClock(now),
		spans:    NewSpanIngestor(),
		metrics:  NewMetricIngestor(),
		logger:   logger,
	}
}

// Ingest processes one OTLP export payload for the authenticated token.
// It returns a MalformedPayloadError for structurally invalid spans, a
// billing.QuotaExceededError when the batch would break the quota, or
// the processed counts and post-batch usage on success.
func (c *Coordinator) Ingest(ctx context.Context, token TokenIdentity, req *ExportRequest) (*Result, error) {
	if err := validateSpans(req); err != nil {
		return nil, err
	}

	spanCount := countSpans(req)
	credits := billing.SpanCredits(spanCount)

	result := &Result{}
	err := c.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		usage, err := c.ledger.CheckAndConsume(ctx, repos, token.UserID, credits)
		if err != nil {
			return err
		}
		result.Usage = usage

		for _, rs := range req.ResourceSpans {
			resource, err := c.resolver.Resolve(ctx, repos, token.UserID, rs.Resource)
			if err != nil {
				return err
			}
			n, err := c.spans.Ingest(ctx, repos, resource, token.TokenID, rs.ScopeSpans)
			if err != nil {
				return err
			}
			result.SpansProcessed += n
		}

		for _, rm := range req.ResourceMetrics {
			resource, err := c.resolver.Resolve(ctx, repos, token.UserID, rm.Resource)
			if err != nil {
				return err
			}
			n, err := c.metrics.Ingest(ctx, repos, resource, token.TokenID, rm.ScopeMetrics)
			if err != nil {
				return err
			}
			result.MetricsProcessed += n
		}
		return nil
	})
	if err != nil {
		var quotaErr *billing.QuotaExceededError
		if errors.As(err, &quotaErr) {
			c.logger.Info("ingest batch rejected by quota",
				zap.String("user_id", token.UserID.String()),
				zap.Int64("current_usage", quotaErr.Snapshot.CurrentUsage),
				zap.Int("span_count", spanCount))
		}
		return nil, err
	}

	c.logger.Debug("ingest batch accepted",
		zap.String("user_id", token.UserID.String()),
		zap.Int("spans", result.SpansProcessed),
		zap.Int("metrics", result.MetricsProcessed))
	return result, nil
}

// validateSpans rejects spans without a start timestamp. Validation
// runs before the transaction so a bad batch never touches the counter.
func validateSpans(req *ExportRequest) error {
	for _, rs := range req.ResourceSpans {
		for _, ss := range rs.ScopeSpans {
			for _, span := range ss.Spans {
				if span.StartTimeUnixNano == nil {
					return &MalformedPayloadError{
						Detail: fmt.Sprintf("span %q is missing startTimeUnixNano", span.Name),
					}
				}
			}
		}
	}
	return nil
}

func countSpans(req *ExportRequest) int {
	n := 0
	for _, rs := range req.ResourceSpans {
		for _, ss := range rs.ScopeSpans {
			n += len(ss.Spans)
		}
	}
	return n
}

// SpanIngestor materializes OTLP spans into trace, span, and child rows.
type SpanIngestor struct{}

// NewSpanIngestor creates a span ingestor
func NewSpanIngestor() *SpanIngestor {
	return &SpanIngestor{}
}

// Ingest writes all spans of a resource block. Spans sharing a start
// instant land in the same trace row; parent links resolve only against
// spans seen earlier in the same batch.
func (si *SpanIngestor) Ingest(
	ctx context.Context,
	repos TransactionalRepositories,
	resource *telemetry.Resource,
	ingestTokenID uuid.UUID,
	scopeSpans []ScopeSpans,
) (int, error) {
	traces := map[time.Time]*telemetry.Trace{}
	batchSpans := map[string]uuid.UUID{}
	processed := 0

	for _, ss := range scopeSpans {
		for _, otlpSpan := range ss.Spans {
			startTime := otlpSpan.StartTimeUnixNano.Time()
			var endTime *time.Time
			if otlpSpan.EndTimeUnixNano != nil {
				t := otlpSpan.EndTimeUnixNano.Time()
				endTime = &t
			}

			trace, err := si.resolveTrace(ctx, repos, traces, resource.ID, ingestTokenID, otlpSpan.Name, startTime)
			if err != nil {
				return processed, err
			}

			span := telemetry.NewSpan(trace.ID, resource.ServiceName, otlpSpan.Name, startTime, endTime)
			span.OTLPTraceID = otlpSpan.TraceID
			span.OTLPSpanID = otlpSpan.SpanID
			span.OTLPParentSpanID = otlpSpan.ParentSpanID
			span.Kind = spanKindName(otlpSpan.Kind)
			span.DroppedAttributes = droppedCount(otlpSpan.DroppedAttributesCount)
			span.DroppedEvents = droppedCount(otlpSpan.DroppedEventsCount)
			span.DroppedLinks = droppedCount(otlpSpan.DroppedLinksCount)
			if otlpSpan.Status.IsError() {
				span.Status = telemetry.SpanStatusError
				span.StatusMessage = otlpSpan.Status.Message
			}
			if otlpSpan.ParentSpanID != "" {
				if parentID, ok := batchSpans[otlpSpan.ParentSpanID]; ok {
					span.ParentID = &parentID
				}
			}

			if err := repos.Spans.Save(ctx, span); err != nil {
				return processed, fmt.Errorf("save span: %w", err)
			}
			if otlpSpan.SpanID != "" {
				batchSpans[otlpSpan.SpanID] = span.ID
			}

			if err := si.saveChildren(ctx, repos, span.ID, otlpSpan); err != nil {
				return processed, err
			}

			trace.RecordSpan(endTime, span.IsError())
			processed++
		}
	}

	for _, trace := range traces {
		if err := repos.Traces.Update(ctx, trace); err != nil {
			return processed, fmt.Errorf("update trace: %w", err)
		}
	}
	return processed, nil
}

func (si *SpanIngestor) resolveTrace(
	ctx context.Context,
	repos TransactionalRepositories,
	cache map[time.Time]*telemetry.Trace,
	resourceID, ingestTokenID uuid.UUID,
	name string,
	startTime time.Time,
) (*telemetry.Trace, error) {
	if trace, ok := cache[startTime]; ok {
		return trace, nil
	}

	trace, err := repos.Traces.FindByGroupingKey(ctx, resourceID, ingestTokenID, startTime)
	if errors.Is(err, shared.ErrNotFound) {
		trace = telemetry.NewTrace(resourceID, ingestTokenID, name, startTime)
		if err := repos.Traces.Save(ctx, trace); err != nil {
			return nil, fmt.Errorf("save trace: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("find trace: %w", err)
	}

	cache[startTime] = trace
	return trace, nil
}

func (si *SpanIngestor) saveChildren(
	ctx context.Context,
	repos TransactionalRepositories,
	spanID uuid.UUID,
	otlpSpan OTLPSpan,
) error {
	for _, kv := range otlpSpan.Attributes {
		attr := telemetry.NewSpanAttribute(spanID, kv.Key, decodeAttributeValue(kv.Value))
		if err := repos.Spans.SaveAttribute(ctx, attr); err != nil {
			return fmt.Errorf("save span attribute: %w", err)
		}
	}

	for _, otlpEvent := range otlpSpan.Events {
		var ts time.Time
		if otlpEvent.TimeUnixNano != nil {
			ts = otlpEvent.TimeUnixNano.Time()
		}
		event := telemetry.NewSpanEvent(spanID, otlpEvent.Name, ts)
		if err := repos.Spans.SaveEvent(ctx, event); err != nil {
			return fmt.Errorf("save span event: %w", err)
		}
		for _, kv := range otlpEvent.Attributes {
			attr := telemetry.NewSpanEventAttribute(event.ID, kv.Key, decodeAttributeValue(kv.Value))
			if err := repos.Spans.SaveEventAttribute(ctx, attr); err != nil {
				return fmt.Errorf("save span event attribute: %w", err)
			}
		}
	}

	for _, otlpLink := range otlpSpan.Links {
		link := telemetry.NewSpanLink(spanID, otlpLink.TraceID, otlpLink.SpanID, otlpLink.TraceState)
		if err := repos.Spans.SaveLink(ctx, link); err != nil {
			return fmt.Errorf("save span link: %w", err)
		}
		for _, kv := range otlpLink.Attributes {
			attr := telemetry.NewSpanLinkAttribute(link.ID, kv.Key, decodeAttributeValue(kv.Value))
			if err := repos.Spans.SaveLinkAttribute(ctx, attr); err != nil {
				return fmt.Errorf("save span link attribute: %w", err)
			}
		}
	}
	return nil
}

// MetricIngestor materializes OTLP metrics with write-time dedup.
type MetricIngestor struct{}

// NewMetricIngestor creates a metric ingestor
func NewMetricIngestor() *MetricIngestor {
	return &MetricIngestor{}
}

// Ingest writes all metric samples of a resource block. Gauges always
// write. Counter and histogram samples are skipped when the most recent
// stored sample for the same name already carries the same value, except
// that a histogram still writes when its bucket counts changed.
func (mi *MetricIngestor) Ingest(
	ctx context.Context,
	repos TransactionalRepositories,
	resource *telemetry.Resource,
	ingestTokenID uuid.UUID,
	scopeMetrics []ScopeMetrics,
) (int, error) {
	processed := 0
	for _, sm := range scopeMetrics {
		for _, otlpMetric := range sm.Metrics {
			n, err := mi.ingestMetric(ctx, repos, resource, ingestTokenID, otlpMetric)
			if err != nil {
				return processed, err
			}
			processed += n
		}
	}
	return processed, nil
}

func (mi *MetricIngestor) ingestMetric(
	ctx context.Context,
	repos TransactionalRepositories,
	resource *telemetry.Resource,
	ingestTokenID uuid.UUID,
	otlpMetric OTLPMetric,
) (int, error) {
	switch {
	case otlpMetric.Gauge != nil:
		return mi.ingestGauge(ctx, repos, resource, ingestTokenID, otlpMetric)
	case otlpMetric.Sum != nil:
		return mi.ingestSum(ctx, repos, resource, ingestTokenID, otlpMetric)
	case otlpMetric.Histogram != nil:
		return mi.ingestHistogram(ctx, repos, resource, ingestTokenID, otlpMetric)
	default:
		// Unsupported metric shapes (summary, exponential histogram)
		// are skipped, not rejected.
		return 0, nil
	}
}

func (mi *MetricIngestor) ingestGauge(
	ctx context.Context,
	repos TransactionalRepositories,
	resource *telemetry.Resource,
	ingestTokenID uuid.UUID,
	otlpMetric OTLPMetric,
) (int, error) {
	processed := 0
	for _, dp := range otlpMetric.Gauge.DataPoints {
		metric := telemetry.NewMetric(resource.ID, ingestTokenID, otlpMetric.Name, telemetry.MetricTypeGauge,
			dataPointTime(dp.TimeUnixNano), numberDataPointValue(dp))
		metric.Description = otlpMetric.Description
		metric.Unit = otlpMetric.Unit

		if err := mi.save(ctx, repos, metric, dp.Attributes); err != nil {
			return processed, err
		}
		processed++
	}
	return processed, nil
}

func (mi *MetricIngestor) ingestSum(
	ctx context.Context,
	repos TransactionalRepositories,
	resource *telemetry.Resource,
	ingestTokenID uuid.UUID,
	otlpMetric OTLPMetric,
) (int, error) {
	sum := otlpMetric.Sum
	processed := 0
	for _, dp := range sum.DataPoints {
		value := numberDataPointValue(dp)

		duplicate, err := mi.hasRecentDuplicate(ctx, repos, resource.ID, otlpMetric.Name, value)
		if err != nil {
			return processed, err
		}
		if duplicate {
			continue
		}

		metric := telemetry.NewMetric(resource.ID, ingestTokenID, otlpMetric.Name, telemetry.MetricTypeCounter,
			dataPointTime(dp.TimeUnixNano), value)
		metric.Description = otlpMetric.Description
		metric.Unit = otlpMetric.Unit
		metric.IsMonotonic = sum.IsMonotonic
		if sum.AggregationTemporality != nil {
			temporality := int(*sum.AggregationTemporality)
			metric.AggregationTemporality = &temporality
		}

		if err := mi.save(ctx, repos, metric, dp.Attributes); err != nil {
			return processed, err
		}
		processed++
	}
	return processed, nil
}

func (mi *MetricIngestor) ingestHistogram(
	ctx context.Context,
	repos TransactionalRepositories,
	resource *telemetry.Resource,
	ingestTokenID uuid.UUID,
	otlpMetric OTLPMetric,
) (int, error) {
	hist := otlpMetric.Histogram
	processed := 0
	for _, dp := range hist.DataPoints {
		value := histogramDataPointValue(dp)

		skip, err := mi.shouldSkipHistogram(ctx, repos, resource.ID, otlpMetric.Name, value, dp)
		if err != nil {
			return processed, err
		}
		if skip {
			continue
		}

		metric := telemetry.NewMetric(resource.ID, ingestTokenID, otlpMetric.Name, telemetry.MetricTypeHistogram,
			dataPointTime(dp.TimeUnixNano), value)
		metric.Description = otlpMetric.Description
		metric.Unit = otlpMetric.Unit
		metric.Min = dp.Min
		metric.Max = dp.Max
		metric.Sum = dp.Sum
		if dp.Count != nil {
			count := float64(*dp.Count)
			metric.Count = &count
		}
		if hist.AggregationTemporality != nil {
			temporality := int(*hist.AggregationTemporality)
			metric.AggregationTemporality = &temporality
		}

		if err := mi.save(ctx, repos, metric, dp.Attributes); err != nil {
			return processed, err
		}

		for i := range dp.BucketCounts {
			var bound *float64
			if i < len(dp.ExplicitBounds) {
				b := dp.ExplicitBounds[i]
				bound = &b
			}
			bucket := telemetry.NewHistogramBucket(metric.ID, i, bound, int64(dp.BucketCounts[i]))
			if err := repos.Metrics.SaveBucket(ctx, bucket); err != nil {
				return processed, fmt.Errorf("save histogram bucket: %w", err)
			}
		}
		processed++
	}
	return processed, nil
}

// hasRecentDuplicate reports whether the newest stored sample for the
// metric already carries this exact value.
func (mi *MetricIngestor) hasRecentDuplicate(
	ctx context.Context,
	repos TransactionalRepositories,
	resourceID uuid.UUID,
	name string,
	value float64,
) (bool, error) {
	_, err := repos.Metrics.FindMostRecentByValue(ctx, resourceID, name, value)
	if errors.Is(err, shared.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("dedup lookup for metric %q: %w", name, err)
	}
	return true, nil
}

// shouldSkipHistogram extends the value dedup with a bucket comparison:
// a value match still writes when the bucket counts moved.
func (mi *MetricIngestor) shouldSkipHistogram(
	ctx context.Context,
	repos TransactionalRepositories,
	resourceID uuid.UUID,
	name string,
	value float64,
	dp HistogramDataPoint,
) (bool, error) {
	prior, err := repos.Metrics.FindMostRecentByValue(ctx, resourceID, name, value)
	if errors.Is(err, shared.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("dedup lookup for histogram %q: %w", name, err)
	}

	priorBuckets, err := repos.Metrics.ListBuckets(ctx, prior.ID)
	if err != nil {
		return false, fmt.Errorf("load buckets for histogram %q: %w", name, err)
	}
	if len(priorBuckets) != len(dp.BucketCounts) {
		return false, nil
	}
	for i, bucket := range priorBuckets {
		if bucket.BucketCount != int64(dp.BucketCounts[i]) {
			return false, nil
		}
	}
	return true, nil
}

func (mi *MetricIngestor) save(
	ctx context.Context,
	repos TransactionalRepositories,
	metric *telemetry.Metric,
	attrs []KeyValue,
) error {
	if err := repos.Metrics.Save(ctx, metric); err != nil {
		return fmt.Errorf("save metric: %w", err)
	}
	for _, kv := range attrs {
		attr := telemetry.NewMetricAttribute(metric.ID, kv.Key, decodeAttributeValue(kv.Value))
		if err := repos.Metrics.SaveAttribute(ctx, attr); err != nil {
			return fmt.Errorf("save metric attribute: %w", err)
		}
	}
	return nil
}

func dataPointTime(ts *FlexUint64) time.Time {
	if ts == nil {
		return time.UnixMilli(0)
	}
	return ts.Time()
}
