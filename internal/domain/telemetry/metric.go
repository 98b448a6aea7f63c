package telemetry

import (
	"time"

	"github.com/google/uuid"
	"github.com/tracepulse/backend/internal/domain/shared"
)

// MetricType classifies a metric sample
type MetricType string

const (
	MetricTypeCounter   MetricType = "counter"
	MetricTypeGauge     MetricType = "gauge"
	MetricTypeHistogram MetricType = "histogram"
)

// String returns the string representation of MetricType
func (t MetricType) String() string {
	return string(t)
}

// AggregationCumulative is the OTLP enum value for cumulative temporality
const AggregationCumulative = 2

// Metric is one stored metric sample, attributed to the token that
// ingested it. Counter metrics carry temporality and monotonicity;
// histogram metrics carry the summary fields and their buckets live in
// HistogramBucket rows.
type Metric struct {
	shared.BaseEntity
	ResourceID             uuid.UUID
	IngestTokenID          uuid.UUID
	Name                   string
	Description            string
	Unit                   string
	Type                   MetricType
	Timestamp              time.Time
	Value                  float64
	AggregationTemporality *int
	IsMonotonic            *bool
	Min                    *float64
	Max                    *float64
	Count                  *float64
	Sum                    *float64
}

// NewMetric creates a metric sample for the given resource and token
func NewMetric(resourceID, ingestTokenID uuid.UUID, name string, metricType MetricType, timestamp time.Time, value float64) *Metric {
	return &Metric{
		BaseEntity:    shared.NewBaseEntity(),
		ResourceID:    resourceID,
		IngestTokenID: ingestTokenID,
		Name:          name,
		Type:          metricType,
		Timestamp:     timestamp,
		Value:         value,
	}
}

// IsCumulative reports whether the sample uses cumulative temporality.
// Samples without temporality (gauges) are not cumulative.
func (m *Metric) IsCumulative() bool {
	return m.AggregationTemporality != nil && *m.AggregationTemporality == AggregationCumulative
}

// MetricAttribute is a key/value pair attached to a metric sample
type MetricAttribute struct {
	shared.BaseEntity
	MetricID uuid.UUID
	Key      string
	Value    AttributeValue
}

// NewMetricAttribute creates an attribute for the given metric
func NewMetricAttribute(metricID uuid.UUID, key string, value AttributeValue) *MetricAttribute {
	return &MetricAttribute{
		BaseEntity: shared.NewBaseEntity(),
		MetricID:   metricID,
		Key:        key,
		Value:      value,
	}
}

// HistogramBucket is one bucket of a histogram sample. ExplicitBound is
// nil for the overflow bucket.
type HistogramBucket struct {
	shared.BaseEntity
	MetricID      uuid.UUID
	BucketIndex   int
	ExplicitBound *float64
	BucketCount   int64
}

// NewHistogramBucket creates a bucket row for the given metric
func NewHistogramBucket(metricID uuid.UUID, index int, bound *float64, count int64) *HistogramBucket {
	return &HistogramBucket{
		BaseEntity:    shared.NewBaseEntity(),
		MetricID:      metricID,
		BucketIndex:   index,
		ExplicitBound: bound,
		BucketCount:   count,
	}
}
