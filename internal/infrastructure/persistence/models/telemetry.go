package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/tracepulse/backend/internal/domain/telemetry"
)

// AttributeColumns holds the typed value columns shared by every
// attribute table. Exactly one value column is populated, selected by
// ValueType.
type AttributeColumns struct {
	Key         string `gorm:"type:varchar(255);not null"`
	ValueType   string `gorm:"type:varchar(10);not null"`
	StringValue *string
	IntValue    *int64
	DoubleValue *float64
	BoolValue   *bool
	ArrayValue  *string `gorm:"type:text"`
}

// FromDomainValue populates the typed columns from a domain value
func (c *AttributeColumns) FromDomainValue(key string, v telemetry.AttributeValue) {
	c.Key = key
	c.ValueType = v.Type.String()
	c.StringValue = nil
	c.IntValue = nil
	c.DoubleValue = nil
	c.BoolValue = nil
	c.ArrayValue = nil

	switch v.Type {
	case telemetry.AttributeTypeInt:
		c.IntValue = &v.IntValue
	case telemetry.AttributeTypeDouble:
		c.DoubleValue = &v.DoubleValue
	case telemetry.AttributeTypeBool:
		c.BoolValue = &v.BoolValue
	case telemetry.AttributeTypeArray:
		c.ArrayValue = &v.ArrayValue
	default:
		c.StringValue = &v.StringValue
	}
}

// ToDomainValue converts the typed columns back to a domain value
func (c *AttributeColumns) ToDomainValue() telemetry.AttributeValue {
	v := telemetry.AttributeValue{Type: telemetry.AttributeType(c.ValueType)}
	switch v.Type {
	case telemetry.AttributeTypeInt:
		if c.IntValue != nil {
			v.IntValue = *c.IntValue
		}
	case telemetry.AttributeTypeDouble:
		if c.DoubleValue != nil {
			v.DoubleValue = *c.DoubleValue
		}
	case telemetry.AttributeTypeBool:
		if c.BoolValue != nil {
			v.BoolValue = *c.BoolValue
		}
	case telemetry.AttributeTypeArray:
		if c.ArrayValue != nil {
			v.ArrayValue = *c.ArrayValue
		}
	default:
		if c.StringValue != nil {
			v.StringValue = *c.StringValue
		}
	}
	return v
}

// ResourceModel is the persistence model for Resource. Identity is the
// (user_id, service_name, service_version, service_namespace) tuple.
type ResourceModel struct {
	BaseModel
	UserID           uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_resources_identity"`
	ServiceName      string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_resources_identity"`
	ServiceVersion   string    `gorm:"type:varchar(255);not null;default:'';uniqueIndex:idx_resources_identity"`
	ServiceNamespace string    `gorm:"type:varchar(255);not null;default:'';uniqueIndex:idx_resources_identity"`
	FirstSeen        time.Time `gorm:"not null"`
	LastSeen         time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ResourceModel) TableName() string {
	return "resources"
}

// ToDomain converts the persistence model to a domain Resource
func (m *ResourceModel) ToDomain() *telemetry.Resource {
	return &telemetry.Resource{
		BaseEntity:       m.BaseModel.ToDomain(),
		UserID:           m.UserID,
		ServiceName:      m.ServiceName,
		ServiceVersion:   m.ServiceVersion,
		ServiceNamespace: m.ServiceNamespace,
		FirstSeen:        m.FirstSeen,
		LastSeen:         m.LastSeen,
	}
}

// FromDomain populates the persistence model from a domain Resource
func (m *ResourceModel) FromDomain(r *telemetry.Resource) {
	m.FromDomainBaseEntity(r.BaseEntity)
	m.UserID = r.UserID
	m.ServiceName = r.ServiceName
	m.ServiceVersion = r.ServiceVersion
	m.ServiceNamespace = r.ServiceNamespace
	m.FirstSeen = r.FirstSeen
	m.LastSeen = r.LastSeen
}

// ResourceAttributeModel is the persistence model for ResourceAttribute.
// Uniqueness of (resource_id, key) is enforced by the migration.
type ResourceAttributeModel struct {
	BaseModel
	ResourceID uuid.UUID `gorm:"type:uuid;not null;index"`
	AttributeColumns
}

// TableName returns the table name for GORM
func (ResourceAttributeModel) TableName() string {
	return "resource_attributes"
}

// ToDomain converts the persistence model to a domain ResourceAttribute
func (m *ResourceAttributeModel) ToDomain() *telemetry.ResourceAttribute {
	return &telemetry.ResourceAttribute{
		BaseEntity: m.BaseModel.ToDomain(),
		ResourceID: m.ResourceID,
		Key:        m.Key,
		Value:      m.ToDomainValue(),
	}
}

// FromDomain populates the persistence model from a domain ResourceAttribute
func (m *ResourceAttributeModel) FromDomain(a *telemetry.ResourceAttribute) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.ResourceID = a.ResourceID
	m.FromDomainValue(a.Key, a.Value)
}

// TraceModel is the persistence model for Trace. The grouping key is
// (resource_id, ingest_token_id, start_time).
type TraceModel struct {
	BaseModel
	ResourceID    uuid.UUID `gorm:"type:uuid;not null;index:idx_traces_grouping"`
	IngestTokenID uuid.UUID `gorm:"type:uuid;not null;index:idx_traces_grouping"`
	Name          string    `gorm:"type:varchar(500);not null"`
	StartTime     time.Time `gorm:"not null;index:idx_traces_grouping"`
	EndTime       *time.Time
	Status        string `gorm:"type:varchar(10);not null;default:'ok'"`
	SpanCount     int    `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (TraceModel) TableName() string {
	return "traces"
}

// ToDomain converts the persistence model to a domain Trace
func (m *TraceModel) ToDomain() *telemetry.Trace {
	return &telemetry.Trace{
		BaseEntity:    m.BaseModel.ToDomain(),
		ResourceID:    m.ResourceID,
		IngestTokenID: m.IngestTokenID,
		Name:          m.Name,
		StartTime:     m.StartTime,
		EndTime:       m.EndTime,
		Status:        telemetry.TraceStatus(m.Status),
		SpanCount:     m.SpanCount,
	}
}

// FromDomain populates the persistence model from a domain Trace
func (m *TraceModel) FromDomain(t *telemetry.Trace) {
	m.FromDomainBaseEntity(t.BaseEntity)
	m.ResourceID = t.ResourceID
	m.IngestTokenID = t.IngestTokenID
	m.Name = t.Name
	m.StartTime = t.StartTime
	m.EndTime = t.EndTime
	m.Status = t.Status.String()
	m.SpanCount = t.SpanCount
}

// SpanModel is the persistence model for Span
type SpanModel struct {
	BaseModel
	TraceID           uuid.UUID  `gorm:"type:uuid;not null;index"`
	ParentID          *uuid.UUID `gorm:"type:uuid;index"`
	OTLPTraceID       string     `gorm:"column:otlp_trace_id;type:varchar(32);index"`
	OTLPSpanID        string     `gorm:"column:otlp_span_id;type:varchar(16)"`
	OTLPParentSpanID  string     `gorm:"column:otlp_parent_span_id;type:varchar(16)"`
	ServiceName       string     `gorm:"type:varchar(255);not null;default:''"`
	Name              string     `gorm:"type:varchar(500);not null"`
	Kind              string     `gorm:"type:varchar(20)"`
	StartTime         time.Time  `gorm:"not null;index"`
	EndTime           *time.Time
	Status            string `gorm:"type:varchar(10);not null;default:'ok'"`
	StatusMessage     string `gorm:"type:text"`
	DroppedAttributes int    `gorm:"not null;default:0"`
	DroppedEvents     int    `gorm:"not null;default:0"`
	DroppedLinks      int    `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (SpanModel) TableName() string {
	return "spans"
}

// ToDomain converts the persistence model to a domain Span
func (m *SpanModel) ToDomain() *telemetry.Span {
	return &telemetry.Span{
		BaseEntity:        m.BaseModel.ToDomain(),
		TraceID:           m.TraceID,
		ParentID:          m.ParentID,
		OTLPTraceID:       m.OTLPTraceID,
		OTLPSpanID:        m.OTLPSpanID,
		OTLPParentSpanID:  m.OTLPParentSpanID,
		ServiceName:       m.ServiceName,
		Name:              m.Name,
		Kind:              m.Kind,
		StartTime:         m.StartTime,
		EndTime:           m.EndTime,
		Status:            telemetry.SpanStatus(m.Status),
		StatusMessage:     m.StatusMessage,
		DroppedAttributes: m.DroppedAttributes,
		DroppedEvents:     m.DroppedEvents,
		DroppedLinks:      m.DroppedLinks,
	}
}

// FromDomain populates the persistence model from a domain Span
func (m *SpanModel) FromDomain(s *telemetry.Span) {
	m.FromDomainBaseEntity(s.BaseEntity)
	m.TraceID = s.TraceID
	m.ParentID = s.ParentID
	m.OTLPTraceID = s.OTLPTraceID
	m.OTLPSpanID = s.OTLPSpanID
	m.OTLPParentSpanID = s.OTLPParentSpanID
	m.ServiceName = s.ServiceName
	m.Name = s.Name
	m.Kind = s.Kind
	m.StartTime = s.StartTime
	m.EndTime = s.EndTime
	m.Status = string(s.Status)
	m.StatusMessage = s.StatusMessage
	m.DroppedAttributes = s.DroppedAttributes
	m.DroppedEvents = s.DroppedEvents
	m.DroppedLinks = s.DroppedLinks
}

// SpanAttributeModel is the persistence model for SpanAttribute
type SpanAttributeModel struct {
	BaseModel
	SpanID uuid.UUID `gorm:"type:uuid;not null;index"`
	AttributeColumns
}

// TableName returns the table name for GORM
func (SpanAttributeModel) TableName() string {
	return "span_attributes"
}

// ToDomain converts the persistence model to a domain SpanAttribute
func (m *SpanAttributeModel) ToDomain() *telemetry.SpanAttribute {
	return &telemetry.SpanAttribute{
		BaseEntity: m.BaseModel.ToDomain(),
		SpanID:     m.SpanID,
		Key:        m.Key,
		Value:      m.ToDomainValue(),
	}
}

// FromDomain populates the persistence model from a domain SpanAttribute
func (m *SpanAttributeModel) FromDomain(a *telemetry.SpanAttribute) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.SpanID = a.SpanID
	m.FromDomainValue(a.Key, a.Value)
}

// SpanEventModel is the persistence model for SpanEvent
type SpanEventModel struct {
	BaseModel
	SpanID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Name      string    `gorm:"type:varchar(500);not null"`
	Timestamp time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SpanEventModel) TableName() string {
	return "span_events"
}

// ToDomain converts the persistence model to a domain SpanEvent
func (m *SpanEventModel) ToDomain() *telemetry.SpanEvent {
	return &telemetry.SpanEvent{
		BaseEntity: m.BaseModel.ToDomain(),
		SpanID:     m.SpanID,
		Name:       m.Name,
		Timestamp:  m.Timestamp,
	}
}

// FromDomain populates the persistence model from a domain SpanEvent
func (m *SpanEventModel) FromDomain(e *telemetry.SpanEvent) {
	m.FromDomainBaseEntity(e.BaseEntity)
	m.SpanID = e.SpanID
	m.Name = e.Name
	m.Timestamp = e.Timestamp
}

// SpanEventAttributeModel is the persistence model for SpanEventAttribute
type SpanEventAttributeModel struct {
	BaseModel
	SpanEventID uuid.UUID `gorm:"type:uuid;not null;index"`
	AttributeColumns
}

// TableName returns the table name for GORM
func (SpanEventAttributeModel) TableName() string {
	return "span_event_attributes"
}

// ToDomain converts the persistence model to a domain SpanEventAttribute
func (m *SpanEventAttributeModel) ToDomain() *telemetry.SpanEventAttribute {
	return &telemetry.SpanEventAttribute{
		BaseEntity:  m.BaseModel.ToDomain(),
		SpanEventID: m.SpanEventID,
		Key:         m.Key,
		Value:       m.ToDomainValue(),
	}
}

// FromDomain populates the persistence model from a domain SpanEventAttribute
func (m *SpanEventAttributeModel) FromDomain(a *telemetry.SpanEventAttribute) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.SpanEventID = a.SpanEventID
	m.FromDomainValue(a.Key, a.Value)
}

// SpanLinkModel is the persistence model for SpanLink
type SpanLinkModel struct {
	BaseModel
	SpanID           uuid.UUID `gorm:"type:uuid;not null;index"`
	LinkedTraceID    string    `gorm:"type:varchar(32)"`
	LinkedSpanID     string    `gorm:"type:varchar(16)"`
	LinkedTraceState string    `gorm:"type:varchar(512)"`
}

// TableName returns the table name for GORM
func (SpanLinkModel) TableName() string {
	return "span_links"
}

// ToDomain converts the persistence model to a domain SpanLink
func (m *SpanLinkModel) ToDomain() *telemetry.SpanLink {
	return &telemetry.SpanLink{
		BaseEntity:       m.BaseModel.ToDomain(),
		SpanID:           m.SpanID,
		LinkedTraceID:    m.LinkedTraceID,
		LinkedSpanID:     m.LinkedSpanID,
		LinkedTraceState: m.LinkedTraceState,
	}
}

// FromDomain populates the persistence model from a domain SpanLink
func (m *SpanLinkModel) FromDomain(l *telemetry.SpanLink) {
	m.FromDomainBaseEntity(l.BaseEntity)
	m.SpanID = l.SpanID
	m.LinkedTraceID = l.LinkedTraceID
	m.LinkedSpanID = l.LinkedSpanID
	m.LinkedTraceState = l.LinkedTraceState
}

// SpanLinkAttributeModel is the persistence model for SpanLinkAttribute
type SpanLinkAttributeModel struct {
	BaseModel
	SpanLinkID uuid.UUID `gorm:"type:uuid;not null;index"`
	AttributeColumns
}

// TableName returns the table name for GORM
func (SpanLinkAttributeModel) TableName() string {
	return "span_link_attributes"
}

// ToDomain converts the persistence model to a domain SpanLinkAttribute
func (m *SpanLinkAttributeModel) ToDomain() *telemetry.SpanLinkAttribute {
	return &telemetry.SpanLinkAttribute{
		BaseEntity: m.BaseModel.ToDomain(),
		SpanLinkID: m.SpanLinkID,
		Key:        m.Key,
		Value:      m.ToDomainValue(),
	}
}

// FromDomain populates the persistence model from a domain SpanLinkAttribute
func (m *SpanLinkAttributeModel) FromDomain(a *telemetry.SpanLinkAttribute) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.SpanLinkID = a.SpanLinkID
	m.FromDomainValue(a.Key, a.Value)
}

// MetricModel is the persistence model for Metric
type MetricModel struct {
	BaseModel
	ResourceID             uuid.UUID `gorm:"type:uuid;not null;index:idx_metrics_dedup"`
	IngestTokenID          uuid.UUID `gorm:"type:uuid;not null;index"`
	Name                   string    `gorm:"type:varchar(255);not null;index:idx_metrics_dedup"`
	Description            string    `gorm:"type:text"`
	Unit                   string    `gorm:"type:varchar(50)"`
	Type                   string    `gorm:"type:varchar(10);not null"`
	Timestamp              time.Time `gorm:"not null;index"`
	Value                  float64   `gorm:"not null;index:idx_metrics_dedup"`
	AggregationTemporality *int
	IsMonotonic            *bool
	Min                    *float64
	Max                    *float64
	Count                  *float64
	Sum                    *float64
}

// TableName returns the table name for GORM
func (MetricModel) TableName() string {
	return "metrics"
}

// ToDomain converts the persistence model to a domain Metric
func (m *MetricModel) ToDomain() *telemetry.Metric {
	return &telemetry.Metric{
		BaseEntity:             m.BaseModel.ToDomain(),
		ResourceID:             m.ResourceID,
		IngestTokenID:          m.IngestTokenID,
		Name:                   m.Name,
		Description:            m.Description,
		Unit:                   m.Unit,
		Type:                   telemetry.MetricType(m.Type),
		Timestamp:              m.Timestamp,
		Value:                  m.Value,
		AggregationTemporality: m.AggregationTemporality,
		IsMonotonic:            m.IsMonotonic,
		Min:                    m.Min,
		Max:                    m.Max,
		Count:                  m.Count,
		Sum:                    m.Sum,
	}
}

// FromDomain populates the persistence model from a domain Metric
func (m *MetricModel) FromDomain(metric *telemetry.Metric) {
	m.FromDomainBaseEntity(metric.BaseEntity)
	m.ResourceID = metric.ResourceID
	m.IngestTokenID = metric.IngestTokenID
	m.Name = metric.Name
	m.Description = metric.Description
	m.Unit = metric.Unit
	m.Type = metric.Type.String()
	m.Timestamp = metric.Timestamp
	m.Value = metric.Value
	m.AggregationTemporality = metric.AggregationTemporality
	m.IsMonotonic = metric.IsMonotonic
	m.Min = metric.Min
	m.Max = metric.Max
	m.Count = metric.Count
	m.Sum = metric.Sum
}

// MetricAttributeModel is the persistence model for MetricAttribute
type MetricAttributeModel struct {
	BaseModel
	MetricID uuid.UUID `gorm:"type:uuid;not null;index"`
	AttributeColumns
}

// TableName returns the table name for GORM
func (MetricAttributeModel) TableName() string {
	return "metric_attributes"
}

// ToDomain converts the persistence model to a domain MetricAttribute
func (m *MetricAttributeModel) ToDomain() *telemetry.MetricAttribute {
	return &telemetry.MetricAttribute{
		BaseEntity: m.BaseModel.ToDomain(),
		MetricID:   m.MetricID,
		Key:        m.Key,
		Value:      m.ToDomainValue(),
	}
}

// FromDomain populates the persistence model from a domain MetricAttribute
func (m *MetricAttributeModel) FromDomain(a *telemetry.MetricAttribute) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.MetricID = a.MetricID
	m.FromDomainValue(a.Key, a.Value)
}

// HistogramBucketModel is the persistence model for HistogramBucket.
// A NULL explicit_bound marks the overflow bucket.
type HistogramBucketModel struct {
	BaseModel
	MetricID      uuid.UUID `gorm:"type:uuid;not null;index"`
	BucketIndex   int       `gorm:"not null"`
	ExplicitBound *float64
	BucketCount   int64 `gorm:"not null"`
}

// TableName returns the table name for GORM
func (HistogramBucketModel) TableName() string {
	return "histogram_buckets"
}

// ToDomain converts the persistence model to a domain HistogramBucket
func (m *HistogramBucketModel) ToDomain() *telemetry.HistogramBucket {
	return &telemetry.HistogramBucket{
		BaseEntity:    m.BaseModel.ToDomain(),
		MetricID:      m.MetricID,
		BucketIndex:   m.BucketIndex,
		ExplicitBound: m.ExplicitBound,
		BucketCount:   m.BucketCount,
	}
}

// FromDomain populates the persistence model from a domain HistogramBucket
func (m *HistogramBucketModel) FromDomain(b *telemetry.HistogramBucket) {
	m.FromDomainBaseEntity(b.BaseEntity)
	m.MetricID = b.MetricID
	m.BucketIndex = b.BucketIndex
	m.ExplicitBound = b.ExplicitBound
	m.BucketCount = b.BucketCount
}
