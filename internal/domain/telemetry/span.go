package telemetry

import (
	"time"

	"github.com/google/uuid"
	"github.com/tracepulse/backend/internal/domain/shared"
)

// SpanStatus is the outcome of a single span
type SpanStatus string

const (
	SpanStatusOK    SpanStatus = "ok"
	SpanStatusError SpanStatus = "error"
)

// Span is one operation within a trace. OTLPTraceID, OTLPSpanID, and
// OTLPParentSpanID carry the hex identifiers from the wire verbatim;
// ParentID links to another span row only when the parent appeared in
// the same ingestion batch. ServiceName is denormalized from the owning
// resource so span queries never need the resource join. EndTime is nil
// for spans reported before they finished.
type Span struct {
	shared.BaseEntity
	TraceID           uuid.UUID
	ParentID          *uuid.UUID
	OTLPTraceID       string
	OTLPSpanID        string
	OTLPParentSpanID  string
	ServiceName       string
	Name              string
	Kind              string
	StartTime         time.Time
	EndTime           *time.Time
	Status            SpanStatus
	StatusMessage     string
	DroppedAttributes int
	DroppedEvents     int
	DroppedLinks      int
}

// NewSpan creates a span within the given trace. endTime may be nil.
func NewSpan(traceID uuid.UUID, serviceName, name string, startTime time.Time, endTime *time.Time) *Span {
	return &Span{
		BaseEntity:  shared.NewBaseEntity(),
		TraceID:     traceID,
		ServiceName: serviceName,
		Name:        name,
		StartTime:   startTime,
		EndTime:     endTime,
		Status:      SpanStatusOK,
	}
}

// IsError returns true if the span recorded an error status
func (s *Span) IsError() bool {
	return s.Status == SpanStatusError
}

// Duration returns end minus start, or nil while the span has no end
func (s *Span) Duration() *time.Duration {
	if s.EndTime == nil {
		return nil
	}
	d := s.EndTime.Sub(s.StartTime)
	return &d
}

// SpanAttribute is a key/value pair attached to a span
type SpanAttribute struct {
	shared.BaseEntity
	SpanID uuid.UUID
	Key    string
	Value  AttributeValue
}

// NewSpanAttribute creates an attribute for the given span
func NewSpanAttribute(spanID uuid.UUID, key string, value AttributeValue) *SpanAttribute {
	return &SpanAttribute{
		BaseEntity: shared.NewBaseEntity(),
		SpanID:     spanID,
		Key:        key,
		Value:      value,
	}
}

// SpanEvent is a timestamped annotation on a span
type SpanEvent struct {
	shared.BaseEntity
	SpanID    uuid.UUID
	Name      string
	Timestamp time.Time
}

// NewSpanEvent creates an event on the given span
func NewSpanEvent(spanID uuid.UUID, name string, timestamp time.Time) *SpanEvent {
	return &SpanEvent{
		BaseEntity: shared.NewBaseEntity(),
		SpanID:     spanID,
		Name:       name,
		Timestamp:  timestamp,
	}
}

// SpanEventAttribute is a key/value pair attached to a span event
type SpanEventAttribute struct {
	shared.BaseEntity
	SpanEventID uuid.UUID
	Key         string
	Value       AttributeValue
}

// NewSpanEventAttribute creates an attribute for the given event
func NewSpanEventAttribute(eventID uuid.UUID, key string, value AttributeValue) *SpanEventAttribute {
	return &SpanEventAttribute{
		BaseEntity:  shared.NewBaseEntity(),
		SpanEventID: eventID,
		Key:         key,
		Value:       value,
	}
}

// SpanLink is a causal reference from a span to a span in another trace
type SpanLink struct {
	shared.BaseEntity
	SpanID           uuid.UUID
	LinkedTraceID    string
	LinkedSpanID     string
	LinkedTraceState string
}

// NewSpanLink creates a link from the given span
func NewSpanLink(spanID uuid.UUID, linkedTraceID, linkedSpanID, traceState string) *SpanLink {
	return &SpanLink{
		BaseEntity:       shared.NewBaseEntity(),
		SpanID:           spanID,
		LinkedTraceID:    linkedTraceID,
		LinkedSpanID:     linkedSpanID,
		LinkedTraceState: traceState,
	}
}

// SpanLinkAttribute is a key/value pair attached to a span link
type SpanLinkAttribute struct {
	shared.BaseEntity
	SpanLinkID uuid.UUID
	Key        string
	Value      AttributeValue
}

// NewSpanLinkAttribute creates an attribute for the given link
func NewSpanLinkAttribute(linkID uuid.UUID, key string, value AttributeValue) *SpanLinkAttribute {
	return &SpanLinkAttribute{
		BaseEntity: shared.NewBaseEntity(),
		SpanLinkID: linkID,
		Key:        key,
		Value:      value,
	}
}
