package telemetry

import (
	"time"

	"github.com/google/uuid"
	"github.com/tracepulse/backend/internal/domain/shared"
)

// TraceStatus is the aggregate status of a trace
type TraceStatus string

const (
	TraceStatusOK      TraceStatus = "ok"
	TraceStatusError   TraceStatus = "error"
	TraceStatusTimeout TraceStatus = "timeout"
)

// String returns the string representation of TraceStatus
func (s TraceStatus) String() string {
	return string(s)
}

// Trace groups spans that arrived for the same resource and token with an
// identical start instant. The grouping key is (resource, token, start
// time), not the OTLP trace ID, so spans of one distributed trace that
// start at different instants land in separate rows.
type Trace struct {
	shared.BaseEntity
	ResourceID    uuid.UUID
	IngestTokenID uuid.UUID
	Name          string
	StartTime     time.Time
	EndTime       *time.Time
	Status        TraceStatus
	SpanCount     int
}

// NewTrace creates a trace anchored at the given start instant. Name is
// taken from the first span observed for the group.
func NewTrace(resourceID, ingestTokenID uuid.UUID, name string, startTime time.Time) *Trace {
	return &Trace{
		BaseEntity:    shared.NewBaseEntity(),
		ResourceID:    resourceID,
		IngestTokenID: ingestTokenID,
		Name:          name,
		StartTime:     startTime,
		Status:        TraceStatusOK,
		SpanCount:     0,
	}
}

// RecordSpan folds one more span into the trace: the counter advances,
// a finished span extends the end time, and an error span flips the
// trace to error. Spans with no end yet leave the trace end untouched.
func (t *Trace) RecordSpan(endTime *time.Time, isError bool) {
	t.SpanCount++
	if endTime != nil && (t.EndTime == nil || endTime.After(*t.EndTime)) {
		t.EndTime = endTime
	}
	if isError {
		t.Status = TraceStatusError
	}
	t.MarkUpdated()
}
