package ingest

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// OTLP/JSON export payload types. Field names follow the OTLP JSON
// mapping (camelCase). Numeric fields that protobuf JSON encodes as
// strings (64-bit ints, nanosecond timestamps) are accepted both quoted
// and unquoted.

// ExportRequest is the top-level OTLP export payload. A single request
// may carry spans, metrics, or both.
type ExportRequest struct {
	ResourceSpans   []ResourceSpans   `json:"resourceSpans"`
	ResourceMetrics []ResourceMetrics `json:"resourceMetrics"`
}

// ResourceSpans groups spans emitted by one resource
type ResourceSpans struct {
	Resource   *OTLPResource `json:"resource"`
	ScopeSpans []ScopeSpans  `json:"scopeSpans"`
}

// ResourceMetrics groups metrics emitted by one resource
type ResourceMetrics struct {
	Resource     *OTLPResource  `json:"resource"`
	ScopeMetrics []ScopeMetrics `json:"scopeMetrics"`
}

// OTLPResource describes the emitting entity
type OTLPResource struct {
	Attributes []KeyValue `json:"attributes"`
}

// ServiceName extracts the service.name attribute, or "" when absent
func (r *OTLPResource) ServiceName() string {
	return r.stringAttribute("service.name")
}

// ServiceVersion extracts the service.version attribute, or "" when absent
func (r *OTLPResource) ServiceVersion() string {
	return r.stringAttribute("service.version")
}

// ServiceNamespace extracts the service.namespace attribute, or "" when absent
func (r *OTLPResource) ServiceNamespace() string {
	return r.stringAttribute("service.namespace")
}

func (r *OTLPResource) stringAttribute(key string) string {
	if r == nil {
		return ""
	}
	for _, kv := range r.Attributes {
		if kv.Key == key && kv.Value.StringValue != nil {
			return *kv.Value.StringValue
		}
	}
	return ""
}

// ScopeSpans groups spans from one instrumentation scope
type ScopeSpans struct {
	Scope *InstrumentationScope `json:"scope"`
	Spans []OTLPSpan            `json:"spans"`
}

// ScopeMetrics groups metrics from one instrumentation scope
type ScopeMetrics struct {
	Scope   *InstrumentationScope `json:"scope"`
	Metrics []OTLPMetric          `json:"metrics"`
}

// InstrumentationScope identifies the library that produced the data
type InstrumentationScope struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// KeyValue is an OTLP attribute
type KeyValue struct {
	Key   string   `json:"key"`
	Value AnyValue `json:"value"`
}

// AnyValue is the OTLP typed value union. At most one field is set.
type AnyValue struct {
	StringValue *string     `json:"stringValue,omitempty"`
	IntValue    *FlexInt64  `json:"intValue,omitempty"`
	DoubleValue *float64    `json:"doubleValue,omitempty"`
	BoolValue   *bool       `json:"boolValue,omitempty"`
	ArrayValue  *ArrayValue `json:"arrayValue,omitempty"`
}

// ArrayValue is a list of AnyValues
type ArrayValue struct {
	Values []AnyValue `json:"values"`
}

// OTLPSpan is one span on the wire
type OTLPSpan struct {
	TraceID                string      `json:"traceId"`
	SpanID                 string      `json:"spanId"`
	ParentSpanID           string      `json:"parentSpanId"`
	Name                   string      `json:"name"`
	Kind                   *FlexInt64  `json:"kind"`
	StartTimeUnixNano      *FlexUint64 `json:"startTimeUnixNano"`
	EndTimeUnixNano        *FlexUint64 `json:"endTimeUnixNano"`
	Attributes             []KeyValue  `json:"attributes"`
	DroppedAttributesCount *FlexUint64 `json:"droppedAttributesCount"`
	Events                 []OTLPEvent `json:"events"`
	DroppedEventsCount     *FlexUint64 `json:"droppedEventsCount"`
	Links                  []OTLPLink  `json:"links"`
	DroppedLinksCount      *FlexUint64 `json:"droppedLinksCount"`
	Status                 *OTLPStatus `json:"status"`
}

// droppedCount converts a wire dropped-count to an int, nil meaning zero
func droppedCount(v *FlexUint64) int {
	if v == nil {
		return 0
	}
	return int(*v)
}

// OTLPStatus carries the span outcome. Code 2 means error.
type OTLPStatus struct {
	Code    *FlexInt64 `json:"code"`
	Message string     `json:"message"`
}

// StatusCodeError is the OTLP enum value for an error status
const StatusCodeError = 2

// IsError reports whether the status marks the span as failed
func (s *OTLPStatus) IsError() bool {
	return s != nil && s.Code != nil && int64(*s.Code) == StatusCodeError
}

// OTLPEvent is a timestamped span annotation
type OTLPEvent struct {
	Name         string      `json:"name"`
	TimeUnixNano *FlexUint64 `json:"timeUnixNano"`
	Attributes   []KeyValue  `json:"attributes"`
}

// OTLPLink references a span in another trace
type OTLPLink struct {
	TraceID    string     `json:"traceId"`
	SpanID     string     `json:"spanId"`
	TraceState string     `json:"traceState"`
	Attributes []KeyValue `json:"attributes"`
}

// OTLPMetric is one metric on the wire. Exactly one of Gauge, Sum, or
// Histogram is set; metrics with none of the three are skipped.
type OTLPMetric struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Unit        string         `json:"unit"`
	Gauge       *OTLPGauge     `json:"gauge,omitempty"`
	Sum         *OTLPSum       `json:"sum,omitempty"`
	Histogram   *OTLPHistogram `json:"histogram,omitempty"`
}

// OTLPGauge holds gauge data points
type OTLPGauge struct {
	DataPoints []NumberDataPoint `json:"dataPoints"`
}

// OTLPSum holds counter data points with temporality metadata
type OTLPSum struct {
	DataPoints             []NumberDataPoint `json:"dataPoints"`
	AggregationTemporality *FlexInt64        `json:"aggregationTemporality"`
	IsMonotonic            *bool             `json:"isMonotonic"`
}

// OTLPHistogram holds histogram data points
type OTLPHistogram struct {
	DataPoints             []HistogramDataPoint `json:"dataPoints"`
	AggregationTemporality *FlexInt64           `json:"aggregationTemporality"`
}

// NumberDataPoint is a gauge or counter sample
type NumberDataPoint struct {
	TimeUnixNano *FlexUint64 `json:"timeUnixNano"`
	AsDouble     *float64    `json:"asDouble,omitempty"`
	AsInt        *FlexInt64  `json:"asInt,omitempty"`
	Attributes   []KeyValue  `json:"attributes"`
}

// HistogramDataPoint is a histogram sample
type HistogramDataPoint struct {
	TimeUnixNano   *FlexUint64  `json:"timeUnixNano"`
	Count          *FlexUint64  `json:"count"`
	Sum            *float64     `json:"sum,omitempty"`
	Min            *float64     `json:"min,omitempty"`
	Max            *float64     `json:"max,omitempty"`
	BucketCounts   []FlexUint64 `json:"bucketCounts"`
	ExplicitBounds []float64    `json:"explicitBounds"`
	Attributes     []KeyValue   `json:"attributes"`
}

// FlexInt64 is an int64 that unmarshals from either a JSON number or a
// quoted decimal string, per the protobuf JSON mapping.
type FlexInt64 int64

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexInt64) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || string(data) == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return err
	}
	*f = FlexInt64(v)
	return nil
}

// MarshalJSON implements json.Marshaler
func (f FlexInt64) MarshalJSON() ([]byte, error) {
	return json.Marshal(int64(f))
}

// FlexUint64 is a uint64 that unmarshals from either a JSON number or a
// quoted decimal string. OTLP encodes nanosecond timestamps this way.
type FlexUint64 uint64

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexUint64) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || string(data) == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return err
	}
	*f = FlexUint64(v)
	return nil
}

// MarshalJSON implements json.Marshaler. 64-bit values are emitted as
// strings to survive JavaScript number precision, matching OTLP output.
func (f FlexUint64) MarshalJSON() ([]byte, error) {
	return json.Marshal(strconv.FormatUint(uint64(f), 10))
}

// Time converts the nanosecond timestamp to a millisecond-precision
// time.Time. Sub-millisecond digits are truncated.
func (f FlexUint64) Time() time.Time {
	return time.UnixMilli(int64(uint64(f) / 1_000_000))
}
