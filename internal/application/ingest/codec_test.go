package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tracepulse/backend/internal/domain/telemetry"
)

func strPtr(s string) *string     { return &s }
func f64Ptr(v float64) *float64   { return &v }
func boolPtr(v bool) *bool        { return &v }
func i64Ptr(v int64) *FlexInt64   { p := FlexInt64(v); return &p }
func u64Ptr(v uint64) *FlexUint64 { p := FlexUint64(v); return &p }

func TestDecodeAttributeValue(t *testing.T) {
	tests := []struct {
		name string
		in   AnyValue
		want telemetry.AttributeValue
	}{
		{
			name: "string",
			in:   AnyValue{StringValue: strPtr("hello")},
			want: telemetry.StringAttr("hello"),
		},
		{
			name: "int",
			in:   AnyValue{IntValue: i64Ptr(42)},
			want: telemetry.IntAttr(42),
		},
		{
			name: "double",
			in:   AnyValue{DoubleValue: f64Ptr(3.14)},
			want: telemetry.DoubleAttr(3.14),
		},
		{
			name: "bool",
			in:   AnyValue{BoolValue: boolPtr(true)},
			want: telemetry.BoolAttr(true),
		},
		{
			name: "empty union falls back to empty string",
			in:   AnyValue{},
			want: telemetry.StringAttr(""),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, decodeAttributeValue(tt.in))
		})
	}
}

func TestDecodeAttributeValueArray(t *testing.T) {
	got := decodeAttributeValue(AnyValue{ArrayValue: &ArrayValue{
		Values: []AnyValue{
			{StringValue: strPtr("a")},
			{IntValue: i64Ptr(2)},
			{BoolValue: boolPtr(false)},
		},
	}})

	assert.Equal(t, telemetry.AttributeTypeArray, got.Type)
	assert.JSONEq(t, `["a", 2, false]`, got.ArrayValue)
}

func TestNumberDataPointValuePrecedence(t *testing.T) {
	// asDouble wins over asInt when both are present
	both := NumberDataPoint{AsDouble: f64Ptr(1.5), AsInt: i64Ptr(99)}
	assert.Equal(t, 1.5, numberDataPointValue(both))

	intOnly := NumberDataPoint{AsInt: i64Ptr(99)}
	assert.Equal(t, 99.0, numberDataPointValue(intOnly))

	neither := NumberDataPoint{}
	assert.Equal(t, 0.0, numberDataPointValue(neither))
}

func TestHistogramDataPointValuePrecedence(t *testing.T) {
	withSum := HistogramDataPoint{Sum: f64Ptr(42.5), Count: u64Ptr(10)}
	assert.Equal(t, 42.5, histogramDataPointValue(withSum))

	countOnly := HistogramDataPoint{Count: u64Ptr(10)}
	assert.Equal(t, 10.0, histogramDataPointValue(countOnly))

	neither := HistogramDataPoint{}
	assert.Equal(t, 0.0, histogramDataPointValue(neither))
}

func TestSpanKindName(t *testing.T) {
	assert.Equal(t, "unspecified", spanKindName(nil))
	assert.Equal(t, "server", spanKindName(i64Ptr(2)))
	assert.Equal(t, "client", spanKindName(i64Ptr(3)))
	assert.Equal(t, "unspecified", spanKindName(i64Ptr(99)))
}
