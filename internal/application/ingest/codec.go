package ingest

import (
	"encoding/json"

	"github.com/tracepulse/backend/internal/domain/telemetry"
)

// decodeAttributeValue maps an OTLP AnyValue onto a typed attribute
// value. Type precedence is string, int, double, bool, array; a union
// with no recognized field decodes as an empty string.
func decodeAttributeValue(v AnyValue) telemetry.AttributeValue {
	switch {
	case v.StringValue != nil:
		return telemetry.StringAttr(*v.StringValue)
	case v.IntValue != nil:
		return telemetry.IntAttr(int64(*v.IntValue))
	case v.DoubleValue != nil:
		return telemetry.DoubleAttr(*v.DoubleValue)
	case v.BoolValue != nil:
		return telemetry.BoolAttr(*v.BoolValue)
	case v.ArrayValue != nil:
		return telemetry.ArrayAttr(encodeArrayValue(v.ArrayValue))
	default:
		return telemetry.StringAttr("")
	}
}

// encodeArrayValue flattens an OTLP array into a JSON string of plain
// values for single-column storage.
func encodeArrayValue(arr *ArrayValue) string {
	values := make([]any, 0, len(arr.Values))
	for _, v := range arr.Values {
		values = append(values, decodeAttributeValue(v).Interface())
	}
	encoded, err := json.Marshal(values)
	if err != nil {
		return "[]"
	}
	return string(encoded)
}

// numberDataPointValue extracts the sample value with asDouble taking
// precedence over asInt. A point carrying neither is zero.
func numberDataPointValue(dp NumberDataPoint) float64 {
	switch {
	case dp.AsDouble != nil:
		return *dp.AsDouble
	case dp.AsInt != nil:
		return float64(*dp.AsInt)
	default:
		return 0
	}
}

// histogramDataPointValue extracts the representative value for a
// histogram sample: the sum when present, otherwise the count,
// otherwise zero.
func histogramDataPointValue(dp HistogramDataPoint) float64 {
	switch {
	case dp.Sum != nil:
		return *dp.Sum
	case dp.Count != nil:
		return float64(*dp.Count)
	default:
		return 0
	}
}

// spanKindName maps the OTLP span kind enum to a storable name
func spanKindName(kind *FlexInt64) string {
	if kind == nil {
		return "unspecified"
	}
	switch int64(*kind) {
	case 1:
		return "internal"
	case 2:
		return "server"
	case 3:
		return "client"
	case 4:
		return "producer"
	case 5:
		return "consumer"
	default:
		return "unspecified"
	}
}
