package ingest

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexUint64AcceptsStringAndNumber(t *testing.T) {
	var payload struct {
		Quoted   FlexUint64 `json:"quoted"`
		Unquoted FlexUint64 `json:"unquoted"`
	}
	data := `{"quoted": "1700000000123456789", "unquoted": 1700000000123456789}`

	require.NoError(t, json.Unmarshal([]byte(data), &payload))
	assert.Equal(t, FlexUint64(1700000000123456789), payload.Quoted)
	assert.Equal(t, FlexUint64(1700000000123456789), payload.Unquoted)
}

func TestFlexUint64RejectsGarbage(t *testing.T) {
	var v FlexUint64
	assert.Error(t, json.Unmarshal([]byte(`"not-a-number"`), &v))
	assert.Error(t, json.Unmarshal([]byte(`-5`), &v))
}

func TestFlexUint64TimeTruncatesToMillis(t *testing.T) {
	// 1700000000123456789 ns -> 1700000000123 ms
	ts := FlexUint64(1700000000123456789)
	assert.Equal(t, time.UnixMilli(1700000000123), ts.Time())
}

func TestFlexInt64AcceptsStringAndNumber(t *testing.T) {
	var payload struct {
		Quoted   FlexInt64 `json:"quoted"`
		Unquoted FlexInt64 `json:"unquoted"`
	}
	data := `{"quoted": "-42", "unquoted": 2}`

	require.NoError(t, json.Unmarshal([]byte(data), &payload))
	assert.Equal(t, FlexInt64(-42), payload.Quoted)
	assert.Equal(t, FlexInt64(2), payload.Unquoted)
}

func TestExportRequestDecodesSpans(t *testing.T) {
	data := `{
		"resourceSpans": [{
			"resource": {
				"attributes": [
					{"key": "service.name", "value": {"stringValue": "checkout"}},
					{"key": "host.cpu.count", "value": {"intValue": "8"}}
				]
			},
			"scopeSpans": [{
				"scope": {"name": "manual"},
				"spans": [{
					"traceId": "0af7651916cd43dd8448eb211c80319c",
					"spanId": "b7ad6b7169203331",
					"name": "GET /cart",
					"kind": 2,
					"startTimeUnixNano": "1700000000000000000",
					"endTimeUnixNano": "1700000001000000000",
					"status": {"code": 2, "message": "boom"}
				}]
			}]
		}]
	}`

	var req ExportRequest
	require.NoError(t, json.Unmarshal([]byte(data), &req))
	require.Len(t, req.ResourceSpans, 1)

	assert.Equal(t, "checkout", req.ResourceSpans[0].Resource.ServiceName())

	span := req.ResourceSpans[0].ScopeSpans[0].Spans[0]
	assert.Equal(t, "GET /cart", span.Name)
	assert.Equal(t, "b7ad6b7169203331", span.SpanID)
	require.NotNil(t, span.StartTimeUnixNano)
	assert.True(t, span.Status.IsError())
}

func TestExportRequestDecodesMetrics(t *testing.T) {
	data := `{
		"resourceMetrics": [{
			"resource": {"attributes": [{"key": "service.name", "value": {"stringValue": "api"}}]},
			"scopeMetrics": [{
				"metrics": [
					{
						"name": "http.requests",
						"sum": {
							"dataPoints": [{"timeUnixNano": "1700000000000000000", "asInt": "152"}],
							"aggregationTemporality": 2,
							"isMonotonic": true
						}
					},
					{
						"name": "http.duration",
						"histogram": {
							"dataPoints": [{
								"timeUnixNano": "1700000000000000000",
								"count": "10",
								"sum": 42.5,
								"bucketCounts": ["3", "5", "2"],
								"explicitBounds": [10, 100]
							}],
							"aggregationTemporality": 2
						}
					}
				]
			}]
		}]
	}`

	var req ExportRequest
	require.NoError(t, json.Unmarshal([]byte(data), &req))
	require.Len(t, req.ResourceMetrics, 1)

	metrics := req.ResourceMetrics[0].ScopeMetrics[0].Metrics
	require.Len(t, metrics, 2)

	sum := metrics[0].Sum
	require.NotNil(t, sum)
	assert.Equal(t, FlexInt64(152), *sum.DataPoints[0].AsInt)
	assert.True(t, *sum.IsMonotonic)

	hist := metrics[1].Histogram
	require.NotNil(t, hist)
	dp := hist.DataPoints[0]
	assert.Equal(t, FlexUint64(10), *dp.Count)
	assert.Equal(t, []FlexUint64{3, 5, 2}, dp.BucketCounts)
	assert.Equal(t, []float64{10, 100}, dp.ExplicitBounds)
}

func TestServiceNameMissingResource(t *testing.T) {
	var r *OTLPResource
	assert.Equal(t, "", r.ServiceName())

	r = &OTLPResource{}
	assert.Equal(t, "", r.ServiceName())
}
