package metrics

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hitcall/hitcall/packages/postman/dispatch"
	"github.com/hitcall/hitcall/packages/postman/exec"
	"github.com/hitcall/hitcall/packages/postman/model"
)

func sampleResult() *exec.CollectionExecutionResult {
	return &exec.CollectionExecutionResult{
		Passed: 2, Failed: 1,
		Results: []*exec.ExecutionResult{
			{Request: &model.Request{Name: "a"}, Status: exec.StatusDone, Duration: 10 * time.Millisecond, Response: &dispatch.Response{StatusCode: 200}},
			{Request: &model.Request{Name: "b"}, Status: exec.StatusDone, Duration: 20 * time.Millisecond, Response: &dispatch.Response{StatusCode: 200}},
			{Request: &model.Request{Name: "c"}, Status: exec.StatusFailed, Duration: 30 * time.Millisecond, Response: &dispatch.Response{StatusCode: 500}},
		},
	}
}

func TestAggregateComputesCountsAndTimings(t *testing.T) {
	agg := Aggregate(sampleResult())
	assert.EqualValues(t, 3, agg.TotalRequests)
	assert.EqualValues(t, 2, agg.SuccessCount)
	assert.EqualValues(t, 1, agg.FailureCount)
	assert.InDelta(t, 10.0, agg.MinMs, 0.01)
	assert.InDelta(t, 30.0, agg.MaxMs, 0.01)
	assert.InDelta(t, 30.0, agg.P95Ms, 1.0)
	assert.EqualValues(t, 2, agg.StatusCodes[200])
	assert.EqualValues(t, 1, agg.StatusCodes[500])
	require.Contains(t, agg.ByRequest, "a")
	assert.EqualValues(t, 1, agg.ByRequest["a"].TotalRequests)
}

func TestWritePrometheusEmitsCounters(t *testing.T) {
	agg := Aggregate(sampleResult())
	buf := &bytes.Buffer{}
	require.NoError(t, WritePrometheus(buf, agg))
	out := buf.String()
	assert.Contains(t, out, "hitcall_requests_total 3")
	assert.Contains(t, out, "hitcall_requests_failed_total 1")
	assert.Contains(t, out, `hitcall_response_status_total{code="500"} 1`)
}
