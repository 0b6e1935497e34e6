// Package metrics derives aggregate timing/status metrics from an
// exec.CollectionExecutionResult and exports them. Adapted from
// packages/export/metrics/metrics.go's Collector/AggregateMetrics,
// narrowed from its per-assertion TestMetrics stream to one pass over
// exec.ExecutionResult. Percentiles use the same HdrHistogram range
// (1us-60s, 3 significant digits) as packages/stress/metrics.go's
// latency histogram.
package metrics

import (
	"sort"

	"github.com/HdrHistogram/hdrhistogram-go"

	"github.com/hitcall/hitcall/packages/postman/exec"
)

// AggregateMetrics summarizes one collection run.
type AggregateMetrics struct {
	TotalRequests int64
	SuccessCount  int64
	FailureCount  int64
	SkippedCount  int64
	TotalMs       float64
	MinMs         float64
	MaxMs         float64
	AvgMs         float64
	P95Ms         float64
	P99Ms         float64
	StatusCodes   map[int]int64
	ByRequest     map[string]*RequestAggregate
}

// RequestAggregate summarizes the timings for one named request.
type RequestAggregate struct {
	Name          string
	TotalRequests int64
	SuccessCount  int64
	FailureCount  int64
	AvgMs         float64
}

// Aggregate reduces result into an AggregateMetrics snapshot.
func Aggregate(result *exec.CollectionExecutionResult) *AggregateMetrics {
	agg := &AggregateMetrics{
		StatusCodes: map[int]int64{},
		ByRequest:   map[string]*RequestAggregate{},
	}

	// Latency histogram ranges 1us-60s at 3 significant digits.
	hist := hdrhistogram.New(1, 60_000_000, 3)

	durations := make([]float64, 0, len(result.Results))
	for _, r := range result.Results {
		ms := float64(r.Duration.Microseconds()) / 1000.0
		durations = append(durations, ms)
		hist.RecordValue(r.Duration.Microseconds())

		agg.TotalRequests++
		agg.TotalMs += ms
		switch r.Status {
		case exec.StatusDone:
			agg.SuccessCount++
		case exec.StatusSkipped:
			agg.SkippedCount++
		default:
			agg.FailureCount++
		}
		if r.Response != nil {
			agg.StatusCodes[r.Response.StatusCode]++
		}

		name := ""
		if r.Request != nil {
			name = r.Request.Name
		}
		ra, ok := agg.ByRequest[name]
		if !ok {
			ra = &RequestAggregate{Name: name}
			agg.ByRequest[name] = ra
		}
		ra.TotalRequests++
		if r.Status == exec.StatusDone {
			ra.SuccessCount++
		} else if r.Status != exec.StatusSkipped {
			ra.FailureCount++
		}
		ra.AvgMs = (ra.AvgMs*float64(ra.TotalRequests-1) + ms) / float64(ra.TotalRequests)
	}

	if len(durations) == 0 {
		return agg
	}

	sort.Float64s(durations)
	agg.MinMs = durations[0]
	agg.MaxMs = durations[len(durations)-1]
	agg.AvgMs = agg.TotalMs / float64(len(durations))
	agg.P95Ms = float64(hist.ValueAtQuantile(95)) / 1000.0
	agg.P99Ms = float64(hist.ValueAtQuantile(99)) / 1000.0
	return agg
}
