package metrics

import (
	"fmt"
	"io"
	"time"
)

// WritePrometheus renders agg in Prometheus text exposition format.
// Adapted from packages/export/metrics/prometheus.go's writeMetrics.
func WritePrometheus(w io.Writer, agg *AggregateMetrics) error {
	now := time.Now().UnixMilli()

	fmt.Fprintf(w, "# HELP hitcall_requests_total Total number of HTTP requests made\n")
	fmt.Fprintf(w, "# TYPE hitcall_requests_total counter\n")
	fmt.Fprintf(w, "hitcall_requests_total %d %d\n\n", agg.TotalRequests, now)

	fmt.Fprintf(w, "# HELP hitcall_requests_success_total Total number of successful requests\n")
	fmt.Fprintf(w, "# TYPE hitcall_requests_success_total counter\n")
	fmt.Fprintf(w, "hitcall_requests_success_total %d %d\n\n", agg.SuccessCount, now)

	fmt.Fprintf(w, "# HELP hitcall_requests_failed_total Total number of failed requests\n")
	fmt.Fprintf(w, "# TYPE hitcall_requests_failed_total counter\n")
	fmt.Fprintf(w, "hitcall_requests_failed_total %d %d\n\n", agg.FailureCount, now)

	fmt.Fprintf(w, "# HELP hitcall_request_duration_ms Request duration in milliseconds\n")
	fmt.Fprintf(w, "# TYPE hitcall_request_duration_ms gauge\n")
	fmt.Fprintf(w, "hitcall_request_duration_ms{quantile=\"min\"} %.2f %d\n", agg.MinMs, now)
	fmt.Fprintf(w, "hitcall_request_duration_ms{quantile=\"max\"} %.2f %d\n", agg.MaxMs, now)
	fmt.Fprintf(w, "hitcall_request_duration_ms{quantile=\"avg\"} %.2f %d\n", agg.AvgMs, now)
	fmt.Fprintf(w, "hitcall_request_duration_ms{quantile=\"0.95\"} %.2f %d\n", agg.P95Ms, now)
	fmt.Fprintf(w, "hitcall_request_duration_ms{quantile=\"0.99\"} %.2f %d\n", agg.P99Ms, now)

	for code, count := range agg.StatusCodes {
		fmt.Fprintf(w, "hitcall_response_status_total{code=\"%d\"} %d %d\n", code, count, now)
	}
	return nil
}
