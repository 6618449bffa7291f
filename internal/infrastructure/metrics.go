package infrastructure

import (
	"context"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// AnalysisMetrics holds the application metrics. A nil *AnalysisMetrics is
// valid and records nothing.
type AnalysisMetrics struct {
	SourceLoads         metric.Int64Counter
	LoadDuration        metric.Float64Histogram
	CacheLookups        metric.Int64Counter
	Computations        metric.Int64Counter
	ComputationDuration metric.Float64Histogram
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram
}

// CreateAnalysisMetrics registers the instruments on meter.
func CreateAnalysisMetrics(meter metric.Meter) (*AnalysisMetrics, error) {
	m := &AnalysisMetrics{}
	var err error

	if m.SourceLoads, err = meter.Int64Counter("creditlens_source_loads_total",
		metric.WithDescription("Workbook loads by status")); err != nil {
		return nil, err
	}
	if m.LoadDuration, err = meter.Float64Histogram("creditlens_source_load_duration_seconds",
		metric.WithDescription("Workbook load duration in seconds"),
		metric.WithUnit("s")); err != nil {
		return nil, err
	}
	if m.CacheLookups, err = meter.Int64Counter("creditlens_cache_lookups_total",
		metric.WithDescription("Session cache lookups by result")); err != nil {
		return nil, err
	}
	if m.Computations, err = meter.Int64Counter("creditlens_computations_total",
		metric.WithDescription("Analysis computations by operation and status")); err != nil {
		return nil, err
	}
	if m.ComputationDuration, err = meter.Float64Histogram("creditlens_computation_duration_seconds",
		metric.WithDescription("Analysis computation duration in seconds"),
		metric.WithUnit("s")); err != nil {
		return nil, err
	}
	if m.HTTPRequestsTotal, err = meter.Int64Counter("http_requests_total",
		metric.WithDescription("Total number of HTTP requests")); err != nil {
		return nil, err
	}
	if m.HTTPRequestDuration, err = meter.Float64Histogram("http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s")); err != nil {
		return nil, err
	}
	return m, nil
}

func status(err error) attribute.KeyValue {
	if err != nil {
		return attribute.String("status", "failure")
	}
	return attribute.String("status", "success")
}

// RecordLoad records one workbook load.
func (m *AnalysisMetrics) RecordLoad(ctx context.Context, duration time.Duration, err error) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(status(err))
	m.SourceLoads.Add(ctx, 1, attrs)
	m.LoadDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordCacheLookup records a session cache hit or miss.
func (m *AnalysisMetrics) RecordCacheLookup(ctx context.Context, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}

// RecordComputation records one analysis operation.
func (m *AnalysisMetrics) RecordComputation(ctx context.Context, operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("operation", operation), status(err))
	m.Computations.Add(ctx, 1, attrs)
	m.ComputationDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordHTTPRequest records one served request.
func (m *AnalysisMetrics) RecordHTTPRequest(ctx context.Context, method, route string, code int, duration time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("route", route),
		attribute.String("status_code", strconv.Itoa(code)),
	)
	m.HTTPRequestsTotal.Add(ctx, 1, attrs)
	m.HTTPRequestDuration.Record(ctx, duration.Seconds(), attrs)
}
