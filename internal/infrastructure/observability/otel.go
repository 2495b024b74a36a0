package observability

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/zatekoja/toursearch"

// Metrics holds the search core's instruments. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	SearchSubmitCount     metric.Int64Counter
	SearchOutcomeCount    metric.Int64Counter
	PollCount             metric.Int64Counter
	PollRetryCount        metric.Int64Counter
	BackendRequestLatency metric.Float64Histogram
	CacheHitCount         metric.Int64Counter
	CacheMissCount        metric.Int64Counter
	RequestCount          metric.Int64Counter
	RequestDuration       metric.Float64Histogram
}

// Setup initializes OpenTelemetry trace and metric export
func Setup(ctx context.Context, serviceName, serviceVersion, endpoint string) (func(context.Context) error, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, err
	}

	traceExporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	metricExporter, err := otlpmetricgrpc.New(ctx,
		otlpmetricgrpc.WithEndpoint(endpoint),
		otlpmetricgrpc.WithInsecure(),
	)
	if err != nil {
		_ = tracerProvider.Shutdown(ctx)
		return nil, err
	}

	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(meterProvider)

	if err := runtime.Start(runtime.WithMeterProvider(meterProvider)); err != nil {
		_ = tracerProvider.Shutdown(ctx)
		_ = meterProvider.Shutdown(ctx)
		return nil, err
	}

	shutdown := func(ctx context.Context) error {
		return errors.Join(
			tracerProvider.Shutdown(ctx),
			meterProvider.Shutdown(ctx),
		)
	}

	return shutdown, nil
}

// InitMetrics initializes the search core's metrics on the global meter provider
func InitMetrics() (*Metrics, error) {
	return NewMetrics(otel.Meter(instrumentationName))
}

// NewMetrics creates the instruments on meter
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	submitCount, err := meter.Int64Counter(
		"search.submit.count",
		metric.WithDescription("Number of price searches submitted"),
	)
	if err != nil {
		return nil, err
	}

	outcomeCount, err := meter.Int64Counter(
		"search.outcome.count",
		metric.WithDescription("Number of price searches settled, by status"),
	)
	if err != nil {
		return nil, err
	}

	pollCount, err := meter.Int64Counter(
		"search.poll.count",
		metric.WithDescription("Number of poll requests issued"),
	)
	if err != nil {
		return nil, err
	}

	retryCount, err := meter.Int64Counter(
		"search.poll.retry.count",
		metric.WithDescription("Number of failed polls that were retried"),
	)
	if err != nil {
		return nil, err
	}

	latency, err := meter.Float64Histogram(
		"backend.request.duration",
		metric.WithDescription("Pricing backend request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	cacheHitCount, err := meter.Int64Counter(
		"cache.hit.count",
		metric.WithDescription("Number of cache hits"),
	)
	if err != nil {
		return nil, err
	}

	cacheMissCount, err := meter.Int64Counter(
		"cache.miss.count",
		metric.WithDescription("Number of cache misses"),
	)
	if err != nil {
		return nil, err
	}

	requestCount, err := meter.Int64Counter(
		"http.server.request.count",
		metric.WithDescription("Number of HTTP requests served"),
	)
	if err != nil {
		return nil, err
	}

	requestDuration, err := meter.Float64Histogram(
		"http.server.request.duration",
		metric.WithDescription("HTTP request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		SearchSubmitCount:     submitCount,
		SearchOutcomeCount:    outcomeCount,
		PollCount:             pollCount,
		PollRetryCount:        retryCount,
		BackendRequestLatency: latency,
		CacheHitCount:         cacheHitCount,
		CacheMissCount:        cacheMissCount,
		RequestCount:          requestCount,
		RequestDuration:       requestDuration,
	}, nil
}

// StartSpan starts a new trace span
func StartSpan(ctx context.Context, spanName string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := otel.Tracer(instrumentationName)
	return tracer.Start(ctx, spanName, trace.WithAttributes(attrs...))
}

// RecordError records an error in the span
func RecordError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
	}
}

// SetSpanAttributes sets attributes on a span
func SetSpanAttributes(span trace.Span, attrs ...attribute.KeyValue) {
	span.SetAttributes(attrs...)
}

// RecordRequestMetric records a served HTTP request
func RecordRequestMetric(ctx context.Context, m *Metrics, method, route string, statusCode int, duration time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("http.route", route),
		attribute.Int("http.status_code", statusCode),
	)
	m.RequestCount.Add(ctx, 1, attrs)
	m.RequestDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
}

// RecordSubmit records a search submission; cached tells whether it was
// served from the last result without a backend call
func RecordSubmit(ctx context.Context, m *Metrics, countryID string, cached bool) {
	if m == nil {
		return
	}
	m.SearchSubmitCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("search.country_id", countryID),
		attribute.Bool("search.cached", cached),
	))
}

// RecordOutcome records the terminal status of a search
func RecordOutcome(ctx context.Context, m *Metrics, status string) {
	if m == nil {
		return
	}
	m.SearchOutcomeCount.Add(ctx, 1, metric.WithAttributes(attribute.String("search.status", status)))
}

// RecordPoll records a poll request and, when retried, the retry
func RecordPoll(ctx context.Context, m *Metrics, retried bool) {
	if m == nil {
		return
	}
	m.PollCount.Add(ctx, 1)
	if retried {
		m.PollRetryCount.Add(ctx, 1)
	}
}

// RecordBackendRequest records a pricing backend round trip
func RecordBackendRequest(ctx context.Context, m *Metrics, operation string, statusCode int, duration time.Duration) {
	if m == nil {
		return
	}
	m.BackendRequestLatency.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(
		attribute.String("backend.operation", operation),
		attribute.Int("http.status_code", statusCode),
	))
}

// RecordCacheHit records a cache hit
func RecordCacheHit(ctx context.Context, m *Metrics, cache string) {
	if m == nil {
		return
	}
	m.CacheHitCount.Add(ctx, 1, metric.WithAttributes(attribute.String("cache.name", cache)))
}

// RecordCacheMiss records a cache miss
func RecordCacheMiss(ctx context.Context, m *Metrics, cache string) {
	if m == nil {
		return
	}
	m.CacheMissCount.Add(ctx, 1, metric.WithAttributes(attribute.String("cache.name", cache)))
}
