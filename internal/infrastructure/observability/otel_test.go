package observability

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
)

func TestNewMetrics_NoopMeter(t *testing.T) {
	m, err := NewMetrics(noop.NewMeterProvider().Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	assert.NotPanics(t, func() {
		RecordSubmit(ctx, m, "UA", false)
		RecordOutcome(ctx, m, "success")
		RecordPoll(ctx, m, true)
		RecordBackendRequest(ctx, m, "poll_search", 200, 15*time.Millisecond)
		RecordCacheHit(ctx, m, "hotels")
		RecordCacheMiss(ctx, m, "hotels")
		RecordRequestMetric(ctx, m, "GET", "GET /api/sessions/{id}", 200, time.Millisecond)
	})
}

func TestRecorders_NilMetrics(t *testing.T) {
	ctx := context.Background()
	assert.NotPanics(t, func() {
		RecordSubmit(ctx, nil, "UA", true)
		RecordOutcome(ctx, nil, "error")
		RecordPoll(ctx, nil, false)
		RecordCacheMiss(ctx, nil, "details")
		RecordRequestMetric(ctx, nil, "POST", "POST /api/sessions", 201, time.Millisecond)
	})
}

func TestInitLoggerTo_WritesServiceField(t *testing.T) {
	var buf bytes.Buffer
	previous := log.Logger
	t.Cleanup(func() { log.Logger = previous })

	InitLoggerTo(&buf, "toursearch-test", "production")
	log.Info().Msg("hello")

	assert.Contains(t, buf.String(), `"service":"toursearch-test"`)
	assert.Contains(t, buf.String(), `"message":"hello"`)
}
