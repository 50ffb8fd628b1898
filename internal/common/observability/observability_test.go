package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestStartJobSpan_RecordsSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	obs := New("test", WithoutPrometheusExporter(), WithSpanProcessor(recorder))
	t.Cleanup(obs.Shutdown)

	_, span := obs.StartJobSpan(context.Background(), "resolve-transaction-links", 42)
	EndJobSpan(span, errors.New("bad input"))

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "resolve-transaction-links", ended[0].Name())
	assert.Equal(t, codes.Error, ended[0].Status().Code)
}

func TestNilObservabilityIsSafe(t *testing.T) {
	var obs *Observability
	assert.NotPanics(t, func() {
		_, span := obs.StartJobSpan(context.Background(), "x", 1)
		EndJobSpan(span, nil)
		obs.RecordJobProcessed(context.Background(), "x", "completed")
		obs.RecordJobDuration(context.Background(), "x", time.Millisecond, "completed")
		obs.Shutdown()
	})
}
