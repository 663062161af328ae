package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/log/global"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"hrmconsole/internal/platform/logging"
)

type logSink struct {
	mu      sync.Mutex
	records []sdklog.Record
}

func (s *logSink) Export(_ context.Context, records []sdklog.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		s.records = append(s.records, r.Clone())
	}
	return nil
}

func (s *logSink) Shutdown(context.Context) error   { return nil }
func (s *logSink) ForceFlush(context.Context) error { return nil }

func restoreGlobals(t *testing.T) {
	t.Helper()
	tp, lp := otel.GetTracerProvider(), global.GetLoggerProvider()
	t.Cleanup(func() {
		otel.SetTracerProvider(tp)
		global.SetLoggerProvider(lp)
	})
}

func TestDisabledLeavesGlobals(t *testing.T) {
	before := otel.GetTracerProvider()
	shutdown, err := Setup(context.Background(), Options{})
	require.NoError(t, err)
	assert.Same(t, before, otel.GetTracerProvider())
	assert.NoError(t, shutdown(context.Background()))
}

func TestRequestLogsCarryTraceID(t *testing.T) {
	restoreGlobals(t)
	spans := tracetest.NewInMemoryExporter()
	sink := &logSink{}
	shutdown, err := Setup(context.Background(), Options{
		Tracing:      true,
		Logs:         true,
		ServiceName:  "test",
		SpanExporter: spans,
		LogExporter:  sink,
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	logger := logging.New(logging.Options{Level: "info", Format: "json", OTel: true, Writer: &buf})
	handler := otelhttp.NewHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.DebugContext(r.Context(), "too quiet")
		logger.InfoContext(r.Context(), "handled")
	}), "test")
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	provider, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider)
	require.True(t, ok)
	require.NoError(t, provider.ForceFlush(context.Background()))
	recorded := spans.GetSpans()
	require.NoError(t, shutdown(context.Background()))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "handled", line["msg"])

	require.Len(t, recorded, 1)
	traceID := recorded[0].SpanContext.TraceID()
	assert.Equal(t, traceID.String(), line["traceId"])

	sink.mu.Lock()
	defer sink.mu.Unlock()
	require.Len(t, sink.records, 1)
	assert.Equal(t, "handled", sink.records[0].Body().AsString())
	assert.Equal(t, traceID, sink.records[0].TraceID())
}
