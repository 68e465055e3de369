package statemachine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/web-perf/react-vr-dbmonster/longpress"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// setupTestTracer creates a test tracer with an in-memory exporter.
func setupTestTracer(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()

	exporter := tracetest.NewInMemoryExporter()
	tp := trace.NewTracerProvider(
		trace.WithSyncer(exporter),
	)

	oldProvider := otel.GetTracerProvider()

	otel.SetTracerProvider(tp)

	t.Cleanup(func() {
		otel.SetTracerProvider(oldProvider)
		_ = tp.Shutdown(context.Background())
	})

	return exporter
}

func spanAttributes(span tracetest.SpanStub) map[string]any {
	attrMap := make(map[string]any)
	for _, attr := range span.Attributes {
		attrMap[string(attr.Key)] = attr.Value.AsInterface()
	}

	return attrMap
}

//nolint:paralleltest // Test modifies global OTEL tracer provider
func TestReceiveSpan(t *testing.T) {
	exporter := setupTestTracer(t)

	machine := NewMachine(Callbacks[int]{},
		WithName("span-button"),
		WithInstanceID("instance-1"),
		WithScheduler(longpress.NewManualScheduler()),
		WithLogger(nil),
	)
	t.Cleanup(machine.Close)

	machine.Receive(t.Context(), Enter, 0)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "vrbutton.receive", spans[0].Name)

	attrs := spanAttributes(spans[0])
	assert.Equal(t, "span-button", attrs["vrbutton.name"])
	assert.Equal(t, hashID("instance-1"), attrs["vrbutton.instance_hash"])
	assert.Equal(t, "FOCUS_OUT", attrs["vrbutton.from"])
	assert.Equal(t, "ENTER", attrs["vrbutton.signal"])
	assert.Equal(t, "FOCUS_IN", attrs["vrbutton.to"])
	assert.Equal(t, false, attrs["vrbutton.recovered"])
}

//nolint:paralleltest // Test modifies global OTEL tracer provider
func TestReceiveSpanMarksRecovery(t *testing.T) {
	exporter := setupTestTracer(t)

	machine := NewMachine(Callbacks[int]{},
		WithScheduler(longpress.NewManualScheduler()),
		WithReporter(&DiagnosticLog{}),
		WithLogger(nil),
	)
	t.Cleanup(machine.Close)

	machine.Receive(t.Context(), LongPressDetected, 0)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)

	attrs := spanAttributes(spans[0])
	assert.Equal(t, true, attrs["vrbutton.recovered"])
	assert.Equal(t, "FOCUS_OUT", attrs["vrbutton.to"])
}

//nolint:paralleltest // Test modifies global OTEL tracer provider
func TestResetSpan(t *testing.T) {
	exporter := setupTestTracer(t)

	machine := NewMachine(Callbacks[int]{}, WithScheduler(longpress.NewManualScheduler()), WithLogger(nil))
	t.Cleanup(machine.Close)

	machine.Reset(t.Context())

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "vrbutton.reset", spans[0].Name)
}

func TestHashID(t *testing.T) {
	t.Parallel()

	assert.Empty(t, hashID(""))
	assert.Equal(t, hashID("abc"), hashID("abc"))
	assert.NotEqual(t, hashID("abc"), hashID("abd"))
}
