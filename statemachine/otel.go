package statemachine

import (
	"context"
	"strconv"

	"github.com/zeebo/xxh3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/web-perf/react-vr-dbmonster/statemachine"

// startReceiveSpan creates a span around one Receive call.
// The caller is responsible for calling span.End().
//
//nolint:spancheck // Span lifecycle managed by caller
func startReceiveSpan[P any](ctx context.Context, m *Machine[P], signal Signal) (context.Context, trace.Span) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "vrbutton.receive")
	addMachineAttributes(span, m.name, m.instanceID, m.state)
	span.SetAttributes(attribute.String("vrbutton.signal", signal.String()))

	return ctx, span
}

// startResetSpan creates a span around one Reset call.
// The caller is responsible for calling span.End().
//
//nolint:spancheck // Span lifecycle managed by caller
func startResetSpan[P any](ctx context.Context, m *Machine[P]) (context.Context, trace.Span) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "vrbutton.reset")
	addMachineAttributes(span, m.name, m.instanceID, m.state)

	return ctx, span
}

func addMachineAttributes(span trace.Span, name, instanceID string, state State) {
	span.SetAttributes(
		attribute.String("vrbutton.name", name),
		attribute.String("vrbutton.instance_hash", hashID(instanceID)),
		attribute.String("vrbutton.from", state.String()),
	)
}

// hashID creates a short hash of an ID for span attributes.
func hashID(id string) string {
	if id == "" {
		return ""
	}

	return strconv.FormatUint(xxh3.HashString(id), 16)
}
