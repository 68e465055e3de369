package statemachine

import (
	"context"
	"log/slog"

	"github.com/web-perf/react-vr-dbmonster/logger"
)

// Logger provides logging hooks for machine activity.
type Logger interface {
	TransitionExecuted(ctx context.Context, machine string, from, to State, signal Signal)
	CallbackInvoked(ctx context.Context, machine string, callback string, state State)
	MachineReset(ctx context.Context, machine string, from State)
	DiagnosticReported(ctx context.Context, d Diagnostic)
}

// DefaultLogger implements Logger using slog. Without an explicit *slog.Logger it resolves
// the context-scoped logger on every call.
type DefaultLogger struct {
	logger *slog.Logger
}

// NewDefaultLogger creates a logger backed by logger.Get(ctx).
func NewDefaultLogger() *DefaultLogger {
	return &DefaultLogger{}
}

// NewSlogLogger creates a logger writing to l.
func NewSlogLogger(l *slog.Logger) *DefaultLogger {
	return &DefaultLogger{logger: l}
}

func (l *DefaultLogger) get(ctx context.Context) *slog.Logger {
	if l.logger != nil {
		return l.logger
	}

	return logger.Get(ctx)
}

func (l *DefaultLogger) TransitionExecuted(ctx context.Context, machine string, from, to State, signal Signal) {
	l.get(ctx).DebugContext(ctx, "Transition executed",
		"button", machine,
		"from", from.String(),
		"to", to.String(),
		"signal", signal.String(),
	)
}

func (l *DefaultLogger) CallbackInvoked(ctx context.Context, machine string, callback string, state State) {
	l.get(ctx).DebugContext(ctx, "Callback invoked",
		"button", machine,
		"callback", callback,
		"state", state.String(),
	)
}

func (l *DefaultLogger) MachineReset(ctx context.Context, machine string, from State) {
	l.get(ctx).DebugContext(ctx, "State machine reset",
		"button", machine,
		"from", from.String(),
	)
}

func (l *DefaultLogger) DiagnosticReported(ctx context.Context, d Diagnostic) {
	l.get(ctx).ErrorContext(ctx, "State machine inconsistency",
		"button", d.Machine,
		"kind", string(d.Kind),
		"state", d.State.String(),
		"signal", d.Signal.String(),
		"target", d.Target.String(),
		"error", d.Err,
	)
}

// NewLogReporter returns a Reporter that hands every diagnostic to log.
// A nil log yields a reporter that drops diagnostics.
func NewLogReporter(log Logger) Reporter {
	return ReporterFunc(func(ctx context.Context, d Diagnostic) {
		if log != nil {
			log.DiagnosticReported(ctx, d)
		}
	})
}
