package statemachine

import (
	"context"
	"sync"
)

// DiagnosticKind classifies a reported internal inconsistency.
type DiagnosticKind string

const (
	KindInvalidTransition   DiagnosticKind = "invalid_transition"
	KindUnexpectedLongPress DiagnosticKind = "unexpected_long_press"
	KindUnknownSignal       DiagnosticKind = "unknown_signal"
	KindClosed              DiagnosticKind = "closed"
)

// Diagnostic describes a condition the machine absorbed instead of failing.
type Diagnostic struct {
	Machine string
	Kind    DiagnosticKind
	State   State  // state when the condition was observed
	Signal  Signal // signal being processed
	Target  State  // state the machine ended in
	Err     error
}

// Reporter receives diagnostics. Implementations must not call back into the machine.
type Reporter interface {
	Report(ctx context.Context, d Diagnostic)
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(ctx context.Context, d Diagnostic)

// Report calls f(ctx, d).
func (f ReporterFunc) Report(ctx context.Context, d Diagnostic) {
	f(ctx, d)
}

// MultiReporter fans a diagnostic out to several reporters in order.
func MultiReporter(reporters ...Reporter) Reporter {
	return ReporterFunc(func(ctx context.Context, d Diagnostic) {
		for _, r := range reporters {
			if r != nil {
				r.Report(ctx, d)
			}
		}
	})
}

// DiagnosticLog is a Reporter that keeps every diagnostic in memory.
// It is safe for concurrent use.
type DiagnosticLog struct {
	mu    sync.Mutex
	items []Diagnostic
}

// Report appends d to the log.
func (l *DiagnosticLog) Report(_ context.Context, d Diagnostic) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.items = append(l.items, d)
}

// All returns a copy of the recorded diagnostics.
func (l *DiagnosticLog) All() []Diagnostic {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Diagnostic, len(l.items))
	copy(out, l.items)

	return out
}

// Count returns how many diagnostics of the given kind were recorded.
func (l *DiagnosticLog) Count(kind DiagnosticKind) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := 0

	for _, d := range l.items {
		if d.Kind == kind {
			n++
		}
	}

	return n
}
