package statemachine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metric definitions with appropriate labels.
var (
	// signalsTotal counts received signals by button, signal and outcome.
	signalsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vrbutton_signals_total",
		Help: "Signals received by button, signal and outcome (transition, self, recovered, ignored)",
	}, []string{"button", "signal", "outcome"})

	// transitionsTotal counts committed state changes.
	transitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vrbutton_transitions_total",
		Help: "State transitions by button, from_state and to_state",
	}, []string{"button", "from_state", "to_state"})

	// clicksTotal counts dispatched click callbacks.
	clicksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vrbutton_clicks_total",
		Help: "Click callbacks dispatched by button and kind (click, long_click)",
	}, []string{"button", "kind"})

	// diagnosticsTotal counts absorbed inconsistencies.
	diagnosticsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vrbutton_diagnostics_total",
		Help: "Reported inconsistencies by button and kind",
	}, []string{"button", "kind"})

	// resetsTotal counts forced resets (disable).
	resetsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vrbutton_resets_total",
		Help: "Forced resets to FOCUS_OUT by button",
	}, []string{"button"})
)

func sanitizeName(name string) string {
	if name == "" {
		return "unnamed"
	}

	return name
}
