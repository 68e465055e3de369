package longpress

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeArmed     = "armed"
	outcomeCancelled = "cancelled"
	outcomeFired     = "fired"
	outcomeStale     = "stale"
)

// timersTotal tracks the lifecycle of long-press deferrals by button and outcome.
var timersTotal = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
	Name: "vrbutton_longpress_timers_total",
	Help: "Long-press deferrals by button and outcome (armed, cancelled, fired, stale)",
}, []string{"button", "outcome"})

func sanitizeName(name string) string {
	if name == "" {
		return "unnamed"
	}

	return name
}
