package eventloop

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// aliveLoops tracks the number of running loops.
	aliveLoops = promauto.NewGaugeVec(prometheus.GaugeOpts{ //nolint:gochecknoglobals
		Name: "vrbutton_eventloop_alive",
		Help: "The number of event loops running",
	}, []string{"subsystem", "loop"})

	// tasksTotal counts tasks run, panicking ones included.
	tasksTotal = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "vrbutton_eventloop_tasks_total",
		Help: "The total number of tasks run by an event loop",
	}, []string{"subsystem", "loop"})

	// taskPanics counts tasks that panicked and were recovered.
	taskPanics = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "vrbutton_eventloop_panics_total",
		Help: "The total number of event loop tasks that recovered from a panic",
	}, []string{"subsystem", "loop"})

	// taskDuration measures the time spent running each task.
	taskDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{ //nolint:gochecknoglobals
		Name: "vrbutton_eventloop_task_duration_seconds",
		Help: "The time spent running an event loop task",
		Buckets: []float64{
			0.0001, // 100us
			0.001,  // 1ms
			0.01,   // 10ms
			0.1,    // 100ms
			1,      // 1s
		},
	}, []string{"subsystem", "loop"})
)
