package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"
	"github.com/web-perf/react-vr-dbmonster/button"
	"github.com/web-perf/react-vr-dbmonster/logger"
	"github.com/web-perf/react-vr-dbmonster/tui"
)

const readHeaderTimeout = 5 * time.Second

func runPlay(ctx context.Context, e *env, args []string) error {
	flagSet := pflag.NewFlagSet("play", pflag.ContinueOnError)
	configPath := flagSet.StringP("config", "c", "", "button config YAML")
	name := flagSet.String("name", "", "button name (overrides the config)")
	delay := flagSet.Duration("delay", 0, "long click delay (overrides the config)")
	disabled := flagSet.Bool("disabled", false, "start disabled")
	metricsAddr := flagSet.String("metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")

	if err := flagSet.Parse(args); err != nil {
		return err
	}

	cfg, err := playConfig(*configPath)
	if err != nil {
		return err
	}

	if *name != "" {
		cfg.Name = *name
	}

	if flagSet.Changed("delay") {
		cfg.LongClickDelay = *delay
	}

	if *disabled {
		cfg.Disabled = true
	}

	if *metricsAddr != "" {
		serveMetrics(ctx, e, *metricsAddr)
	}

	// The terminal belongs to the UI from here on.
	uiCtx := logger.WithMuted(ctx, true)

	model, err := tui.New(uiCtx, cfg, button.WithLogger(nil))
	if err != nil {
		return err
	}

	e.coord.BeforeShutdown("button", func(context.Context) error {
		return model.Close()
	})

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(uiCtx))

	_, err = program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}

	return err
}

func playConfig(path string) (button.Config, error) {
	if path == "" {
		return button.Config{Name: "play"}, nil
	}

	return button.LoadConfigFile(path)
}

func serveMetrics(ctx context.Context, e *env, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Get(ctx).Error("metrics server failed", "addr", addr, "error", err)
		}
	}()

	e.coord.BeforeShutdown("metrics", srv.Shutdown)
}
