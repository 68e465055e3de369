package main

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"
	"github.com/web-perf/react-vr-dbmonster/statemachine"
	"github.com/web-perf/react-vr-dbmonster/statemachine/visualizer"
)

func runDiagram(_ context.Context, e *env, args []string) error {
	flagSet := pflag.NewFlagSet("diagram", pflag.ContinueOnError)
	direction := flagSet.StringP("direction", "d", "LR", "diagram direction (TB, BT, LR, RL)")
	hideSelfLoops := flagSet.Bool("hide-self-loops", false, "omit edges that stay in the same state")
	noSignals := flagSet.Bool("no-signals", false, "omit signal labels on edges")
	errorState := flagSet.Bool("error-state", false, "draw the transient error state and its recovery row")
	highlight := flagSet.StringSlice("highlight", nil, "signals to follow from the initial state, e.g. ENTER,KEY_PRESSED")
	out := flagSet.StringP("out", "o", "", "write to this file instead of stdout")

	if err := flagSet.Parse(args); err != nil {
		return err
	}

	path, err := parseSignals(*highlight)
	if err != nil {
		return err
	}

	opts := visualizer.DefaultOptions().
		WithDirection(*direction).
		WithShowSignals(!*noSignals).
		WithHideSelfLoops(*hideSelfLoops).
		WithShowErrorState(*errorState).
		WithHighlightPath(path...)

	if *out != "" {
		return visualizer.GenerateMermaidToFile(statemachine.Transitions(), opts, *out)
	}

	diagram, err := visualizer.GenerateMermaidWithOptions(statemachine.Transitions(), opts)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(e.out, diagram)

	return err
}

func parseSignals(names []string) ([]statemachine.Signal, error) {
	signals := make([]statemachine.Signal, 0, len(names))

	for _, name := range names {
		sig, err := statemachine.ParseSignal(name)
		if err != nil {
			return nil, err
		}

		signals = append(signals, sig)
	}

	return signals, nil
}
