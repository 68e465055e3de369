package main

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/spf13/pflag"
	"github.com/web-perf/react-vr-dbmonster/cli"
	"github.com/web-perf/react-vr-dbmonster/scenario"
	smtest "github.com/web-perf/react-vr-dbmonster/statemachine/testing"
)

var ErrNoScenarios = errors.New("no scenario files found")

func runReplay(ctx context.Context, e *env, args []string) error {
	flagSet := pflag.NewFlagSet("replay", pflag.ContinueOnError)
	workers := flagSet.IntP("workers", "w", runtime.NumCPU(), "scenarios replayed concurrently")
	dir := flagSet.String("dir", ".", "directory to offer scenarios from when no paths are given")

	if err := flagSet.Parse(args); err != nil {
		return err
	}

	paths := flagSet.Args()
	if len(paths) == 0 {
		picked, err := pickScenario(*dir)
		if err != nil {
			return err
		}

		paths = []string{picked}
	}

	files, err := scenario.Discover(paths)
	if err != nil {
		return err
	}

	if len(files) == 0 {
		return ErrNoScenarios
	}

	scenarios, err := scenario.LoadFiles(files)
	if err != nil {
		return err
	}

	results, verifyErr := scenario.Verify(ctx, scenarios, *workers)

	fmt.Fprint(e.out, cli.Banner(ctx, fmt.Sprintf("replay: %d scenario(s)", len(scenarios)),
		cli.DefaultTerminalWidth, cli.AlignCenter))
	fmt.Fprintln(e.out)

	for i, res := range results {
		status := "ok  "
		if res.Check(scenarios[i].Expect) != nil {
			status = "FAIL"
		}

		fmt.Fprintf(e.out, "%s %-24s %-20s clicks=%d long_clicks=%d diagnostics=%d elapsed=%s\n",
			status, res.Name, res.FinalState,
			res.Count(smtest.CallClick), res.Count(smtest.CallLongClick), len(res.Diagnostics), res.Elapsed)
	}

	return verifyErr
}

func pickScenario(dir string) (string, error) {
	found, err := scenario.Discover([]string{dir})
	if err != nil {
		return "", err
	}

	if len(found) == 0 {
		return "", fmt.Errorf("%w in %s", ErrNoScenarios, dir)
	}

	return cli.PromptScenario(found)
}
