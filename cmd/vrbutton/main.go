// vrbutton exercises the gaze button state machine from the command line.
//
// Commands:
//
//	replay    replay YAML scenarios against fresh buttons and check their expectations
//	diagram   print the transition table as a Mermaid state diagram
//	validate  check the transition table against the structural rules
//	play      drive a single button in the terminal with mouse and keyboard
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/pflag"
	"github.com/web-perf/react-vr-dbmonster/envutil"
	"github.com/web-perf/react-vr-dbmonster/logger"
	"github.com/web-perf/react-vr-dbmonster/shutdown"
	"github.com/web-perf/react-vr-dbmonster/telemetry"
)

const appName = "vrbutton"

var ErrUnknownCommand = errors.New("unknown command")

// env is what every command gets besides its arguments.
type env struct {
	out   io.Writer
	coord *shutdown.Coordinator
}

type command struct {
	summary string
	run     func(ctx context.Context, e *env, args []string) error
}

func commands() map[string]command {
	return map[string]command{
		"replay":   {summary: "replay scenario files and check expectations", run: runReplay},
		"diagram":  {summary: "print the transition table as Mermaid", run: runDiagram},
		"validate": {summary: "validate the transition table", run: runValidate},
		"play":     {summary: "interactive terminal button", run: runPlay},
	}
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flagSet := pflag.NewFlagSet(appName, pflag.ContinueOnError)
	flagSet.SetInterspersed(false)
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(os.Stderr, flagSet)

			return nil
		}

		return err
	}

	if help, _ := flagSet.GetBool("help"); help || flagSet.NArg() == 0 {
		printHelp(os.Stderr, flagSet)

		return nil
	}

	name := flagSet.Arg(0)

	cmd, ok := commands()[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}

	ctx := logger.WithSubsystem(context.Background(), appName)
	logger.ConfigureLogging(ctx, appName)

	coord := shutdown.New(shutdown.DefaultTimeout)
	ctx = coord.SetupHandler(ctx)

	if err := setupTelemetry(ctx, coord); err != nil {
		return err
	}

	err := cmd.run(ctx, &env{out: os.Stdout, coord: coord}, flagSet.Args()[1:])

	return errors.Join(err, coord.Run(context.Background()))
}

func setupTelemetry(ctx context.Context, coord *shutdown.Coordinator) error {
	runningEnv := envutil.String(ctx, "VRBUTTON_ENV", envutil.Default("local")).ValueOrElse("local")

	cfg, err := telemetry.LoadConfigFromEnv(ctx, runningEnv)
	if err != nil {
		return err
	}

	handler, err := telemetry.Initialize(ctx, cfg)
	if err != nil {
		return err
	}

	if handler != nil {
		logger.ConfigureLogging(ctx, appName, logger.WithHandler(handler))
	}

	coord.BeforeShutdown("telemetry", telemetry.Shutdown)

	return nil
}

func printHelp(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintf(w, "%s drives gaze buttons from the command line.\n\nUsage:\n  %s <command> [flags] [args]\n\nCommands:\n", appName, appName)

	cmds := commands()
	names := make([]string, 0, len(cmds))

	for name := range cmds {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		fmt.Fprintf(w, "  %-9s %s\n", name, cmds[name].summary)
	}

	fmt.Fprintf(w, "\nFlags:\n")
	flagSet.SetOutput(w)
	flagSet.PrintDefaults()
}
