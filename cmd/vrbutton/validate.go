package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/pflag"
	"github.com/web-perf/react-vr-dbmonster/statemachine"
	"github.com/web-perf/react-vr-dbmonster/statemachine/validator"
	"github.com/web-perf/react-vr-dbmonster/statemachine/visualizer"
)

var ErrInvalidTable = errors.New("transition table is invalid")

func runValidate(_ context.Context, e *env, args []string) error {
	flagSet := pflag.NewFlagSet("validate", pflag.ContinueOnError)
	strict := flagSet.Bool("strict", false, "treat warnings as errors")
	fix := flagSet.Bool("fix", false, "apply suggested fixes and print the repaired table as a mermaid diagram")

	if err := flagSet.Parse(args); err != nil {
		return err
	}

	return validateTable(e.out, statemachine.Transitions(), *strict, *fix)
}

func validateTable(out io.Writer, table statemachine.Table, strict, fix bool) error {
	check := func(t statemachine.Table) validator.ValidationResult {
		if strict {
			return validator.ValidateWithRulesStrict(t, validator.DefaultRules())
		}

		return validator.ValidateWithRules(t, validator.DefaultRules())
	}

	result := check(table)

	fmt.Fprintln(out, result.String())

	if result.Valid {
		return nil
	}

	if !fix {
		return ErrInvalidTable
	}

	fixed, err := validator.ApplyFixes(table, result)
	if err != nil {
		fmt.Fprintf(out, "some fixes failed: %v\n", err)
	}

	if !check(fixed).Valid {
		return ErrInvalidTable
	}

	diagram, err := visualizer.GenerateMermaid(fixed)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "fixed table:")
	fmt.Fprint(out, diagram)

	return nil
}
