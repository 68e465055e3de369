// Package visualizer generates Mermaid diagrams from interaction transition tables.
package visualizer

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/web-perf/react-vr-dbmonster/statemachine"
)

// ErrInvalidDirection is returned for a direction Mermaid does not understand.
var ErrInvalidDirection = errors.New("direction must be one of TB, TD, BT, LR, RL")

// GenerateMermaid converts a table to a Mermaid state diagram.
func GenerateMermaid(table statemachine.Table) (string, error) {
	return GenerateMermaidWithOptions(table, DefaultOptions())
}

// GenerateMermaidToFile writes the diagram of table to path.
func GenerateMermaidToFile(table statemachine.Table, opts Options, path string) error {
	out, err := GenerateMermaidWithOptions(table, opts)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, []byte(out), 0o644); err != nil { //nolint:gosec // diagrams are not secret
		return fmt.Errorf("failed to write diagram: %w", err)
	}

	return nil
}

type edge struct {
	from, to statemachine.State
}

// GenerateMermaidWithOptions generates a Mermaid diagram with custom options.
func GenerateMermaidWithOptions(table statemachine.Table, opts Options) (string, error) {
	direction := strings.ToUpper(opts.Direction)
	if direction == "" {
		direction = "LR"
	}

	switch direction {
	case "TB", "TD", "BT", "LR", "RL":
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidDirection, opts.Direction)
	}

	var sb strings.Builder

	sb.WriteString("```mermaid\n")
	sb.WriteString("stateDiagram-v2\n")
	sb.WriteString(fmt.Sprintf("    direction %s\n", direction))
	sb.WriteString(fmt.Sprintf("    [*] --> %s\n", statemachine.InitialState))

	// Group signals by edge so parallel transitions render as one labelled arrow.
	var order []edge

	labels := make(map[edge][]string)

	for _, from := range statemachine.States() {
		if from == statemachine.Error && !opts.ShowErrorState {
			continue
		}

		for _, signal := range statemachine.Signals() {
			to := table.Target(from, signal)

			if to == statemachine.Error && !opts.ShowErrorState {
				continue
			}

			if to == from && opts.HideSelfLoops {
				continue
			}

			e := edge{from: from, to: to}
			if _, seen := labels[e]; !seen {
				order = append(order, e)
			}

			labels[e] = append(labels[e], signal.String())
		}
	}

	for _, e := range order {
		label := ""
		if opts.ShowSignals {
			label = ": " + strings.Join(labels[e], ", ")
		}

		sb.WriteString(fmt.Sprintf("    %s --> %s%s\n", e.from, e.to, label))
	}

	for _, state := range highlighted(table, opts.HighlightPath) {
		sb.WriteString(fmt.Sprintf("    class %s highlighted\n", state))
	}

	if opts.ShowErrorState {
		sb.WriteString(fmt.Sprintf("    class %s errorState\n", statemachine.Error))
	}

	sb.WriteString("\n")
	sb.WriteString("    classDef highlighted fill:#fff9c4,stroke:#f57f17,stroke-width:3px\n")
	sb.WriteString("    classDef errorState fill:#ffcdd2,stroke:#b71c1c,stroke-width:2px\n")
	sb.WriteString("```\n")

	return sb.String(), nil
}

// highlighted returns the states visited by path, in first-visit order.
func highlighted(table statemachine.Table, path []statemachine.Signal) []statemachine.State {
	if len(path) == 0 {
		return nil
	}

	current := statemachine.InitialState
	visited := []statemachine.State{current}
	seen := map[statemachine.State]bool{current: true}

	for _, signal := range path {
		next := table.Target(current, signal)
		if next == statemachine.Error {
			next = table.Target(statemachine.Error, signal)
		}

		if !next.Valid() {
			break
		}

		current = next

		if !seen[current] {
			seen[current] = true
			visited = append(visited, current)
		}
	}

	return visited
}
