// Package validator checks interaction transition tables and proposes fixes.
package validator

import (
	"errors"
	"fmt"

	"github.com/web-perf/react-vr-dbmonster/statemachine"
)

var (
	// ErrCellOutOfRange is returned when a fix targets a state or signal outside the table.
	ErrCellOutOfRange = errors.New("table cell out of range")
	// ErrAlreadySet is returned when a fix would not change the table.
	ErrAlreadySet = errors.New("target already set")
)

// Fix represents an automatic fix for a validation error.
type Fix struct {
	Description string
	Apply       func(table *statemachine.Table) error
}

// SetTarget creates a fix that rewrites one table cell.
func SetTarget(from statemachine.State, signal statemachine.Signal, to statemachine.State) *Fix {
	return &Fix{
		Description: fmt.Sprintf("Route %s on %s to %s", from, signal, to),
		Apply: func(table *statemachine.Table) error {
			if !from.Valid() || !signal.Valid() {
				return fmt.Errorf("%w: %s/%s", ErrCellOutOfRange, from, signal)
			}

			if table[from][signal] == to {
				return fmt.Errorf("%w: %s/%s", ErrAlreadySet, from, signal)
			}

			table[from][signal] = to

			return nil
		},
	}
}

// ApplyFixes applies every available fix in result to a copy of table and returns it with
// the errors of fixes that could not be applied.
func ApplyFixes(table statemachine.Table, result ValidationResult) (statemachine.Table, error) {
	var errs []error

	for _, e := range result.Errors {
		if e.Fix == nil || e.Fix.Apply == nil {
			continue
		}

		if err := e.Fix.Apply(&table); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", e.Code, err))
		}
	}

	return table, errors.Join(errs...)
}
