package validator

import (
	"fmt"

	"github.com/web-perf/react-vr-dbmonster/statemachine"
)

// Severity defines the severity level of a validation issue.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

// Rule codes.
const (
	CodeTotalFunction     = "TOTAL_FUNCTION"
	CodeErrorNotPersisted = "ERROR_NOT_PERSISTED"
	CodeUnreachableState  = "UNREACHABLE_STATE"
	CodeExitLeavesFocus   = "EXIT_LEAVES_FOCUS"
	CodeReleaseEndsPress  = "RELEASE_ENDS_PRESS"
)

// RuleResult contains both errors and warnings from a rule check.
type RuleResult struct {
	Errors   []ValidationError
	Warnings []ValidationWarning
}

// Rule checks a transition table for one kind of issue.
type Rule interface {
	Name() string
	Severity() Severity
	Check(table *statemachine.Table) RuleResult
}

// DefaultRules returns the standard set of validation rules.
func DefaultRules() []Rule {
	return []Rule{
		&totalFunctionRule{},
		&errorNotPersistedRule{},
		&unreachableStateRule{initial: statemachine.InitialState},
		&exitLeavesFocusRule{},
		&releaseEndsPressRule{},
	}
}

// ReachableFrom returns a rule reporting states that cannot be reached from initial.
func ReachableFrom(initial statemachine.State) Rule {
	return &unreachableStateRule{initial: initial}
}

func cell(state statemachine.State, signal statemachine.Signal) Location {
	return Location{State: state.String(), Signal: signal.String()}
}

// totalFunctionRule checks that every (state, signal) pair maps to a declared state.
type totalFunctionRule struct{}

func (r *totalFunctionRule) Name() string {
	return "TotalFunction"
}

func (r *totalFunctionRule) Severity() Severity {
	return SeverityError
}

func (r *totalFunctionRule) Check(table *statemachine.Table) RuleResult {
	var errors []ValidationError

	for _, state := range statemachine.States() {
		for _, signal := range statemachine.Signals() {
			target := table.Target(state, signal)
			if target.Valid() {
				continue
			}

			errors = append(errors, ValidationError{
				Code:     CodeTotalFunction,
				Message:  fmt.Sprintf("target %s is not a declared state", target),
				Location: cell(state, signal),
				Fix:      SetTarget(state, signal, statemachine.Error),
			})
		}
	}

	return RuleResult{Errors: errors}
}

// errorNotPersistedRule checks that the Error row routes every signal back to a real state,
// so recovering from an invalid transition never stores Error.
type errorNotPersistedRule struct{}

func (r *errorNotPersistedRule) Name() string {
	return "ErrorNotPersisted"
}

func (r *errorNotPersistedRule) Severity() Severity {
	return SeverityError
}

func (r *errorNotPersistedRule) Check(table *statemachine.Table) RuleResult {
	var errors []ValidationError

	for _, signal := range statemachine.Signals() {
		if table.Target(statemachine.Error, signal) != statemachine.Error {
			continue
		}

		errors = append(errors, ValidationError{
			Code:     CodeErrorNotPersisted,
			Message:  fmt.Sprintf("recovery on %s leaves the machine in ERROR", signal),
			Location: cell(statemachine.Error, signal),
			Fix:      SetTarget(statemachine.Error, signal, statemachine.FocusOut),
		})
	}

	return RuleResult{Errors: errors}
}

// unreachableStateRule checks for states that cannot be reached from the initial state.
// Error is excluded: it only ever appears as a raw target.
type unreachableStateRule struct {
	initial statemachine.State
}

func (r *unreachableStateRule) Name() string {
	return "UnreachableState"
}

func (r *unreachableStateRule) Severity() Severity {
	return SeverityError
}

func (r *unreachableStateRule) Check(table *statemachine.Table) RuleResult {
	var errors []ValidationError

	reachable := make(map[statemachine.State]bool)
	reachable[r.initial] = true

	queue := []statemachine.State{r.initial}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, signal := range statemachine.Signals() {
			next := table.Target(current, signal)
			if next == statemachine.Error {
				next = table.Target(statemachine.Error, signal)
			}

			if next.Valid() && !reachable[next] {
				reachable[next] = true
				queue = append(queue, next)
			}
		}
	}

	for _, state := range statemachine.States() {
		if state == statemachine.Error || reachable[state] {
			continue
		}

		errors = append(errors, ValidationError{
			Code:     CodeUnreachableState,
			Message:  fmt.Sprintf("state %s cannot be reached from %s", state, r.initial),
			Location: Location{State: state.String()},
		})
	}

	return RuleResult{Errors: errors}
}

// exitLeavesFocusRule checks that Exit always lands in FocusOut.
type exitLeavesFocusRule struct{}

func (r *exitLeavesFocusRule) Name() string {
	return "ExitLeavesFocus"
}

func (r *exitLeavesFocusRule) Severity() Severity {
	return SeverityError
}

func (r *exitLeavesFocusRule) Check(table *statemachine.Table) RuleResult {
	var errors []ValidationError

	for _, state := range statemachine.States() {
		if target := table.Target(state, statemachine.Exit); target != statemachine.FocusOut {
			errors = append(errors, ValidationError{
				Code:     CodeExitLeavesFocus,
				Message:  fmt.Sprintf("exit moves to %s instead of %s", target, statemachine.FocusOut),
				Location: cell(state, statemachine.Exit),
				Fix:      SetTarget(state, statemachine.Exit, statemachine.FocusOut),
			})
		}
	}

	return RuleResult{Errors: errors}
}

// releaseEndsPressRule warns when releasing the key keeps a pressing state.
type releaseEndsPressRule struct{}

func (r *releaseEndsPressRule) Name() string {
	return "ReleaseEndsPress"
}

func (r *releaseEndsPressRule) Severity() Severity {
	return SeverityWarning
}

func (r *releaseEndsPressRule) Check(table *statemachine.Table) RuleResult {
	var warnings []ValidationWarning

	for _, state := range statemachine.States() {
		if !state.IsPressing() {
			continue
		}

		if target := table.Target(state, statemachine.KeyReleased); target.IsPressing() {
			warnings = append(warnings, ValidationWarning{
				Code:     CodeReleaseEndsPress,
				Message:  fmt.Sprintf("release keeps the press in %s, no click will be dispatched", target),
				Location: cell(state, statemachine.KeyReleased),
			})
		}
	}

	return RuleResult{Warnings: warnings}
}
