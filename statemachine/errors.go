package statemachine

import (
	"errors"
	"fmt"
)

// Predefined error types.
var (
	// ErrInvalidTransition indicates a signal with no legitimate path from the current state.
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrUnexpectedLongPress indicates the long-press timer fired outside a pressing state.
	ErrUnexpectedLongPress = errors.New("long press fired outside a pressing state")
	// ErrUnknownSignal indicates a signal value outside the declared set.
	ErrUnknownSignal = errors.New("unknown signal")
	// ErrUnknownState indicates a state name or value outside the declared set.
	ErrUnknownState = errors.New("unknown state")
	// ErrClosed indicates a signal delivered after the machine was torn down.
	ErrClosed = errors.New("state machine closed")
)

// TransitionError wraps an error with transition context.
type TransitionError struct {
	From   State
	Signal Signal
	To     State
	Err    error
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("transition %s --%s--> %s: %v", e.From, e.Signal, e.To, e.Err)
}

func (e *TransitionError) Unwrap() error {
	return e.Err
}

// WrapTransitionError wraps an error with transition context.
func WrapTransitionError(from State, signal Signal, to State, err error) error {
	if err == nil {
		return nil
	}

	return &TransitionError{
		From:   from,
		Signal: signal,
		To:     to,
		Err:    err,
	}
}
