// Package statemachine implements the focus/press interaction state machine behind a gaze button.
//
// A Machine receives abstract signals (enter, exit, key pressed, key released, long press detected),
// resolves them through a fixed transition table and performs the side effects of each genuine
// transition: arming and cancelling the long-press timer and dispatching click callbacks.
//
// The machine is not safe for concurrent use. Its owner delivers signals from a single logical
// thread of control (see the eventloop and button packages).
package statemachine

import (
	"context"
	"fmt"
	"strings"
)

// State is the interaction state of a button.
type State uint8

const (
	// FocusOut means the pointer or gaze is outside the button. It is the initial state.
	FocusOut State = iota
	// FocusIn means the pointer or gaze is over the button and nothing is pressed.
	FocusIn
	// FocusInPress means the primary control is held down while focused.
	FocusInPress
	// FocusInLongPress means the primary control has been held past the long-click delay.
	FocusInLongPress
	// Error is a transient marker for transitions that have no legitimate path.
	// It is never stored as the current state.
	Error

	stateCount = int(Error) + 1
)

var stateNames = [stateCount]string{
	FocusOut:         "FOCUS_OUT",
	FocusIn:          "FOCUS_IN",
	FocusInPress:     "FOCUS_IN_PRESS",
	FocusInLongPress: "FOCUS_IN_LONG_PRESS",
	Error:            "ERROR",
}

func (s State) String() string {
	if !s.Valid() {
		return fmt.Sprintf("STATE(%d)", uint8(s))
	}

	return stateNames[s]
}

// Valid reports whether s is one of the declared states.
func (s State) Valid() bool {
	return int(s) < stateCount
}

// IsPressing reports whether the primary control is held down in this state.
func (s State) IsPressing() bool {
	return s == FocusInPress || s == FocusInLongPress
}

// IsLongPressing reports whether the hold has passed the long-click delay.
func (s State) IsLongPressing() bool {
	return s == FocusInLongPress
}

// ParseState parses the upper snake case name of a state, ignoring case.
func ParseState(name string) (State, error) {
	for i, n := range stateNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return State(i), nil
		}
	}

	return FocusOut, fmt.Errorf("%w: %q", ErrUnknownState, name)
}

// Signal is the only stimulus the machine accepts.
type Signal uint8

const (
	// Enter is delivered when the pointer or gaze enters the button bounds.
	Enter Signal = iota
	// Exit is delivered when the pointer or gaze leaves the button bounds.
	Exit
	// KeyPressed is delivered when the primary activation control goes down.
	KeyPressed
	// KeyReleased is delivered when the primary activation control goes up.
	KeyReleased
	// LongPressDetected is delivered by the long-press timer.
	LongPressDetected

	signalCount = int(LongPressDetected) + 1
)

var signalNames = [signalCount]string{
	Enter:             "ENTER",
	Exit:              "EXIT",
	KeyPressed:        "KEY_PRESSED",
	KeyReleased:       "KEY_RELEASED",
	LongPressDetected: "LONG_PRESS_DETECTED",
}

func (s Signal) String() string {
	if !s.Valid() {
		return fmt.Sprintf("SIGNAL(%d)", uint8(s))
	}

	return signalNames[s]
}

// Valid reports whether s is one of the declared signals.
func (s Signal) Valid() bool {
	return int(s) < signalCount
}

// ParseSignal parses the upper snake case name of a signal, ignoring case.
func ParseSignal(name string) (Signal, error) {
	for i, n := range signalNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return Signal(i), nil
		}
	}

	return Enter, fmt.Errorf("%w: %q", ErrUnknownSignal, name)
}

// States returns every declared state, Error included, in declaration order.
func States() []State {
	out := make([]State, stateCount)
	for i := range out {
		out[i] = State(i)
	}

	return out
}

// Signals returns every declared signal in declaration order.
func Signals() []Signal {
	out := make([]Signal, signalCount)
	for i := range out {
		out[i] = Signal(i)
	}

	return out
}

// Callback is invoked synchronously as a side effect of a transition or focus change.
type Callback[P any] func(ctx context.Context, payload P)

// Callbacks is the externally supplied callback set of a button. Any of them may be nil.
// OnEnter and OnExit are invoked by the focus tracker, OnClick and OnLongClick by the machine.
type Callbacks[P any] struct {
	OnEnter     Callback[P]
	OnExit      Callback[P]
	OnClick     Callback[P]
	OnLongClick Callback[P]
}

func invoke[P any](ctx context.Context, cb Callback[P], payload P) bool {
	if cb == nil {
		return false
	}

	cb(ctx, payload)

	return true
}
