package statemachine

// Table is a complete mapping from (State, Signal) to the next State.
type Table [stateCount][signalCount]State

// transitions is the fixed interaction table. Every row is total; Error only appears as a
// target and its own row routes back to a safe baseline.
var transitions = Table{ //nolint:gochecknoglobals
	FocusOut: {
		Enter:             FocusIn,
		Exit:              FocusOut,
		KeyPressed:        FocusOut,
		KeyReleased:       FocusOut,
		LongPressDetected: Error,
	},
	FocusIn: {
		Enter:             FocusIn,
		Exit:              FocusOut,
		KeyPressed:        FocusInPress,
		KeyReleased:       FocusIn,
		LongPressDetected: Error,
	},
	FocusInPress: {
		Enter:             FocusInPress,
		Exit:              FocusOut,
		KeyPressed:        FocusInPress,
		KeyReleased:       FocusIn,
		LongPressDetected: FocusInLongPress,
	},
	FocusInLongPress: {
		Enter:             FocusInLongPress,
		Exit:              FocusOut,
		KeyPressed:        FocusInLongPress,
		KeyReleased:       FocusIn,
		LongPressDetected: FocusInLongPress,
	},
	Error: {
		Enter:             FocusIn,
		Exit:              FocusOut,
		KeyPressed:        FocusOut,
		KeyReleased:       FocusOut,
		LongPressDetected: FocusOut,
	},
}

// InitialState is the state every machine starts in.
const InitialState = FocusOut

// Next returns the raw table target for a signal received in a state. It may return Error;
// see Resolve for the recovered target. Out of range inputs yield Error.
func Next(from State, signal Signal) State {
	if !from.Valid() || !signal.Valid() {
		return Error
	}

	return transitions[from][signal]
}

// Resolve returns the state a machine in from actually moves to on signal, and whether the
// raw table entry was Error. An Error entry is replaced by the Error row's target for the
// same signal, so the returned state is never Error.
func Resolve(from State, signal Signal) (State, bool) {
	next := Next(from, signal)
	if next != Error {
		return next, false
	}

	return Next(Error, signal), true
}

// Transitions returns a copy of the interaction table.
func Transitions() Table {
	return transitions
}

// Target returns the table entry for the given pair; out of range pairs yield Error.
func (t *Table) Target(from State, signal Signal) State {
	if !from.Valid() || !signal.Valid() {
		return Error
	}

	return t[from][signal]
}
