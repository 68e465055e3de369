package input

import "github.com/web-perf/react-vr-dbmonster/statemachine"

// Normalize maps an event to KeyPressed or KeyReleased. The second result is false when the
// event is not a primary activation of its device family; that is not an error.
func Normalize(ev Event) (statemachine.Signal, bool) {
	switch {
	case IsRelease(ev):
		return statemachine.KeyReleased, true
	case IsPress(ev):
		return statemachine.KeyPressed, true
	default:
		return statemachine.Enter, false
	}
}

// IsRelease reports whether ev releases the primary activation control.
func IsRelease(ev Event) bool {
	switch e := ev.(type) {
	case GamepadEvent:
		return e.Button == PrimaryGamepadButton && e.Phase == KeyUp
	case KeyboardEvent:
		return e.Code == PrimaryKeyCode && e.Phase == KeyUp
	case MouseEvent:
		return e.Button == PrimaryMouseButton && e.Phase == MouseUp
	case TouchEvent:
		return e.Phase == TouchEnd
	default:
		return false
	}
}

// IsPress reports whether ev presses the primary activation control. Auto-repeated key
// downs are not presses.
func IsPress(ev Event) bool {
	switch e := ev.(type) {
	case GamepadEvent:
		return e.Button == PrimaryGamepadButton && e.Phase == KeyDown && !e.Repeat
	case KeyboardEvent:
		return e.Code == PrimaryKeyCode && e.Phase == KeyDown && !e.Repeat
	case MouseEvent:
		return e.Button == PrimaryMouseButton && e.Phase == MouseDown
	case TouchEvent:
		return e.Phase == TouchStart || e.Phase == TouchMove
	default:
		return false
	}
}
