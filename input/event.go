// Package input models raw controller events as a closed set of device variants and
// turns the primary activation control of each family into press and release signals.
package input

import "fmt"

// Device identifies an input device family.
type Device string

const (
	DeviceGamepad  Device = "gamepad"
	DeviceKeyboard Device = "keyboard"
	DeviceMouse    Device = "mouse"
	DeviceTouch    Device = "touch"
	DeviceFocus    Device = "focus"
)

// Primary activation controls.
const (
	PrimaryGamepadButton = 0
	PrimaryKeyCode       = "Space"
	PrimaryMouseButton   = 0
)

// Event is one input event. The set of implementations is closed; switch on the concrete
// type to reach device specific fields.
type Event interface {
	fmt.Stringer

	Device() Device
	isEvent()
}

// KeyPhase is the phase of a gamepad or keyboard key event.
type KeyPhase uint8

const (
	KeyDown KeyPhase = iota
	KeyUp
)

func (p KeyPhase) String() string {
	if p == KeyUp {
		return "keyup"
	}

	return "keydown"
}

// MousePhase is the phase of a mouse event.
type MousePhase uint8

const (
	MouseDown MousePhase = iota
	MouseUp
	MouseMove
)

func (p MousePhase) String() string {
	switch p {
	case MouseUp:
		return "mouseup"
	case MouseMove:
		return "mousemove"
	default:
		return "mousedown"
	}
}

// TouchPhase is the phase of a touch event.
type TouchPhase uint8

const (
	TouchStart TouchPhase = iota
	TouchMove
	TouchEnd
	TouchCancel
)

func (p TouchPhase) String() string {
	switch p {
	case TouchMove:
		return "touchmove"
	case TouchEnd:
		return "touchend"
	case TouchCancel:
		return "touchcancel"
	default:
		return "touchstart"
	}
}

// FocusPhase tells whether the pointer or gaze entered or left the element bounds.
type FocusPhase uint8

const (
	FocusEntered FocusPhase = iota
	FocusExited
)

func (p FocusPhase) String() string {
	if p == FocusExited {
		return "exit"
	}

	return "enter"
}

// GamepadEvent is a controller button event.
type GamepadEvent struct {
	Button int
	Phase  KeyPhase
	Repeat bool
}

// KeyboardEvent is a keyboard key event. Code is the physical key code, for example "Space".
type KeyboardEvent struct {
	Code   string
	Phase  KeyPhase
	Repeat bool
}

// MouseEvent is a mouse button or motion event.
type MouseEvent struct {
	Button int
	Phase  MousePhase
}

// TouchEvent is a touch contact event.
type TouchEvent struct {
	Phase TouchPhase
}

// FocusEvent is a focus geometry notification from the rendering layer.
type FocusEvent struct {
	Phase FocusPhase
}

func (GamepadEvent) Device() Device  { return DeviceGamepad }
func (KeyboardEvent) Device() Device { return DeviceKeyboard }
func (MouseEvent) Device() Device    { return DeviceMouse }
func (TouchEvent) Device() Device    { return DeviceTouch }
func (FocusEvent) Device() Device    { return DeviceFocus }

func (GamepadEvent) isEvent()  {}
func (KeyboardEvent) isEvent() {}
func (MouseEvent) isEvent()    {}
func (TouchEvent) isEvent()    {}
func (FocusEvent) isEvent()    {}

func (e GamepadEvent) String() string {
	return fmt.Sprintf("gamepad button %d %s%s", e.Button, e.Phase, repeatSuffix(e.Repeat))
}

func (e KeyboardEvent) String() string {
	return fmt.Sprintf("keyboard %s %s%s", e.Code, e.Phase, repeatSuffix(e.Repeat))
}

func (e MouseEvent) String() string {
	return fmt.Sprintf("mouse button %d %s", e.Button, e.Phase)
}

func (e TouchEvent) String() string {
	return "touch " + e.Phase.String()
}

func (e FocusEvent) String() string {
	return "focus " + e.Phase.String()
}

func repeatSuffix(repeat bool) string {
	if repeat {
		return " (repeat)"
	}

	return ""
}
