package input

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownDevice is returned when a raw record names no known device family.
	ErrUnknownDevice = errors.New("unknown input device")
	// ErrUnknownPhase is returned when a raw record's phase does not apply to its device.
	ErrUnknownPhase = errors.New("unknown input phase")
)

// Raw is the loosely-typed event record produced by scripts and host bridges. Fields that
// do not apply to the device are ignored.
type Raw struct {
	Device string `json:"device"           yaml:"device"`
	Button int    `json:"button,omitempty" yaml:"button,omitempty"`
	Code   string `json:"code,omitempty"   yaml:"code,omitempty"`
	Phase  string `json:"phase"            yaml:"phase"`
	Repeat bool   `json:"repeat,omitempty" yaml:"repeat,omitempty"`
}

// Decode turns a raw record into its device variant. Device names are matched without
// regard to case, and a trailing "InputEvent" is accepted ("GamepadInputEvent").
// Phases accept both the DOM names ("keyup", "touchstart") and the short ones ("up", "start").
func Decode(raw Raw) (Event, error) {
	device := Device(strings.TrimSuffix(strings.ToLower(strings.TrimSpace(raw.Device)), "inputevent"))
	phase := strings.ToLower(strings.TrimSpace(raw.Phase))

	switch device {
	case DeviceGamepad:
		p, err := keyPhase(phase)
		if err != nil {
			return nil, decodeError(raw, err)
		}

		return GamepadEvent{Button: raw.Button, Phase: p, Repeat: raw.Repeat}, nil
	case DeviceKeyboard:
		p, err := keyPhase(phase)
		if err != nil {
			return nil, decodeError(raw, err)
		}

		return KeyboardEvent{Code: raw.Code, Phase: p, Repeat: raw.Repeat}, nil
	case DeviceMouse:
		switch strings.TrimPrefix(phase, "mouse") {
		case "down":
			return MouseEvent{Button: raw.Button, Phase: MouseDown}, nil
		case "up":
			return MouseEvent{Button: raw.Button, Phase: MouseUp}, nil
		case "move":
			return MouseEvent{Button: raw.Button, Phase: MouseMove}, nil
		}
	case DeviceTouch:
		switch strings.TrimPrefix(phase, "touch") {
		case "start":
			return TouchEvent{Phase: TouchStart}, nil
		case "move":
			return TouchEvent{Phase: TouchMove}, nil
		case "end":
			return TouchEvent{Phase: TouchEnd}, nil
		case "cancel":
			return TouchEvent{Phase: TouchCancel}, nil
		}
	case DeviceFocus:
		switch phase {
		case "enter", "entered":
			return FocusEvent{Phase: FocusEntered}, nil
		case "exit", "exited":
			return FocusEvent{Phase: FocusExited}, nil
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDevice, raw.Device)
	}

	return nil, decodeError(raw, ErrUnknownPhase)
}

func keyPhase(phase string) (KeyPhase, error) {
	switch strings.TrimPrefix(phase, "key") {
	case "down":
		return KeyDown, nil
	case "up":
		return KeyUp, nil
	default:
		return KeyDown, ErrUnknownPhase
	}
}

func decodeError(raw Raw, err error) error {
	return fmt.Errorf("%w: %q for device %q", err, raw.Phase, raw.Device)
}
