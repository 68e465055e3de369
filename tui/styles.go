package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/web-perf/react-vr-dbmonster/statemachine"
)

const (
	buttonWidth  = 28
	buttonTop    = 2
	buttonHeight = 3
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true) //nolint:gochecknoglobals
	helpStyle  = lipgloss.NewStyle().Faint(true) //nolint:gochecknoglobals
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")) //nolint:gochecknoglobals

	boxStyle = lipgloss.NewStyle(). //nolint:gochecknoglobals
			Border(lipgloss.RoundedBorder()).
			Width(buttonWidth - 2).
			Align(lipgloss.Center)

	stateColors = map[statemachine.State]lipgloss.Color{ //nolint:gochecknoglobals
		statemachine.FocusOut:         lipgloss.Color("8"),
		statemachine.FocusIn:          lipgloss.Color("14"),
		statemachine.FocusInPress:     lipgloss.Color("11"),
		statemachine.FocusInLongPress: lipgloss.Color("13"),
	}
)

// buttonStyle returns the box style for a state. Disabled buttons are drawn faint
// with a normal border.
func buttonStyle(state statemachine.State, disabled bool) lipgloss.Style {
	if disabled {
		return boxStyle.Faint(true)
	}

	style := boxStyle.BorderForeground(stateColors[state])

	if state.IsPressing() {
		style = style.Border(lipgloss.ThickBorder()).Bold(true)
	}

	return style
}

// insideButton is the hit test for mouse coordinates.
func insideButton(x, y int) bool {
	return x >= 0 && x < buttonWidth && y >= buttonTop && y < buttonTop+buttonHeight
}
