package cli

import (
	"context"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/web-perf/react-vr-dbmonster/envutil"
)

// EnvNoBanner disables banner boxes when set to a true value.
const EnvNoBanner = "VRBUTTON_NO_BANNER"

// DefaultTerminalWidth is used when no width is given.
const DefaultTerminalWidth = 80

const (
	AlignLeft = iota
	AlignCenter
	AlignRight
)

var bannerStyle = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()) //nolint:gochecknoglobals

// Banner draws s inside a box of the given total width. Every line of s is
// aligned on its own. Returns "" for an unknown alignment or a width too
// small to hold the border.
func Banner(ctx context.Context, s string, width int, alignment int) string {
	if suppressBanner(ctx) {
		return s + "\n"
	}

	if width <= 2 {
		return ""
	}

	var pos lipgloss.Position

	switch alignment {
	case AlignLeft:
		pos = lipgloss.Left
	case AlignCenter:
		pos = lipgloss.Center
	case AlignRight:
		pos = lipgloss.Right
	default:
		return ""
	}

	inner := width - 2
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")

	for i, line := range lines {
		if lipgloss.Width(line) > inner {
			lines[i] = truncate(line, inner)
		}
	}

	return bannerStyle.Width(inner).Align(pos).Render(strings.Join(lines, "\n"))
}

// Divider returns a horizontal rule of the given width.
func Divider(width int) string {
	if width <= 2 {
		return ""
	}

	return "┠" + strings.Repeat("─", width-2) + "┨\n"
}

func suppressBanner(ctx context.Context) bool {
	return envutil.Bool(ctx, EnvNoBanner, envutil.Default(false)).ValueOrElse(false)
}

func truncate(s string, width int) string {
	var b strings.Builder

	for _, r := range s {
		if lipgloss.Width(b.String()+string(r)) >= width {
			break
		}

		b.WriteRune(r)
	}

	return b.String() + "…"
}
