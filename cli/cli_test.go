package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/web-perf/react-vr-dbmonster/envutil"
)

func TestBanner(t *testing.T) {
	t.Parallel()

	out := Banner(t.Context(), "replay\nclick.yaml", 30, AlignCenter)
	lines := strings.Split(out, "\n")

	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "╔"))
	assert.True(t, strings.HasPrefix(lines[3], "╚"))
	assert.Contains(t, lines[1], "replay")
	assert.Contains(t, lines[2], "click.yaml")

	for _, line := range lines {
		assert.Equal(t, 30, lipgloss.Width(line))
	}
}

func TestBannerTruncates(t *testing.T) {
	t.Parallel()

	out := Banner(t.Context(), strings.Repeat("x", 40), 12, AlignLeft)

	assert.Contains(t, out, "…")

	for _, line := range strings.Split(out, "\n") {
		assert.Equal(t, 12, lipgloss.Width(line))
	}
}

func TestBannerEdgeCases(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Banner(t.Context(), "x", 2, AlignLeft))
	assert.Empty(t, Banner(t.Context(), "x", 20, 42))

	ctx := envutil.WithEnvOverride(t.Context(), EnvNoBanner, "true")
	assert.Equal(t, "plain\n", Banner(ctx, "plain", 20, AlignRight))
}

func TestDivider(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "┠───┨\n", Divider(5))
	assert.Empty(t, Divider(1))
}

func TestParseDelay(t *testing.T) {
	t.Parallel()

	d, err := parseDelay("")
	require.NoError(t, err)
	assert.Zero(t, d)

	d, err = parseDelay("750ms")
	require.NoError(t, err)
	assert.Equal(t, 750*time.Millisecond, d)

	_, err = parseDelay("soon")
	require.ErrorIs(t, err, ErrInvalidDelay)

	_, err = parseDelay("-1s")
	require.ErrorIs(t, err, ErrInvalidDelay)

	require.ErrorIs(t, validateNonEmpty(""), ErrEmptyInput)
	require.NoError(t, validateNonEmpty("click"))
}

func TestSelectionHelpers(t *testing.T) {
	t.Parallel()

	items := sortedUnique([]string{"s/step10.yaml", "s/step2.yaml", "s/step2.yaml", "s/step1.yaml"})
	assert.Equal(t, []string{"s/step1.yaml", "s/step2.yaml", "s/step10.yaml"}, items)

	search := searcher(items, 1)
	assert.False(t, search("s/", 0))
	assert.True(t, search("step2", 1))
	assert.True(t, search("s/step1", 2))
	assert.False(t, search("", 1))

	assert.Equal(t, []string{"s/step1.yaml", "s/step10.yaml"}, without(items, "s/step2.yaml"))

	selected := map[string]struct{}{"b": {}, "a": {}}
	assert.Equal(t, []string{"a", "b"}, keep([]string{"c", "a", "b", "a"}, selected))
}
