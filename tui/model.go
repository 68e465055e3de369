// Package tui is a terminal playground for a single button. Mouse motion over the
// box stands in for gaze, the left mouse button and space for the primary control.
package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/web-perf/react-vr-dbmonster/button"
	"github.com/web-perf/react-vr-dbmonster/input"
	"github.com/web-perf/react-vr-dbmonster/statemachine"
	"go.uber.org/atomic"
)

// refreshMsg asks the model to re-read the button state after a callback
// ran outside Update, such as a long click fired by the timer.
type refreshMsg struct{}

type stats struct {
	clicks     *atomic.Int64
	longClicks *atomic.Int64
	enters     *atomic.Int64
	exits      *atomic.Int64
	last       *atomic.String
	refresh    chan struct{}
}

func newStats() *stats {
	return &stats{
		clicks:     atomic.NewInt64(0),
		longClicks: atomic.NewInt64(0),
		enters:     atomic.NewInt64(0),
		exits:      atomic.NewInt64(0),
		last:       atomic.NewString(""),
		refresh:    make(chan struct{}, 1),
	}
}

func (s *stats) callback(counter *atomic.Int64, name string) statemachine.Callback[input.Event] {
	return func(_ context.Context, ev input.Event) {
		counter.Inc()

		if ev != nil {
			s.last.Store(name + " (" + ev.String() + ")")
		} else {
			s.last.Store(name)
		}

		select {
		case s.refresh <- struct{}{}:
		default:
		}
	}
}

// Model implements tea.Model around a button.Button.
type Model struct {
	ctx   context.Context //nolint:containedctx
	btn   *button.Button
	stats *stats

	state     statemachine.State
	disabled  bool
	hovered   bool
	mouseDown bool
	spaceDown bool
	err       error
}

// New creates the button described by cfg and a model driving it. Close the
// model once the program has exited.
func New(ctx context.Context, cfg button.Config, opts ...button.Option) (Model, error) {
	st := newStats()

	btn, err := button.New(ctx, cfg, button.Callbacks{
		OnEnter:     st.callback(st.enters, "enter"),
		OnExit:      st.callback(st.exits, "exit"),
		OnClick:     st.callback(st.clicks, "click"),
		OnLongClick: st.callback(st.longClicks, "long click"),
	}, opts...)
	if err != nil {
		return Model{}, err
	}

	return Model{
		ctx:      ctx,
		btn:      btn,
		stats:    st,
		state:    statemachine.InitialState,
		disabled: cfg.Disabled,
	}, nil
}

// Button returns the button driven by the model.
func (m Model) Button() *button.Button {
	return m.btn
}

// Close closes the underlying button.
func (m Model) Close() error {
	return m.btn.Close()
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return listenForRefresh(m.stats.refresh)
}

func listenForRefresh(channel <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-channel; !ok {
			return nil
		}

		return refreshMsg{}
	}
}

// Update implements tea.Model.
func (m Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.KeyMsg:
		return m.handleKey(message)

	case tea.MouseMsg:
		m.handleMouse(message)

	case refreshMsg:
		m.sync()

		return m, listenForRefresh(m.stats.refresh)
	}

	return m, nil
}

func (m Model) handleKey(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	if message.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if message.Type == tea.KeySpace || message.String() == " " {
		m.spaceDown = !m.spaceDown

		phase := input.KeyUp
		if m.spaceDown {
			phase = input.KeyDown
		}

		m.send(input.KeyboardEvent{Code: input.PrimaryKeyCode, Phase: phase})

		return m, nil
	}

	switch message.String() {
	case "q":
		return m, tea.Quit
	case "e":
		m.setHover(!m.hovered)
	case "d":
		m.err = m.btn.SetDisabled(m.ctx, !m.disabled)
		m.spaceDown = false
		m.mouseDown = false
		m.sync()
	}

	return m, nil
}

func (m *Model) handleMouse(message tea.MouseMsg) {
	switch message.Action {
	case tea.MouseActionMotion:
		m.setHover(insideButton(message.X, message.Y))

	case tea.MouseActionPress:
		if message.Button != tea.MouseButtonLeft {
			return
		}

		m.setHover(insideButton(message.X, message.Y))
		m.mouseDown = true
		m.send(input.MouseEvent{Button: input.PrimaryMouseButton, Phase: input.MouseDown})

	case tea.MouseActionRelease:
		if !m.mouseDown {
			return
		}

		m.mouseDown = false
		m.send(input.MouseEvent{Button: input.PrimaryMouseButton, Phase: input.MouseUp})
	}
}

func (m *Model) setHover(hovered bool) {
	if hovered == m.hovered {
		return
	}

	m.hovered = hovered

	phase := input.FocusExited
	if hovered {
		phase = input.FocusEntered
	}

	m.send(input.FocusEvent{Phase: phase})
}

func (m *Model) send(ev input.Event) {
	if err := m.btn.HandleInput(m.ctx, ev); err != nil {
		m.err = err
	}

	m.sync()
}

func (m *Model) sync() {
	state, err := m.btn.State(m.ctx)
	if err != nil {
		m.err = err

		return
	}

	disabled, err := m.btn.Disabled(m.ctx)
	if err != nil {
		m.err = err

		return
	}

	m.state = state
	m.disabled = disabled
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("vrbutton " + m.btn.Name()))
	b.WriteString("\n\n")

	label := m.state.String()
	if m.disabled {
		label = "DISABLED"
	}

	b.WriteString(buttonStyle(m.state, m.disabled).Render(label))
	b.WriteString("\n")

	fmt.Fprintf(&b, "state: %s  clicks: %d  long clicks: %d  enters: %d  exits: %d\n",
		m.state,
		m.stats.clicks.Load(),
		m.stats.longClicks.Load(),
		m.stats.enters.Load(),
		m.stats.exits.Load())

	if last := m.stats.last.Load(); last != "" {
		b.WriteString("last: " + last + "\n")
	}

	if m.err != nil {
		b.WriteString(errStyle.Render("error: "+m.err.Error()) + "\n")
	}

	b.WriteString(helpStyle.Render("mouse: hover/click  space: press/release  e: focus  d: disable  q: quit"))

	return b.String()
}
