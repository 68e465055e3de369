package visualizer

import "github.com/web-perf/react-vr-dbmonster/statemachine"

// Options configures the visualization output.
type Options struct {
	// Direction controls diagram flow: "TB" (top-bottom) or "LR" (left-right)
	Direction string

	// ShowSignals labels edges with the signals that take them
	ShowSignals bool

	// HideSelfLoops omits edges whose target is their source
	HideSelfLoops bool

	// ShowErrorState draws the ERROR node, its recovery row and the edges into it
	ShowErrorState bool

	// HighlightPath highlights the states visited by a sequence of signals from the initial state
	HighlightPath []statemachine.Signal
}

// DefaultOptions returns sensible defaults for visualization.
func DefaultOptions() Options {
	return Options{
		Direction:   "LR",
		ShowSignals: true,
	}
}

// WithDirection sets the diagram direction.
func (o Options) WithDirection(direction string) Options {
	o.Direction = direction

	return o
}

// WithShowSignals enables/disables edge labels.
func (o Options) WithShowSignals(show bool) Options {
	o.ShowSignals = show

	return o
}

// WithHideSelfLoops enables/disables self-loop edges.
func (o Options) WithHideSelfLoops(hide bool) Options {
	o.HideSelfLoops = hide

	return o
}

// WithShowErrorState enables/disables the ERROR node.
func (o Options) WithShowErrorState(show bool) Options {
	o.ShowErrorState = show

	return o
}

// WithHighlightPath sets the signal sequence whose visited states are highlighted.
func (o Options) WithHighlightPath(path ...statemachine.Signal) Options {
	o.HighlightPath = path

	return o
}
