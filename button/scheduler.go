package button

import (
	"context"
	"time"

	"github.com/web-perf/react-vr-dbmonster/eventloop"
	"github.com/web-perf/react-vr-dbmonster/logger"
	"github.com/web-perf/react-vr-dbmonster/longpress"
)

// LoopScheduler delays with Inner and then posts the callback to Loop, so timer fires are
// serialised with every other call into the button.
type LoopScheduler struct {
	Loop  *eventloop.Loop
	Inner longpress.Scheduler
}

// AfterFunc arms Inner and posts f onto Loop when it fires.
func (s LoopScheduler) AfterFunc(d time.Duration, f func()) longpress.Stopper {
	inner := s.Inner
	if inner == nil {
		inner = longpress.Realtime
	}

	return inner.AfterFunc(d, func() {
		if err := s.Loop.Post(func(context.Context) { f() }); err != nil {
			// The loop is gone; the button was closed and the fire is moot.
			logger.Get(context.Background()).Debug("dropping timer fire",
				"loop", s.Loop.Name(), "error", err)
		}
	})
}
