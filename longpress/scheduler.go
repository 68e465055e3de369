package longpress

import (
	"sort"
	"sync"
	"time"
)

// Stopper cancels a scheduled callback. *time.Timer satisfies it.
type Stopper interface {
	Stop() bool
}

// Scheduler runs f once after d. Implementations decide on which goroutine f runs; the
// owner of a Timer must make sure that is its own thread of control.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Stopper
}

// SchedulerFunc adapts a function to the Scheduler interface.
type SchedulerFunc func(d time.Duration, f func()) Stopper

// AfterFunc calls s(d, f).
func (s SchedulerFunc) AfterFunc(d time.Duration, f func()) Stopper {
	return s(d, f)
}

// Realtime schedules with time.AfterFunc. Callbacks run on runtime timer goroutines.
var Realtime Scheduler = SchedulerFunc(func(d time.Duration, f func()) Stopper { //nolint:gochecknoglobals
	return time.AfterFunc(d, f)
})

// ManualScheduler is a virtual clock. Nothing fires until Advance moves time past a deadline,
// and callbacks then run on the goroutine calling Advance, in deadline order.
type ManualScheduler struct {
	mu      sync.Mutex
	now     time.Duration
	seq     uint64
	entries []*manualEntry
}

type manualEntry struct {
	owner   *ManualScheduler
	at      time.Duration
	seq     uint64
	f       func()
	stopped bool
	fired   bool
}

// NewManualScheduler returns a virtual clock at elapsed time zero.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// AfterFunc queues f to run once Advance moves the clock d past the current time.
func (s *ManualScheduler) AfterFunc(d time.Duration, f func()) Stopper {
	s.mu.Lock()
	defer s.mu.Unlock()

	if d < 0 {
		d = 0
	}

	s.seq++

	entry := &manualEntry{
		owner: s,
		at:    s.now + d,
		seq:   s.seq,
		f:     f,
	}

	s.entries = append(s.entries, entry)

	return entry
}

// Advance moves the clock forward by d, running every callback whose deadline is reached.
// Callbacks scheduled by a callback run in the same call if their deadline is also reached.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now + d
	s.mu.Unlock()

	for {
		s.mu.Lock()

		entry := s.popDue(target)
		if entry == nil {
			s.now = target
			s.mu.Unlock()

			return
		}

		s.now = entry.at
		s.mu.Unlock()

		entry.f()
	}
}

// popDue removes and returns the earliest live entry due at or before target. Caller holds mu.
func (s *ManualScheduler) popDue(target time.Duration) *manualEntry {
	live := s.entries[:0]

	for _, e := range s.entries {
		if !e.stopped && !e.fired {
			live = append(live, e)
		}
	}

	s.entries = live

	sort.SliceStable(s.entries, func(i, j int) bool {
		if s.entries[i].at == s.entries[j].at {
			return s.entries[i].seq < s.entries[j].seq
		}

		return s.entries[i].at < s.entries[j].at
	})

	if len(s.entries) == 0 || s.entries[0].at > target {
		return nil
	}

	entry := s.entries[0]
	entry.fired = true
	s.entries = s.entries[1:]

	return entry
}

// Elapsed returns the virtual time since the scheduler was created.
func (s *ManualScheduler) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.now
}

// Pending returns how many callbacks are scheduled and not yet fired or stopped.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0

	for _, e := range s.entries {
		if !e.stopped && !e.fired {
			n++
		}
	}

	return n
}

func (e *manualEntry) Stop() bool {
	e.owner.mu.Lock()
	defer e.owner.mu.Unlock()

	if e.stopped || e.fired {
		return false
	}

	e.stopped = true

	return true
}
