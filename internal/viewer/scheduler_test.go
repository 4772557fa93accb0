package viewer

import (
	"sync"
	"time"
)

// manualScheduler is a Scheduler driven by Advance instead of wall time.
type manualScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*manualTimer
}

type manualTimer struct {
	s       *manualScheduler
	every   time.Duration
	next    time.Duration
	fn      func()
	stopped bool
}

func (s *manualScheduler) Every(d time.Duration, fn func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTimer{s: s, every: d, next: s.now + d, fn: fn}
	s.timers = append(s.timers, t)
	return t
}

func (t *manualTimer) Stop() {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	t.stopped = true
}

// Advance moves the clock forward by d, firing due timers in order. The
// callbacks run without the scheduler lock held.
func (s *manualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now + d
	s.mu.Unlock()

	for {
		s.mu.Lock()
		var due *manualTimer
		for _, t := range s.timers {
			if t.stopped || t.next > target {
				continue
			}
			if due == nil || t.next < due.next {
				due = t
			}
		}
		if due == nil {
			s.now = target
			s.mu.Unlock()
			return
		}
		s.now = due.next
		due.next += due.every
		fn := due.fn
		s.mu.Unlock()

		fn()
	}
}

// Active counts timers that have not been stopped.
func (s *manualScheduler) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}

// FireStopped invokes the callbacks of stopped timers, as a tick that was
// already in flight when Stop ran would.
func (s *manualScheduler) FireStopped() {
	s.mu.Lock()
	var fns []func()
	for _, t := range s.timers {
		if t.stopped {
			fns = append(fns, t.fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
