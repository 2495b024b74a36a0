package services_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zatekoja/toursearch/internal/application/services"
)

type fakeTimer struct {
	sched   *fakeScheduler
	delay   time.Duration
	fn      func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	t.sched.mu.Lock()
	defer t.sched.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// fakeScheduler records timers for the test to fire. Go runs inline unless
// deferGo is set, in which case tasks wait for runQueued.
type fakeScheduler struct {
	mu      sync.Mutex
	timers  []*fakeTimer
	deferGo bool
	queued  []func()
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{}
}

func (s *fakeScheduler) Go(fn func()) {
	s.mu.Lock()
	if s.deferGo {
		s.queued = append(s.queued, fn)
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()
	fn()
}

func (s *fakeScheduler) AfterFunc(d time.Duration, fn func()) services.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &fakeTimer{sched: s, delay: d, fn: fn}
	s.timers = append(s.timers, t)
	return t
}

func (s *fakeScheduler) pending() []*fakeTimer {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*fakeTimer
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			out = append(out, t)
		}
	}
	return out
}

// fireNext runs the oldest live timer and returns its delay
func (s *fakeScheduler) fireNext(t *testing.T) time.Duration {
	t.Helper()
	live := s.pending()
	require.NotEmpty(t, live, "no pending timer")

	timer := live[0]
	s.mu.Lock()
	timer.fired = true
	s.mu.Unlock()

	timer.fn()
	return timer.delay
}

// runQueued runs the oldest deferred task
func (s *fakeScheduler) runQueued(t *testing.T) {
	t.Helper()
	s.mu.Lock()
	require.NotEmpty(t, s.queued, "no queued task")
	fn := s.queued[0]
	s.queued = s.queued[1:]
	s.mu.Unlock()

	fn()
}

func (s *fakeScheduler) queuedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queued)
}

func floatPtr(v float64) *float64 {
	return &v
}
