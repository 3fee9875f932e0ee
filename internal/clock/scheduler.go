// Package clock provides the named tick subscriptions driving the timer
// countdown and the periodic schedule check.
package clock

import (
	"sync"
	"time"
)

type subscription struct {
	ticker *time.Ticker
	done   chan struct{}
}

// Scheduler manages named periodic callbacks. Ticks carry no real-time
// guarantee: callbacks losing the race with Deactivate are simply dropped,
// and a slow callback delays subsequent ticks (time.Ticker coalesces).
type Scheduler struct {
	mu   sync.Mutex
	subs map[string]*subscription
}

func NewScheduler() *Scheduler {
	return &Scheduler{subs: make(map[string]*subscription)}
}

// Activate starts a periodic callback under the given name. Activating an
// already-active name is a no-op.
func (s *Scheduler) Activate(name string, interval time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subs[name]; ok {
		return
	}

	sub := &subscription{
		ticker: time.NewTicker(interval),
		done:   make(chan struct{}),
	}
	s.subs[name] = sub

	go func() {
		for {
			select {
			case <-sub.done:
				return
			case <-sub.ticker.C:
				fn()
			}
		}
	}()
}

// Deactivate cancels the named subscription. Cancelling an inactive name
// is a no-op.
func (s *Scheduler) Deactivate(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deactivateLocked(name)
}

// Stop cancels every subscription.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for name := range s.subs {
		s.deactivateLocked(name)
	}
}

func (s *Scheduler) deactivateLocked(name string) {
	sub, ok := s.subs[name]
	if !ok {
		return
	}
	sub.ticker.Stop()
	close(sub.done)
	delete(s.subs, name)
}

// Active reports whether the named subscription is currently running.
func (s *Scheduler) Active(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.subs[name]
	return ok
}
