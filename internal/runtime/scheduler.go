package runtime

import (
	"sync"
	"time"
)

// AfterFunc schedules fn to run after d and returns a cancel function.
// The default implementation wraps time.AfterFunc; tests inject a manual
// clock to advance virtual time deterministically.
type AfterFunc func(d time.Duration, fn func()) (cancel func() bool)

func stdAfter(d time.Duration, fn func()) (cancel func() bool) {
	t := time.AfterFunc(d, fn)
	return t.Stop
}

// scheduler is the player's explicit timer table. Timers are keyed by
// interaction ID, so re-arming the same interaction replaces its timer
// instead of duplicating it. Every terminal transition of the player
// (pause, reset, close) converges on cancelAll.
type scheduler struct {
	mu     sync.Mutex
	after  AfterFunc
	timers map[string]func() bool
}

func newScheduler(after AfterFunc) *scheduler {
	if after == nil {
		after = stdAfter
	}
	return &scheduler{
		after:  after,
		timers: make(map[string]func() bool),
	}
}

// arm schedules fire after d, replacing any live timer with the same key.
func (s *scheduler) arm(key string, d time.Duration, fire func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cancel, ok := s.timers[key]; ok {
		cancel()
	}
	s.timers[key] = s.after(d, func() {
		s.forget(key)
		fire()
	})
}

func (s *scheduler) forget(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.timers, key)
}

// cancelAll stops every live timer and clears the registry.
func (s *scheduler) cancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, cancel := range s.timers {
		cancel()
		delete(s.timers, key)
	}
}

// pending returns the number of live timers. Used by tests and introspection.
func (s *scheduler) pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}
