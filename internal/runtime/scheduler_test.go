package runtime_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/framelight/framelight/internal/runtime"
	"github.com/framelight/framelight/pkg/domain"
)

// manualClock is a deterministic AfterFunc: timers fire only when the test
// advances virtual time.
type manualClock struct {
	mu     sync.Mutex
	now    time.Duration
	seq    int
	timers map[int]*manualTimer
}

type manualTimer struct {
	deadline time.Duration
	fn       func()
}

func newManualClock() *manualClock {
	return &manualClock{timers: make(map[int]*manualTimer)}
}

func (c *manualClock) After(d time.Duration, fn func()) (cancel func() bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	id := c.seq
	c.timers[id] = &manualTimer{deadline: c.now + d, fn: fn}
	return func() bool {
		c.mu.Lock()
		defer c.mu.Unlock()
		_, live := c.timers[id]
		delete(c.timers, id)
		return live
	}
}

// Advance moves virtual time forward and fires due timers in deadline order.
func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	var due []func()
	for {
		bestID, best := 0, (*manualTimer)(nil)
		for id, t := range c.timers {
			if t.deadline <= c.now && (best == nil || t.deadline < best.deadline) {
				bestID, best = id, t
			}
		}
		if best == nil {
			break
		}
		delete(c.timers, bestID)
		due = append(due, best.fn)
	}
	c.mu.Unlock()

	for _, fn := range due {
		fn()
	}
}

func delayedNavigation(id, dest string, delay time.Duration) domain.Interaction {
	return domain.Interaction{
		ID:          id,
		Trigger:     domain.TriggerAfterDelay,
		Action:      domain.ActionNavigate,
		Destination: dest,
		Delay:       delay,
	}
}

func TestScheduler_DelayFiresOnCurrentFrame(t *testing.T) {
	clock := newManualClock()
	p := runtime.NewPlayer("splash", runtime.WithAfterFunc(clock.After))
	defer p.Close()

	p.RegisterInteractions("splash", []domain.Interaction{
		delayedNavigation("d1", "login", 500*time.Millisecond),
	})
	require.Equal(t, 1, p.PendingTimers())

	clock.Advance(500 * time.Millisecond)

	assert.Equal(t, "login", p.CurrentFrameID())
	assert.Zero(t, p.PendingTimers())
}

func TestScheduler_NavigateAwayNeutralizesTimer(t *testing.T) {
	clock := newManualClock()
	p := runtime.NewPlayer("splash", runtime.WithAfterFunc(clock.After))
	defer p.Close()

	p.RegisterInteractions("splash", []domain.Interaction{
		delayedNavigation("d1", "login", 500*time.Millisecond),
	})

	// Leave before the delay elapses. The timer still fires, but the
	// fire-time guard must reject it.
	p.NavigateTo("settings", domain.TransitionConfig{})
	clock.Advance(time.Second)

	assert.Equal(t, "settings", p.CurrentFrameID())
}

func TestScheduler_PauseCancelsOutright(t *testing.T) {
	clock := newManualClock()
	p := runtime.NewPlayer("splash", runtime.WithAfterFunc(clock.After))
	defer p.Close()

	p.RegisterInteractions("splash", []domain.Interaction{
		delayedNavigation("d1", "login", 500*time.Millisecond),
	})

	p.Pause()
	assert.Zero(t, p.PendingTimers())

	clock.Advance(time.Second)
	assert.Equal(t, "splash", p.CurrentFrameID())

	// Resuming does not retroactively fire or re-arm.
	p.Play()
	clock.Advance(time.Second)
	assert.Equal(t, "splash", p.CurrentFrameID())
	assert.Zero(t, p.PendingTimers())
}

func TestScheduler_RenavigationReplacesTimer(t *testing.T) {
	clock := newManualClock()
	p := runtime.NewPlayer("splash", runtime.WithAfterFunc(clock.After))
	defer p.Close()

	p.RegisterInteractions("splash", []domain.Interaction{
		delayedNavigation("d1", "login", 500*time.Millisecond),
	})

	// Re-entering the frame re-arms the same interaction; the timer table
	// is keyed by interaction ID, so the count must not grow.
	p.NavigateTo("splash", domain.TransitionConfig{})
	p.NavigateTo("splash", domain.TransitionConfig{})
	assert.Equal(t, 1, p.PendingTimers())

	clock.Advance(500 * time.Millisecond)
	assert.Equal(t, "login", p.CurrentFrameID())
}

func TestScheduler_BackDoesNotRearm(t *testing.T) {
	clock := newManualClock()
	p := runtime.NewPlayer("splash", runtime.WithAfterFunc(clock.After))
	defer p.Close()

	p.RegisterInteractions("splash", []domain.Interaction{
		delayedNavigation("d1", "login", 500*time.Millisecond),
	})

	p.NavigateTo("settings", domain.TransitionConfig{})
	clock.Advance(time.Second) // original timer fires into the guard
	require.Equal(t, "settings", p.CurrentFrameID())

	p.GoBack(domain.TransitionConfig{})
	require.Equal(t, "splash", p.CurrentFrameID())

	// Back navigation re-enters splash without arming its delay.
	assert.Zero(t, p.PendingTimers())
	clock.Advance(time.Second)
	assert.Equal(t, "splash", p.CurrentFrameID())
}

func TestScheduler_ChainedDelays(t *testing.T) {
	clock := newManualClock()
	p := runtime.NewPlayer("one", runtime.WithAfterFunc(clock.After))
	defer p.Close()

	p.RegisterInteractions("one", []domain.Interaction{
		delayedNavigation("d1", "two", 100*time.Millisecond),
	})
	p.RegisterInteractions("two", []domain.Interaction{
		delayedNavigation("d2", "three", 100*time.Millisecond),
	})

	// Arriving on "two" via the first timer must arm the second.
	clock.Advance(100 * time.Millisecond)
	require.Equal(t, "two", p.CurrentFrameID())

	clock.Advance(100 * time.Millisecond)
	assert.Equal(t, "three", p.CurrentFrameID())
}

func TestScheduler_CloseCancelsEverything(t *testing.T) {
	clock := newManualClock()
	p := runtime.NewPlayer("splash", runtime.WithAfterFunc(clock.After))

	p.RegisterInteractions("splash", []domain.Interaction{
		delayedNavigation("d1", "login", 500*time.Millisecond),
	})
	require.Equal(t, 1, p.PendingTimers())

	p.Close()
	assert.Zero(t, p.PendingTimers())

	clock.Advance(time.Second)
	assert.Equal(t, "splash", p.CurrentFrameID())
}

func TestScheduler_RealTimersFire(t *testing.T) {
	// One test with the real clock to cover the time.AfterFunc path.
	done := make(chan string, 1)
	p := runtime.NewPlayer("splash", runtime.WithHooks(domain.PlaybackHooks{
		OnNavigate: func(frameID string, _ domain.TransitionConfig) { done <- frameID },
	}))
	defer p.Close()

	p.RegisterInteractions("splash", []domain.Interaction{
		delayedNavigation("d1", "login", 10*time.Millisecond),
	})

	select {
	case frame := <-done:
		assert.Equal(t, "login", frame)
	case <-time.After(2 * time.Second):
		t.Fatal("delayed navigation never fired")
	}
}
