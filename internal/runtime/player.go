package runtime

import (
	"log/slog"
	"sync"
	"time"

	"github.com/framelight/framelight/internal/logging"
	"github.com/framelight/framelight/pkg/domain"
	"github.com/framelight/framelight/pkg/ports"
)

var _ ports.Player = (*Player)(nil)

// Metrics receives playback counters. The observability package provides a
// Prometheus-backed implementation; the default is a no-op.
type Metrics interface {
	Navigation()
	OverlayOpened()
	OverlayClosed()
	Trigger(trigger string)
	DelayFired()
}

type nopMetrics struct{}

func (nopMetrics) Navigation()    {}
func (nopMetrics) OverlayOpened() {}
func (nopMetrics) OverlayClosed() {}
func (nopMetrics) Trigger(string) {}
func (nopMetrics) DelayFired()    {}

// Player drives one playback session: navigation history, overlay stack,
// variable store, delay timers, and interaction dispatch.
//
// The state snapshot is copy-on-write: every mutation clones the current
// snapshot, applies the change, and publishes the clone atomically under
// the player lock. Hooks fire after publication, outside the lock, in the
// order the side effects occurred. The player is the snapshot's sole
// writer; anything handed out through Snapshot is safe to retain and read.
type Player struct {
	mu     sync.Mutex
	state  *domain.PrototypeState
	closed bool

	frames       map[string]domain.Frame
	interactions map[string][]domain.Interaction
	variables    []domain.Variable

	sched   *scheduler
	hooks   domain.PlaybackHooks
	metrics Metrics
	logger  *slog.Logger
}

// Option configures a Player.
type Option func(*Player)

// WithHooks registers the output callbacks for the rendering collaborator.
func WithHooks(hooks domain.PlaybackHooks) Option {
	return func(p *Player) {
		p.hooks = hooks
	}
}

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Player) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithMetrics wires a playback metrics sink.
func WithMetrics(m Metrics) Option {
	return func(p *Player) {
		if m != nil {
			p.metrics = m
		}
	}
}

// WithAfterFunc replaces the timer source. Tests use a manual clock.
func WithAfterFunc(after AfterFunc) Option {
	return func(p *Player) {
		p.sched = newScheduler(after)
	}
}

// NewPlayer creates a playback session positioned at startFrameID.
// Delay interactions registered on the start frame are armed once
// registration happens (RegisterInteractions re-arms for the current frame).
func NewPlayer(startFrameID string, opts ...Option) *Player {
	p := &Player{
		state:        domain.NewState(startFrameID),
		frames:       make(map[string]domain.Frame),
		interactions: make(map[string][]domain.Interaction),
		metrics:      nopMetrics{},
		logger:       logging.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.sched == nil {
		p.sched = newScheduler(nil)
	}
	return p
}

// RegisterFrame records frame metadata for query surfaces.
func (p *Player) RegisterFrame(frame domain.Frame) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.frames[frame.ID] = frame
}

// RegisterInteractions replaces the interaction set for a frame. If the
// frame is currently active, its after-delay interactions are armed so that
// a freshly started player behaves like one that just navigated in.
func (p *Player) RegisterInteractions(frameID string, interactions []domain.Interaction) {
	p.mu.Lock()
	defer p.mu.Unlock()

	rules := make([]domain.Interaction, len(interactions))
	copy(rules, interactions)
	p.interactions[frameID] = rules

	if !p.closed && p.state.CurrentFrameID == frameID {
		p.armDelaysLocked(frameID)
	}
}

// RegisterVariables declares the prototype variables and seeds the current
// snapshot with their defaults.
func (p *Player) RegisterVariables(vars []domain.Variable) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.variables = make([]domain.Variable, len(vars))
	copy(p.variables, vars)

	next := p.state.Clone()
	for _, v := range p.variables {
		if v.Default != nil {
			next.Variables[v.Name] = domain.CoerceValue(v.Type, v.Default)
		}
	}
	p.state = next
}

// NavigateTo appends a history entry and makes frameID current. Repeated
// navigation to the same frame is legal and produces duplicate entries
// (revisit semantics). Arms the new frame's delay interactions.
func (p *Player) NavigateTo(frameID string, transition domain.TransitionConfig) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	emit := p.navigateLocked(frameID, transition)
	p.mu.Unlock()
	runAll(emit)
}

// SwapTo replaces the last history entry instead of pushing, so back-stack
// depth does not grow. With an empty history it behaves like a fresh append.
func (p *Player) SwapTo(frameID string, transition domain.TransitionConfig) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	emit := p.swapLocked(frameID, transition)
	p.mu.Unlock()
	runAll(emit)
}

// GoBack pops the last history entry. No-op when CanGoBack is false.
// Back navigation does not re-arm delayed interactions on the frame being
// returned to; only forward navigation arms timers.
func (p *Player) GoBack(transition domain.TransitionConfig) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	emit := p.goBackLocked(transition)
	p.mu.Unlock()
	runAll(emit)
}

// Reset cancels every pending timer and returns playback to startFrameID
// with a single-entry history, no overlays, no recorded scroll positions,
// and variables restored to their registered defaults.
func (p *Player) Reset(startFrameID string) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.sched.cancelAll()

	next := domain.NewState(startFrameID)
	for _, v := range p.variables {
		if v.Default != nil {
			next.Variables[v.Name] = domain.CoerceValue(v.Type, v.Default)
		}
	}
	p.state = next
	p.armDelaysLocked(startFrameID)

	emit := p.emitNavigate(startFrameID, domain.TransitionConfig{})
	p.mu.Unlock()
	runAll(emit)
}

// OpenOverlay pushes an overlay frame. Navigation history is untouched.
func (p *Player) OpenOverlay(frameID string, settings domain.OverlaySettings, transition domain.TransitionConfig) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	emit := p.openOverlayLocked(frameID, settings, transition)
	p.mu.Unlock()
	runAll(emit)
}

// CloseTopOverlay pops the most recent overlay. No-op on an empty stack.
func (p *Player) CloseTopOverlay(transition domain.TransitionConfig) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	emit := p.closeTopOverlayLocked(transition)
	p.mu.Unlock()
	runAll(emit)
}

// CloseAllOverlays pops every overlay, notifying once per overlay in
// reverse (LIFO) order before the stack is cleared.
func (p *Player) CloseAllOverlays() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	emit := p.closeAllOverlaysLocked()
	p.mu.Unlock()
	runAll(emit)
}

// HandleTrigger dispatches all interactions registered for the (frame,
// trigger) pair in registration order, synchronously, with no
// short-circuiting between them.
func (p *Player) HandleTrigger(frameID string, trigger domain.Trigger) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.metrics.Trigger(string(trigger))

	// Snapshot the batch first: an action may replace the registered set
	// mid-batch, but the batch that was matched still runs to completion.
	var batch []domain.Interaction
	for _, it := range p.interactions[frameID] {
		if it.Trigger == trigger {
			batch = append(batch, it)
		}
	}

	var emit []func()
	for _, it := range batch {
		emit = append(emit, p.executeLocked(it)...)
	}
	p.mu.Unlock()
	runAll(emit)
}

// SetVariable writes a prototype variable, coercing the value to the
// declared type when the variable is declared.
func (p *Player) SetVariable(key string, value any) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	emit := p.setVariableLocked(key, value)
	p.mu.Unlock()
	runAll(emit)
}

// RecordScroll stores the scroll offset for a frame.
func (p *Player) RecordScroll(frameID string, offset domain.Offset) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	emit := p.recordScrollLocked(frameID, offset)
	p.mu.Unlock()
	runAll(emit)
}

// Pause stops playback and cancels all pending delay timers outright.
// Play does not re-arm them; only a fresh navigation into a frame does.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || !p.state.Playing {
		return
	}
	p.sched.cancelAll()
	next := p.state.Clone()
	next.Playing = false
	p.state = next
}

// Play resumes playback.
func (p *Player) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || p.state.Playing {
		return
	}
	next := p.state.Clone()
	next.Playing = true
	p.state = next
}

// Close disposes the player. Every pending timer is cancelled so that no
// callback can mutate a dead session; all further calls are no-ops.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	p.sched.cancelAll()
}

// Restore replaces the snapshot, for resuming a persisted session. Pending
// timers are not re-armed: resume follows the same rule as Play.
func (p *Player) Restore(state *domain.PrototypeState) {
	if state == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.state = state.Clone()
}

// Snapshot returns the current state. Snapshots are never mutated after
// publication, so the returned value is safe to retain and read.
func (p *Player) Snapshot() *domain.PrototypeState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// CurrentFrameID returns the active frame.
func (p *Player) CurrentFrameID() string {
	return p.Snapshot().CurrentFrameID
}

// CanGoBack reports whether a back navigation would change state.
func (p *Player) CanGoBack() bool {
	return p.Snapshot().CanGoBack()
}

// Overlays returns the open overlay stack, bottom first.
func (p *Player) Overlays() []domain.OverlayState {
	return p.Snapshot().Overlays
}

// HasOverlays reports whether any overlay is open.
func (p *Player) HasOverlays() bool {
	return p.Snapshot().HasOverlays()
}

// Variable reads a prototype variable.
func (p *Player) Variable(key string) (any, bool) {
	v, ok := p.Snapshot().Variables[key]
	return v, ok
}

// Interactions returns the interactions registered for a frame.
func (p *Player) Interactions(frameID string) []domain.Interaction {
	p.mu.Lock()
	defer p.mu.Unlock()
	rules := make([]domain.Interaction, len(p.interactions[frameID]))
	copy(rules, p.interactions[frameID])
	return rules
}

// Frame returns registered frame metadata.
func (p *Player) Frame(frameID string) (domain.Frame, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	f, ok := p.frames[frameID]
	return f, ok
}

// PendingTimers reports the number of live delay timers.
func (p *Player) PendingTimers() int {
	return p.sched.pending()
}

// --- locked mutation internals ---
//
// Each *Locked method rebuilds the snapshot, publishes it, and returns the
// hook emissions to run after the lock is released.

func (p *Player) navigateLocked(frameID string, transition domain.TransitionConfig) []func() {
	next := p.state.Clone()
	next.History = append(next.History, domain.NavigationEntry{
		FrameID:    frameID,
		Timestamp:  time.Now(),
		Transition: transition,
	})
	next.CurrentFrameID = frameID
	p.state = next

	p.metrics.Navigation()
	p.armDelaysLocked(frameID)
	p.logger.Debug("navigate", "frame", frameID)
	return p.emitNavigate(frameID, transition)
}

func (p *Player) swapLocked(frameID string, transition domain.TransitionConfig) []func() {
	next := p.state.Clone()
	if len(next.History) > 0 {
		next.History = next.History[:len(next.History)-1]
	}
	next.History = append(next.History, domain.NavigationEntry{
		FrameID:    frameID,
		Timestamp:  time.Now(),
		Transition: transition,
	})
	next.CurrentFrameID = frameID
	p.state = next

	p.metrics.Navigation()
	p.armDelaysLocked(frameID)
	p.logger.Debug("swap", "frame", frameID)
	return p.emitNavigate(frameID, transition)
}

func (p *Player) goBackLocked(transition domain.TransitionConfig) []func() {
	if !p.state.CanGoBack() {
		return nil
	}
	next := p.state.Clone()
	next.History = next.History[:len(next.History)-1]
	next.CurrentFrameID = next.History[len(next.History)-1].FrameID
	p.state = next

	p.metrics.Navigation()
	p.logger.Debug("back", "frame", next.CurrentFrameID)
	return p.emitNavigate(next.CurrentFrameID, transition)
}

func (p *Player) openOverlayLocked(frameID string, settings domain.OverlaySettings, transition domain.TransitionConfig) []func() {
	overlay := domain.OverlayState{FrameID: frameID, Settings: settings, Transition: transition}
	next := p.state.Clone()
	next.Overlays = append(next.Overlays, overlay)
	p.state = next

	p.metrics.OverlayOpened()
	p.logger.Debug("overlay opened", "frame", frameID)
	if p.hooks.OnOpenOverlay == nil {
		return nil
	}
	hook := p.hooks.OnOpenOverlay
	return []func(){func() { hook(overlay) }}
}

func (p *Player) closeTopOverlayLocked(domain.TransitionConfig) []func() {
	top, ok := p.state.TopOverlay()
	if !ok {
		return nil
	}
	next := p.state.Clone()
	next.Overlays = next.Overlays[:len(next.Overlays)-1]
	if len(next.Overlays) == 0 {
		next.Overlays = nil
	}
	p.state = next

	p.metrics.OverlayClosed()
	p.logger.Debug("overlay closed", "frame", top.FrameID)
	if p.hooks.OnCloseOverlay == nil {
		return nil
	}
	hook := p.hooks.OnCloseOverlay
	return []func(){func() { hook(top) }}
}

func (p *Player) closeAllOverlaysLocked() []func() {
	open := p.state.Overlays
	if len(open) == 0 {
		return nil
	}
	next := p.state.Clone()
	next.Overlays = nil
	p.state = next

	var emit []func()
	for i := len(open) - 1; i >= 0; i-- {
		p.metrics.OverlayClosed()
		if p.hooks.OnCloseOverlay != nil {
			hook := p.hooks.OnCloseOverlay
			overlay := open[i]
			emit = append(emit, func() { hook(overlay) })
		}
	}
	return emit
}

func (p *Player) setVariableLocked(key string, value any) []func() {
	for _, v := range p.variables {
		if v.Name == key {
			value = domain.CoerceValue(v.Type, value)
			break
		}
	}
	next := p.state.Clone()
	next.Variables[key] = value
	p.state = next

	if p.hooks.OnVariableChange == nil {
		return nil
	}
	hook := p.hooks.OnVariableChange
	return []func(){func() { hook(key, value) }}
}

func (p *Player) recordScrollLocked(frameID string, offset domain.Offset) []func() {
	next := p.state.Clone()
	next.ScrollPositions[frameID] = offset
	p.state = next

	if p.hooks.OnScroll == nil {
		return nil
	}
	hook := p.hooks.OnScroll
	return []func(){func() { hook(frameID, offset) }}
}

// executeLocked maps one interaction to its state mutation. Malformed
// rules are dropped without error: a broken link in a visual prototype
// must degrade to "nothing happens", never to a crash.
func (p *Player) executeLocked(it domain.Interaction) []func() {
	switch it.Action {
	case domain.ActionNavigate:
		if it.Destination == "" {
			p.logger.Debug("dropping navigate without destination", "interaction", it.ID)
			return nil
		}
		return p.navigateLocked(it.Destination, it.Transition)

	case domain.ActionSwap:
		if it.Destination == "" {
			p.logger.Debug("dropping swap without destination", "interaction", it.ID)
			return nil
		}
		return p.swapLocked(it.Destination, it.Transition)

	case domain.ActionBack:
		return p.goBackLocked(it.Transition)

	case domain.ActionOpenOverlay:
		if it.Destination == "" {
			p.logger.Debug("dropping overlay without destination", "interaction", it.ID)
			return nil
		}
		settings := domain.OverlaySettings{Position: domain.OverlayCenter}
		if it.Overlay != nil {
			settings = *it.Overlay
		}
		return p.openOverlayLocked(it.Destination, settings, it.Transition)

	case domain.ActionCloseOverlay:
		return p.closeTopOverlayLocked(it.Transition)

	case domain.ActionCloseAllOverlays:
		return p.closeAllOverlaysLocked()

	case domain.ActionScrollTo:
		if it.Scroll == nil {
			p.logger.Debug("dropping scroll without settings", "interaction", it.ID)
			return nil
		}
		target := it.Destination
		if target == "" {
			target = p.state.CurrentFrameID
		}
		return p.recordScrollLocked(target, it.Scroll.Offset)

	case domain.ActionOpenURL:
		if it.URL == "" {
			p.logger.Debug("dropping external link without url", "interaction", it.ID)
			return nil
		}
		if p.hooks.OnExternalLink == nil {
			return nil
		}
		hook := p.hooks.OnExternalLink
		url := it.URL
		return []func(){func() { hook(url) }}

	case domain.ActionSetVariable:
		if it.Variable == nil || it.Variable.Key == "" {
			p.logger.Debug("dropping variable mutation without key", "interaction", it.ID)
			return nil
		}
		return p.setVariableLocked(it.Variable.Key, it.Variable.Value)

	case domain.ActionConditional:
		if it.Conditional == nil {
			p.logger.Debug("dropping conditional without branches", "interaction", it.ID)
			return nil
		}
		dest := it.Conditional.Else
		if it.Conditional.If.Evaluate(p.state.Variables) {
			dest = it.Conditional.Then
		}
		if dest == "" {
			return nil
		}
		return p.navigateLocked(dest, it.Transition)

	default:
		p.logger.Debug("dropping unknown action", "interaction", it.ID, "action", it.Action)
		return nil
	}
}

// armDelaysLocked arms one timer per after-delay interaction on the frame.
// The fire-time guard, not arming time, decides whether the action runs:
// timers for a frame being left are neutralized by the guard rather than
// cancelled on navigate-away.
func (p *Player) armDelaysLocked(frameID string) {
	for _, it := range p.interactions[frameID] {
		if it.Trigger != domain.TriggerAfterDelay {
			continue
		}
		it := it
		p.sched.arm(it.ID, it.Delay, func() {
			p.fireDelayed(frameID, it)
		})
	}
}

// fireDelayed runs an after-delay interaction when its timer elapses.
// Both guard conditions are re-checked atomically under the lock at fire
// time: the arming frame must still be current, and playback must be live.
func (p *Player) fireDelayed(armedFrame string, it domain.Interaction) {
	p.mu.Lock()
	if p.closed || !p.state.Playing || p.state.CurrentFrameID != armedFrame {
		p.logger.Debug("delay timer ignored", "interaction", it.ID, "armed", armedFrame, "current", p.state.CurrentFrameID)
		p.mu.Unlock()
		return
	}
	p.metrics.DelayFired()
	emit := p.executeLocked(it)
	p.mu.Unlock()
	runAll(emit)
}

func (p *Player) emitNavigate(frameID string, transition domain.TransitionConfig) []func() {
	if p.hooks.OnNavigate == nil {
		return nil
	}
	hook := p.hooks.OnNavigate
	return []func(){func() { hook(frameID, transition) }}
}

func runAll(fns []func()) {
	for _, fn := range fns {
		fn()
	}
}
