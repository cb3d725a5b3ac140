package runtime_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/framelight/framelight/internal/runtime"
	"github.com/framelight/framelight/pkg/domain"
)

func historyIDs(state *domain.PrototypeState) []string {
	ids := make([]string, len(state.History))
	for i, e := range state.History {
		ids[i] = e.FrameID
	}
	return ids
}

func TestPlayer_NavigationHistory(t *testing.T) {
	t.Run("navigate appends and sets current", func(t *testing.T) {
		p := runtime.NewPlayer("home")
		defer p.Close()

		p.NavigateTo("detail", domain.TransitionConfig{})

		state := p.Snapshot()
		assert.Equal(t, "detail", state.CurrentFrameID)
		assert.Equal(t, []string{"home", "detail"}, historyIDs(state))
	})

	t.Run("revisit pushes duplicate entries", func(t *testing.T) {
		p := runtime.NewPlayer("home")
		defer p.Close()

		p.NavigateTo("home", domain.TransitionConfig{})
		p.NavigateTo("home", domain.TransitionConfig{})

		assert.Equal(t, []string{"home", "home", "home"}, historyIDs(p.Snapshot()))
	})

	t.Run("current always equals last history entry", func(t *testing.T) {
		p := runtime.NewPlayer("a")
		defer p.Close()

		p.NavigateTo("b", domain.TransitionConfig{})
		p.SwapTo("c", domain.TransitionConfig{})
		p.GoBack(domain.TransitionConfig{})
		p.NavigateTo("d", domain.TransitionConfig{})

		state := p.Snapshot()
		require.NotEmpty(t, state.History)
		assert.Equal(t, state.History[len(state.History)-1].FrameID, state.CurrentFrameID)
	})
}

func TestPlayer_SwapDoesNotGrowHistory(t *testing.T) {
	p := runtime.NewPlayer("home")
	defer p.Close()

	before := len(p.Snapshot().History)
	p.NavigateTo("a", domain.TransitionConfig{})
	p.SwapTo("b", domain.TransitionConfig{})

	state := p.Snapshot()
	assert.Equal(t, before+1, len(state.History))
	assert.Equal(t, "b", state.CurrentFrameID)
	assert.Equal(t, []string{"home", "b"}, historyIDs(state))
}

func TestPlayer_GoBack(t *testing.T) {
	t.Run("pops to previous frame", func(t *testing.T) {
		p := runtime.NewPlayer("home")
		defer p.Close()

		p.NavigateTo("detail", domain.TransitionConfig{})
		require.True(t, p.CanGoBack())

		p.GoBack(domain.TransitionConfig{})
		assert.Equal(t, "home", p.CurrentFrameID())
		assert.False(t, p.CanGoBack())
	})

	t.Run("no-op with single entry", func(t *testing.T) {
		p := runtime.NewPlayer("home")
		defer p.Close()

		before := p.Snapshot()
		p.GoBack(domain.TransitionConfig{})
		after := p.Snapshot()

		assert.Same(t, before, after, "a rejected back must not publish a new snapshot")
		assert.Equal(t, []string{"home"}, historyIDs(after))
	})
}

func TestPlayer_OverlayStack(t *testing.T) {
	t.Run("close pops most recent only", func(t *testing.T) {
		var closed []string
		p := runtime.NewPlayer("home", runtime.WithHooks(domain.PlaybackHooks{
			OnCloseOverlay: func(o domain.OverlayState) { closed = append(closed, o.FrameID) },
		}))
		defer p.Close()

		p.OpenOverlay("menu", domain.OverlaySettings{}, domain.TransitionConfig{})
		p.OpenOverlay("modal", domain.OverlaySettings{}, domain.TransitionConfig{})
		p.CloseTopOverlay(domain.TransitionConfig{})

		overlays := p.Overlays()
		require.Len(t, overlays, 1)
		assert.Equal(t, "menu", overlays[0].FrameID)
		assert.Equal(t, []string{"modal"}, closed)
	})

	t.Run("close all notifies in reverse order", func(t *testing.T) {
		var closed []string
		p := runtime.NewPlayer("home", runtime.WithHooks(domain.PlaybackHooks{
			OnCloseOverlay: func(o domain.OverlayState) { closed = append(closed, o.FrameID) },
		}))
		defer p.Close()

		p.OpenOverlay("a", domain.OverlaySettings{}, domain.TransitionConfig{})
		p.OpenOverlay("b", domain.OverlaySettings{}, domain.TransitionConfig{})
		p.OpenOverlay("c", domain.OverlaySettings{}, domain.TransitionConfig{})
		p.CloseAllOverlays()

		assert.False(t, p.HasOverlays())
		assert.Equal(t, []string{"c", "b", "a"}, closed)
	})

	t.Run("overlay ops never touch navigation", func(t *testing.T) {
		var navigations int
		p := runtime.NewPlayer("home", runtime.WithHooks(domain.PlaybackHooks{
			OnNavigate: func(string, domain.TransitionConfig) { navigations++ },
		}))
		defer p.Close()

		p.OpenOverlay("modal", domain.OverlaySettings{}, domain.TransitionConfig{})
		p.CloseTopOverlay(domain.TransitionConfig{})
		p.CloseAllOverlays()

		assert.Equal(t, "home", p.CurrentFrameID())
		assert.Zero(t, navigations)
		assert.Equal(t, []string{"home"}, historyIDs(p.Snapshot()))
	})

	t.Run("close on empty stack is a no-op", func(t *testing.T) {
		p := runtime.NewPlayer("home")
		defer p.Close()

		before := p.Snapshot()
		p.CloseTopOverlay(domain.TransitionConfig{})
		assert.Same(t, before, p.Snapshot())
	})
}

func TestPlayer_HandleTrigger(t *testing.T) {
	t.Run("click navigates", func(t *testing.T) {
		var navigated []string
		p := runtime.NewPlayer("home", runtime.WithHooks(domain.PlaybackHooks{
			OnNavigate: func(frameID string, _ domain.TransitionConfig) { navigated = append(navigated, frameID) },
		}))
		defer p.Close()

		p.RegisterInteractions("home", []domain.Interaction{
			{ID: "i1", Trigger: domain.TriggerClick, Action: domain.ActionNavigate, Destination: "detail"},
		})

		p.HandleTrigger("home", domain.TriggerClick)

		assert.Equal(t, "detail", p.CurrentFrameID())
		assert.Equal(t, []string{"home", "detail"}, historyIDs(p.Snapshot()))
		assert.Equal(t, []string{"detail"}, navigated)
	})

	t.Run("batch runs in registration order without short-circuit", func(t *testing.T) {
		var changes []string
		p := runtime.NewPlayer("home", runtime.WithHooks(domain.PlaybackHooks{
			OnVariableChange: func(key string, _ any) { changes = append(changes, key) },
		}))
		defer p.Close()

		p.RegisterInteractions("home", []domain.Interaction{
			{ID: "i1", Trigger: domain.TriggerClick, Action: domain.ActionSetVariable, Variable: &domain.VariableMutation{Key: "first", Value: 1}},
			{ID: "i2", Trigger: domain.TriggerClick, Action: domain.ActionNavigate, Destination: "away"},
			{ID: "i3", Trigger: domain.TriggerClick, Action: domain.ActionSetVariable, Variable: &domain.VariableMutation{Key: "second", Value: 2}},
		})

		p.HandleTrigger("home", domain.TriggerClick)

		// The navigation in the middle must not cancel the rest of the batch.
		assert.Equal(t, []string{"first", "second"}, changes)
		assert.Equal(t, "away", p.CurrentFrameID())
	})

	t.Run("malformed interactions are silent no-ops", func(t *testing.T) {
		p := runtime.NewPlayer("home")
		defer p.Close()

		p.RegisterInteractions("home", []domain.Interaction{
			{ID: "broken1", Trigger: domain.TriggerClick, Action: domain.ActionNavigate},           // no destination
			{ID: "broken2", Trigger: domain.TriggerClick, Action: domain.ActionOpenURL},            // no url
			{ID: "broken3", Trigger: domain.TriggerClick, Action: domain.ActionSetVariable},        // no mutation
			{ID: "broken4", Trigger: domain.TriggerClick, Action: domain.ActionType("teleport")},   // unknown
		})

		p.HandleTrigger("home", domain.TriggerClick)

		assert.Equal(t, "home", p.CurrentFrameID())
		assert.Equal(t, []string{"home"}, historyIDs(p.Snapshot()))
	})

	t.Run("trigger on non-matching frame does nothing", func(t *testing.T) {
		p := runtime.NewPlayer("home")
		defer p.Close()

		p.RegisterInteractions("other", []domain.Interaction{
			{ID: "i1", Trigger: domain.TriggerClick, Action: domain.ActionNavigate, Destination: "detail"},
		})

		p.HandleTrigger("home", domain.TriggerClick)
		assert.Equal(t, "home", p.CurrentFrameID())
	})

	t.Run("external link fires hook without state change", func(t *testing.T) {
		var opened []string
		p := runtime.NewPlayer("home", runtime.WithHooks(domain.PlaybackHooks{
			OnExternalLink: func(url string) { opened = append(opened, url) },
		}))
		defer p.Close()

		p.RegisterInteractions("home", []domain.Interaction{
			{ID: "i1", Trigger: domain.TriggerClick, Action: domain.ActionOpenURL, URL: "https://example.com"},
		})

		before := p.Snapshot()
		p.HandleTrigger("home", domain.TriggerClick)

		assert.Equal(t, []string{"https://example.com"}, opened)
		assert.Same(t, before, p.Snapshot())
	})
}

func TestPlayer_ConditionalAction(t *testing.T) {
	p := runtime.NewPlayer("gate")
	defer p.Close()

	p.RegisterVariables([]domain.Variable{
		{Name: "logged_in", Type: domain.VarBoolean, Default: false},
	})
	p.RegisterInteractions("gate", []domain.Interaction{
		{
			ID: "i1", Trigger: domain.TriggerClick, Action: domain.ActionConditional,
			Conditional: &domain.ConditionalAction{
				If: domain.ConditionGroup{Conditions: []domain.Condition{
					{Variable: "logged_in", Operator: domain.OpEquals, Value: true},
				}},
				Then: "dashboard",
				Else: "login",
			},
		},
	})

	p.HandleTrigger("gate", domain.TriggerClick)
	assert.Equal(t, "login", p.CurrentFrameID())

	p.NavigateTo("gate", domain.TransitionConfig{})
	p.SetVariable("logged_in", true)
	p.HandleTrigger("gate", domain.TriggerClick)
	assert.Equal(t, "dashboard", p.CurrentFrameID())
}

func TestPlayer_Variables(t *testing.T) {
	t.Run("set coerces to declared type", func(t *testing.T) {
		p := runtime.NewPlayer("home")
		defer p.Close()

		p.RegisterVariables([]domain.Variable{
			{Name: "count", Type: domain.VarNumber, Default: 0},
		})
		p.SetVariable("count", "42")

		v, ok := p.Variable("count")
		require.True(t, ok)
		assert.Equal(t, 42.0, v)
	})

	t.Run("reset restores defaults", func(t *testing.T) {
		p := runtime.NewPlayer("home")
		defer p.Close()

		p.RegisterVariables([]domain.Variable{
			{Name: "theme", Type: domain.VarString, Default: "light"},
		})
		p.SetVariable("theme", "dark")
		p.SetVariable("scratch", "kept-nowhere")

		p.Reset("home")

		v, _ := p.Variable("theme")
		assert.Equal(t, "light", v)
		_, ok := p.Variable("scratch")
		assert.False(t, ok, "undeclared variables do not survive reset")
	})
}

func TestPlayer_Reset(t *testing.T) {
	p := runtime.NewPlayer("home")
	defer p.Close()

	p.NavigateTo("a", domain.TransitionConfig{})
	p.OpenOverlay("modal", domain.OverlaySettings{}, domain.TransitionConfig{})
	p.RecordScroll("a", domain.Offset{Y: 120})
	p.Reset("home")

	state := p.Snapshot()
	assert.Equal(t, "home", state.CurrentFrameID)
	assert.Equal(t, []string{"home"}, historyIDs(state))
	assert.Empty(t, state.Overlays)
	assert.Empty(t, state.ScrollPositions)
	assert.True(t, state.Playing)
}

func TestPlayer_ScrollRecording(t *testing.T) {
	var scrolled []domain.Offset
	p := runtime.NewPlayer("feed", runtime.WithHooks(domain.PlaybackHooks{
		OnScroll: func(_ string, o domain.Offset) { scrolled = append(scrolled, o) },
	}))
	defer p.Close()

	p.RegisterInteractions("feed", []domain.Interaction{
		{ID: "i1", Trigger: domain.TriggerClick, Action: domain.ActionScrollTo,
			Scroll: &domain.ScrollSettings{Offset: domain.Offset{Y: 300}, Animate: true}},
	})
	p.HandleTrigger("feed", domain.TriggerClick)

	state := p.Snapshot()
	assert.Equal(t, domain.Offset{Y: 300}, state.ScrollPositions["feed"])
	assert.Equal(t, []domain.Offset{{Y: 300}}, scrolled)
}

func TestPlayer_ClosedIsInert(t *testing.T) {
	p := runtime.NewPlayer("home")
	p.RegisterInteractions("home", []domain.Interaction{
		{ID: "i1", Trigger: domain.TriggerClick, Action: domain.ActionNavigate, Destination: "detail"},
	})
	p.Close()

	p.NavigateTo("detail", domain.TransitionConfig{})
	p.HandleTrigger("home", domain.TriggerClick)
	p.SetVariable("x", 1)

	assert.Equal(t, "home", p.CurrentFrameID())
	assert.Zero(t, p.PendingTimers())
}
