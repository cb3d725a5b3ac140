package dsl

import (
	"fmt"
	"time"

	"github.com/framelight/framelight/pkg/domain"
)

// FrameBuilder provides a fluent API for configuring a frame.
type FrameBuilder struct {
	frame        domain.Frame
	interactions []domain.Interaction
	builder      *Builder
	seq          int
}

// Named sets the frame's display name.
func (f *FrameBuilder) Named(name string) *FrameBuilder {
	f.frame.Name = name
	return f
}

// Sized sets the device preview dimensions.
func (f *FrameBuilder) Sized(width, height float64) *FrameBuilder {
	f.frame.Width = width
	f.frame.Height = height
	return f
}

// Content sets the frame's markdown description for headless hosts.
func (f *FrameBuilder) Content(markdown string) *FrameBuilder {
	f.frame.Content = markdown
	return f
}

// Background sets the frame's background hex color.
func (f *FrameBuilder) Background(hex string) *FrameBuilder {
	f.frame.Background = hex
	return f
}

// On starts an interaction for the given trigger.
func (f *FrameBuilder) On(trigger domain.Trigger) *InteractionBuilder {
	return &InteractionBuilder{frame: f, trigger: trigger}
}

// AfterDelay starts an after-delay interaction.
func (f *FrameBuilder) AfterDelay(d time.Duration) *InteractionBuilder {
	return &InteractionBuilder{frame: f, trigger: domain.TriggerAfterDelay, delay: d}
}

func (f *FrameBuilder) add(it domain.Interaction) *FrameBuilder {
	f.seq++
	if it.ID == "" {
		it.ID = fmt.Sprintf("%s/%d", f.frame.ID, f.seq)
	}
	f.interactions = append(f.interactions, it)
	return f
}

// InteractionBuilder configures the action half of an interaction.
type InteractionBuilder struct {
	frame      *FrameBuilder
	trigger    domain.Trigger
	delay      time.Duration
	transition domain.TransitionConfig
	id         string
}

// ID overrides the auto-generated interaction ID.
func (i *InteractionBuilder) ID(id string) *InteractionBuilder {
	i.id = id
	return i
}

// Animated sets the transition used by the terminal action.
func (i *InteractionBuilder) Animated(cfg domain.TransitionConfig) *InteractionBuilder {
	i.transition = cfg
	return i
}

func (i *InteractionBuilder) base(action domain.ActionType) domain.Interaction {
	return domain.Interaction{
		ID:         i.id,
		Trigger:    i.trigger,
		Action:     action,
		Delay:      i.delay,
		Transition: i.transition,
	}
}

// Navigate finishes the interaction with a forward navigation.
func (i *InteractionBuilder) Navigate(dest string) *FrameBuilder {
	it := i.base(domain.ActionNavigate)
	it.Destination = dest
	return i.frame.add(it)
}

// Swap finishes the interaction with an in-place swap.
func (i *InteractionBuilder) Swap(dest string) *FrameBuilder {
	it := i.base(domain.ActionSwap)
	it.Destination = dest
	return i.frame.add(it)
}

// Back finishes the interaction with a back navigation.
func (i *InteractionBuilder) Back() *FrameBuilder {
	return i.frame.add(i.base(domain.ActionBack))
}

// OpenOverlay finishes the interaction by opening dest as an overlay.
func (i *InteractionBuilder) OpenOverlay(dest string, settings domain.OverlaySettings) *FrameBuilder {
	it := i.base(domain.ActionOpenOverlay)
	it.Destination = dest
	it.Overlay = &settings
	return i.frame.add(it)
}

// CloseOverlay finishes the interaction by closing the top overlay.
func (i *InteractionBuilder) CloseOverlay() *FrameBuilder {
	return i.frame.add(i.base(domain.ActionCloseOverlay))
}

// CloseAllOverlays finishes the interaction by clearing the overlay stack.
func (i *InteractionBuilder) CloseAllOverlays() *FrameBuilder {
	return i.frame.add(i.base(domain.ActionCloseAllOverlays))
}

// OpenURL finishes the interaction with an external link.
func (i *InteractionBuilder) OpenURL(url string) *FrameBuilder {
	it := i.base(domain.ActionOpenURL)
	it.URL = url
	return i.frame.add(it)
}

// Set finishes the interaction with a variable mutation.
func (i *InteractionBuilder) Set(key string, value any) *FrameBuilder {
	it := i.base(domain.ActionSetVariable)
	it.Variable = &domain.VariableMutation{Key: key, Value: value}
	return i.frame.add(it)
}

// ScrollTo finishes the interaction by recording a scroll offset on the
// current frame.
func (i *InteractionBuilder) ScrollTo(offset domain.Offset) *FrameBuilder {
	it := i.base(domain.ActionScrollTo)
	it.Scroll = &domain.ScrollSettings{Offset: offset, Animate: true}
	return i.frame.add(it)
}

// When finishes the interaction with a conditional branch.
func (i *InteractionBuilder) When(group domain.ConditionGroup, then, otherwise string) *FrameBuilder {
	it := i.base(domain.ActionConditional)
	it.Conditional = &domain.ConditionalAction{If: group, Then: then, Else: otherwise}
	return i.frame.add(it)
}
