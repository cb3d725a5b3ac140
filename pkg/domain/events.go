package domain

// PlaybackHooks are the output callbacks the rendering collaborator
// subscribes to. The player invokes them after the new state snapshot has
// been published, outside its internal lock, in the order the side effects
// occurred. Nil members are skipped.
type PlaybackHooks struct {
	// OnNavigate fires on every forward, swap, and back navigation.
	OnNavigate func(frameID string, transition TransitionConfig)

	// OnOpenOverlay and OnCloseOverlay fire once per overlay affected.
	// CloseAllOverlays reports each overlay in reverse (LIFO) order.
	OnOpenOverlay  func(overlay OverlayState)
	OnCloseOverlay func(overlay OverlayState)

	// OnVariableChange fires after a variable write, with the coerced value.
	OnVariableChange func(key string, value any)

	// OnExternalLink asks the host to open a URL. The player itself never
	// performs I/O.
	OnExternalLink func(url string)

	// OnScroll fires when a scroll position is recorded for a frame.
	OnScroll func(frameID string, offset Offset)
}
