package domain

import "time"

// Offset is a 2D scroll or placement offset in logical pixels.
type Offset struct {
	X float64 `json:"x" yaml:"x" mapstructure:"x"`
	Y float64 `json:"y" yaml:"y" mapstructure:"y"`
}

// NavigationEntry records one visited frame. Entries are immutable once
// appended; the history is truncated only by back and swap operations.
type NavigationEntry struct {
	FrameID    string           `json:"frameId"`
	Timestamp  time.Time        `json:"timestamp"`
	Transition TransitionConfig `json:"transition,omitempty"`
}

// PrototypeState is the aggregate playback snapshot. Every mutation in the
// player replaces the snapshot wholesale, so a snapshot handed to an
// observer is always internally consistent and safe to retain.
//
// Invariants maintained by the player:
//   - History is never empty while the player is alive.
//   - CurrentFrameID equals the FrameID of the last history entry.
//   - Overlay operations never change CurrentFrameID or History.
type PrototypeState struct {
	CurrentFrameID  string             `json:"currentFrameId"`
	History         []NavigationEntry  `json:"history"`
	Overlays        []OverlayState     `json:"overlays"`
	ScrollPositions map[string]Offset  `json:"scrollPositions"`
	Variables       map[string]any     `json:"variables"`
	Playing         bool               `json:"playing"`
}

// NewState creates a fresh snapshot positioned at the start frame.
func NewState(startFrameID string) *PrototypeState {
	return &PrototypeState{
		CurrentFrameID: startFrameID,
		History: []NavigationEntry{
			{FrameID: startFrameID, Timestamp: time.Now()},
		},
		Overlays:        nil,
		ScrollPositions: make(map[string]Offset),
		Variables:       make(map[string]any),
		Playing:         true,
	}
}

// Clone returns a deep copy. The player mutates only clones, never a
// snapshot that has already been published to observers.
func (s *PrototypeState) Clone() *PrototypeState {
	if s == nil {
		return nil
	}
	next := &PrototypeState{
		CurrentFrameID:  s.CurrentFrameID,
		History:         make([]NavigationEntry, len(s.History)),
		ScrollPositions: make(map[string]Offset, len(s.ScrollPositions)),
		Variables:       make(map[string]any, len(s.Variables)),
		Playing:         s.Playing,
	}
	copy(next.History, s.History)
	if len(s.Overlays) > 0 {
		next.Overlays = make([]OverlayState, len(s.Overlays))
		copy(next.Overlays, s.Overlays)
	}
	for k, v := range s.ScrollPositions {
		next.ScrollPositions[k] = v
	}
	for k, v := range s.Variables {
		next.Variables[k] = v
	}
	return next
}

// CanGoBack reports whether a back navigation would change the state.
func (s *PrototypeState) CanGoBack() bool {
	return len(s.History) > 1
}

// TopOverlay returns the most recently opened overlay, if any.
func (s *PrototypeState) TopOverlay() (OverlayState, bool) {
	if len(s.Overlays) == 0 {
		return OverlayState{}, false
	}
	return s.Overlays[len(s.Overlays)-1], true
}

// HasOverlays reports whether any overlay is open.
func (s *PrototypeState) HasOverlays() bool {
	return len(s.Overlays) > 0
}
