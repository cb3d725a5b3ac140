package schema

import (
	"fmt"

	"github.com/framelight/framelight/pkg/domain"
	"github.com/framelight/framelight/pkg/ports"
)

// Issue is one validation finding. Issues never block playback.
type Issue struct {
	FrameID       string
	InteractionID string
	Message       string
}

func (i Issue) String() string {
	switch {
	case i.InteractionID != "":
		return fmt.Sprintf("frame %s, interaction %s: %s", i.FrameID, i.InteractionID, i.Message)
	case i.FrameID != "":
		return fmt.Sprintf("frame %s: %s", i.FrameID, i.Message)
	default:
		return i.Message
	}
}

var knownTriggers = map[domain.Trigger]bool{
	domain.TriggerClick:      true,
	domain.TriggerHoverEnter: true,
	domain.TriggerHoverLeave: true,
	domain.TriggerPress:      true,
	domain.TriggerRelease:    true,
	domain.TriggerDragStart:  true,
	domain.TriggerKeyDown:    true,
	domain.TriggerAfterDelay: true,
}

var knownActions = map[domain.ActionType]bool{
	domain.ActionNavigate:         true,
	domain.ActionSwap:             true,
	domain.ActionBack:             true,
	domain.ActionOpenOverlay:      true,
	domain.ActionCloseOverlay:     true,
	domain.ActionCloseAllOverlays: true,
	domain.ActionScrollTo:         true,
	domain.ActionOpenURL:          true,
	domain.ActionSetVariable:      true,
	domain.ActionConditional:      true,
}

// destinationActions are the action types whose Destination must resolve
// to a defined frame.
var destinationActions = map[domain.ActionType]bool{
	domain.ActionNavigate:    true,
	domain.ActionSwap:        true,
	domain.ActionOpenOverlay: true,
}

// Validate inspects a prototype for authoring mistakes the player would
// otherwise absorb silently: dangling destinations, duplicate interaction
// IDs, unknown triggers or actions, and missing action parameters.
func Validate(source ports.PrototypeSource) ([]Issue, error) {
	frames, err := source.Frames()
	if err != nil {
		return nil, fmt.Errorf("failed to list frames: %w", err)
	}

	defined := make(map[string]bool, len(frames))
	for _, f := range frames {
		defined[f.ID] = true
	}

	var issues []Issue
	if start := source.StartFrame(); !defined[start] {
		issues = append(issues, Issue{Message: fmt.Sprintf("start frame %q is not defined", start)})
	}

	seenIDs := make(map[string]string) // interaction ID -> frame
	for _, f := range frames {
		rules, err := source.Interactions(f.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load interactions for %s: %w", f.ID, err)
		}
		for _, it := range rules {
			issues = append(issues, checkInteraction(f.ID, it, defined)...)

			if it.ID == "" {
				continue
			}
			if prev, dup := seenIDs[it.ID]; dup {
				issues = append(issues, Issue{
					FrameID:       f.ID,
					InteractionID: it.ID,
					Message:       fmt.Sprintf("duplicate interaction id (also on frame %s)", prev),
				})
			}
			seenIDs[it.ID] = f.ID
		}
	}
	return issues, nil
}

func checkInteraction(frameID string, it domain.Interaction, defined map[string]bool) []Issue {
	var issues []Issue
	add := func(msg string) {
		issues = append(issues, Issue{FrameID: frameID, InteractionID: it.ID, Message: msg})
	}

	if !knownTriggers[it.Trigger] {
		add(fmt.Sprintf("unknown trigger %q", it.Trigger))
	}
	if !knownActions[it.Action] {
		add(fmt.Sprintf("unknown action %q", it.Action))
		return issues
	}

	if destinationActions[it.Action] {
		switch {
		case it.Destination == "":
			add("missing destination")
		case !defined[it.Destination]:
			add(fmt.Sprintf("destination %q is not a defined frame", it.Destination))
		}
	}

	switch it.Action {
	case domain.ActionOpenURL:
		if it.URL == "" {
			add("missing external link url")
		}
	case domain.ActionSetVariable:
		if it.Variable == nil || it.Variable.Key == "" {
			add("missing variable mutation")
		}
	case domain.ActionConditional:
		if it.Conditional == nil {
			add("missing conditional branches")
		} else {
			if it.Conditional.Then != "" && !defined[it.Conditional.Then] {
				add(fmt.Sprintf("then-branch %q is not a defined frame", it.Conditional.Then))
			}
			if it.Conditional.Else != "" && !defined[it.Conditional.Else] {
				add(fmt.Sprintf("else-branch %q is not a defined frame", it.Conditional.Else))
			}
		}
	case domain.ActionScrollTo:
		if it.Scroll == nil {
			add("missing scroll settings")
		}
	}

	if it.Trigger == domain.TriggerAfterDelay && it.Delay < 0 {
		add("negative trigger delay")
	}
	return issues
}
