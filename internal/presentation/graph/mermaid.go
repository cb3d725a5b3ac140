package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/framelight/framelight/pkg/domain"
)

// Overlay contains dynamic playback state to visualize on the graph.
type Overlay struct {
	VisitedFrames []string
	CurrentFrame  string
}

// Prototype is the static definition rendered into a flowchart.
type Prototype struct {
	StartFrame   string
	Frames       []domain.Frame
	Interactions map[string][]domain.Interaction
}

// GenerateMermaid produces Mermaid flowchart syntax from a prototype.
// Styling conventions:
// - Start frame: ((Circle))
// - Overlay destinations: [[Subroutine]], reached via dotted arrows
// - Default frames: [Rectangle]
// Edges are labelled with their trigger, plus the delay for timed hops
// and a marker for conditional interactions. Overlay styles
// (visited/current) are applied if provided.
func GenerateMermaid(proto Prototype, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	overlayTargets := make(map[string]bool)
	for _, rules := range proto.Interactions {
		for _, it := range rules {
			if it.Action == domain.ActionOpenOverlay && it.Destination != "" {
				overlayTargets[it.Destination] = true
			}
		}
	}

	for _, frame := range proto.Frames {
		safeID := sanitizeMermaidID(frame.ID)

		opener, closer := "[", "]"
		switch {
		case frame.ID == proto.StartFrame:
			opener, closer = "((", "))"
		case overlayTargets[frame.ID]:
			opener, closer = "[[", "]]"
		}

		name := frame.Name
		if name == "" {
			name = frame.ID
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, name, closer))

		for _, it := range proto.Interactions[frame.ID] {
			writeEdges(&sb, safeID, it)
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visitedSet := make(map[string]bool)
		for _, id := range overlay.VisitedFrames {
			safeID := sanitizeMermaidID(id)
			if !visitedSet[safeID] && safeID != "" {
				visitedSet[safeID] = true
				sb.WriteString(fmt.Sprintf("    class %s visited;\n", safeID))
			}
		}

		if overlay.CurrentFrame != "" {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", sanitizeMermaidID(overlay.CurrentFrame)))
		}
	}

	return sb.String()
}

// writeEdges emits the edges for one interaction, including both branches
// of a conditional.
func writeEdges(sb *strings.Builder, safeFrom string, it domain.Interaction) {
	label := string(it.Trigger)
	if it.Trigger == domain.TriggerAfterDelay && it.Delay > 0 {
		label = fmt.Sprintf("%s %s", label, it.Delay)
	}

	switch it.Action {
	case domain.ActionNavigate, domain.ActionSwap:
		if it.Destination == "" {
			return
		}
		sb.WriteString(fmt.Sprintf("    %s -- \"%s\" --> %s\n", safeFrom, label, sanitizeMermaidID(it.Destination)))
	case domain.ActionOpenOverlay:
		if it.Destination == "" {
			return
		}
		sb.WriteString(fmt.Sprintf("    %s -. \"%s\" .-> %s\n", safeFrom, label, sanitizeMermaidID(it.Destination)))
	case domain.ActionConditional:
		if it.Conditional == nil {
			return
		}
		if it.Conditional.Then != "" {
			sb.WriteString(fmt.Sprintf("    %s -- \"%s? then\" --> %s\n", safeFrom, label, sanitizeMermaidID(it.Conditional.Then)))
		}
		if it.Conditional.Else != "" {
			sb.WriteString(fmt.Sprintf("    %s -- \"%s? else\" --> %s\n", safeFrom, label, sanitizeMermaidID(it.Conditional.Else)))
		}
	}
}

// SortedFrameIDs returns the IDs of a prototype's frames in a stable
// order, useful for deterministic output in tests and CLI listings.
func SortedFrameIDs(proto Prototype) []string {
	ids := make([]string, 0, len(proto.Frames))
	for _, f := range proto.Frames {
		ids = append(ids, f.ID)
	}
	sort.Strings(ids)
	return ids
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
