package graph_test

import (
	"strings"
	"testing"
	"time"

	"github.com/framelight/framelight/internal/presentation/graph"
	"github.com/framelight/framelight/pkg/domain"
)

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		proto    graph.Prototype
		overlay  *graph.Overlay
		contains []string
	}{
		{
			name: "Start Frame Shape",
			proto: graph.Prototype{
				StartFrame: "home",
				Frames: []domain.Frame{
					{ID: "home", Name: "Home"},
					{ID: "detail", Name: "Detail"},
				},
			},
			contains: []string{
				`home(("Home"))`,
				`detail["Detail"]`,
			},
		},
		{
			name: "Overlay Target Shape and Dotted Edge",
			proto: graph.Prototype{
				StartFrame: "home",
				Frames: []domain.Frame{
					{ID: "home", Name: "Home"},
					{ID: "menu", Name: "Menu"},
				},
				Interactions: map[string][]domain.Interaction{
					"home": {
						{Trigger: domain.TriggerClick, Action: domain.ActionOpenOverlay, Destination: "menu"},
					},
				},
			},
			contains: []string{
				`menu[["Menu"]]`,
				`home -. "click" .-> menu`,
			},
		},
		{
			name: "Navigation Edge with Delay Label",
			proto: graph.Prototype{
				StartFrame: "splash",
				Frames: []domain.Frame{
					{ID: "splash", Name: "Splash"},
					{ID: "login", Name: "Login"},
				},
				Interactions: map[string][]domain.Interaction{
					"splash": {
						{Trigger: domain.TriggerAfterDelay, Delay: 500 * time.Millisecond, Action: domain.ActionNavigate, Destination: "login"},
					},
				},
			},
			contains: []string{
				`splash -- "after_delay 500ms" --> login`,
			},
		},
		{
			name: "Conditional Branches",
			proto: graph.Prototype{
				StartFrame: "login",
				Frames: []domain.Frame{
					{ID: "login", Name: "Login"},
					{ID: "dashboard", Name: "Dashboard"},
					{ID: "error", Name: "Error"},
				},
				Interactions: map[string][]domain.Interaction{
					"login": {
						{
							Trigger: domain.TriggerClick,
							Action:  domain.ActionConditional,
							Conditional: &domain.ConditionalAction{
								Then: "dashboard",
								Else: "error",
							},
						},
					},
				},
			},
			contains: []string{
				`login -- "click? then" --> dashboard`,
				`login -- "click? else" --> error`,
			},
		},
		{
			name: "ID Sanitization",
			proto: graph.Prototype{
				StartFrame: "a",
				Frames: []domain.Frame{
					{ID: "a"},
					{ID: "sign-up/step.1"},
				},
			},
			contains: []string{
				`sign_up_step_1["sign-up/step.1"]`,
			},
		},
		{
			name: "Overlay Styles",
			proto: graph.Prototype{
				StartFrame: "home",
				Frames: []domain.Frame{
					{ID: "home"},
					{ID: "detail"},
				},
			},
			overlay: &graph.Overlay{
				VisitedFrames: []string{"home", "detail", "home"},
				CurrentFrame:  "detail",
			},
			contains: []string{
				"classDef visited",
				"class home visited;",
				"class detail visited;",
				"class detail current;",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(tt.proto, tt.overlay)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("GenerateMermaid() = \n%v\nWant substring: %v", got, want)
				}
			}
		})
	}
}

func TestGenerateMermaidDeduplicatesVisited(t *testing.T) {
	proto := graph.Prototype{
		StartFrame: "home",
		Frames:     []domain.Frame{{ID: "home"}},
	}
	got := graph.GenerateMermaid(proto, &graph.Overlay{VisitedFrames: []string{"home", "home"}})
	if strings.Count(got, "class home visited;") != 1 {
		t.Errorf("expected one visited class for home, got:\n%v", got)
	}
}
