package dsl_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/framelight/framelight/pkg/domain"
	"github.com/framelight/framelight/pkg/dsl"
)

func TestBuilder_Build(t *testing.T) {
	proto := dsl.New("home")

	proto.Frame("home").
		Named("Home").
		Sized(390, 844).
		On(domain.TriggerClick).Navigate("detail").
		On(domain.TriggerHoverEnter).OpenOverlay("tooltip", domain.OverlaySettings{Position: domain.OverlayTopCenter})

	proto.Frame("splash").
		AfterDelay(2 * time.Second).Navigate("home")

	proto.Variable("logged_in", domain.VarBoolean, false)

	source, err := proto.Build()
	require.NoError(t, err)

	assert.Equal(t, "home", source.StartFrame())

	frames, err := source.Frames()
	require.NoError(t, err)
	ids := make([]string, len(frames))
	for i, f := range frames {
		ids[i] = f.ID
	}
	// "detail" and "tooltip" are materialized as implicit frames.
	assert.ElementsMatch(t, []string{"home", "splash", "detail", "tooltip"}, ids)

	rules, err := source.Interactions("home")
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.Equal(t, domain.ActionNavigate, rules[0].Action)
	assert.Equal(t, "detail", rules[0].Destination)
	assert.NotEmpty(t, rules[0].ID)
	assert.Equal(t, domain.ActionOpenOverlay, rules[1].Action)
	require.NotNil(t, rules[1].Overlay)
	assert.Equal(t, domain.OverlayTopCenter, rules[1].Overlay.Position)

	delayed, err := source.Interactions("splash")
	require.NoError(t, err)
	require.Len(t, delayed, 1)
	assert.Equal(t, domain.TriggerAfterDelay, delayed[0].Trigger)
	assert.Equal(t, 2*time.Second, delayed[0].Delay)

	vars, err := source.Variables()
	require.NoError(t, err)
	require.Len(t, vars, 1)
	assert.Equal(t, "logged_in", vars[0].Name)
}

func TestBuilder_MissingStartFrame(t *testing.T) {
	proto := dsl.New("nowhere")
	proto.Frame("home")

	_, err := proto.Build()
	assert.Error(t, err)
}

func TestBuilder_FrameIsIdempotent(t *testing.T) {
	proto := dsl.New("a")
	first := proto.Frame("a")
	second := proto.Frame("a")
	assert.Same(t, first, second)
}
