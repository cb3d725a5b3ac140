package file_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/framelight/framelight/pkg/adapters/file"
	"github.com/framelight/framelight/pkg/domain"
	"github.com/framelight/framelight/pkg/dsl"
)

func TestExportRoundTrip(t *testing.T) {
	builder := dsl.New("splash")
	builder.Variable("logged_in", domain.VarBoolean, false)
	builder.Frame("splash").
		Named("Splash").
		Sized(390, 844).
		AfterDelay(2*time.Second).Animated(domain.TransitionConfig{
		Type:     domain.TransitionDissolve,
		Duration: 300 * time.Millisecond,
		Easing:   domain.EasingEaseInOut,
	}).Navigate("home")
	builder.Frame("home").
		Named("Home").
		On(domain.TriggerClick).When(domain.ConditionGroup{
		Conditions: []domain.Condition{
			{Variable: "logged_in", Operator: domain.OpEquals, Value: true},
		},
	}, "dashboard", "login")
	builder.Frame("dashboard")
	builder.Frame("login")
	source, err := builder.Build()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "exported.yaml")
	require.NoError(t, file.Save(path, "Exported", source))

	reloaded, err := file.New(path)
	require.NoError(t, err)

	assert.Equal(t, "Exported", reloaded.Name())
	assert.Equal(t, "splash", reloaded.StartFrame())

	frames, err := reloaded.Frames()
	require.NoError(t, err)
	assert.Len(t, frames, 4)

	rules, err := reloaded.Interactions("splash")
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, domain.TriggerAfterDelay, rules[0].Trigger)
	assert.Equal(t, 2*time.Second, rules[0].Delay)
	assert.Equal(t, domain.TransitionDissolve, rules[0].Transition.Type)
	assert.Equal(t, 300*time.Millisecond, rules[0].Transition.Duration)

	rules, err = reloaded.Interactions("home")
	require.NoError(t, err)
	require.Len(t, rules, 1)
	require.NotNil(t, rules[0].Conditional)
	assert.Equal(t, "dashboard", rules[0].Conditional.Then)
	assert.Equal(t, "login", rules[0].Conditional.Else)

	vars, err := reloaded.Variables()
	require.NoError(t, err)
	require.Len(t, vars, 1)
	assert.Equal(t, domain.VarBoolean, vars[0].Type)
	assert.Equal(t, false, vars[0].Default)
}
