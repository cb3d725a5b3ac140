package framelight_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/framelight/framelight"
	"github.com/framelight/framelight/pkg/domain"
	"github.com/framelight/framelight/pkg/dsl"
)

func runnerEngine(t *testing.T) *framelight.Engine {
	t.Helper()
	builder := dsl.New("home")
	builder.Frame("home").
		Named("Home").
		Content("# Welcome").
		On(domain.TriggerClick).Navigate("detail")
	builder.Frame("detail").
		Named("Detail").
		On(domain.TriggerClick).Back()
	source, err := builder.Build()
	require.NoError(t, err)

	eng, err := framelight.New("", framelight.WithSource(source))
	require.NoError(t, err)
	return eng
}

func TestRunnerClickThrough(t *testing.T) {
	eng := runnerEngine(t)

	var out bytes.Buffer
	r := framelight.NewRunner()
	r.Input = strings.NewReader("click\nback\nexit\n")
	r.Output = &out

	require.NoError(t, r.Run(eng))

	text := out.String()
	assert.Contains(t, text, "== Home ==")
	assert.Contains(t, text, "# Welcome")
	assert.Contains(t, text, "== Detail ==")
	assert.Contains(t, text, "Bye!")
}

func TestRunnerHeadlessEOF(t *testing.T) {
	eng := runnerEngine(t)

	var out bytes.Buffer
	r := framelight.NewRunner()
	r.Input = strings.NewReader("click\n")
	r.Output = &out
	r.Headless = true

	require.NoError(t, r.Run(eng))

	text := out.String()
	assert.Contains(t, text, "== Detail ==")
	assert.NotContains(t, text, "> ")
}

func TestRunnerStateCommand(t *testing.T) {
	eng := runnerEngine(t)

	var out bytes.Buffer
	r := framelight.NewRunner()
	r.Input = strings.NewReader("click\nstate\nreset\nexit\n")
	r.Output = &out

	require.NoError(t, r.Run(eng))

	text := out.String()
	assert.Contains(t, text, "frame: detail")
	assert.Contains(t, text, "history: 2 entries")
}

func TestRunnerRequiresIO(t *testing.T) {
	eng := runnerEngine(t)

	r := framelight.NewRunner()
	assert.Error(t, r.Run(eng))

	r.Input = strings.NewReader("")
	assert.Error(t, r.Run(eng))
}
