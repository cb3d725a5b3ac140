package observability

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsExposition(t *testing.T) {
	m := NewMetrics()
	m.Navigation()
	m.Navigation()
	m.OverlayOpened()
	m.Trigger("click")
	m.Trigger("click")
	m.Trigger("after_delay")
	m.DelayFired()
	m.SessionStarted()

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := string(body)

	assert.Contains(t, out, "framelight_navigations_total 2")
	assert.Contains(t, out, `framelight_triggers_total{trigger="click"} 2`)
	assert.Contains(t, out, `framelight_triggers_total{trigger="after_delay"} 1`)
	assert.Contains(t, out, "framelight_delay_timers_fired_total 1")
	assert.Contains(t, out, "framelight_active_sessions 1")
}

func TestMetricsIndependentRegistries(t *testing.T) {
	// Two instances must not panic on duplicate registration.
	a := NewMetrics()
	b := NewMetrics()
	a.Navigation()
	assert.NotNil(t, b.Handler())
}
