package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/framelight/framelight/pkg/adapters/memory"
	"github.com/framelight/framelight/pkg/domain"
	"github.com/framelight/framelight/pkg/session"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	source, err := memory.NewSource("home",
		[]domain.Frame{
			{ID: "home", Name: "Home"},
			{ID: "detail", Name: "Detail"},
		},
		map[string][]domain.Interaction{
			"home": {
				{ID: "go", Trigger: domain.TriggerClick, Action: domain.ActionNavigate, Destination: "detail"},
			},
		},
		[]domain.Variable{
			{Name: "theme", Type: domain.VarString, Default: "light"},
		},
	)
	require.NoError(t, err)

	mgr := session.NewManager(source, memory.NewStore())
	t.Cleanup(mgr.Close)
	return NewHandler(mgr, WithVersion("test"))
}

func createSession(t *testing.T, handler http.Handler) sessionResponse {
	t.Helper()
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("POST", "/api/sessions", nil))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp sessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.SessionID)
	return resp
}

func TestSessionLifecycle(t *testing.T) {
	handler := newTestHandler(t)

	created := createSession(t, handler)
	assert.Equal(t, "home", created.State.CurrentFrameID)
	assert.Equal(t, "light", created.State.Variables["theme"])

	// Trigger a click, navigating home -> detail.
	body, _ := json.Marshal(triggerRequest{Trigger: "click"})
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("POST", "/api/sessions/"+created.SessionID+"/trigger", bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp sessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "detail", resp.State.CurrentFrameID)
	assert.Len(t, resp.State.History, 2)

	// Back returns to home.
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("POST", "/api/sessions/"+created.SessionID+"/back", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "home", resp.State.CurrentFrameID)

	// Delete, then the session is gone.
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("DELETE", "/api/sessions/"+created.SessionID+"/", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/api/sessions/"+created.SessionID+"/", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSetVariableAndReset(t *testing.T) {
	handler := newTestHandler(t)
	created := createSession(t, handler)

	body, _ := json.Marshal(variableRequest{Value: "dark"})
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("PUT", "/api/sessions/"+created.SessionID+"/variables/theme", bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp sessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "dark", resp.State.Variables["theme"])

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("POST", "/api/sessions/"+created.SessionID+"/reset", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "light", resp.State.Variables["theme"])
}

func TestTriggerValidation(t *testing.T) {
	handler := newTestHandler(t)
	created := createSession(t, handler)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("POST", "/api/sessions/"+created.SessionID+"/trigger", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("POST", "/api/sessions/"+created.SessionID+"/trigger", strings.NewReader(`not json`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body, _ := json.Marshal(triggerRequest{Trigger: "click"})
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("POST", "/api/sessions/unknown/trigger", bytes.NewReader(body)))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListSessions(t *testing.T) {
	handler := newTestHandler(t)
	a := createSession(t, handler)
	b := createSession(t, handler)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/api/sessions", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string][]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp["sessions"], a.SessionID)
	assert.Contains(t, resp["sessions"], b.SessionID)
}

func TestEventsStream(t *testing.T) {
	handler := newTestHandler(t)
	created := createSession(t, handler)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	wSub := httptest.NewRecorder()
	reqSub := httptest.NewRequest("GET", "/api/sessions/"+created.SessionID+"/events", nil).WithContext(ctx)

	done := make(chan struct{})
	go func() {
		handler.ServeHTTP(wSub, reqSub)
		close(done)
	}()

	time.Sleep(100 * time.Millisecond) // Wait for the subscription to register

	body, _ := json.Marshal(triggerRequest{Trigger: "click"})
	wNav := httptest.NewRecorder()
	handler.ServeHTTP(wNav, httptest.NewRequest("POST", "/api/sessions/"+created.SessionID+"/trigger", bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, wNav.Code)

	cancel()
	<-done

	output := wSub.Body.String()
	assert.Contains(t, output, "event: ping")
	assert.Contains(t, output, `"currentFrameId":"detail"`)
}

func TestCORSPreflight(t *testing.T) {
	handler := newTestHandler(t)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("OPTIONS", "/api/sessions", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
