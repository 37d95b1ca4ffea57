package debugger

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/heyjunin/maaw/pkg/errors"
)

type actionLog struct {
	mu      sync.Mutex
	actions []string
	bodies  []map[string]interface{}
}

func (a *actionLog) lastBody() map[string]interface{} {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.bodies) == 0 {
		return nil
	}
	return a.bodies[len(a.bodies)-1]
}

func (a *actionLog) list() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.actions...)
}

func newActionServer(t *testing.T, status int, reply map[string]interface{}) (*httptest.Server, *actionLog) {
	t.Helper()
	actions := &actionLog{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&body)
		action, _ := body["action"].(string)
		actions.mu.Lock()
		actions.actions = append(actions.actions, action)
		actions.bodies = append(actions.bodies, body)
		actions.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(reply)
	}))
	t.Cleanup(server.Close)
	return server, actions
}

func TestCheckHealthLogsResult(t *testing.T) {
	server, actions := newActionServer(t, http.StatusOK, map[string]interface{}{"status": "healthy"})
	f := newFixture(t, WithAPIEndpoint(server.URL+"/api/debug"))

	result, err := f.debugger.CheckHealth(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "healthy", result["status"])
	assert.Equal(t, []string{ActionCheckHealth}, actions.list())

	body := actions.lastBody()
	assert.Equal(t, map[string]interface{}{}, body["data"])
	stamp, _ := body["timestamp"].(string)
	_, err = time.Parse(time.RFC3339Nano, stamp)
	assert.NoError(t, err)

	entry := lastEntry(t, f.debugger)
	assert.Equal(t, "Health check complete", entry.Message)
}

func TestTestAPIRecordsNetworkCall(t *testing.T) {
	server, _ := newActionServer(t, http.StatusOK, map[string]interface{}{"success": true})
	f := newFixture(t, WithAPIEndpoint(server.URL+"/api/debug"))
	f.debugger.ClearLogs()

	_, err := f.debugger.TestAPI(context.Background(), map[string]interface{}{"ping": 1})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Network request: " + server.URL + "/api/debug",
		"API test successful",
	}, messages(f.debugger.GetLogs()))
}

func TestValidateFormFailureIsLogged(t *testing.T) {
	server, _ := newActionServer(t, http.StatusInternalServerError, map[string]interface{}{"error": "Invalid JSON"})
	f := newFixture(t, WithAPIEndpoint(server.URL+"/api/debug"))

	_, err := f.debugger.ValidateForm(context.Background(), map[string]interface{}{"text": "x"})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.NetworkError))
	assert.Contains(t, err.Error(), "Invalid JSON")

	assert.Equal(t, "Form validation failed", lastEntry(t, f.debugger).Message)
}

func TestNilDebuggerActionsFail(t *testing.T) {
	var d *Debugger
	_, err := d.CheckHealth(context.Background())
	assert.Error(t, err)
}
