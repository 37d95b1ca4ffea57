package api

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heyjunin/maaw/pkg/config"
	"github.com/heyjunin/maaw/pkg/debugger"
)

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	resp, body := ts.do(t, http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, config.Version, body["version"])
	assert.Equal(t, false, body["gemini_configured"])
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestHealthRejectsPost(t *testing.T) {
	ts := newTestServer(t)

	resp, body := ts.do(t, http.MethodPost, "/api/health", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.Equal(t, "Method not allowed", body["error"])
}

func TestPreflight(t *testing.T) {
	ts := newTestServer(t)

	resp, _ := ts.do(t, http.MethodOptions, "/api/process_product", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), "POST")
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Headers"), "Content-Type")
}

func TestDebugStatus(t *testing.T) {
	ts := newTestServer(t)

	resp, body := ts.do(t, http.MethodGet, "/api/debug", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "debug_api_ready", body["status"])
	assert.Len(t, body["availableActions"], 4)
}

func TestDebugLogErrorCollectsReport(t *testing.T) {
	ts := newTestServer(t)

	resp, body := ts.postJSON(t, "/api/debug", map[string]interface{}{
		"action": "log_error",
		"data": map[string]interface{}{
			"timestamp": "2025-03-14T09:00:00Z",
			"level":     "error",
			"message":   "Upload failed",
			"context":   map[string]interface{}{"status": 500},
			"userAgent": "Mozilla/5.0",
			"url":       "https://maaw.example/products",
		},
		"timestamp": "2025-03-14T09:00:00Z",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "logged", body["status"])

	reports := ts.Collector().All()
	require.Len(t, reports, 1)
	assert.Equal(t, "Upload failed", reports[0].Message)
	assert.Equal(t, debugger.LevelError, reports[0].Level)
	assert.Equal(t, "Mozilla/5.0", reports[0].UserAgent)

	// The collector never feeds the server's own debugger.
	assert.NotContains(t, messagesOf(ts.debugger.GetLogs()), "Upload failed")
}

func TestDebugTestAPIEchoesData(t *testing.T) {
	ts := newTestServer(t)

	resp, body := ts.postJSON(t, "/api/debug", map[string]interface{}{
		"action": "test_api",
		"data":   map[string]interface{}{"ping": "pong"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, map[string]interface{}{"ping": "pong"}, body["testData"])
}

func TestDebugValidateForm(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name     string
		data     map[string]interface{}
		valid    bool
		errors   []interface{}
		warnings []interface{}
	}{
		{
			name:     "complete",
			data:     map[string]interface{}{"text": "A long enough description", "team_member_token": "walid", "images": []string{"a.png"}},
			valid:    true,
			errors:   []interface{}{},
			warnings: []interface{}{},
		},
		{
			name:     "empty",
			data:     map[string]interface{}{},
			valid:    false,
			errors:   []interface{}{"Text field is required", "Team member token is required", "At least one image is required"},
			warnings: []interface{}{},
		},
		{
			name:     "unknown token with warnings",
			data:     map[string]interface{}{"text": "short", "team_member_token": "nobody", "images": 11},
			valid:    false,
			errors:   []interface{}{"Invalid team token: nobody"},
			warnings: []interface{}{"Text description is very short", "Many images uploaded, processing may take longer"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := ts.postJSON(t, "/api/debug", map[string]interface{}{
				"action": "validate_form",
				"data":   tt.data,
			})
			require.Equal(t, http.StatusOK, resp.StatusCode)
			validation, ok := body["validation"].(map[string]interface{})
			require.True(t, ok)
			assert.Equal(t, tt.valid, validation["isValid"])
			assert.Equal(t, tt.errors, validation["errors"])
			assert.Equal(t, tt.warnings, validation["warnings"])
		})
	}
}

func TestDebugCheckHealth(t *testing.T) {
	ts := newTestServer(t)

	resp, body := ts.postJSON(t, "/api/debug", map[string]interface{}{"action": "check_health"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", body["status"])
	system, ok := body["system"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, system, "goVersion")
	assert.Contains(t, system, "memory")
}

func TestDebugUnknownAction(t *testing.T) {
	ts := newTestServer(t)

	resp, body := ts.postJSON(t, "/api/debug", map[string]interface{}{"action": "reboot"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "unknown_action", body["status"])
	assert.Equal(t, []interface{}{"log_error", "test_api", "validate_form", "check_health"}, body["availableActions"])
}

func TestDebugInvalidJSON(t *testing.T) {
	ts := newTestServer(t)

	resp, body := ts.do(t, http.MethodPost, "/api/debug", "application/json", strings.NewReader("{not json"))
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "error", body["status"])
	assert.NotEmpty(t, body["error"])
}

func TestLogsListAndClear(t *testing.T) {
	ts := newTestServer(t)
	ts.debugger.Log(debugger.LevelInfo, "hello", nil)
	ts.Collector().Append(debugger.LogEntry{Level: debugger.LevelError, Message: "client boom"})

	resp, body := ts.do(t, http.MethodGet, "/api/logs", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.GreaterOrEqual(t, body["count"], float64(2))
	assert.Len(t, body["reports"], 1)

	resp, body = ts.do(t, http.MethodDelete, "/api/logs", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "cleared", body["status"])
	assert.Empty(t, ts.debugger.GetLogs())
	assert.Zero(t, ts.Collector().Len())
}

func TestServerWithoutDebugger(t *testing.T) {
	ts := newTestServer(t, withoutDebugger())

	resp, body := ts.do(t, http.MethodGet, "/api/logs", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(0), body["count"])

	resp, _ = ts.do(t, http.MethodGet, "/api/debug/panel", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func messagesOf(entries []debugger.LogEntry) []string {
	out := make([]string, len(entries))
	for i, entry := range entries {
		out[i] = entry.Message
	}
	return out
}
