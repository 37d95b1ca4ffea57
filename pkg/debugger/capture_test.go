package debugger

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lastEntry(t *testing.T, d *Debugger) LogEntry {
	t.Helper()
	logs := d.GetLogs()
	require.NotEmpty(t, logs)
	return logs[len(logs)-1]
}

func TestCapturePanicsRecordsAndRepanics(t *testing.T) {
	f := newFixture(t)
	handler := f.debugger.CapturePanics(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	assert.PanicsWithValue(t, "boom", func() {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})

	entry := lastEntry(t, f.debugger)
	assert.Equal(t, LevelError, entry.Level)
	assert.Equal(t, "Unhandled error: boom", entry.Message)
	ctx, ok := entry.Context.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "boom", ctx["error"])
	assert.True(t, strings.HasSuffix(ctx["filename"].(string), "capture_test.go"))
	assert.Greater(t, ctx["lineno"], 0)
	assert.Equal(t, 0, ctx["colno"])
}

func TestCapturePanicsIgnoresAbortHandler(t *testing.T) {
	f := newFixture(t)
	f.debugger.ClearLogs()
	handler := f.debugger.CapturePanics(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	assert.Panics(t, func() {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.Empty(t, f.debugger.GetLogs())
}

func TestCapturePanicsPassesThrough(t *testing.T) {
	f := newFixture(t)
	handler := f.debugger.CapturePanics(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestRecoverRecordsErrorValue(t *testing.T) {
	f := newFixture(t)
	cause := errors.New("disk gone")

	assert.Panics(t, func() {
		defer f.debugger.Recover()
		panic(cause)
	})

	assert.Equal(t, "Unhandled error: disk gone", lastEntry(t, f.debugger).Message)
}

func TestGoRecordsReturnedError(t *testing.T) {
	f := newFixture(t)
	cause := errors.New("timeout")

	errc := f.debugger.Go(func() error { return cause })

	select {
	case err := <-errc:
		assert.ErrorIs(t, err, cause)
	case <-time.After(time.Second):
		t.Fatal("expected the error to be delivered")
	}
	_, open := <-errc
	assert.False(t, open)

	entry := lastEntry(t, f.debugger)
	assert.Equal(t, "Unhandled async error: timeout", entry.Message)
	assert.Equal(t, map[string]interface{}{"reason": "timeout"}, entry.Context)
}

func TestGoSuccessClosesChannel(t *testing.T) {
	f := newFixture(t)
	f.debugger.ClearLogs()

	errc := f.debugger.Go(func() error { return nil })

	select {
	case err, open := <-errc:
		assert.NoError(t, err)
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("expected the channel to close")
	}
	assert.Empty(t, f.debugger.GetLogs())
}

func TestNilDebuggerGoStillRuns(t *testing.T) {
	var d *Debugger
	cause := errors.New("x")

	err := <-d.Go(func() error { return cause })
	assert.ErrorIs(t, err, cause)
}
