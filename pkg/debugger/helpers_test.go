package debugger

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type consoleCall struct {
	level Level
	args  []interface{}
}

type recordingConsole struct {
	mu    sync.Mutex
	calls []consoleCall
}

func (c *recordingConsole) add(level Level, args []interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, consoleCall{level: level, args: args})
}

func (c *recordingConsole) Error(args ...interface{}) { c.add(LevelError, args) }
func (c *recordingConsole) Warn(args ...interface{})  { c.add(LevelWarn, args) }
func (c *recordingConsole) Info(args ...interface{})  { c.add(LevelInfo, args) }
func (c *recordingConsole) Debug(args ...interface{}) { c.add(LevelDebug, args) }

func (c *recordingConsole) snapshot() []consoleCall {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]consoleCall, len(c.calls))
	copy(out, c.calls)
	return out
}

// linesWithPrefix counts calls whose first argument starts with prefix.
func (c *recordingConsole) linesWithPrefix(prefix string) int {
	count := 0
	for _, call := range c.snapshot() {
		if len(call.args) > 0 && strings.HasPrefix(fmt.Sprint(call.args[0]), prefix) {
			count++
		}
	}
	return count
}

type collector struct {
	server  *httptest.Server
	mu      sync.Mutex
	reports []Report
	headers []http.Header
}

func newCollector(t *testing.T) *collector {
	t.Helper()
	c := &collector{}
	c.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var report Report
		if err := json.NewDecoder(r.Body).Decode(&report); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		c.mu.Lock()
		c.reports = append(c.reports, report)
		c.headers = append(c.headers, r.Header.Clone())
		c.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	t.Cleanup(c.server.Close)
	return c
}

func (c *collector) received() []Report {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Report, len(c.reports))
	copy(out, c.reports)
	return out
}

type fixture struct {
	debugger  *Debugger
	console   *recordingConsole
	collector *collector
}

// newFixture builds a Debugger whose relay posts to a local collector.
func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	col := newCollector(t)
	console := &recordingConsole{}
	env := &Environment{
		UserAgent: "test-agent",
		Location:  col.server.URL + "/products",
		Console:   console,
		Client:    &http.Client{},
	}
	d := New(env, opts...)
	require.NotNil(t, d)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = d.Close(ctx)
	})
	return &fixture{debugger: d, console: console, collector: col}
}

func closeDebugger(t *testing.T, d *Debugger) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, d.Close(ctx))
}

func messages(entries []LogEntry) []string {
	out := make([]string, len(entries))
	for i, entry := range entries {
		out[i] = entry.Message
	}
	return out
}
