package debugger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleCallsAreRecordedAndForwarded(t *testing.T) {
	f := newFixture(t, WithShowInConsole(false))
	f.debugger.ClearLogs()

	f.debugger.Console().Warn("disk", 93, "%")

	entry := lastEntry(t, f.debugger)
	assert.Equal(t, LevelWarn, entry.Level)
	assert.Equal(t, "disk 93 %", entry.Message)
	assert.Equal(t, map[string]interface{}{"originalArgs": []interface{}{"disk", 93, "%"}}, entry.Context)

	calls := f.console.snapshot()
	require.Len(t, calls, 1)
	assert.Equal(t, LevelWarn, calls[0].level)
	assert.Equal(t, []interface{}{"disk", 93, "%"}, calls[0].args)
}

func TestEchoDoesNotRecordTwice(t *testing.T) {
	f := newFixture(t)
	f.debugger.ClearLogs()

	f.debugger.Console().Info("hello")

	assert.Len(t, f.debugger.GetLogs(), 1)
	// Initialization echo, the echo of "hello" and the forwarded call.
	assert.Len(t, f.console.snapshot(), 3)
}

func TestInterceptIsIdempotent(t *testing.T) {
	f := newFixture(t)
	console := f.debugger.Console()

	assert.Same(t, console, f.debugger.Intercept(console))
}

func TestEveryConsoleSeverityIsRecorded(t *testing.T) {
	f := newFixture(t, WithShowInConsole(false))
	f.debugger.ClearLogs()

	c := f.debugger.Console()
	c.Debug("d")
	c.Info("i")
	c.Warn("w")
	c.Error("e")

	logs := f.debugger.GetLogs()
	require.Len(t, logs, 4)
	assert.Equal(t, []Level{LevelDebug, LevelInfo, LevelWarn, LevelError},
		[]Level{logs[0].Level, logs[1].Level, logs[2].Level, logs[3].Level})
}
