package debugger

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPanelKeepsNewestFifty(t *testing.T) {
	f := newFixture(t)
	f.debugger.ClearLogs()

	for i := 0; i < 60; i++ {
		f.debugger.Log(LevelInfo, fmt.Sprintf("msg-%d", i), nil)
	}

	panel := f.debugger.Panel()
	require.NotNil(t, panel)
	items := panel.Items()
	require.Len(t, items, DefaultPanelLimit)
	assert.Equal(t, "msg-10", items[0].Message)
	newest, ok := panel.Newest()
	require.True(t, ok)
	assert.Equal(t, "msg-59", newest.Message)

	// The store is not bounded by the panel.
	assert.Len(t, f.debugger.GetLogs(), 60)
}

func TestRenderFormatsEntry(t *testing.T) {
	ts := time.Date(2024, 1, 2, 9, 5, 7, 0, time.Local)
	item := Render(LogEntry{
		Timestamp: ts,
		Level:     LevelError,
		Message:   "bad",
		Context:   map[string]interface{}{"a": 1},
	})

	assert.Equal(t, "09:05:07", item.Time)
	assert.Equal(t, "ERROR", item.Level)
	assert.Equal(t, "#ff4444", item.Color)
	assert.Equal(t, "{\n  \"a\": 1\n}", item.Context)

	plain := Render(LogEntry{Timestamp: ts, Level: LevelDebug, Message: "x"})
	assert.Empty(t, plain.Context)
	assert.Equal(t, "#888", plain.Color)
}

func TestPanelVisibility(t *testing.T) {
	panel := NewPanel(5)

	assert.False(t, panel.Visible())
	assert.True(t, panel.Toggle())
	assert.False(t, panel.Toggle())
	panel.Show()
	assert.True(t, panel.Visible())
	panel.Hide()
	assert.False(t, panel.Visible())
}

func TestPanelSubscribeReceivesNewItems(t *testing.T) {
	panel := NewPanel(5)
	items, cancel := panel.Subscribe(4)

	panel.Render(LogEntry{Level: LevelWarn, Message: "live"})

	select {
	case item := <-items:
		assert.Equal(t, "live", item.Message)
		assert.Equal(t, "WARN", item.Level)
	case <-time.After(time.Second):
		t.Fatal("expected a rendered item")
	}

	cancel()
	_, open := <-items
	assert.False(t, open)
}

func TestPanelCloseEndsSubscriptions(t *testing.T) {
	panel := NewPanel(5)
	items, _ := panel.Subscribe(1)

	panel.Close()

	_, open := <-items
	assert.False(t, open)
	late, _ := panel.Subscribe(1)
	_, open = <-late
	assert.False(t, open)
}

func TestPanelWriteHTMLEscapesMessages(t *testing.T) {
	panel := NewPanel(5)
	panel.Render(LogEntry{Level: LevelError, Message: "<script>alert(1)</script>"})

	var buf bytes.Buffer
	require.NoError(t, panel.WriteHTML(&buf))

	html := buf.String()
	assert.Contains(t, html, "MAAW Debugger")
	assert.Contains(t, html, "display: none")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "border-left: 3px solid #ff4444")
}

func TestStoreCapacityAndClear(t *testing.T) {
	store := NewLogStore(2)
	store.Append(LogEntry{Message: "a"})
	store.Append(LogEntry{Message: "b"})
	store.Append(LogEntry{Message: "c"})

	assert.Equal(t, 2, store.Capacity())
	assert.Equal(t, []string{"b", "c"}, messages(store.All()))

	store.Clear()
	assert.Equal(t, 0, store.Len())
	assert.NotNil(t, store.All())
}
