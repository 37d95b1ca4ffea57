package debugger

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Surface is where entries are mirrored for a person watching the process.
type Surface interface {
	Render(entry LogEntry)
	Clear()
}

// NopSurface discards everything. It is used when ShowInUI is off.
type NopSurface struct{}

func (NopSurface) Render(LogEntry) {}
func (NopSurface) Clear()          {}

// RenderedItem is the display form of one entry.
type RenderedItem struct {
	Time    string `json:"time"`
	Level   string `json:"level"`
	Message string `json:"message"`
	Context string `json:"context,omitempty"`
	Color   string `json:"color"`
	Style   string `json:"style"`
}

var levelColors = map[Level]string{
	LevelError: "#ff4444",
	LevelWarn:  "#ffaa00",
	LevelInfo:  "#00aaff",
	LevelDebug: "#888",
}

var levelStyles = map[Level]string{
	LevelError: "background: #4a1a1a; border-left: 3px solid #ff4444;",
	LevelWarn:  "background: #4a3a1a; border-left: 3px solid #ffaa00;",
	LevelInfo:  "background: #1a3a4a; border-left: 3px solid #00aaff;",
	LevelDebug: "background: #1a1a1a; border-left: 3px solid #888;",
}

// Render converts an entry into its display form.
func Render(entry LogEntry) RenderedItem {
	color, ok := levelColors[entry.Level]
	if !ok {
		color = levelColors[LevelDebug]
	}
	style, ok := levelStyles[entry.Level]
	if !ok {
		style = levelStyles[LevelDebug]
	}
	item := RenderedItem{
		Time:    entry.Timestamp.Local().Format("15:04:05"),
		Level:   strings.ToUpper(string(entry.Level)),
		Message: entry.Message,
		Color:   color,
		Style:   style,
	}
	if entry.Context != nil {
		if data, err := json.MarshalIndent(entry.Context, "", "  "); err == nil {
			item.Context = string(data)
		} else {
			item.Context = fmt.Sprint(entry.Context)
		}
	}
	return item
}

// Panel is an in-process overlay that keeps the most recent rendered items,
// oldest first, and streams new ones to subscribers. It starts hidden.
type Panel struct {
	mu      sync.Mutex
	items   *ring[RenderedItem]
	visible bool
	hub     *hub
}

func NewPanel(limit int) *Panel {
	if limit <= 0 {
		limit = DefaultPanelLimit
	}
	return &Panel{
		items: newRing[RenderedItem](limit),
		hub:   newHub(),
	}
}

// Render appends the entry's display form, evicting the oldest item beyond
// the panel limit.
func (p *Panel) Render(entry LogEntry) {
	item := Render(entry)
	p.mu.Lock()
	p.items.add(item)
	p.mu.Unlock()
	p.hub.broadcast(item)
}

func (p *Panel) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.items.reset()
}

// Items returns the rendered items, oldest first.
func (p *Panel) Items() []RenderedItem {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.items.list()
}

// Newest returns the item the panel is scrolled to.
func (p *Panel) Newest() (RenderedItem, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.items.last()
}

func (p *Panel) Limit() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.items.capacity()
}

func (p *Panel) Visible() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.visible
}

func (p *Panel) Show() { p.setVisible(true) }
func (p *Panel) Hide() { p.setVisible(false) }

// Toggle flips visibility and returns the new state.
func (p *Panel) Toggle() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.visible = !p.visible
	return p.visible
}

func (p *Panel) setVisible(visible bool) {
	p.mu.Lock()
	p.visible = visible
	p.mu.Unlock()
}

// Subscribe streams items rendered after the call. The returned func cancels
// the subscription and closes the channel.
func (p *Panel) Subscribe(buffer int) (<-chan RenderedItem, func()) {
	return p.hub.subscribe(buffer)
}

// Close ends every live subscription.
func (p *Panel) Close() {
	p.hub.close()
}

// WriteHTML renders the panel as a standalone HTML fragment.
func (p *Panel) WriteHTML(w io.Writer) error {
	p.mu.Lock()
	view := newPanelView(p.items.list(), p.visible)
	p.mu.Unlock()
	return panelTemplate.Execute(w, view)
}
