// Package debugger records log entries, console output, outbound HTTP calls and
// panics of a running process into an in-memory store, mirrors them to a
// panel and forwards errors to a remote collector.
package debugger

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// Debugger is the central recorder. The zero value is not usable; use New.
// Every method is safe on a nil *Debugger and does nothing.
type Debugger struct {
	config   Config
	agent    string
	location string

	original Console
	console  Console

	// order keeps store, surface and relay in the same entry order.
	order   sync.Mutex
	store   *LogStore
	surface Surface
	relay   *Relay
	client  *http.Client
	now     func() time.Time
}

// New builds a Debugger for env. It returns nil when env is incapable, in
// which case nothing is installed and every operation is a no-op.
//
// Construction intercepts the environment's console, instruments its HTTP
// client, prepares the panel surface and starts the relay, then records
// "Debugger initialized".
func New(env *Environment, opts ...Option) *Debugger {
	if !env.Capable() {
		return nil
	}

	config := DefaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	config = config.normalized()

	d := &Debugger{
		config:   config,
		agent:    env.agent(),
		location: env.location(),
		original: env.Console,
		store:    NewLogStore(config.StoreCapacity),
		now:      env.clock(),
	}

	d.console = d.Intercept(env.Console)

	client := env.Client
	if client == nil {
		client = &http.Client{}
	}
	// The relay posts through a copy of the client taken before instrumentation.
	relayClient := &http.Client{
		Transport: client.Transport,
		Jar:       client.Jar,
	}
	d.client = d.InstrumentClient(client)

	switch {
	case !config.ShowInUI:
		d.surface = NopSurface{}
	case env.Surface != nil:
		d.surface = env.Surface
	default:
		d.surface = NewPanel(config.PanelLimit)
	}

	endpoint := resolveEndpoint(env.Location, config.APIEndpoint)
	d.relay = NewRelay(endpoint, relayClient, d.original, config.RelayQueue, config.RelayTimeout, d.now)

	d.Log(LevelInfo, "Debugger initialized", map[string]interface{}{
		"userAgent": d.agent,
		"url":       d.location,
	})
	return d
}

// Log records one entry. Disabled debuggers and entries below the configured
// level are ignored. Unknown levels are recorded as info. Error entries are
// also relayed to the collector.
func (d *Debugger) Log(level Level, message string, data interface{}) {
	if d == nil || !d.config.Enabled {
		return
	}
	if !level.Valid() {
		level = LevelInfo
	}
	if !LevelAtLeast(level, d.config.LogLevel) {
		return
	}

	entry := LogEntry{
		Timestamp: d.now(),
		Level:     level,
		Message:   message,
		Context:   data,
		UserAgent: d.agent,
		URL:       d.location,
	}

	d.order.Lock()
	d.store.Append(entry)
	if d.config.ShowInUI {
		d.surface.Render(entry)
	}
	if level == LevelError {
		d.relay.Send(entry)
	}
	d.order.Unlock()

	if d.config.ShowInConsole {
		d.echo(entry)
	}
}

// echo writes entry through the original console so that it is not recorded
// a second time.
func (d *Debugger) echo(entry LogEntry) {
	args := []interface{}{fmt.Sprintf("[maaw] %s", entry.Message)}
	if entry.Context != nil {
		args = append(args, entry.Context)
	}
	switch entry.Level {
	case LevelError:
		d.original.Error(args...)
	case LevelWarn:
		d.original.Warn(args...)
	case LevelDebug:
		d.original.Debug(args...)
	default:
		d.original.Info(args...)
	}
}

// GetLogs returns a snapshot of the recorded entries, oldest first.
func (d *Debugger) GetLogs() []LogEntry {
	if d == nil {
		return []LogEntry{}
	}
	return d.store.All()
}

// ClearLogs empties the store and the panel.
func (d *Debugger) ClearLogs() {
	if d == nil {
		return
	}
	d.order.Lock()
	defer d.order.Unlock()
	d.store.Clear()
	d.surface.Clear()
}

func (d *Debugger) Config() Config {
	if d == nil {
		return Config{}
	}
	return d.config
}

// Surface returns where entries are mirrored, or a NopSurface.
func (d *Debugger) Surface() Surface {
	if d == nil || d.surface == nil {
		return NopSurface{}
	}
	return d.surface
}

// Panel returns the built-in panel, or nil when another surface is in use.
func (d *Debugger) Panel() *Panel {
	if d == nil {
		return nil
	}
	panel, _ := d.surface.(*Panel)
	return panel
}

// RelayEndpoint is the resolved collector URL.
func (d *Debugger) RelayEndpoint() string {
	if d == nil {
		return ""
	}
	return d.relay.Endpoint()
}

// Close flushes pending relay deliveries and ends panel subscriptions.
func (d *Debugger) Close(ctx context.Context) error {
	if d == nil {
		return nil
	}
	err := d.relay.Close(ctx)
	if panel := d.Panel(); panel != nil {
		panel.Close()
	}
	return err
}
