package debugger

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"runtime"
	"time"

	"github.com/heyjunin/maaw/pkg/logger"
)

// Console is the four-severity output primitive the debugger wraps.
type Console interface {
	Error(args ...interface{})
	Warn(args ...interface{})
	Info(args ...interface{})
	Debug(args ...interface{})
}

// Environment describes the capabilities of the process hosting a Debugger.
// A nil Environment, or one without a Console, is incapable: no Debugger is
// created for it and every operation is a no-op.
type Environment struct {
	// UserAgent identifies the execution environment on every entry.
	UserAgent string
	// Location identifies the current page or service base URL on every entry.
	// Relative relay endpoints resolve against it.
	Location string
	// Console is the original output primitive.
	Console Console
	// Client is instrumented in place so its requests are recorded.
	Client *http.Client
	// Surface mirrors entries when ShowInUI is set. A Panel is created when nil.
	Surface Surface
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// Capable reports whether a Debugger can run in e.
func (e *Environment) Capable() bool {
	return e != nil && e.Console != nil
}

// DetectEnvironment builds the environment of the running service: the global
// zerolog console, a fresh HTTP client and location as the base URL.
func DetectEnvironment(version, location string) *Environment {
	if location == "" {
		if host, err := os.Hostname(); err == nil {
			location = "http://" + host
		}
	}
	return &Environment{
		UserAgent: fmt.Sprintf("maaw/%s (%s; %s/%s)", version, runtime.Version(), runtime.GOOS, runtime.GOARCH),
		Location:  location,
		Console:   logger.NewConsole("debugger"),
		Client:    &http.Client{},
	}
}

func (e *Environment) agent() string {
	if e.UserAgent == "" {
		return Unavailable
	}
	return e.UserAgent
}

func (e *Environment) location() string {
	if e.Location == "" {
		return Unavailable
	}
	return e.Location
}

func (e *Environment) clock() func() time.Time {
	if e.Clock == nil {
		return time.Now
	}
	return e.Clock
}

// resolveEndpoint resolves a relative endpoint against base the way a page
// resolves a relative fetch URL.
func resolveEndpoint(base, endpoint string) string {
	ref, err := url.Parse(endpoint)
	if err != nil || ref.IsAbs() {
		return endpoint
	}
	baseURL, err := url.Parse(base)
	if err != nil || !baseURL.IsAbs() {
		return endpoint
	}
	return baseURL.ResolveReference(ref).String()
}
