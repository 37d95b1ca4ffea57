package debugger

import (
	"fmt"
	"net/http"
)

// Transport records every round trip as an entry. Failures are recorded and
// returned unchanged; no timeout is added.
type Transport struct {
	// Base performs the request. http.DefaultTransport is used when nil.
	Base http.RoundTripper

	debugger *Debugger
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	if t.debugger == nil {
		return base.RoundTrip(req)
	}

	now := t.debugger.now
	start := now()
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	target := req.URL.String()

	resp, err := base.RoundTrip(req)
	duration := fmt.Sprintf("%dms", now().Sub(start).Milliseconds())
	if err != nil {
		t.debugger.Log(LevelError, "Network request failed: "+target, map[string]interface{}{
			"method":   method,
			"duration": duration,
			"error":    err.Error(),
			"url":      target,
		})
		return nil, err
	}

	t.debugger.Log(LevelInfo, "Network request: "+target, map[string]interface{}{
		"method":   method,
		"status":   resp.StatusCode,
		"duration": duration,
		"url":      target,
	})
	return resp, nil
}

// InstrumentClient installs a recording Transport on client and returns it.
// A client already instrumented by this Debugger is left as is.
func (d *Debugger) InstrumentClient(client *http.Client) *http.Client {
	if d == nil || client == nil {
		return client
	}
	if existing, ok := client.Transport.(*Transport); ok && existing.debugger == d {
		return client
	}
	client.Transport = &Transport{Base: client.Transport, debugger: d}
	return client
}

// Client returns the environment's HTTP client with the recording Transport
// installed, or http.DefaultClient for a nil Debugger.
func (d *Debugger) Client() *http.Client {
	if d == nil || d.client == nil {
		return http.DefaultClient
	}
	return d.client
}
