package api

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/heyjunin/maaw/pkg/auth"
	"github.com/heyjunin/maaw/pkg/config"
	"github.com/heyjunin/maaw/pkg/debugger"
	"github.com/heyjunin/maaw/pkg/notify"
	"github.com/heyjunin/maaw/pkg/processor"
)

var fixedNow = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

type quietConsole struct {
	mu    sync.Mutex
	lines int
}

func (c *quietConsole) add() {
	c.mu.Lock()
	c.lines++
	c.mu.Unlock()
}

func (c *quietConsole) Error(...interface{}) { c.add() }
func (c *quietConsole) Warn(...interface{})  { c.add() }
func (c *quietConsole) Info(...interface{})  { c.add() }
func (c *quietConsole) Debug(...interface{}) { c.add() }

type testServer struct {
	*Server
	http     *httptest.Server
	debugger *debugger.Debugger
	notifier *notify.Recorder
}

type serverOption func(*Options)

func withRoster(r *auth.Roster) serverOption {
	return func(o *Options) { o.Roster = r }
}

func withoutDebugger() serverOption {
	return func(o *Options) { o.Debugger = nil }
}

// newTestServer wires a Server with a recording notifier and a debugger
// whose relay points at an address nothing listens on.
func newTestServer(t *testing.T, opts ...serverOption) *testServer {
	t.Helper()
	d := debugger.New(&debugger.Environment{
		UserAgent: "api-test",
		Location:  "http://127.0.0.1:1/",
		Console:   &quietConsole{},
		Client:    &http.Client{},
	}, debugger.WithShowInConsole(false), debugger.WithRelayTimeout(200*time.Millisecond))
	require.NotNil(t, d)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = d.Close(ctx)
	})

	recorder := &notify.Recorder{}
	options := Options{
		Config:   config.Default(),
		Debugger: d,
		Notifier: recorder,
		Processor: processor.New(processor.Options{
			Now: func() time.Time { return fixedNow },
		}, nil),
		Now: func() time.Time { return fixedNow },
	}
	for _, opt := range opts {
		opt(&options)
	}

	s := NewServer(options)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return &testServer{Server: s, http: ts, debugger: options.Debugger, notifier: recorder}
}

func (ts *testServer) do(t *testing.T, method, path, contentType string, body io.Reader) (*http.Response, map[string]interface{}) {
	t.Helper()
	req, err := http.NewRequest(method, ts.http.URL+path, body)
	require.NoError(t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]interface{}
	if len(raw) > 0 && resp.Header.Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp, out
}

func (ts *testServer) postJSON(t *testing.T, path string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	return ts.do(t, http.MethodPost, path, "application/json", bytes.NewReader(data))
}

func pngImage(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.NRGBA{R: 200, G: uint8(x * 40), B: uint8(y * 40), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// productForm builds a multipart upload. Images are attached under "images".
func productForm(t *testing.T, fields map[string]string, images map[string][]byte) (string, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for name, data := range images {
		part, err := mw.CreateFormFile("images", name)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return mw.FormDataContentType(), &buf
}
