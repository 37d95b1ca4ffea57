package debugger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/heyjunin/maaw/pkg/errors"
)

// InstanceHeader carries the id of the relaying process so the collector can
// group reports.
const InstanceHeader = "X-Instance-ID"

// ActionLogError is the action name of a relayed error report.
const ActionLogError = "log_error"

// Report is the body POSTed for every relayed error entry.
type Report struct {
	Action    string   `json:"action"`
	Data      LogEntry `json:"data"`
	Timestamp string   `json:"timestamp"`
}

// Relay delivers error entries to a remote collector in the background.
// Delivery is fire-and-forget: Send never blocks the caller, and a failed POST
// produces exactly one line on the console it was given and nothing else.
type Relay struct {
	endpoint   string
	client     *http.Client
	console    Console
	timeout    time.Duration
	now        func() time.Time
	instanceID string

	queue chan LogEntry
	done  chan struct{}

	mu     sync.RWMutex
	closed bool
}

// NewRelay starts the delivery worker. client must not be instrumented by the
// Debugger feeding the relay, and console must be the original console, or a
// failed delivery would be recorded and relayed again.
func NewRelay(endpoint string, client *http.Client, console Console, queueSize int, timeout time.Duration, now func() time.Time) *Relay {
	if client == nil {
		client = &http.Client{}
	}
	if console == nil {
		console = nopConsole{}
	}
	if queueSize <= 0 {
		queueSize = DefaultRelayQueue
	}
	if timeout <= 0 {
		timeout = DefaultRelayTimeout
	}
	if now == nil {
		now = time.Now
	}
	r := &Relay{
		endpoint:   endpoint,
		client:     client,
		console:    console,
		timeout:    timeout,
		now:        now,
		instanceID: uuid.NewString(),
		queue:      make(chan LogEntry, queueSize),
		done:       make(chan struct{}),
	}
	go r.run()
	return r
}

func (r *Relay) Endpoint() string {
	return r.endpoint
}

// Send queues entry for delivery. When the queue is full the entry is dropped
// and reported on the console.
func (r *Relay) Send(entry LogEntry) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return
	}
	select {
	case r.queue <- entry:
	default:
		err := apperrors.FromCode(apperrors.RelayError, apperrors.ErrRelayQueueFull, entry.Message)
		r.console.Error("Failed to send debug data to API:", err)
	}
}

// Close stops accepting entries and waits for queued ones to be delivered or
// for ctx to end.
func (r *Relay) Close(ctx context.Context) error {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		close(r.queue)
	}
	r.mu.Unlock()

	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Relay) run() {
	defer close(r.done)
	for entry := range r.queue {
		if err := r.deliver(entry); err != nil {
			r.console.Error("Failed to send debug data to API:", err)
		}
	}
}

func (r *Relay) deliver(entry LogEntry) error {
	body, err := json.Marshal(Report{
		Action:    ActionLogError,
		Data:      entry,
		Timestamp: r.now().UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return apperrors.WrapCode(err, apperrors.RelayError, apperrors.ErrRelayDelivery)
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return apperrors.WrapCode(err, apperrors.RelayError, apperrors.ErrRelayDelivery)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(InstanceHeader, r.instanceID)

	resp, err := r.client.Do(req)
	if err != nil {
		return apperrors.WrapCode(err, apperrors.RelayError, apperrors.ErrRelayDelivery)
	}
	resp.Body.Close()
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return apperrors.FromCode(apperrors.RelayError, apperrors.ErrRelayDelivery,
			fmt.Sprintf("%s returned %d", r.endpoint, resp.StatusCode))
	}
	return nil
}
