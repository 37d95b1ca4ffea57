// Package notify reports business events such as logins and finished
// submissions.
package notify

import (
	"sync"

	"github.com/posthog/posthog-go"

	"github.com/heyjunin/maaw/pkg/errors"
	"github.com/heyjunin/maaw/pkg/logger"
)

// Event names.
const (
	EventLogin              = "login"
	EventProductSubmit      = "product_submit"
	EventProcessingComplete = "processing_complete"
)

// Notifier delivers events. Delivery failures are logged, never returned to
// the request that caused the event.
type Notifier interface {
	Notify(event, distinctID string, properties map[string]interface{})
	Close() error
}

// LogNotifier writes events to the structured log only.
type LogNotifier struct{}

func (LogNotifier) Notify(event, distinctID string, properties map[string]interface{}) {
	data := make(map[string]interface{}, len(properties)+2)
	for k, v := range properties {
		data[k] = v
	}
	data["event"] = event
	data["distinct_id"] = distinctID
	logger.Info("Notification", "notify", data)
}

func (LogNotifier) Close() error { return nil }

// PostHog sends events to PostHog and mirrors them to the log.
type PostHog struct {
	client posthog.Client
	log    LogNotifier
}

// NewPostHog connects to endpoint with apiKey.
func NewPostHog(apiKey, endpoint string) (*PostHog, error) {
	client, err := posthog.NewWithConfig(apiKey, posthog.Config{Endpoint: endpoint})
	if err != nil {
		return nil, errors.WrapCode(err, errors.SystemError, errors.ErrConfigLoad)
	}
	return &PostHog{client: client}, nil
}

func (p *PostHog) Notify(event, distinctID string, properties map[string]interface{}) {
	p.log.Notify(event, distinctID, properties)

	props := posthog.NewProperties()
	for k, v := range properties {
		props.Set(k, v)
	}
	if err := p.client.Enqueue(posthog.Capture{
		DistinctId: distinctID,
		Event:      event,
		Properties: props,
	}); err != nil {
		logger.Warn("Notification delivery failed", "notify", map[string]interface{}{
			"event": event,
			"error": err.Error(),
		})
	}
}

// Close flushes queued events.
func (p *PostHog) Close() error {
	return p.client.Close()
}

// New returns a PostHog notifier when apiKey is set and a LogNotifier
// otherwise.
func New(apiKey, endpoint string) Notifier {
	if apiKey == "" {
		return LogNotifier{}
	}
	n, err := NewPostHog(apiKey, endpoint)
	if err != nil {
		logger.Warn("PostHog unavailable, notifications go to the log only", "notify", map[string]interface{}{
			"error": err.Error(),
		})
		return LogNotifier{}
	}
	return n
}

// Recorder keeps events in memory. It is used by tests of the packages that
// emit notifications.
type Recorder struct {
	mu     sync.Mutex
	events []Recorded
}

type Recorded struct {
	Event      string
	DistinctID string
	Properties map[string]interface{}
}

func (r *Recorder) Notify(event, distinctID string, properties map[string]interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Recorded{Event: event, DistinctID: distinctID, Properties: properties})
}

func (r *Recorder) Events() []Recorded {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Recorded(nil), r.events...)
}

func (r *Recorder) Close() error { return nil }
