package progress

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/heyjunin/maaw/pkg/logger"
	"github.com/schollz/progressbar/v3"
)

// Event is a single progress update for a product submission.
type Event struct {
	// Status is one of "initialized", "started", "processing" or "completed".
	Status string `json:"status"`
	// Percentage is the completion from 0.0 to 100.0.
	Percentage float64 `json:"percentage"`
	// Step names the current phase, e.g. "uploading" or "processing".
	Step string `json:"step"`
	// Stage describes the work inside the step, e.g. "Image 2/5".
	Stage string `json:"stage"`
	// Timestamp marks when the event occurred in RFC3339 format.
	Timestamp string `json:"timestamp"`
}

// Reporter receives progress for long-running work such as uploading a
// submission or converting its images.
type Reporter interface {
	// Start sets the total number of units (bytes or images).
	Start(total int64)
	// Update sets the current position.
	Update(current int64, step, stage string)
	// Increment advances the position by one unit.
	Increment(step, stage string)
	// Complete marks the work as finished and closes Updates.
	Complete()
	// Updates emits events until Complete is called.
	Updates() <-chan Event
}

type reporterOptions struct {
	throttle    time.Duration
	filePath    string
	fileFormat  string
	description string
	showBytes   bool
	output      io.Writer
}

// ReporterOption configures a BarReporter.
type ReporterOption func(*reporterOptions)

// WithThrottle sets the minimum interval between events sent on Updates.
func WithThrottle(duration time.Duration) ReporterOption {
	return func(opts *reporterOptions) {
		opts.throttle = duration
	}
}

// WithProgressFile mirrors the current progress into path on every update.
func WithProgressFile(path string) ReporterOption {
	return func(opts *reporterOptions) {
		opts.filePath = path
	}
}

// WithProgressFileFormat selects "text" (percentage only) or "json".
func WithProgressFileFormat(format string) ReporterOption {
	return func(opts *reporterOptions) {
		if format == "json" || format == "text" {
			opts.fileFormat = format
			return
		}
		logger.Warn("Invalid progress file format, using text", "progress", map[string]interface{}{
			"format": format,
		})
		opts.fileFormat = "text"
	}
}

// WithDescription sets the label of the console bar.
func WithDescription(desc string) ReporterOption {
	return func(opts *reporterOptions) {
		opts.description = desc
	}
}

// WithShowBytes renders the bar in bytes instead of a plain count.
func WithShowBytes(show bool) ReporterOption {
	return func(opts *reporterOptions) {
		opts.showBytes = show
	}
}

// WithOutput sets where the bar is drawn. Defaults to stderr.
func WithOutput(w io.Writer) ReporterOption {
	return func(opts *reporterOptions) {
		opts.output = w
	}
}

// BarReporter draws a console bar with schollz/progressbar and publishes
// events on a buffered channel.
type BarReporter struct {
	mu         sync.Mutex
	total      int64
	current    int64
	bar        *progressbar.ProgressBar
	opts       reporterOptions
	updatesCh  chan Event
	lastUpdate time.Time
	event      Event
	done       bool
}

func NewReporter(opts ...ReporterOption) *BarReporter {
	options := reporterOptions{
		description: "Processing...",
		fileFormat:  "text",
		output:      os.Stderr,
	}
	for _, opt := range opts {
		opt(&options)
	}

	return &BarReporter{
		opts: options,
		event: Event{
			Status:    "initialized",
			Timestamp: time.Now().Format(time.RFC3339),
		},
		lastUpdate: time.Now(),
		updatesCh:  make(chan Event, 16),
	}
}

func (r *BarReporter) Start(total int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.done {
		return
	}

	r.total = total
	r.current = 0
	r.event.Status = "started"
	r.event.Percentage = 0
	r.event.Timestamp = time.Now().Format(time.RFC3339)

	barOpts := []progressbar.Option{
		progressbar.OptionSetDescription(r.opts.description),
		progressbar.OptionSetWriter(r.opts.output),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	}
	if r.opts.showBytes {
		barOpts = append(barOpts, progressbar.OptionShowBytes(true))
	}
	r.bar = progressbar.NewOptions64(total, barOpts...)

	r.publish(true)
	r.writeFile()
}

func (r *BarReporter) Update(current int64, step, stage string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.update(current, step, stage)
}

func (r *BarReporter) Increment(step, stage string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.update(r.current+1, step, stage)
}

func (r *BarReporter) update(current int64, step, stage string) {
	if r.bar == nil {
		return
	}
	if current > r.total {
		current = r.total
	}
	r.current = current

	percentage := 0.0
	if r.total > 0 {
		percentage = float64(current) / float64(r.total) * 100
	}
	r.event.Percentage = percentage
	r.event.Step = step
	r.event.Stage = stage
	r.event.Status = "processing"
	r.event.Timestamp = time.Now().Format(time.RFC3339)

	_ = r.bar.Set64(current)

	r.publish(false)
	r.writeFile()
}

func (r *BarReporter) Complete() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.bar == nil || r.done {
		return
	}

	_ = r.bar.Finish()
	r.current = r.total
	r.event.Percentage = 100
	r.event.Status = "completed"
	r.event.Timestamp = time.Now().Format(time.RFC3339)

	r.publish(true)
	r.writeFile()
	r.bar = nil
	r.done = true
	close(r.updatesCh)
}

func (r *BarReporter) Updates() <-chan Event {
	return r.updatesCh
}

// Snapshot returns the latest event.
func (r *BarReporter) Snapshot() Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.event
}

// Current returns the position and the total.
func (r *BarReporter) Current() (int64, int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current, r.total
}

// publish requires r.mu.
func (r *BarReporter) publish(force bool) {
	now := time.Now()
	if !force && now.Sub(r.lastUpdate) < r.opts.throttle {
		return
	}
	r.lastUpdate = now

	select {
	case r.updatesCh <- r.event:
	default:
	}
}

// writeFile requires r.mu.
func (r *BarReporter) writeFile() {
	if r.opts.filePath == "" {
		return
	}

	var content []byte
	switch r.opts.fileFormat {
	case "json":
		data, err := json.MarshalIndent(r.event, "", "  ")
		if err != nil {
			logger.Warn("Failed to marshal progress event", "progress", map[string]interface{}{
				"path":  r.opts.filePath,
				"error": err.Error(),
			})
			return
		}
		content = data
	default:
		content = []byte(fmt.Sprintf("%.2f", r.event.Percentage))
	}

	if err := os.WriteFile(r.opts.filePath, content, 0644); err != nil {
		logger.Warn("Failed to write progress file", "progress", map[string]interface{}{
			"path":   r.opts.filePath,
			"format": r.opts.fileFormat,
			"error":  err.Error(),
		})
	}
}

// Nop discards progress. Its Updates channel is closed by Complete.
type Nop struct {
	once sync.Once
	ch   chan Event
}

func NewNop() *Nop {
	return &Nop{ch: make(chan Event)}
}

func (n *Nop) Start(int64)                  {}
func (n *Nop) Update(int64, string, string) {}
func (n *Nop) Increment(string, string)     {}
func (n *Nop) Complete()                    { n.once.Do(func() { close(n.ch) }) }
func (n *Nop) Updates() <-chan Event        { return n.ch }

// Reader reports every byte read from the wrapped reader.
type Reader struct {
	reader   io.Reader
	reporter Reporter
	step     string
	stage    string
	read     int64
}

// NewReader wraps reader. The caller starts and completes reporter.
func NewReader(reader io.Reader, reporter Reporter, step, stage string) *Reader {
	return &Reader{reader: reader, reporter: reporter, step: step, stage: stage}
}

func (pr *Reader) Read(p []byte) (int, error) {
	n, err := pr.reader.Read(p)
	if n > 0 {
		pr.read += int64(n)
		pr.reporter.Update(pr.read, pr.step, pr.stage)
	}
	return n, err
}
