package progress

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewReporter(t *testing.T) {
	reporter := NewReporter(WithOutput(io.Discard))

	event := reporter.Snapshot()
	if event.Status != "initialized" {
		t.Errorf("Initial status = %q, want %q", event.Status, "initialized")
	}
	if event.Timestamp == "" {
		t.Error("Timestamp should not be empty")
	}
}

func TestReporterStart(t *testing.T) {
	reporter := NewReporter(WithOutput(io.Discard))
	reporter.Start(100)

	current, total := reporter.Current()
	if total != 100 || current != 0 {
		t.Errorf("Current() = %d/%d, want 0/100", current, total)
	}
	if status := reporter.Snapshot().Status; status != "started" {
		t.Errorf("Status = %q, want %q", status, "started")
	}

	first := <-reporter.Updates()
	if first.Status != "started" {
		t.Errorf("first event status = %q, want %q", first.Status, "started")
	}
}

func TestReporterUpdate(t *testing.T) {
	reporter := NewReporter(WithOutput(io.Discard))
	reporter.Start(200)

	reporter.Update(50, "processing", "Image 1/4")

	event := reporter.Snapshot()
	if event.Percentage != 25.0 {
		t.Errorf("Percentage = %f, want %f", event.Percentage, 25.0)
	}
	if event.Step != "processing" || event.Stage != "Image 1/4" {
		t.Errorf("Step/Stage = %q/%q", event.Step, event.Stage)
	}
	if event.Status != "processing" {
		t.Errorf("Status = %q, want %q", event.Status, "processing")
	}
}

func TestReporterUpdateCapsAtTotal(t *testing.T) {
	reporter := NewReporter(WithOutput(io.Discard))
	reporter.Start(10)

	reporter.Update(25, "uploading", "")

	if current, _ := reporter.Current(); current != 10 {
		t.Errorf("Current = %d, want 10", current)
	}
}

func TestReporterIncrement(t *testing.T) {
	reporter := NewReporter(WithOutput(io.Discard))
	reporter.Start(100)

	for i := 0; i < 5; i++ {
		reporter.Increment("processing", "image")
	}

	if current, _ := reporter.Current(); current != 5 {
		t.Errorf("Current = %d, want %d", current, 5)
	}
	if pct := reporter.Snapshot().Percentage; pct != 5.0 {
		t.Errorf("Percentage = %f, want %f", pct, 5.0)
	}
}

func TestReporterCompleteClosesUpdates(t *testing.T) {
	reporter := NewReporter(WithOutput(io.Discard))
	reporter.Start(50)

	reporter.Complete()
	reporter.Complete()

	event := reporter.Snapshot()
	if event.Percentage != 100.0 || event.Status != "completed" {
		t.Errorf("final event = %+v", event)
	}

	var last Event
	for e := range reporter.Updates() {
		last = e
	}
	if last.Status != "completed" {
		t.Errorf("last event status = %q, want %q", last.Status, "completed")
	}
}

func TestReporterUpdateBeforeStartIsIgnored(t *testing.T) {
	reporter := NewReporter(WithOutput(io.Discard))
	reporter.Update(5, "x", "y")

	if status := reporter.Snapshot().Status; status != "initialized" {
		t.Errorf("Status = %q, want %q", status, "initialized")
	}
}

func TestReporterDrawsToOutput(t *testing.T) {
	var buf bytes.Buffer
	reporter := NewReporter(WithOutput(&buf), WithDescription("Uploading"), WithShowBytes(false))
	reporter.Start(2)
	reporter.Increment("uploading", "")
	reporter.Complete()

	if !strings.Contains(buf.String(), "Uploading") {
		t.Errorf("bar output %q does not contain the description", buf.String())
	}
}

func TestReporterWritesJSONProgressFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.json")
	reporter := NewReporter(WithOutput(io.Discard), WithProgressFile(path), WithProgressFileFormat("json"))
	reporter.Start(4)
	reporter.Update(1, "processing", "Image 1/4")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() failed: %v", err)
	}
	var event Event
	if err := json.Unmarshal(data, &event); err != nil {
		t.Fatalf("progress file is not valid JSON: %v", err)
	}
	if event.Percentage != 25.0 || event.Stage != "Image 1/4" {
		t.Errorf("progress file event = %+v", event)
	}
}

func TestReporterWritesTextProgressFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.txt")
	reporter := NewReporter(WithOutput(io.Discard), WithProgressFile(path), WithProgressFileFormat("xml"))
	reporter.Start(4)
	reporter.Update(3, "processing", "")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() failed: %v", err)
	}
	if string(data) != "75.00" {
		t.Errorf("progress file = %q, want %q", string(data), "75.00")
	}
}

func TestReaderReportsBytes(t *testing.T) {
	reporter := NewReporter(WithOutput(io.Discard))
	reporter.Start(11)

	n, err := io.Copy(io.Discard, NewReader(strings.NewReader("hello world"), reporter, "uploading", "body"))
	if err != nil {
		t.Fatalf("Copy() failed: %v", err)
	}
	if current, _ := reporter.Current(); current != n {
		t.Errorf("Current = %d, want %d", current, n)
	}
}

func TestNopComplete(t *testing.T) {
	nop := NewNop()
	nop.Start(3)
	nop.Increment("a", "b")
	nop.Complete()
	nop.Complete()

	if _, open := <-nop.Updates(); open {
		t.Error("Updates should be closed after Complete")
	}
}
