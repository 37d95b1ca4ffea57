package debugger

import (
	"fmt"
	"net/http"
	"runtime"
	"strings"
)

// CapturePanics records a panic raised by next as an error entry and then
// re-panics, so net/http's own recovery still runs.
func (d *Debugger) CapturePanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec != http.ErrAbortHandler {
					d.reportPanic(rec)
				}
				panic(rec)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// Recover records a panic in the calling goroutine and re-panics it.
// It must be deferred directly:
//
//	defer d.Recover()
func (d *Debugger) Recover() {
	if rec := recover(); rec != nil {
		d.reportPanic(rec)
		panic(rec)
	}
}

// Go runs fn in a new goroutine. A returned error is recorded as an unhandled
// async error and still delivered on the channel, which is closed when fn
// returns. A panic is recorded and re-raised.
func (d *Debugger) Go(fn func() error) <-chan error {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		defer d.Recover()
		if err := fn(); err != nil {
			d.Log(LevelError, "Unhandled async error: "+err.Error(), map[string]interface{}{
				"reason": err.Error(),
			})
			errc <- err
		}
	}()
	return errc
}

func (d *Debugger) reportPanic(rec interface{}) {
	if d == nil {
		return
	}
	// Reporting must never replace the original panic with a new one.
	defer func() { _ = recover() }()

	message := panicMessage(rec)
	file, line := panicLocation()
	d.Log(LevelError, "Unhandled error: "+message, map[string]interface{}{
		"filename": file,
		"lineno":   line,
		"colno":    0,
		"error":    message,
	})
}

func panicMessage(rec interface{}) string {
	if err, ok := rec.(error); ok {
		return err.Error()
	}
	return fmt.Sprint(rec)
}

// panicLocation returns the first non-runtime frame below runtime.gopanic,
// which is where the panic was raised.
func panicLocation() (string, int) {
	pcs := make([]uintptr, 64)
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	sawPanic := false
	for {
		frame, more := frames.Next()
		if strings.HasPrefix(frame.Function, "runtime.") {
			if frame.Function == "runtime.gopanic" {
				sawPanic = true
			}
		} else if sawPanic {
			return frame.File, frame.Line
		}
		if !more {
			return "", 0
		}
	}
}
