package debugger

import "github.com/heyjunin/maaw/pkg/logger"

// interceptedConsole records every call as an entry before delegating to the
// original console with the unchanged arguments.
type interceptedConsole struct {
	debugger *Debugger
	original Console
}

func (c *interceptedConsole) Error(args ...interface{}) {
	c.record(LevelError, args)
	c.original.Error(args...)
}

func (c *interceptedConsole) Warn(args ...interface{}) {
	c.record(LevelWarn, args)
	c.original.Warn(args...)
}

func (c *interceptedConsole) Info(args ...interface{}) {
	c.record(LevelInfo, args)
	c.original.Info(args...)
}

func (c *interceptedConsole) Debug(args ...interface{}) {
	c.record(LevelDebug, args)
	c.original.Debug(args...)
}

func (c *interceptedConsole) record(level Level, args []interface{}) {
	c.debugger.Log(level, logger.JoinArgs(args), map[string]interface{}{
		"originalArgs": args,
	})
}

// Intercept wraps console so that every call also produces an entry.
// Wrapping a console this Debugger already intercepts returns it unchanged.
func (d *Debugger) Intercept(console Console) Console {
	if d == nil || console == nil {
		return console
	}
	if existing, ok := console.(*interceptedConsole); ok && existing.debugger == d {
		return existing
	}
	return &interceptedConsole{debugger: d, original: console}
}

// Console returns the intercepting console installed at construction.
// A nil Debugger returns a console that discards everything.
func (d *Debugger) Console() Console {
	if d == nil {
		return nopConsole{}
	}
	return d.console
}

type nopConsole struct{}

func (nopConsole) Error(...interface{}) {}
func (nopConsole) Warn(...interface{})  {}
func (nopConsole) Info(...interface{})  {}
func (nopConsole) Debug(...interface{}) {}
