package logger

// Logger defines a standard logging interface for the application
type Logger interface {
	Debug(message string, component string, data map[string]interface{})
	Info(message string, component string, data map[string]interface{})
	Warn(message string, component string, data map[string]interface{})
	Error(message string, component string, data map[string]interface{})
	Fatal(message string, component string, data map[string]interface{})
}

// DefaultLogger is the default implementation of the Logger interface
type DefaultLogger struct{}

// NewLogger creates a new instance of the default logger
func NewLogger() Logger {
	return &DefaultLogger{}
}

// Debug logs a debug event
func (l *DefaultLogger) Debug(message string, component string, data map[string]interface{}) {
	Debug(message, component, data)
}

// Info logs an info event
func (l *DefaultLogger) Info(message string, component string, data map[string]interface{}) {
	Info(message, component, data)
}

// Warn logs a warning event
func (l *DefaultLogger) Warn(message string, component string, data map[string]interface{}) {
	Warn(message, component, data)
}

// Error logs an error event
func (l *DefaultLogger) Error(message string, component string, data map[string]interface{}) {
	Error(message, component, data)
}

// Fatal logs a fatal event
func (l *DefaultLogger) Fatal(message string, component string, data map[string]interface{}) {
	Fatal(message, component, data)
}

// Console writes variadic, console-style lines through the global logger.
// Each severity joins its arguments with single spaces.
type Console struct {
	Component string
}

// NewConsole returns a Console tagging every line with component.
func NewConsole(component string) *Console {
	return &Console{Component: component}
}

func (c *Console) Error(args ...interface{}) { Error(JoinArgs(args), c.Component, nil) }
func (c *Console) Warn(args ...interface{})  { Warn(JoinArgs(args), c.Component, nil) }
func (c *Console) Info(args ...interface{})  { Info(JoinArgs(args), c.Component, nil) }
func (c *Console) Debug(args ...interface{}) { Debug(JoinArgs(args), c.Component, nil) }
