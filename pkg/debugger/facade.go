package debugger

import "sync"

var (
	defaultMu   sync.Mutex
	defaultEnv  *Environment
	defaultOpts []Option
	defaultInst *Debugger
)

// Init registers the environment and options used to build the process-wide
// Debugger. It has no effect once Default has constructed an instance; calls
// made before Init while no capable environment was registered do not count.
func Init(env *Environment, opts ...Option) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultInst != nil {
		return
	}
	defaultEnv = env
	defaultOpts = opts
}

// Default returns the process-wide Debugger, building it on first use. It is
// nil when no capable environment was registered with Init.
func Default() *Debugger {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultInst == nil {
		defaultInst = New(defaultEnv, defaultOpts...)
	}
	return defaultInst
}

// Log records an entry on the process-wide Debugger.
func Log(level Level, message string, data interface{}) {
	Default().Log(level, message, data)
}

// GetLogs returns the entries of the process-wide Debugger.
func GetLogs() []LogEntry {
	return Default().GetLogs()
}

// ClearLogs empties the process-wide Debugger.
func ClearLogs() {
	Default().ClearLogs()
}

func resetDefault() {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultEnv = nil
	defaultOpts = nil
	defaultInst = nil
}
