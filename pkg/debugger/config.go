package debugger

import "time"

const (
	// DefaultAPIEndpoint is where error entries are relayed.
	DefaultAPIEndpoint = "/api/debug"
	// DefaultPanelLimit is the number of rendered items the panel keeps.
	DefaultPanelLimit = 50
	// DefaultRelayQueue is the number of error entries waiting for delivery.
	DefaultRelayQueue = 256
	// DefaultRelayTimeout bounds a single relay POST.
	DefaultRelayTimeout = 5 * time.Second
)

// Config is fixed when the Debugger is constructed.
type Config struct {
	// Enabled is the global kill switch. A disabled debugger records nothing.
	Enabled bool
	// LogLevel is the minimum severity accepted by Log.
	LogLevel Level
	// ShowInConsole echoes every entry through the original console.
	ShowInConsole bool
	// ShowInUI mirrors every entry into the panel surface.
	ShowInUI bool
	// APIEndpoint receives error entries. Relative paths resolve against the
	// environment's location.
	APIEndpoint string

	StoreCapacity int
	PanelLimit    int
	RelayQueue    int
	RelayTimeout  time.Duration
}

// DefaultConfig returns the configuration used when no options are given.
func DefaultConfig() Config {
	return Config{
		Enabled:       true,
		LogLevel:      LevelDebug,
		ShowInConsole: true,
		ShowInUI:      true,
		APIEndpoint:   DefaultAPIEndpoint,
		StoreCapacity: DefaultStoreCapacity,
		PanelLimit:    DefaultPanelLimit,
		RelayQueue:    DefaultRelayQueue,
		RelayTimeout:  DefaultRelayTimeout,
	}
}

func (c Config) normalized() Config {
	if !c.LogLevel.Valid() {
		c.LogLevel = LevelDebug
	}
	if c.APIEndpoint == "" {
		c.APIEndpoint = DefaultAPIEndpoint
	}
	if c.StoreCapacity <= 0 {
		c.StoreCapacity = DefaultStoreCapacity
	}
	if c.PanelLimit <= 0 {
		c.PanelLimit = DefaultPanelLimit
	}
	if c.RelayQueue <= 0 {
		c.RelayQueue = DefaultRelayQueue
	}
	if c.RelayTimeout <= 0 {
		c.RelayTimeout = DefaultRelayTimeout
	}
	return c
}

// Option overrides one field of the default configuration.
type Option func(*Config)

func WithEnabled(enabled bool) Option {
	return func(c *Config) { c.Enabled = enabled }
}

func WithLogLevel(level Level) Option {
	return func(c *Config) { c.LogLevel = level }
}

func WithShowInConsole(show bool) Option {
	return func(c *Config) { c.ShowInConsole = show }
}

func WithShowInUI(show bool) Option {
	return func(c *Config) { c.ShowInUI = show }
}

func WithAPIEndpoint(endpoint string) Option {
	return func(c *Config) { c.APIEndpoint = endpoint }
}

func WithStoreCapacity(capacity int) Option {
	return func(c *Config) { c.StoreCapacity = capacity }
}

func WithPanelLimit(limit int) Option {
	return func(c *Config) { c.PanelLimit = limit }
}

func WithRelayQueue(size int) Option {
	return func(c *Config) { c.RelayQueue = size }
}

func WithRelayTimeout(timeout time.Duration) Option {
	return func(c *Config) { c.RelayTimeout = timeout }
}
