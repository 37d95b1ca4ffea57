// Package config loads the service configuration from YAML with environment
// overrides.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/heyjunin/maaw/pkg/debugger"
	"github.com/heyjunin/maaw/pkg/errors"
)

// Version is reported by the health endpoint and in the debugger user agent.
const Version = "1.0.0"

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Gemini    GeminiConfig    `yaml:"gemini"`
	Debugger  DebuggerConfig  `yaml:"debugger"`
	Roster    RosterConfig    `yaml:"roster"`
	PostHog   PostHogConfig   `yaml:"posthog"`
	Processor ProcessorConfig `yaml:"processor"`
	// Environment is "production" or "development".
	Environment string `yaml:"environment"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	// BaseURL is where clients reach the service. Relative debugger
	// endpoints resolve against it.
	BaseURL        string        `yaml:"base_url"`
	MaxUploadBytes int64         `yaml:"max_upload_bytes"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// DebuggerConfig is a partial debugger configuration. Unset fields keep the
// debugger defaults.
type DebuggerConfig struct {
	Enabled       *bool         `yaml:"enabled,omitempty"`
	LogLevel      string        `yaml:"log_level,omitempty"`
	ShowInConsole *bool         `yaml:"show_in_console,omitempty"`
	ShowInUI      *bool         `yaml:"show_in_ui,omitempty"`
	APIEndpoint   string        `yaml:"api_endpoint,omitempty"`
	StoreCapacity int           `yaml:"store_capacity,omitempty"`
	PanelLimit    int           `yaml:"panel_limit,omitempty"`
	RelayQueue    int           `yaml:"relay_queue,omitempty"`
	RelayTimeout  time.Duration `yaml:"relay_timeout,omitempty"`
}

type RosterConfig struct {
	Path       string        `yaml:"path"`
	SessionTTL time.Duration `yaml:"session_ttl"`
	Watch      bool          `yaml:"watch"`
}

type PostHogConfig struct {
	APIKey   string `yaml:"api_key"`
	Endpoint string `yaml:"endpoint"`
}

type ProcessorConfig struct {
	Quality   int `yaml:"quality"`
	MaxImages int `yaml:"max_images"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           5001,
			MaxUploadBytes: 64 << 20,
			ReadTimeout:    30 * time.Second,
			WriteTimeout:   5 * time.Minute,
		},
		Log: LogConfig{Level: "info"},
		Gemini: GeminiConfig{
			Model: "gemini-2.0-flash",
		},
		Roster: RosterConfig{
			Path:       "roster.yaml",
			SessionTTL: 24 * time.Hour,
			Watch:      true,
		},
		PostHog: PostHogConfig{
			Endpoint: "https://us.i.posthog.com",
		},
		Processor: ProcessorConfig{
			Quality:   95,
			MaxImages: 50,
		},
		Environment: "development",
	}
}

// Load reads path over the defaults and applies environment overrides.
func Load(path string) (*Config, error) {
	cfg, err := LoadYAMLOrDefault(path, Default)
	if err != nil {
		return nil, errors.Wrap(err, errors.SystemError, errors.GetErrorMessage(errors.ErrConfigLoad), errors.ErrConfigLoad)
	}
	cfg.ApplyEnv(os.LookupEnv)
	return cfg, nil
}

// ApplyEnv overrides fields from environment variables:
// API_PORT, GEMINI_API_KEY, VERCEL, MAAW_DEBUG_ENDPOINT, MAAW_LOG_LEVEL,
// MAAW_BASE_URL and POSTHOG_API_KEY.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup("API_PORT"); ok {
		if port, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && port > 0 {
			c.Server.Port = port
		}
	}
	if v, ok := lookup("GEMINI_API_KEY"); ok {
		c.Gemini.APIKey = v
	}
	if v, ok := lookup("VERCEL"); ok && v != "" {
		c.Environment = "production"
	}
	if v, ok := lookup("MAAW_DEBUG_ENDPOINT"); ok && v != "" {
		c.Debugger.APIEndpoint = v
	}
	if v, ok := lookup("MAAW_LOG_LEVEL"); ok && v != "" {
		c.Log.Level = v
	}
	if v, ok := lookup("MAAW_BASE_URL"); ok && v != "" {
		c.Server.BaseURL = v
	}
	if v, ok := lookup("POSTHOG_API_KEY"); ok {
		c.PostHog.APIKey = v
	}
}

// GeminiConfigured reports whether descriptions are rewritten remotely.
func (c *Config) GeminiConfigured() bool {
	return c.Gemini.APIKey != ""
}

// DebuggerOptions converts the set fields of the debugger section.
func (c *Config) DebuggerOptions() []debugger.Option {
	d := c.Debugger
	var opts []debugger.Option
	if d.Enabled != nil {
		opts = append(opts, debugger.WithEnabled(*d.Enabled))
	}
	if level, ok := debugger.ParseLevel(d.LogLevel); ok {
		opts = append(opts, debugger.WithLogLevel(level))
	}
	if d.ShowInConsole != nil {
		opts = append(opts, debugger.WithShowInConsole(*d.ShowInConsole))
	}
	if d.ShowInUI != nil {
		opts = append(opts, debugger.WithShowInUI(*d.ShowInUI))
	}
	if d.APIEndpoint != "" {
		opts = append(opts, debugger.WithAPIEndpoint(d.APIEndpoint))
	}
	if d.StoreCapacity > 0 {
		opts = append(opts, debugger.WithStoreCapacity(d.StoreCapacity))
	}
	if d.PanelLimit > 0 {
		opts = append(opts, debugger.WithPanelLimit(d.PanelLimit))
	}
	if d.RelayQueue > 0 {
		opts = append(opts, debugger.WithRelayQueue(d.RelayQueue))
	}
	if d.RelayTimeout > 0 {
		opts = append(opts, debugger.WithRelayTimeout(d.RelayTimeout))
	}
	return opts
}
