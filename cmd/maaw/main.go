package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/heyjunin/maaw/pkg/config"
	"github.com/heyjunin/maaw/pkg/debugger"
	"github.com/heyjunin/maaw/pkg/logger"
)

var (
	configPath string
	logLevel   string
	prettyLogs bool
)

func main() {
	logger.Init()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "maaw",
		Short: "MAAW - product upload service and debugger",
		Long: `MAAW turns product listings into ready-to-publish archives of normalized
JPEG images and rewritten descriptions. It ships with a debugger that records,
mirrors and relays diagnostic events.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "maaw.yaml", "Path to the YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override the log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&prettyLogs, "pretty", false, "Human readable log output")

	rootCmd.AddCommand(
		newServeCmd(),
		newSubmitCmd(),
		newDebugCmd(),
		newRosterCmd(),
	)
	return rootCmd
}

// loadConfig reads the configuration and points the logger at it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if prettyLogs {
		cfg.Log.Pretty = true
	}
	logger.Configure(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Pretty)
	return cfg, nil
}

// newDebugger builds the process debugger for a service reachable at baseURL
// and installs it as the package default. Only long-running commands use it;
// the default instance is closed when the process exits.
func newDebugger(cfg *config.Config, baseURL string) *debugger.Debugger {
	env := debugger.DetectEnvironment(config.Version, baseURL)
	debugger.Init(env, cfg.DebuggerOptions()...)
	return debugger.Default()
}

// newCommandDebugger builds a debugger owned by a single command run. The
// caller closes it when the command ends.
func newCommandDebugger(cfg *config.Config, baseURL string) *debugger.Debugger {
	return debugger.New(debugger.DetectEnvironment(config.Version, baseURL), cfg.DebuggerOptions()...)
}

func serviceURL(cfg *config.Config) string {
	if cfg.Server.BaseURL != "" {
		return cfg.Server.BaseURL
	}
	host := cfg.Server.Host
	if host == "" || host == "0.0.0.0" {
		host = "localhost"
	}
	return fmt.Sprintf("http://%s:%d", host, cfg.Server.Port)
}
