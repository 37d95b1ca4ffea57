package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/heyjunin/maaw/pkg/api"
	"github.com/heyjunin/maaw/pkg/auth"
	"github.com/heyjunin/maaw/pkg/debugger"
	"github.com/heyjunin/maaw/pkg/logger"
	"github.com/heyjunin/maaw/pkg/notify"
	"github.com/heyjunin/maaw/pkg/processor"
	"github.com/heyjunin/maaw/pkg/progress"
)

var (
	servePort int
	serveHost string
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the product upload API",
		RunE:  runServe,
	}
	cmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to listen on (overrides config and API_PORT)")
	cmd.Flags().StringVar(&serveHost, "host", "", "Interface to bind")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if servePort > 0 {
		cfg.Server.Port = servePort
	}
	if serveHost != "" {
		cfg.Server.Host = serveHost
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	d := newDebugger(cfg, serviceURL(cfg))
	defer d.Recover()

	roster, err := auth.LoadRoster(cfg.Roster.Path)
	if err != nil {
		return err
	}
	if cfg.Roster.Watch {
		err := roster.Watch(ctx, func(err error) {
			if err != nil {
				d.Log(debugger.LevelWarn, "Roster reload failed", map[string]interface{}{"error": err.Error()})
				return
			}
			d.Log(debugger.LevelInfo, "Roster reloaded", map[string]interface{}{"members": len(roster.Members())})
		})
		if err != nil {
			logger.Warn("Roster watch disabled", "main", map[string]interface{}{"error": err.Error()})
		}
	}

	notifier := notify.New(cfg.PostHog.APIKey, cfg.PostHog.Endpoint)
	defer notifier.Close()

	var describer processor.Describer
	if cfg.GeminiConfigured() {
		gemini := processor.NewGemini(cfg.Gemini.APIKey, d.Client())
		if cfg.Gemini.Model != "" {
			gemini.Model = cfg.Gemini.Model
		}
		describer = gemini
	}
	proc := processor.NewWithDeps(processor.Options{
		Quality:   cfg.Processor.Quality,
		MaxImages: cfg.Processor.MaxImages,
	}, progress.NewNop(), logger.NewLogger(), describer)

	server := api.NewServer(api.Options{
		Config:    cfg,
		Debugger:  d,
		Roster:    roster,
		Sessions:  auth.NewSessions(cfg.Roster.SessionTTL, nil),
		Processor: proc,
		Notifier:  notifier,
	})

	errCh := d.Go(server.Start)

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		logger.Info("Received signal, shutting down", "main", nil)
	}

	shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
	defer done()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("Server shutdown incomplete", "main", map[string]interface{}{"error": err.Error()})
	}
	return d.Close(shutdownCtx)
}
