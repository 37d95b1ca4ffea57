package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/heyjunin/maaw/pkg/debugger"
	"github.com/heyjunin/maaw/pkg/logger"
	"github.com/heyjunin/maaw/pkg/progress"
	"github.com/heyjunin/maaw/pkg/uploader"
)

var (
	submitServer    string
	submitText      string
	submitTextFile  string
	submitToken     string
	submitLocation  string
	submitOutputDir string
	submitTimeout   time.Duration
	submitOverwrite bool
	submitProgress  string
)

func newSubmitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submit [flags] IMAGE...",
		Short: "Upload a product to a running service and save the archive",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runSubmit,
	}
	cmd.Flags().StringVarP(&submitServer, "server", "s", "", "Service base URL (defaults to the configured base URL)")
	cmd.Flags().StringVar(&submitText, "text", "", "Product listing text")
	cmd.Flags().StringVar(&submitTextFile, "text-file", "", "Read the product listing from a file")
	cmd.Flags().StringVarP(&submitToken, "token", "t", "", "Team member token (required)")
	cmd.Flags().StringVar(&submitLocation, "gps", "", "GPS location: usa, germany, canada, australia or france")
	cmd.Flags().StringVarP(&submitOutputDir, "output", "o", ".", "Directory for the returned archive")
	cmd.Flags().DurationVar(&submitTimeout, "timeout", 5*time.Minute, "Request timeout")
	cmd.Flags().BoolVar(&submitOverwrite, "overwrite", false, "Allow overwriting an existing archive")
	cmd.Flags().StringVar(&submitProgress, "progress-file", "", "Also write progress updates to this file")
	cmd.MarkFlagRequired("token")
	return cmd
}

func runSubmit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	base := submitServer
	if base == "" {
		base = serviceURL(cfg)
	}

	text := submitText
	if submitTextFile != "" {
		data, err := os.ReadFile(submitTextFile)
		if err != nil {
			return err
		}
		text = string(data)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	d := newCommandDebugger(cfg, base)
	defer func() {
		closeCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		_ = d.Close(closeCtx)
	}()

	reporterOpts := []progress.ReporterOption{
		progress.WithDescription("Uploading"),
		progress.WithShowBytes(true),
		progress.WithOutput(cmd.ErrOrStderr()),
	}
	if submitProgress != "" {
		reporterOpts = append(reporterOpts, progress.WithProgressFile(submitProgress))
	}

	up := uploader.New(uploader.Options{
		Endpoint:      base + "/api/process_product",
		Text:          text,
		Token:         submitToken,
		GPSLocation:   submitLocation,
		ImagePaths:    args,
		OutputDir:     submitOutputDir,
		Timeout:       submitTimeout,
		Progress:      progress.NewReporter(reporterOpts...),
		AllowOverride: submitOverwrite,
		Client:        d.Client(),
	})

	path, resp, err := up.Upload(ctx)
	if err != nil {
		d.Log(debugger.LevelError, "Product submission failed", map[string]interface{}{
			"error": err.Error(),
		})
		return err
	}

	absPath, _ := filepath.Abs(path)
	logger.Info("Product submitted", "main", map[string]interface{}{
		"archive":          absPath,
		"images_processed": resp.ImagesProcessed,
	})
	fmt.Fprintln(cmd.OutOrStdout(), absPath)
	return nil
}
