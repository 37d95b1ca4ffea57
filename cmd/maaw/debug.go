package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/spf13/cobra"

	"github.com/heyjunin/maaw/pkg/debugger"
)

var debugServer string

func newDebugCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "debug",
		Short: "Call the debug actions of a running service",
	}
	cmd.PersistentFlags().StringVarP(&debugServer, "server", "s", "", "Service base URL (defaults to the configured base URL)")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "test [json]",
			Short: "Round-trip a payload through the test_api action",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				var payload interface{} = map[string]interface{}{"test": true}
				if len(args) == 1 {
					if err := json.Unmarshal([]byte(args[0]), &payload); err != nil {
						return err
					}
				}
				return runDebugAction(cmd, func(ctx context.Context, d *debugger.Debugger) (map[string]interface{}, error) {
					return d.TestAPI(ctx, payload)
				})
			},
		},
		&cobra.Command{
			Use:   "health",
			Short: "Ask the service for its system health",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runDebugAction(cmd, func(ctx context.Context, d *debugger.Debugger) (map[string]interface{}, error) {
					return d.CheckHealth(ctx)
				})
			},
		},
		newValidateCmd(),
	)
	return cmd
}

func newValidateCmd() *cobra.Command {
	var (
		text   string
		token  string
		images int
	)
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a product form without uploading it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			form := map[string]interface{}{
				"text":              text,
				"team_member_token": token,
				"images":            images,
			}
			return runDebugAction(cmd, func(ctx context.Context, d *debugger.Debugger) (map[string]interface{}, error) {
				return d.ValidateForm(ctx, form)
			})
		},
	}
	cmd.Flags().StringVar(&text, "text", "", "Product listing text")
	cmd.Flags().StringVarP(&token, "token", "t", "", "Team member token")
	cmd.Flags().IntVar(&images, "images", 0, "Number of images in the form")
	return cmd
}

func runDebugAction(cmd *cobra.Command, call func(context.Context, *debugger.Debugger) (map[string]interface{}, error)) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	base := debugServer
	if base == "" {
		base = serviceURL(cfg)
	}

	d := newCommandDebugger(cfg, base)
	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()
	defer func() {
		closeCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		_ = d.Close(closeCtx)
	}()

	result, err := call(ctx, d)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
