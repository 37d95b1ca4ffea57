package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/heyjunin/maaw/pkg/auth"
)

func newRosterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roster",
		Short: "Inspect and maintain the team roster",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "hash [password]",
			Short: "Print the bcrypt hash of a password for the roster file",
			Long:  "Print the bcrypt hash of a password. Without an argument the password is read from stdin.",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				password := ""
				if len(args) == 1 {
					password = args[0]
				} else {
					data, err := io.ReadAll(cmd.InOrStdin())
					if err != nil {
						return err
					}
					password = strings.TrimRight(string(data), "\r\n")
				}
				if password == "" {
					return fmt.Errorf("password is empty")
				}
				hash, err := auth.HashPassword(password)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), hash)
				return nil
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List the members of the configured roster",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := loadConfig(cmd)
				if err != nil {
					return err
				}
				roster, err := auth.LoadRoster(cfg.Roster.Path)
				if err != nil {
					return err
				}
				for _, m := range roster.Members() {
					password := "no password"
					if m.PasswordHash != "" {
						password = "password set"
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", m.ID, m.Name, password)
				}
				return nil
			},
		},
	)
	return cmd
}
