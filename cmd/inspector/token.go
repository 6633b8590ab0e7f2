package main

import (
	"bufio"
	"fmt"
	"strings"

	"inspector/internal/config"
	"inspector/internal/settings"

	"github.com/spf13/cobra"
)

func newTokenCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage the OpenAI API token",
		Long:  `Show, set or clear the OpenAI API token. The token value is never printed.`,
	}

	cmd.AddCommand(newTokenStatusCmd(a))
	cmd.AddCommand(newTokenSetCmd(a))
	cmd.AddCommand(newTokenClearCmd(a))

	return cmd
}

func newTokenStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether a token is configured",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if settings.PresenceOf(store.Get().Settings) == settings.Present {
				fmt.Fprintln(out, "OpenAI token: set")
			} else {
				fmt.Fprintln(out, "OpenAI token: not set")
			}
			fmt.Fprintln(out, "Backend:", a.backendName())

			if a.usesKeyring() {
				status := settings.NewCredentialManager().GetCredentialStoreStatus()
				if available, _ := status["available"].(bool); available {
					fmt.Fprintln(out, "Credential store: available")
				} else {
					fmt.Fprintf(out, "Credential store: unavailable (%v)\n", status["error"])
				}
				if warning, ok := status["warning"].(string); ok {
					fmt.Fprintln(out, "Warning:", warning)
				}
			}
			return nil
		},
	}
}

func newTokenSetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set [token]",
		Short: "Save a token",
		Long: `Save the OpenAI API token. With no argument the token is read from
standard input, which keeps it out of shell history.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var token string
			if len(args) == 1 {
				token = args[0]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("failed to read token from stdin: %w", err)
				}
				token = strings.TrimSpace(line)
			}

			store, err := a.openStore()
			if err != nil {
				return err
			}

			next := store.Get().Settings.WithToken(token)
			if err := store.Update(settings.Data{Settings: next}); err != nil {
				return err
			}

			a.logger.LogUserAction("token_set", a.backendName())
			fmt.Fprintln(cmd.OutOrStdout(), "OpenAI token saved")
			return nil
		},
	}
}

func newTokenClearCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove the saved token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}

			next := store.Get().Settings.WithoutToken()
			if err := store.Update(settings.Data{Settings: next}); err != nil {
				return err
			}

			a.logger.LogUserAction("token_clear", a.backendName())
			fmt.Fprintln(cmd.OutOrStdout(), "OpenAI token cleared")
			return nil
		},
	}
}

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the inspector configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), config.ConfigPath())
			return nil
		},
	})

	return cmd
}

func (a *app) backendName() string {
	switch {
	case a.ephemeral:
		return "memory"
	case a.usesKeyring():
		return "keyring + " + a.cfg.SettingsFile
	default:
		return a.cfg.SettingsFile
	}
}
