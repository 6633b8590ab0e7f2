package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"inspector/internal/config"
	"inspector/internal/logging"
	"inspector/internal/settings"
	"inspector/internal/tui"
	"inspector/internal/tui/helpers"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// app holds what every command shares: IO, the logger and global flags.
type app struct {
	logger *logging.AppLogger
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	ephemeral bool
	noKeyring bool

	cfg *config.Config
}

func newApp(logger *logging.AppLogger, in io.Reader, out, errOut io.Writer) *app {
	return &app{logger: logger, in: in, out: out, errOut: errOut}
}

func execute(a *app, args []string) error {
	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	cmd.SetIn(a.in)
	cmd.SetOut(a.out)
	cmd.SetErr(a.errOut)

	if err := cmd.Execute(); err != nil {
		a.logger.Error("Command failed", "error", err)
		fmt.Fprintln(a.errOut, "Error:", err)
		return err
	}
	return nil
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "inspector",
		Short: "Inspect requests with an OpenAI-backed assistant",
		Long: `inspector is a terminal inspector. Its settings dialog manages the
OpenAI API token used for assistant requests; the token is kept in the OS
credential store unless --no-keyring is given.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loadDotEnv(); err != nil {
				return err
			}
			cfg, err := config.LoadOrCreate()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			a.cfg = cfg
			a.logger.Debug("Configuration loaded", "settings_file", cfg.SettingsFile, "use_keyring", cfg.UseKeyring)
			return nil
		},
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTUI()
		},
	}

	rootCmd.PersistentFlags().BoolVar(&a.ephemeral, "ephemeral", false, "Keep settings in memory only for this run")
	rootCmd.PersistentFlags().BoolVar(&a.noKeyring, "no-keyring", false, "Store the token in the settings file instead of the OS keyring")

	rootCmd.AddCommand(newTokenCmd(a))
	rootCmd.AddCommand(newConfigCmd(a))

	return rootCmd
}

// loadDotEnv loads ./.env when present. Variables already set win.
func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

func (a *app) usesKeyring() bool {
	return !a.ephemeral && !a.noKeyring && a.cfg.UseKeyring
}

func (a *app) backend() settings.Backend {
	if a.ephemeral {
		return settings.NewMemoryBackend(settings.Data{})
	}
	file := settings.NewFileBackend(a.cfg.SettingsFile)
	if a.usesKeyring() {
		return settings.NewKeyringBackend(file, settings.NewCredentialManager())
	}
	return file
}

func (a *app) openStore() (*settings.Store, error) {
	return settings.NewStore(a.backend(), a.logger)
}

func (a *app) runTUI() error {
	store, err := a.openStore()
	if err != nil {
		return err
	}

	model := tui.NewMainModel(helpers.NewUIContext(0, 0, a.cfg, a.logger, store))
	defer model.Close()

	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("error running TUI program: %w", err)
	}
	return nil
}
