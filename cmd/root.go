package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/rosterboard/internal/app"
	"github.com/zjrosen/rosterboard/internal/config"
	"github.com/zjrosen/rosterboard/internal/identity"
	"github.com/zjrosen/rosterboard/internal/log"
	"github.com/zjrosen/rosterboard/internal/roster"
	"github.com/zjrosen/rosterboard/internal/tracing"
	"github.com/zjrosen/rosterboard/internal/ui/styles"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in input fields.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

var (
	version   = "dev"
	cfgFile   string
	cfgPath   string
	debugFlag bool
	cfg       config.Config

	logCleanup func()
)

var rootCmd = &cobra.Command{
	Use:   "rosterboard",
	Short: "A terminal client for extracurricular activity sign-ups",
	Long: `A terminal user interface for browsing extracurricular activities,
signing students up and removing them from activity rosters.

rosterboard talks to a Roster Service over HTTP (see server.url). Run
'rosterboard serve' for a local development service.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE:              runApp,
}

func init() {
	cobra.OnFinalize(func() {
		if logCleanup != nil {
			logCleanup()
		}
	})

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .rosterboard/config.yaml or ~/.config/rosterboard/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false,
		"write debug.log and show log entries in the status line")
	rootCmd.PersistentFlags().StringP("server", "s", "",
		"Roster Service base URL (overrides server.url)")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")

	_ = viper.BindPFlag("server.url", rootCmd.PersistentFlags().Lookup("server"))
}

func debugEnabled() bool {
	return debugFlag || os.Getenv(config.EnvPrefix+"_DEBUG") != ""
}

// setup initialises logging, loads and validates configuration and applies
// the theme. It runs before every subcommand.
func setup(cmd *cobra.Command, _ []string) error {
	if err := initLogging(); err != nil {
		return err
	}

	loaded, path, err := config.Load(viper.GetViper(), cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := loaded.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	cfg, cfgPath = loaded, path

	if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
	styles.ApplyTheme(cfg.Theme.Highlight, cfg.Theme.Subtle, cfg.Theme.Error, cfg.Theme.Success)
	return nil
}

func initLogging() error {
	if !debugEnabled() || logCleanup != nil {
		return nil
	}
	logPath := os.Getenv(config.EnvPrefix + "_LOG")
	if logPath == "" {
		logPath = "debug.log"
	}
	cleanup, err := log.Init(logPath)
	if err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}
	logCleanup = cleanup
	log.Info(log.CatConfig, "rosterboard starting", "version", version, "logPath", logPath)
	return nil
}

// newTracer builds the tracing provider described by the configuration.
func newTracer() (*tracing.Provider, error) {
	return tracing.NewProvider(tracing.Config{
		Enabled:      cfg.Tracing.Enabled,
		Exporter:     cfg.Tracing.Exporter,
		FilePath:     cfg.Tracing.FilePath,
		OTLPEndpoint: cfg.Tracing.OTLPEndpoint,
		SampleRate:   cfg.Tracing.SampleRate,
		ServiceName:  tracing.DefaultServiceName,
	})
}

func newClient() (*roster.Client, error) {
	client, err := roster.NewClient(cfg.Server.URL, roster.WithTimeout(cfg.Server.Timeout))
	if err != nil {
		return nil, fmt.Errorf("creating roster client: %w", err)
	}
	return client, nil
}

func runApp(_ *cobra.Command, _ []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	provider, err := newTracer()
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(ctx); err != nil {
			log.ErrorErr(log.CatConfig, "Flushing traces failed", err)
		}
	}()

	zone.NewGlobal()
	defer zone.Close()

	model := app.New(app.Config{
		Service:          client,
		Labeler:          identity.NewFormatter(cfg.Cache.LabelTTL),
		Tracer:           provider.Tracer(),
		DismissAfter:     cfg.Feedback.DismissAfter,
		ShowDescriptions: cfg.UI.ShowDescriptions,
		Debug:            debugEnabled(),
	})

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.UI.Mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	final, err := tea.NewProgram(model, opts...).Run()

	if m, ok := final.(app.Model); ok {
		model = m
	}
	if closeErr := model.Close(); closeErr != nil && err == nil {
		err = closeErr
	}

	if err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
