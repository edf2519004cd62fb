// Package cli implements the bible command.
package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"derrclan.com/daily-bread/internal/config"
	"derrclan.com/daily-bread/internal/resolver"
	"derrclan.com/daily-bread/internal/scripture"
)

// version is set at build time with -ldflags "-X ...cli.version=...".
var version = "dev"

// defaultWidth is used when stdout is not a terminal.
const defaultWidth = 80

type app struct {
	cfgFile   string
	verbose   bool
	noHistory bool

	// clientOpts are appended to the scripture client options; tests use
	// them to point at a fake API.
	clientOpts []scripture.Option
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	return newApp().rootCmd()
}

func newApp() *app {
	return &app{}
}

func (a *app) rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "bible",
		Short:   "daily bread",
		Long:    "Get a random verse from the Bible.",
		Version: version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if a.verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
		},
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default: $XDG_CONFIG_HOME/bible/config.toml)")
	pf.String("api-key", "", "api.bible API key")
	pf.StringP("bible-version", "b", "", "bible version id (default \"kjv\")")
	pf.String("database", "", "history database path")
	pf.Duration("timeout", 0, "per-request timeout (default 10s)")
	pf.BoolVar(&a.noHistory, "no-history", false, "do not record the verse in the history")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(
		a.dailyCmd(),
		a.newCmd(),
		a.bookCmd(),
		a.listCmd(),
		a.biblesCmd(),
		a.historyCmd(),
	)
	return cmd
}

// Execute runs the root command until ctx is cancelled.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// loadConfig resolves the configuration for cmd and checks the API can be
// called with it.
func (a *app) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(a.cfgFile, cmd.Flags())
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (a *app) newResolver(cfg *config.Config) *resolver.Resolver {
	opts := append([]scripture.Option{scripture.WithTimeout(cfg.Timeout)}, a.clientOpts...)
	client := scripture.NewClient(cfg.APIKey, opts...)
	return resolver.New(client, cfg.BibleVersion)
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return defaultWidth
	}
	return width
}
