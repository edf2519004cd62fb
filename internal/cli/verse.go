package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"derrclan.com/daily-bread/internal/bible"
	"derrclan.com/daily-bread/internal/config"
	"derrclan.com/daily-bread/internal/email"
	"derrclan.com/daily-bread/internal/history_expunger"
	"derrclan.com/daily-bread/internal/journal"
	"derrclan.com/daily-bread/internal/resolver"
)

type resolveFunc func(ctx context.Context, r *resolver.Resolver) (*bible.Verse, error)

func (a *app) dailyCmd() *cobra.Command {
	var emailTo string
	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Get the daily random verse from the Bible",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runVerse(cmd, "daily", emailTo, func(ctx context.Context, r *resolver.Resolver) (*bible.Verse, error) {
				return r.DailyVerse(ctx)
			})
		},
	}
	cmd.Flags().StringVar(&emailTo, "email", "", "also email the verse to this address")
	return cmd
}

func (a *app) newCmd() *cobra.Command {
	var emailTo string
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Get a new random verse from the Bible",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runVerse(cmd, "new", emailTo, func(ctx context.Context, r *resolver.Resolver) (*bible.Verse, error) {
				return r.NewVerse(ctx)
			})
		},
	}
	cmd.Flags().StringVar(&emailTo, "email", "", "also email the verse to this address")
	return cmd
}

func (a *app) bookCmd() *cobra.Command {
	var emailTo string
	cmd := &cobra.Command{
		Use:   "book <name>",
		Short: "Get a random verse from a specific book of the Bible",
		Example: `  bible book John
  bible book 1 Corinthians`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.Join(args, " ")
			err := a.runVerse(cmd, "book", emailTo, func(ctx context.Context, r *resolver.Resolver) (*bible.Verse, error) {
				return r.VerseFromBook(ctx, name)
			})
			if errors.Is(err, resolver.ErrInvalidBook) {
				return fmt.Errorf("%w - please check the book name is correct. You can get a list of books by running `bible list`", err)
			}
			return err
		},
	}
	cmd.Flags().StringVar(&emailTo, "email", "", "also email the verse to this address")
	return cmd
}

// runVerse resolves a verse, prints it, then records and emails it as
// configured. A verse that was printed is not failed by a history error.
func (a *app) runVerse(cmd *cobra.Command, mode, emailTo string, resolve resolveFunc) error {
	cfg, err := a.loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	verse, err := resolve(ctx, a.newResolver(cfg))
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), verse.Render(terminalWidth()))

	if !a.noHistory && cfg.Database != "" {
		if err := recordHistory(ctx, cfg, mode, verse); err != nil {
			slog.Warn("failed to record history", "database", cfg.Database, "error", err)
		}
	}

	if emailTo != "" {
		mailer, err := email.NewMailer(cfg.Mailgun)
		if err != nil {
			return err
		}
		if err := mailer.SendVerse(ctx, emailTo, verse); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Sent %s to %s\n", verse.Reference(), emailTo)
	}
	return nil
}

func recordHistory(ctx context.Context, cfg *config.Config, mode string, verse *bible.Verse) error {
	j, err := journal.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer j.Close()

	now := time.Now()
	err = j.Record(ctx, journal.Entry{
		ViewedAt:     now,
		Mode:         mode,
		BibleVersion: cfg.BibleVersion,
		Verse:        *verse,
	})
	if err != nil {
		return err
	}

	_, err = history_expunger.Expunge(ctx, j.DB(), history_expunger.DefaultPolicy, now)
	return err
}
