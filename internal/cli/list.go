package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"derrclan.com/daily-bread/internal/config"
	"derrclan.com/daily-bread/internal/journal"
)

func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Get a list of Books in the Bible",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig(cmd)
			if err != nil {
				return err
			}

			books, err := a.newResolver(cfg).Books(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), books)
			return nil
		},
	}
}

func (a *app) biblesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bibles",
		Short: "List the Bible versions available to your API key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig(cmd)
			if err != nil {
				return err
			}

			bibles, err := a.newResolver(cfg).Bibles(cmd.Context())
			if err != nil {
				return err
			}
			for _, b := range bibles {
				fmt.Fprintln(cmd.OutOrStdout(), b)
			}
			return nil
		},
	}
}

func (a *app) historyCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the verses you have been shown",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// The history is local; no API key needed.
			cfg, err := config.Load(a.cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			if cfg.Database == "" {
				return fmt.Errorf("no history database configured")
			}

			j, err := journal.Open(cmd.Context(), cfg.Database)
			if err != nil {
				return err
			}
			defer j.Close()

			entries, err := j.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
					e.ViewedAt.Local().Format("2006-01-02 15:04"),
					e.Mode, e.BibleVersion, e.Verse.Reference(), e.Verse.Text)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of entries to show")
	return cmd
}
