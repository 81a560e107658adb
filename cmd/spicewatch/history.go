package main

import (
	"fmt"

	"github.com/Veraticus/spicewatch/internal/cli"
	"github.com/Veraticus/spicewatch/internal/storage"
	"github.com/spf13/cobra"
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent submissions",
		RunE:  runHistory,
	}

	cmd.Flags().IntP("limit", "n", storage.DefaultHistoryLimit, "Number of submissions to show")

	return cmd
}

func runHistory(cmd *cobra.Command, _ []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openStorage(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	records, err := store.RecentSubmissions(cmd.Context(), limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintln(out, cli.FormatTitle("Recent submissions"))
	_, _ = fmt.Fprintln(out, cli.RenderHistory(records))
	return nil
}
