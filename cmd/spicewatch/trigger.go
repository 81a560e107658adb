package main

import (
	"fmt"

	"github.com/Veraticus/spicewatch/internal/cli"
	"github.com/Veraticus/spicewatch/internal/model"
	"github.com/Veraticus/spicewatch/internal/pipeline"
	"github.com/spf13/cobra"
)

func triggerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trigger",
		Short: "Submit a sample transaction through the pipeline",
		Long: `Run a transaction text through extraction, dedupe, enrichment and submission,
skipping the notification filter. Without --text the built-in sample is used:

  ` + pipeline.DefaultSampleText,
		RunE: runTrigger,
	}

	cmd.Flags().String("text", "", "Notification text to process instead of the sample")

	return cmd
}

func runTrigger(cmd *cobra.Command, _ []string) error {
	text, _ := cmd.Flags().GetString("text")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := buildApp(ctx, cfg, cli.NewStatusPrinter(cmd.OutOrStdout(), true))
	if err != nil {
		return err
	}
	defer a.Close()

	state := a.pipeline.Trigger(ctx, text)

	out := cmd.OutOrStdout()
	switch state {
	case model.StateSucceeded:
		_, _ = fmt.Fprintln(out, cli.FormatSuccess("Transaction submitted"))
	case model.StateFailed:
		return fmt.Errorf("transaction submission failed")
	case model.StateMissingAccount:
		return fmt.Errorf("no account signed in; run: spicewatch session login <accountId>")
	default:
		_, _ = fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf("Nothing submitted (%s)", state)))
	}
	return nil
}
