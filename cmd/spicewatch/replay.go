package main

import (
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/Veraticus/spicewatch/internal/cli"
	"github.com/Veraticus/spicewatch/internal/model"
	"github.com/Veraticus/spicewatch/internal/source"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func replayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay <file>",
		Short: "Replay a captured notification file in order",
		Long: `Process every notification event in a JSON-lines file, one at a time and in
file order, then print how many ended in each state.`,
		Args: cobra.ExactArgs(1),
		RunE: runReplay,
	}

	cmd.Flags().Bool("no-progress", false, "Disable the progress bar")

	return cmd
}

func runReplay(cmd *cobra.Command, args []string) error {
	noProgress, _ := cmd.Flags().GetBool("no-progress")

	file, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open replay file: %w", err)
	}
	defer func() { _ = file.Close() }()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	interrupts := cli.NewInterruptHandler(cmd.ErrOrStderr())
	ctx := interrupts.HandleInterrupts(cmd.Context(), "Replay interrupted", "Run spicewatch history to see what was submitted")

	events, err := source.ReadAll(ctx, file, func(err error) {
		slog.Warn("skipping malformed event", "error", err)
	})
	if err != nil {
		return fmt.Errorf("failed to read replay file: %w", err)
	}
	if len(events) == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("No events to replay"))
		return nil
	}

	a, err := buildApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	var bar *progressbar.ProgressBar
	if !noProgress {
		bar = progressbar.NewOptions(len(events),
			progressbar.OptionSetWriter(cmd.ErrOrStderr()),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionShowCount(),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionSetWidth(40),
			progressbar.OptionSetDescription("[cyan][bold]Replaying notifications...[reset]"),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "[green]=[reset]",
				SaucerHead:    "[green]>[reset]",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}),
		)
	}

	counts := make(map[model.State]int)
	for _, n := range events {
		if ctx.Err() != nil {
			break
		}
		counts[a.pipeline.Handle(ctx, n)]++
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}

	printReplaySummary(cmd, counts)
	return nil
}

func printReplaySummary(cmd *cobra.Command, counts map[model.State]int) {
	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, cli.FormatTitle("Replay summary"))

	states := make([]model.State, 0, len(counts))
	for state := range counts {
		states = append(states, state)
	}
	sort.Slice(states, func(i, j int) bool { return states[i] < states[j] })

	for _, state := range states {
		line := fmt.Sprintf("%-16s %d", state, counts[state])
		switch state {
		case model.StateSucceeded:
			line = cli.FormatSuccess(line)
		case model.StateFailed, model.StateMissingAccount:
			line = cli.FormatError(line)
		default:
			line = cli.FormatInfo(line)
		}
		_, _ = fmt.Fprintln(out, line)
	}
}
