package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Veraticus/spicewatch/internal/cli"
	"github.com/Veraticus/spicewatch/internal/sink"
	"github.com/Veraticus/spicewatch/internal/source"
	"github.com/Veraticus/spicewatch/internal/tui"
	"github.com/spf13/cobra"
)

func listenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "listen [file]",
		Short: "Process a live stream of notification events",
		Long: `Read notification events as JSON lines from a file or stdin and process
each one as it arrives. Every event is handled independently; output is the
stream of status events.

Each line is one event, for example:
  {"sourceId":"com.google.android.gm","title":"Card used","text":"{\"merchant\":\"Cafe\",\"amt\":4.5}"}`,
		Args: cobra.MaximumNArgs(1),
		RunE: runListen,
	}

	cmd.Flags().Bool("tui", false, "Show a live feed instead of plain output")
	cmd.Flags().Bool("show-debug", false, "Print debug status events (ignored sources)")

	return cmd
}

func runListen(cmd *cobra.Command, args []string) error {
	useTUI, _ := cmd.Flags().GetBool("tui")
	showDebug, _ := cmd.Flags().GetBool("show-debug")

	input := io.Reader(cmd.InOrStdin())
	if len(args) == 1 && args[0] != "-" {
		file, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open event stream: %w", err)
		}
		defer func() { _ = file.Close() }()
		input = file
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	interrupts := cli.NewInterruptHandler(cmd.ErrOrStderr())
	ctx := interrupts.HandleInterrupts(cmd.Context(), "Stopping listener", "Notifications already received will finish processing")

	if !useTUI {
		a, err := buildApp(ctx, cfg, cli.NewStatusPrinter(cmd.OutOrStdout(), showDebug))
		if err != nil {
			return err
		}
		defer a.Close()

		return consume(ctx, input, a, slog.Default())
	}

	// Logs would tear the alternate screen.
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))

	feed := sink.NewChannelSink(256)
	a, err := buildApp(ctx, cfg, feed)
	if err != nil {
		return err
	}
	defer a.Close()

	viewCtx, stopView := context.WithCancel(ctx)
	defer stopView()

	readErr := make(chan error, 1)
	go func() {
		err := consume(ctx, input, a, slog.Default())
		a.pipeline.Wait()
		feed.Close()
		readErr <- err
	}()

	if err := tui.Run(viewCtx, feed.Events(), "🌶️  spicewatch"); err != nil {
		return err
	}

	select {
	case err := <-readErr:
		return err
	default:
		return nil
	}
}

// consume dispatches every event from input until EOF or cancellation.
func consume(ctx context.Context, input io.Reader, a *app, logger *slog.Logger) error {
	reader := source.NewReader(input)
	for {
		n, err := reader.Next(ctx)
		switch {
		case err == nil:
			if dispatchErr := a.pipeline.Dispatch(ctx, n); dispatchErr != nil {
				return dispatchErr
			}
		case errors.Is(err, io.EOF), errors.Is(err, source.ErrInputCancelled):
			return nil
		case errors.Is(err, source.ErrMalformedEvent):
			logger.Warn("skipping malformed event", "error", err)
		default:
			return fmt.Errorf("failed to read event stream: %w", err)
		}
	}
}
