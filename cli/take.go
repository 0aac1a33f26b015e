package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mbolis/quick-swipe/engine"
	"github.com/mbolis/quick-swipe/log"
	"github.com/mbolis/quick-swipe/tui"
	"github.com/spf13/cobra"
)

func NewTakeCommand(opts *Options) *cobra.Command {
	var logFile string

	cmd := &cobra.Command{
		Use:   "take <survey>",
		Short: "Answer a survey by swiping cards in the terminal",
		Long: `Answer a survey one card at a time.

Drag a card with the mouse, or nudge it with the arrow keys and press enter,
to answer YES (right) or NO (left). The y and n keys answer directly.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c := opts.Client()

			session, err := engine.OpenSession(ctx, c, c, surveyID(args[0]))
			if err != nil {
				return notFoundMessage(err)
			}

			// the UI owns the screen
			var out io.Writer = io.Discard
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return fmt.Errorf("open log file: %w", err)
				}
				defer f.Close()
				out = f
			}
			log.SetOutput(out)
			defer log.SetOutput(os.Stderr)

			return tui.Run(ctx, session)
		},
	}

	cmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file while the UI is running")
	return cmd
}

func notFoundMessage(err error) error {
	if errors.Is(err, engine.ErrNotFound) {
		return errors.New("survey does not exist")
	}
	return err
}
