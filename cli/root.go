package cli

import (
	"context"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mbolis/quick-swipe/client"
	"github.com/mbolis/quick-swipe/config"
	"github.com/mbolis/quick-swipe/log"
	"github.com/spf13/cobra"
)

// Options carries the configuration resolved before any subcommand runs.
type Options struct {
	Config config.Config
}

func (o *Options) Client() *client.Client {
	return client.New(o.Config.ServerURL)
}

func NewRootCommand() *cobra.Command {
	opts := &Options{}

	cmd := &cobra.Command{
		Use:           "qsurvey",
		Short:         "Swipe-style yes/no surveys",
		Long:          "Publish a short list of yes/no questions, collect anonymous swipes and rank the answers.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			if cfg.Debug {
				log.SetLevel(log.DebugLevel)
			}
			opts.Config = cfg
			return nil
		},
	}

	config.RegisterFlags(cmd.PersistentFlags())

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewCreateCommand(opts))
	cmd.AddCommand(NewLinksCommand(opts))
	cmd.AddCommand(NewTakeCommand(opts))
	cmd.AddCommand(NewResultsCommand(opts))
	cmd.AddCommand(NewAdminCommand(opts))

	return cmd
}

// Execute runs the command line, cancelling the context on SIGINT/SIGTERM.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCommand().ExecuteContext(ctx)
}

// surveyID accepts a bare identifier or a share link ending in one.
func surveyID(arg string) string {
	if !strings.Contains(arg, "/") {
		return arg
	}
	if u, err := url.Parse(arg); err == nil && u.Path != "" {
		arg = u.Path
	}
	arg = strings.TrimRight(arg, "/")
	return arg[strings.LastIndex(arg, "/")+1:]
}
