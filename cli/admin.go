package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mbolis/quick-swipe/database"
	"github.com/mbolis/quick-swipe/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const EnvAdminPassword = "QSURVEY_ADMIN_PASSWORD"

func NewAdminCommand(opts *Options) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage administrators and published surveys",
	}
	cmd.PersistentFlags().StringVarP(&username, "user", "u", "admin", "administrator user name")
	cmd.PersistentFlags().StringVarP(&password, "password", "p", "", "administrator password (or "+EnvAdminPassword+", prompted when missing)")

	creds := func(cmd *cobra.Command) (string, error) {
		if password != "" {
			return password, nil
		}
		if v := os.Getenv(EnvAdminPassword); v != "" {
			return v, nil
		}
		return readPassword(cmd.InOrStdin(), cmd.ErrOrStderr(), "Password: ")
	}

	useradd := &cobra.Command{
		Use:   "useradd <username>",
		Short: "Create an administrator in the local database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := creds(cmd)
			if err != nil {
				return err
			}
			if pw == "" {
				return errors.New("password must not be empty")
			}

			store, err := database.Open(opts.Config.DBUrl)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.CreateUser(cmd.Context(), args[0], pw); err != nil {
				return err
			}
			log.WithFields(log.Fields{"user": args[0]}).Info("Administrator created")
			return nil
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List every published survey, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := creds(cmd)
			if err != nil {
				return err
			}
			c := opts.Client()
			token, err := c.Login(cmd.Context(), username, pw)
			if err != nil {
				return fmt.Errorf("login: %w", err)
			}
			surveys, err := c.ListSurveys(cmd.Context(), token)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, s := range surveys {
				fmt.Fprintf(out, "%s  %s  %-3d %s\n", s.ID, s.CreatedAt.Local().Format("2006-01-02 15:04"), len(s.Questions), s.Title)
			}
			return nil
		},
	}

	del := &cobra.Command{
		Use:     "delete <survey>",
		Aliases: []string{"rm"},
		Short:   "Delete a survey and all of its responses",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := creds(cmd)
			if err != nil {
				return err
			}
			c := opts.Client()
			token, err := c.Login(cmd.Context(), username, pw)
			if err != nil {
				return fmt.Errorf("login: %w", err)
			}
			id := surveyID(args[0])
			if err := c.DeleteSurvey(cmd.Context(), token, id); err != nil {
				return notFoundMessage(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Survey %s deleted\n", id)
			return nil
		},
	}

	cmd.AddCommand(useradd, list, del)
	return cmd
}

// readPassword prompts without echo on a terminal and reads one line otherwise.
func readPassword(in io.Reader, prompt io.Writer, label string) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(prompt, label)
		pw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(pw), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
