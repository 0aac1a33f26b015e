package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/mbolis/quick-swipe/engine"
	"github.com/spf13/cobra"
)

func NewCreateCommand(opts *Options) *cobra.Command {
	var (
		title     string
		questions []string
		file      string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Publish a new survey",
		Example: `  qsurvey create --title Lunch --question "Pizza?" --question "Tacos?"
  qsurvey create --title Lunch --file questions.txt`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if file != "" {
				text, err := readQuestions(cmd.InOrStdin(), file)
				if err != nil {
					return err
				}
				questions = append(questions, engine.ParseQuestions(text)...)
			}

			created, err := opts.Client().CreateSurvey(cmd.Context(), title, questions)
			if err != nil {
				return fmt.Errorf("create survey: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Survey %s is ready!\n\n", created.ID)
			fmt.Fprintf(out, "Answer:  %s\n", created.SurveyURL)
			fmt.Fprintf(out, "Results: %s\n", created.ResultsURL)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "survey title")
	cmd.Flags().StringArrayVarP(&questions, "question", "q", nil, "a yes/no question (repeatable)")
	cmd.Flags().StringVarP(&file, "file", "f", "", "read questions from a file, one per line (- for stdin)")
	cmd.MarkFlagRequired("title")

	return cmd
}

func readQuestions(stdin io.Reader, file string) (string, error) {
	var data []byte
	var err error
	if file == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(file)
	}
	if err != nil {
		return "", fmt.Errorf("read questions: %w", err)
	}
	return string(data), nil
}

func NewLinksCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "links <survey>",
		Short: "Print the links to answer a survey and to see its results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			links, err := opts.Client().Links(cmd.Context(), surveyID(args[0]))
			if err != nil {
				return notFoundMessage(err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Answer:  %s\n", links.SurveyURL)
			fmt.Fprintf(out, "Results: %s\n", links.ResultsURL)
			return nil
		},
	}
}
