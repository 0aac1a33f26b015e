package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/mbolis/quick-swipe/engine"
	"github.com/mbolis/quick-swipe/model"
	"github.com/spf13/cobra"
)

const barWidth = 20

func NewResultsCommand(opts *Options) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "results <survey>",
		Short: "Print the questions of a survey ranked by approvals",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := opts.Client()
			survey, results, err := engine.LoadResults(cmd.Context(), c, c, surveyID(args[0]))
			if err != nil {
				return notFoundMessage(err)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(struct {
					Survey  model.Survey           `json:"survey"`
					Results []model.QuestionResult `json:"results"`
				}{survey, results})
			}
			FormatResults(out, survey, results)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print results as JSON")
	return cmd
}

// FormatResults writes the ranked results as a plain text table.
func FormatResults(w io.Writer, survey model.Survey, results []model.QuestionResult) {
	fmt.Fprintln(w, survey.Title)
	fmt.Fprintln(w, strings.Repeat("=", utf8.RuneCountInString(survey.Title)))
	fmt.Fprintln(w)

	if len(results) == 0 {
		fmt.Fprintln(w, "(no questions)")
		return
	}

	width, answers := 0, 0
	for _, r := range results {
		width = max(width, utf8.RuneCountInString(r.Question))
		answers += r.Total
	}

	for rank, r := range results {
		fmt.Fprintf(w, "%2d. %-*s  %s %5.1f%%  (%d/%d)\n",
			rank+1, width, r.Question, bar(r.ApprovalPercent), r.ApprovalPercent, r.Approvals, r.Total)
	}

	fmt.Fprintln(w)
	switch answers {
	case 0:
		fmt.Fprintln(w, "No answers yet.")
	case 1:
		fmt.Fprintln(w, "1 answer")
	default:
		fmt.Fprintf(w, "%d answers\n", answers)
	}
}

func bar(percent float64) string {
	filled := int(math.Round(percent / 100 * barWidth))
	filled = min(max(filled, 0), barWidth)
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}
