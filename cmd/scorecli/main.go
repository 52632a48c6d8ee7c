// Command scorecli scores a single transcript from a file or stdin and
// prints the result, for local calibration without running the server.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/fairyhunter13/interview-scorer/internal/config"
	"github.com/fairyhunter13/interview-scorer/internal/domain"
	"github.com/fairyhunter13/interview-scorer/internal/scoring"
	"github.com/fairyhunter13/interview-scorer/pkg/textx"
)

func main() {
	var (
		question   string
		questionID string
		duration   int
		configPath string
		asJSON     bool
	)

	root := &cobra.Command{
		Use:   "scorecli [transcript-file]",
		Short: "Score an interview answer transcript",
		Long:  "Scores a transcript against its question rubric and prints subscores, issues, and suggestions. Reads from stdin when no file is given.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var data []byte
			var err error
			if len(args) == 1 {
				data, err = os.ReadFile(args[0])
			} else {
				data, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return fmt.Errorf("read transcript: %w", err)
			}

			scoringCfg, err := config.LoadScoring(configPath)
			if err != nil {
				return err
			}
			engine := scoring.NewEngine(scoringCfg)
			result, err := engine.Score(domain.ScoreRequest{
				Question:        question,
				QuestionID:      questionID,
				Transcript:      textx.SanitizeTranscript(string(data)),
				DurationSeconds: duration,
			})
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			printSummary(cmd.OutOrStdout(), result)
			return nil
		},
	}

	root.Flags().StringVarP(&question, "question", "q", "", "question prompt the answer responds to")
	root.Flags().StringVar(&questionID, "question-id", "", "catalog rubric id (e.g. challenge-star)")
	root.Flags().IntVarP(&duration, "duration", "d", 120, "answer duration in seconds")
	root.Flags().StringVarP(&configPath, "config", "c", "", "scoring config YAML path")
	root.Flags().BoolVar(&asJSON, "json", false, "print the full result as JSON")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func printSummary(w io.Writer, res domain.ScoreResult) {
	fmt.Fprintf(w, "overall: %.1f (mode=%s)\n", res.OverallScore, res.QuestionAlignment.Mode)

	names := make([]string, 0, len(res.Subscores))
	for name := range res.Subscores {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-12s %.1f\n", name, res.Subscores[name])
	}

	if len(res.Issues) > 0 {
		fmt.Fprintln(w, "issues:")
		for _, iss := range res.Issues {
			fmt.Fprintf(w, "  [%s] %s: %s\n", iss.Severity, iss.Type, iss.FixSuggestion)
		}
	}
	if len(res.Suggestions) > 0 {
		fmt.Fprintln(w, "suggestions:")
		for _, s := range res.Suggestions {
			fmt.Fprintf(w, "  - %s\n", s)
		}
	}
	if len(res.Strengths) > 0 {
		fmt.Fprintln(w, "strengths:")
		for _, s := range res.Strengths {
			fmt.Fprintf(w, "  - %s\n", s)
		}
	}
}
