package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/aicred/internal/contentgen"
	"github.com/abhisek/aicred/internal/llm"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Preview LLM-generated questions and credit for material (no database)",
	Long: `Generate an assessment from --text, --file or --url and print the questions
with their answers and the learning outcome.

Nothing is stored and LLM calls are not logged. Useful for evaluating
question quality and credit allocation.`,
	RunE: runPreview,
}

func init() {
	f := previewCmd.Flags()
	f.String("text", "", "Learning material as text")
	f.StringP("file", "f", "", "Read learning material from a .txt, .md, .csv or .xlsx file")
	f.StringP("url", "u", "", "YouTube video URL to fetch a transcript from")
	f.Int("count", 0, "Number of questions (default 2)")
}

func runPreview(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	count, _ := cmd.Flags().GetInt("count")

	text, err := assessmentSource(ctx, cmd)
	if err != nil {
		return err
	}

	if err := appConfig.LLM.Validate(); err != nil {
		return fmt.Errorf("llm configuration: %w", err)
	}
	provider, err := llm.NewProvider(ctx, appConfig.LLM, nil)
	if err != nil {
		return fmt.Errorf("LLM provider: %w", err)
	}

	cfg := contentgen.DefaultConfig()
	if count > 0 {
		cfg.QuestionCount = count
	}
	gen := contentgen.New(provider, cfg)

	fmt.Fprintln(out, "Generating assessment...")
	g, err := gen.Generate(ctx, text)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "\nTopic: %s\n", g.Topic)
	for i, q := range g.Questions {
		fmt.Fprintf(out, "\n── Question %d/%d (%s) ──\n", i+1, len(g.Questions), q.Difficulty)
		fmt.Fprintln(out, q.Text)
		for j, opt := range q.Options {
			mark := " "
			if j == q.CorrectAnswer {
				mark = "✓"
			}
			fmt.Fprintf(out, " %s %s) %s\n", mark, optionLetter(j), opt)
		}
	}

	lo := g.LearningOutcome
	fmt.Fprintln(out, "\n── Learning outcome ──")
	fmt.Fprintf(out, "Title:    %s\n", lo.Title)
	fmt.Fprintf(out, "Level:    %s\n", lo.AcademicLevel)
	fmt.Fprintf(out, "Time:     %s hours (%s CPD)\n", formatNumber(lo.LearningTime), formatNumber(lo.CPDPoints))
	fmt.Fprintf(out, "Points:   %s\n", formatNumber(lo.KIUAllocation))
	if lo.Summary != "" {
		fmt.Fprintf(out, "Summary:  %s\n", lo.Summary)
	}
	return nil
}
