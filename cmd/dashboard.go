package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/abhisek/aicred/internal/report"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show proficiency, education levels and the Knowledge Fusion Score",
	Long: "Show proficiency per subject group and the Knowledge Fusion Score. " +
		"Viewing the full dashboard records today's score as the baseline for " +
		"tomorrow's daily change.",
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		email, _ := cmd.Flags().GetString("email")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		var (
			s    *report.Summary
			name string
		)
		if email != "" {
			// A filtered view must not overwrite the stored baseline.
			results, err := e.repo.ResultsByEmail(cmd.Context(), email)
			if err != nil {
				return fmt.Errorf("load results: %w", err)
			}
			if len(results) > 0 {
				name = results[0].UserName
			}
			s, err = viewer().BuildFrom(cmd.Context(), results)
			if err != nil {
				return err
			}
		} else {
			s, err = e.dashboard().Build(cmd.Context())
			if err != nil {
				return err
			}
		}

		if asJSON {
			return writeJSON(e.out, s)
		}
		fmt.Fprint(e.out, report.Render(s, report.Options{Name: name}))
		return nil
	},
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	dashboardCmd.Flags().Bool("json", false, "Print the summary as JSON")
	dashboardCmd.Flags().String("email", "", "Only results issued to this email")
}
