package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/aicred/internal/assessment"
	"github.com/abhisek/aicred/internal/export"
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "List, import and export issued certificates",
}

var resultsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored results, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		results, err := loadResults(cmd, e, email)
		if err != nil {
			return err
		}
		if len(results) == 0 {
			fmt.Fprintln(e.out, "No results found.")
			return nil
		}

		tax := appConfig.Taxonomy()
		fmt.Fprintf(e.out, "%-10s  %-41s  %-28s  %-12s  %6s  %5s\n",
			"Date", "Certificate", "Topic", "Subject", "Points", "Score")
		fmt.Fprintln(e.out, strings.Repeat("─", 112))
		for _, r := range results {
			fmt.Fprintf(e.out, "%-10s  %-41s  %-28s  %-12s  %6s  %4d%%\n",
				r.Date.Local().Format("2006-01-02"),
				truncate(r.CertificateID, 41),
				truncate(r.Topic, 28),
				truncate(tax.Classify(r.Topic), 12),
				formatNumber(r.LearningOutcome.KIUAllocation),
				int(r.Score*100+0.5),
			)
		}
		return nil
	},
}

var resultsImportCmd = &cobra.Command{
	Use:   "import <file.json>",
	Short: "Import results from a JSON array, skipping known certificates",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}
		var incoming []assessment.Result
		if err := json.Unmarshal(raw, &incoming); err != nil {
			return fmt.Errorf("decode %s: %w", args[0], err)
		}

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		n, err := e.repo.ImportResults(cmd.Context(), incoming)
		if err != nil {
			return fmt.Errorf("import results: %w", err)
		}
		fmt.Fprintf(e.out, "Imported %d of %d results.\n", n, len(incoming))
		return nil
	},
}

var resultsExportCmd = &cobra.Command{
	Use:   "export <file.csv|file.xlsx>",
	Short: "Export a learning transcript as CSV or XLSX",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		email, _ := cmd.Flags().GetString("email")
		upload, _ := cmd.Flags().GetBool("upload")

		if _, err := export.FormatFor(path); err != nil {
			return err
		}
		if upload && !appConfig.SFTP.Enabled() {
			return errors.New("--upload needs AICRED_SFTP_HOST to be set")
		}

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		results, err := loadResults(cmd, e, email)
		if err != nil {
			return err
		}
		if err := export.WriteFile(path, export.Rows(results, appConfig.Taxonomy())); err != nil {
			return fmt.Errorf("export results: %w", err)
		}
		fmt.Fprintf(e.out, "Wrote %d results to %s\n", len(results), path)

		if upload {
			if err := export.Upload(cmd.Context(), appConfig.SFTP, path, filepath.Base(path)); err != nil {
				return fmt.Errorf("upload transcript: %w", err)
			}
			fmt.Fprintf(e.out, "Uploaded to %s:%s\n", appConfig.SFTP.Host, appConfig.SFTP.RemoteDir)
		}
		return nil
	},
}

func loadResults(cmd *cobra.Command, e *env, email string) ([]assessment.Result, error) {
	var (
		results []assessment.Result
		err     error
	)
	if email != "" {
		results, err = e.repo.ResultsByEmail(cmd.Context(), email)
	} else {
		results, err = e.repo.Results(cmd.Context())
	}
	if err != nil {
		return nil, fmt.Errorf("load results: %w", err)
	}
	return results, nil
}

func init() {
	resultsListCmd.Flags().String("email", "", "Only results issued to this email")
	resultsExportCmd.Flags().String("email", "", "Only results issued to this email")
	resultsExportCmd.Flags().Bool("upload", false, "Upload the file to the configured SFTP server")

	resultsCmd.AddCommand(resultsListCmd)
	resultsCmd.AddCommand(resultsImportCmd)
	resultsCmd.AddCommand(resultsExportCmd)
}
