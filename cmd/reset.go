package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/aicred/internal/records"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete stored results, the KFS baseline and share links",
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")
		yes, _ := cmd.Flags().GetBool("yes")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		what := "results, the KFS baseline and share links"
		keys := records.LearnerKeys
		if all {
			what += ", teams and invites"
			keys = records.AllKeys
		}
		if !yes {
			ok, err := newPrompter(e.in, e.out).confirm("Delete " + what + "?")
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(e.out, "Nothing deleted.")
				return nil
			}
		}

		if err := e.repo.Reset(cmd.Context(), keys); err != nil {
			return err
		}
		fmt.Fprintf(e.out, "Deleted %s.\n", what)
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("all", false, "Also delete teams and invites")
	resetCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}
