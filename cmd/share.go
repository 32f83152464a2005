package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/aicred/internal/report"
)

var shareCmd = &cobra.Command{
	Use:   "share",
	Short: "Share a learner's dashboard behind a password-protected link",
}

var shareCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a share link for the results issued to --email",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		if email == "" {
			return fmt.Errorf("--email is required")
		}

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		if password == "" {
			if password, err = newPrompter(e.in, e.out).required("Link password: "); err != nil {
				return err
			}
		}

		svc, err := e.sharing(cmd.Context())
		if err != nil {
			return err
		}
		link, token, err := svc.Create(cmd.Context(), email, password)
		if err != nil {
			return err
		}

		fmt.Fprintf(e.out, "Share link %s expires %s\n", link.ID, link.ExpiresAt.Local().Format("2006-01-02"))
		if base := strings.TrimRight(appConfig.Email.AppBaseURL, "/"); base != "" {
			fmt.Fprintf(e.out, "URL:   %s/shared/%s\n", base, token)
		}
		fmt.Fprintf(e.out, "Token: %s\n", token)
		return nil
	},
}

var shareOpenCmd = &cobra.Command{
	Use:   "open <token>",
	Short: "Open a shared dashboard",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, _ := cmd.Flags().GetString("password")
		asJSON, _ := cmd.Flags().GetBool("json")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		if password == "" {
			if password, err = newPrompter(e.in, e.out).required("Link password: "); err != nil {
				return err
			}
		}

		svc, err := e.sharing(cmd.Context())
		if err != nil {
			return err
		}
		token := args[0]
		if i := strings.LastIndex(token, "/shared/"); i >= 0 {
			token = token[i+len("/shared/"):]
		}
		link, results, err := svc.Open(cmd.Context(), token, password)
		if err != nil {
			return err
		}

		s, err := viewer().BuildFrom(cmd.Context(), results)
		if err != nil {
			return err
		}
		if asJSON {
			return writeJSON(e.out, s)
		}
		name := link.UserID
		if len(results) > 0 {
			name = results[0].UserName
		}
		fmt.Fprint(e.out, report.Render(s, report.Options{Name: name}))
		return nil
	},
}

func init() {
	shareCreateCmd.Flags().String("email", "", "Learner email whose results are shared")
	shareCreateCmd.Flags().String("password", "", "Password required to open the link")

	shareOpenCmd.Flags().String("password", "", "Link password")
	shareOpenCmd.Flags().Bool("json", false, "Print the summary as JSON")

	shareCmd.AddCommand(shareCreateCmd)
	shareCmd.AddCommand(shareOpenCmd)
}
