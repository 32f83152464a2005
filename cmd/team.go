package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/aicred/internal/assessment"
	"github.com/abhisek/aicred/internal/report"
)

var teamCmd = &cobra.Command{
	Use:   "team",
	Short: "Create learning teams, answer invites and view team progress",
}

var teamCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a team and invite members by email",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		members, _ := cmd.Flags().GetStringSlice("member")
		creator := assessment.UserInfo{}
		creator.FirstName, _ = cmd.Flags().GetString("first")
		creator.LastName, _ = cmd.Flags().GetString("last")
		creator.Email, _ = cmd.Flags().GetString("email")

		if err := assessment.ValidateUserInfo(creator); err != nil {
			return fmt.Errorf("team creator: %w", err)
		}

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		svc, err := e.teams(cmd.Context())
		if err != nil {
			return err
		}
		team, invites, err := svc.Create(cmd.Context(), name, creator, members)
		if err != nil {
			return err
		}

		fmt.Fprintf(e.out, "Created team %q (%s)\n", team.Name, team.ID)
		for _, inv := range invites {
			fmt.Fprintf(e.out, "  invited %-32s  %s\n", inv.Email, inv.ID)
		}
		return nil
	},
}

var teamListCmd = &cobra.Command{
	Use:   "list",
	Short: "List teams, or show one team's dashboard with --team",
	RunE: func(cmd *cobra.Command, args []string) error {
		teamID, _ := cmd.Flags().GetString("team")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		if teamID != "" {
			svc, err := e.teams(cmd.Context())
			if err != nil {
				return err
			}
			d, err := svc.Dashboard(cmd.Context(), teamID)
			if err != nil {
				return err
			}
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return writeJSON(e.out, d)
			}
			fmt.Fprint(e.out, report.RenderTeam(d, report.Options{}))
			return nil
		}

		all, err := e.repo.Teams(cmd.Context())
		if err != nil {
			return fmt.Errorf("load teams: %w", err)
		}
		if len(all) == 0 {
			fmt.Fprintln(e.out, "No teams yet.")
			return nil
		}
		fmt.Fprintf(e.out, "%-42s  %-24s  %-10s  %s\n", "ID", "Name", "Created", "Members")
		fmt.Fprintln(e.out, strings.Repeat("─", 90))
		for _, t := range all {
			fmt.Fprintf(e.out, "%-42s  %-24s  %-10s  %d\n",
				t.ID, truncate(t.Name, 24), t.CreatedAt.Local().Format("2006-01-02"), len(t.Members))
		}
		return nil
	},
}

var teamInvitesCmd = &cobra.Command{
	Use:   "invites",
	Short: "List pending invites for an email address",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		if email == "" {
			return fmt.Errorf("--email is required")
		}

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		svc, err := e.teams(cmd.Context())
		if err != nil {
			return err
		}
		invites, err := svc.PendingInvites(cmd.Context(), email)
		if err != nil {
			return fmt.Errorf("load invites: %w", err)
		}
		if len(invites) == 0 {
			fmt.Fprintln(e.out, "No pending invites.")
			return nil
		}
		for _, inv := range invites {
			name := inv.TeamID
			if t, err := e.repo.Team(cmd.Context(), inv.TeamID); err == nil && t != nil {
				name = t.Name
			}
			fmt.Fprintf(e.out, "%s  %-24s  %s\n", inv.ID, truncate(name, 24), inv.CreatedAt.Local().Format("2006-01-02"))
		}
		return nil
	},
}

var teamRespondCmd = &cobra.Command{
	Use:   "respond <invite-id>",
	Short: "Accept or decline a team invite",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		accept, _ := cmd.Flags().GetBool("accept")
		decline, _ := cmd.Flags().GetBool("decline")
		if accept == decline {
			return fmt.Errorf("pass exactly one of --accept or --decline")
		}

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		svc, err := e.teams(cmd.Context())
		if err != nil {
			return err
		}
		inv, err := svc.Respond(cmd.Context(), args[0], accept)
		if err != nil {
			return err
		}
		fmt.Fprintf(e.out, "Invite %s %s.\n", inv.ID, inv.Status)
		return nil
	},
}

func init() {
	teamCreateCmd.Flags().String("name", "", "Team name")
	teamCreateCmd.Flags().StringSliceP("member", "m", nil, "Member email (repeatable or comma separated)")
	teamCreateCmd.Flags().String("first", "", "Creator first name")
	teamCreateCmd.Flags().String("last", "", "Creator last name")
	teamCreateCmd.Flags().String("email", "", "Creator email")

	teamListCmd.Flags().String("team", "", "Show the dashboard of this team")
	teamListCmd.Flags().Bool("json", false, "Print the team dashboard as JSON")

	teamInvitesCmd.Flags().String("email", "", "Invitee email")

	teamRespondCmd.Flags().Bool("accept", false, "Accept the invite")
	teamRespondCmd.Flags().Bool("decline", false, "Decline the invite")

	teamCmd.AddCommand(teamCreateCmd)
	teamCmd.AddCommand(teamListCmd)
	teamCmd.AddCommand(teamInvitesCmd)
	teamCmd.AddCommand(teamRespondCmd)
}
