package report

import (
	"fmt"
	"strings"

	"github.com/abhisek/aicred/internal/teams"
)

// RenderTeam draws a team dashboard: members with their status and points,
// then the combined proficiency of active members.
func RenderTeam(d *teams.Dashboard, opts Options) string {
	if opts.BarWidth <= 0 {
		opts.BarWidth = 24
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Team · " + d.Team.Name))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("%s · created by %s", d.Team.ID, d.Team.CreatedBy.FullName())))
	b.WriteString("\n")

	b.WriteString(headingStyle.Render("Members"))
	b.WriteString("\n")
	emailWidth := 0
	for _, m := range d.Members {
		emailWidth = max(emailWidth, len(m.Email))
	}
	for _, m := range d.Members {
		line := padRight(m.Email, emailWidth) + "  "
		switch m.Status {
		case teams.MemberActive:
			line += padRight(upStyle.Render(string(m.Status)), 8) + "  " +
				fmt.Sprintf("%d assessments, %s pts", m.Assessments, formatPoints(m.TotalPoints))
		default:
			line += dimStyle.Render(string(m.Status))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString(headingStyle.Render("Combined proficiency"))
	b.WriteString("\n")
	if len(d.Scores) == 0 {
		b.WriteString(dimStyle.Render("No results from active members yet."))
		b.WriteString("\n")
	}
	nameWidth := 0
	for _, sc := range d.Scores {
		nameWidth = max(nameWidth, len(sc.SubjectGroup))
	}
	for _, sc := range d.Scores {
		b.WriteString(renderScore(sc, nameWidth, opts.BarWidth))
		b.WriteString("\n")
	}
	return b.String()
}
