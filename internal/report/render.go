package report

import (
	"fmt"
	"strings"

	"github.com/abhisek/aicred/internal/fusion"
	"github.com/abhisek/aicred/internal/level"
	"github.com/abhisek/aicred/internal/proficiency"
)

// Options controls dashboard rendering.
type Options struct {
	// Name is shown in the title when set.
	Name string

	// BarWidth is the width of level progress bars.
	BarWidth int
}

// Render draws the dashboard as styled terminal text.
func Render(s *Summary, opts Options) string {
	if opts.BarWidth <= 0 {
		opts.BarWidth = 24
	}

	var b strings.Builder

	title := "AiCE Dashboard"
	if opts.Name != "" {
		title += " · " + opts.Name
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s %s   %s %s\n",
		dimStyle.Render("Assessments:"), valueStyle.Render(fmt.Sprint(s.Assessments)),
		dimStyle.Render("AiCE points:"), valueStyle.Render(formatPoints(s.TotalPoints)))

	b.WriteString(headingStyle.Render("Proficiency"))
	b.WriteString("\n")
	if len(s.Scores) == 0 {
		b.WriteString(dimStyle.Render("No passed assessments yet."))
		b.WriteString("\n")
	}
	nameWidth := 0
	for _, sc := range s.Scores {
		nameWidth = max(nameWidth, len(sc.SubjectGroup))
	}
	for _, sc := range s.Scores {
		b.WriteString(renderScore(sc, nameWidth, opts.BarWidth))
		b.WriteString("\n")
	}

	b.WriteString(headingStyle.Render("Knowledge Fusion Score"))
	b.WriteString("\n")
	b.WriteString(cardStyle.Render(renderFusion(s.Fusion)))
	b.WriteString("\n")
	return b.String()
}

func renderScore(sc proficiency.Score, nameWidth, barWidth int) string {
	line := padRight(sc.SubjectGroup, nameWidth) + "  " +
		padRight(formatPoints(sc.Score)+" pts", 10) + "  " +
		padRight(sc.Level.String(), 13) + "  "

	if sc.Level == level.PhD {
		return line + upStyle.Render("max level")
	}
	line += progressBar(level.Progress(sc.Score, sc.Level), barWidth)
	if next, ok := sc.Level.Next(); ok {
		line += dimStyle.Render("  next: " + next.String())
	}
	return line
}

func renderFusion(f fusion.Score) string {
	if !f.IsEligible {
		return dimStyle.Render(fmt.Sprintf(
			"Reach %d points in at least %d subjects to unlock your Knowledge Fusion Score.",
			int(fusion.EligibleScore), fusion.MinSubjects))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s  %s\n",
		valueStyle.Render(formatPoints(f.Total)),
		dimStyle.Render("KFS"),
		f.Level.String())

	subjects := []struct {
		role string
		s    *fusion.Subject
	}{
		{"Major", f.Major},
		{"Minor", f.MinorA},
		{"Minor", f.MinorB},
	}
	for _, item := range subjects {
		if item.s == nil {
			continue
		}
		fmt.Fprintf(&b, "%s %s (%s pts, %s)\n",
			dimStyle.Render(item.role+":"), item.s.Subject, formatPoints(item.s.Points), item.s.Level)
	}

	if f.DailyProgress != nil {
		b.WriteString(renderDelta(*f.DailyProgress))
	} else {
		b.WriteString(dimStyle.Render("Daily change appears from tomorrow"))
	}
	return b.String()
}

func renderDelta(p fusion.DailyProgress) string {
	switch {
	case p.Change > 0:
		return upStyle.Render("▲ +"+formatPoints(p.Change)) + dimStyle.Render(" since yesterday")
	case p.Change < 0:
		return downStyle.Render("▼ "+formatPoints(p.Change)) + dimStyle.Render(" since yesterday")
	default:
		return dimStyle.Render("= no change since yesterday")
	}
}

func formatPoints(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}
