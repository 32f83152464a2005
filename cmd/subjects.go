package cmd

import (
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/aicred/internal/contentgen"
	"github.com/abhisek/aicred/internal/level"
	"github.com/abhisek/aicred/internal/subject"
)

var subjectsCmd = &cobra.Command{
	Use:   "subjects",
	Short: "Browse the subject taxonomy and education levels",
}

var subjectsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List subject groups in match priority order",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		labels := appConfig.Taxonomy().Labels()
		for i, l := range labels {
			fmt.Fprintf(out, "%2d. %s\n", i+1, l)
		}
		fmt.Fprintf(out, "\nTopics matching none of these count as %s.\n", subject.General)
		return nil
	},
}

var subjectsClassifyCmd = &cobra.Command{
	Use:   "classify <topic>...",
	Short: "Show the subject group each topic is credited to",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tax := appConfig.Taxonomy()
		for _, topic := range args {
			fmt.Fprintf(cmd.OutOrStdout(), "%-40s  %s\n", truncate(topic, 40), tax.Classify(topic))
		}
		return nil
	},
}

var subjectsLevelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "Show education level thresholds and credit rates",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-14s  %12s  %12s  %14s\n", "Level", "Subject pts", "KFS total", "Points / hour")
		fmt.Fprintln(out, strings.Repeat("─", 58))
		for i, l := range level.All() {
			fmt.Fprintf(out, "%-14s  %12s  %12s  %14s\n",
				l.String(),
				band(level.SubjectThresholds, i),
				band(level.FusionThresholds, i),
				formatNumber(contentgen.CreditRate(l)))
		}
		return nil
	},
}

// band formats the i-th threshold band as "lo-hi" or "lo+".
func band(t level.Thresholds, i int) string {
	lo := 0.0
	if i > 0 {
		lo = t[i-1].Upper
	}
	if math.IsInf(t[i].Upper, 1) {
		return fmt.Sprintf(">%s", formatNumber(lo))
	}
	if i == 0 {
		return fmt.Sprintf("0-%s", formatNumber(t[i].Upper))
	}
	return fmt.Sprintf(">%s-%s", formatNumber(lo), formatNumber(t[i].Upper))
}

func init() {
	subjectsCmd.AddCommand(subjectsListCmd)
	subjectsCmd.AddCommand(subjectsClassifyCmd)
	subjectsCmd.AddCommand(subjectsLevelsCmd)
}
