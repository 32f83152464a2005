package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/aicred/internal/llm"
	"github.com/abhisek/aicred/internal/store"
)

const timeLayout = "2006-01-02 15:04:05"

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect recorded LLM requests, token usage and cost",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")
		since, _ := cmd.Flags().GetDuration("since")
		failed, _ := cmd.Flags().GetBool("failed")
		asJSON, _ := cmd.Flags().GetBool("json")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		opts := store.QueryOpts{Limit: limit, Purpose: purpose}
		if since > 0 {
			opts.From = time.Now().Add(-since)
		}
		if failed {
			// Failures are filtered after the query, so the limit applies
			// to the filtered list instead.
			opts.Limit = 0
		}
		events, err := e.store.EventRepo().QueryLLMEvents(cmd.Context(), opts)
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		if failed {
			events = failures(events, limit)
		}

		if asJSON {
			return writeJSON(e.out, events)
		}
		if len(events) == 0 {
			fmt.Fprintln(e.out, "No LLM events found.")
			return nil
		}
		printEvents(e.out, events)
		return nil
	},
}

func failures(events []store.LLMEvent, limit int) []store.LLMEvent {
	var out []store.LLMEvent
	for _, ev := range events {
		if ev.Success {
			continue
		}
		out = append(out, ev)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func printEvents(w io.Writer, events []store.LLMEvent) {
	fmt.Fprintf(w, "%-5s  %-19s  %-20s  %-28s  %-6s  %-6s  %-7s  %s\n",
		"ID", "Timestamp", "Purpose", "Model", "In", "Out", "Ms", "OK")
	fmt.Fprintln(w, rule(106))
	for _, ev := range events {
		mark := "✓"
		if !ev.Success {
			mark = "✗"
		}
		fmt.Fprintf(w, "%-5d  %-19s  %-20s  %-28s  %-6d  %-6d  %-7d  %s\n",
			ev.ID, ev.Timestamp.Local().Format(timeLayout),
			truncate(ev.Purpose, 20), truncate(ev.Model, 28),
			ev.InputTokens, ev.OutputTokens, ev.LatencyMs, mark)
	}
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the full prompt and answer of one LLM request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil || id <= 0 {
			return fmt.Errorf("invalid event ID %q", args[0])
		}
		asJSON, _ := cmd.Flags().GetBool("json")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ev, err := e.store.EventRepo().GetLLMEvent(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if ev == nil {
			return fmt.Errorf("event %d not found", id)
		}
		if asJSON {
			return writeJSON(e.out, ev)
		}
		printEvent(e.out, ev)
		return nil
	},
}

func printEvent(w io.Writer, ev *store.LLMEvent) {
	fmt.Fprintf(w, "ID:        %d\n", ev.ID)
	fmt.Fprintf(w, "Time:      %s\n", ev.Timestamp.Local().Format(timeLayout))
	fmt.Fprintf(w, "Provider:  %s\n", ev.Provider)
	fmt.Fprintf(w, "Model:     %s\n", ev.Model)
	fmt.Fprintf(w, "Purpose:   %s\n", ev.Purpose)
	fmt.Fprintf(w, "Tokens:    %d in / %d out\n", ev.InputTokens, ev.OutputTokens)
	if c := llm.LookupCost(ev.Model); c != nil {
		fmt.Fprintf(w, "Cost:      %s\n", formatCost(c.Cost(ev.InputTokens, ev.OutputTokens)))
	}
	fmt.Fprintf(w, "Latency:   %dms\n", ev.LatencyMs)
	fmt.Fprintf(w, "Success:   %v\n", ev.Success)
	if ev.ErrorMessage != "" {
		fmt.Fprintf(w, "Error:     %s\n", ev.ErrorMessage)
	}

	for _, part := range []struct{ title, body string }{
		{"REQUEST", ev.RequestBody},
		{"RESPONSE", ev.ResponseBody},
	} {
		body := part.body
		if body == "" {
			body = "(not captured)"
		}
		fmt.Fprintf(w, "\n%s\n%s\n%s\n%s\n", rule(60), part.title, rule(60), body)
	}
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show token usage by purpose and estimated cost by model",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		events := e.store.EventRepo()
		byPurpose, err := events.LLMUsageByPurpose(ctx)
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		if len(byPurpose) == 0 {
			fmt.Fprintln(e.out, "No LLM usage recorded yet.")
			return nil
		}
		printPurposeUsage(e.out, byPurpose)

		byModel, err := events.LLMUsageByModel(ctx)
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}
		if len(byModel) > 0 {
			fmt.Fprintln(e.out)
			printModelCost(e.out, byModel)
		}
		return nil
	},
}

func printPurposeUsage(w io.Writer, stats []store.PurposeUsage) {
	fmt.Fprintf(w, "Usage by Purpose\n%s\n", rule(76))
	fmt.Fprintf(w, "%-20s  %6s  %10s  %10s  %10s  %8s\n%s\n",
		"Purpose", "Calls", "Input", "Output", "Total", "Avg Ms", rule(76))

	var calls, in, out int
	for _, st := range stats {
		fmt.Fprintf(w, "%-20s  %6d  %10d  %10d  %10d  %8d\n",
			truncate(st.Purpose, 20), st.Calls, st.InputTokens, st.OutputTokens,
			st.InputTokens+st.OutputTokens, st.AvgLatencyMs)
		calls += st.Calls
		in += st.InputTokens
		out += st.OutputTokens
	}
	fmt.Fprintf(w, "%s\n%-20s  %6d  %10d  %10d  %10d\n", rule(76), "TOTAL", calls, in, out, in+out)
}

func printModelCost(w io.Writer, usage []store.ModelUsage) {
	fmt.Fprintf(w, "Estimated Cost (USD)\n%s\n", rule(76))
	fmt.Fprintf(w, "%-32s  %6s  %10s  %10s  %10s\n%s\n",
		"Model", "Calls", "Input", "Output", "Cost", rule(76))

	var (
		total   float64
		unknown []string
	)
	for _, mu := range usage {
		cost := "?"
		if c := llm.LookupCost(mu.Model); c != nil {
			usd := c.Cost(mu.InputTokens, mu.OutputTokens)
			total += usd
			cost = formatCost(usd)
		} else {
			unknown = append(unknown, mu.Model)
		}
		fmt.Fprintf(w, "%-32s  %6d  %10d  %10d  %10s\n",
			truncate(mu.Model, 32), mu.Calls, mu.InputTokens, mu.OutputTokens, cost)
	}

	label := "TOTAL"
	if len(unknown) > 0 {
		label = "TOTAL (partial)"
	}
	fmt.Fprintf(w, "%s\n%-32s  %6s  %10s  %10s  %10s\n", rule(76), label, "", "", "", formatCost(total))
	if len(unknown) > 0 {
		fmt.Fprintf(w, "\nPricing unavailable for: %s\n", strings.Join(unknown, ", "))
	}
}

func rule(n int) string {
	return strings.Repeat("─", n)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Only show one purpose (assessment-questions, learning-outcome)")
	llmListCmd.Flags().Duration("since", 0, "Only show events newer than this, e.g. 24h")
	llmListCmd.Flags().Bool("failed", false, "Only show failed requests")
	llmListCmd.Flags().Bool("json", false, "Print events as JSON")
	llmViewCmd.Flags().Bool("json", false, "Print the event as JSON")

	llmCmd.AddCommand(llmListCmd, llmViewCmd, llmStatsCmd)
}
