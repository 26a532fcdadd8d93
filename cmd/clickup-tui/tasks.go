package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/hy4ri/clickup-tui/internal/analytics"
	"github.com/hy4ri/clickup-tui/internal/organizer"
	"github.com/hy4ri/clickup-tui/internal/workload"
)

func newTasksCmd(opts *rootOptions) *cobra.Command {
	var (
		asJSON bool
		mine   bool
		search string
	)

	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Fetch once and print the organized task tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()

			session, _, _, err := startSession(ctx, opts)
			if err != nil {
				return err
			}
			snap := session.Snapshot()
			f := analytics.Filter{OnlyMine: mine, Search: search}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(snap)
			}
			printTree(cmd.OutOrStdout(), snap, f, time.Now())
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the snapshot as JSON")
	cmd.Flags().BoolVar(&mine, "mine", false, "Only tasks assigned to me")
	cmd.Flags().StringVarP(&search, "search", "q", "", "Only tasks matching text")
	return cmd
}

// printTree writes the filtered forest as an indented list.
func printTree(w io.Writer, snap *workload.Snapshot, f analytics.Filter, now time.Time) {
	fmt.Fprintf(w, "%s  %s\n", boldStyle.Render(snap.Team.Name),
		dimStyle.Render(fmt.Sprintf("%d open · %d overdue · %d due soon", snap.Stats.Open, snap.Stats.Overdue, snap.Stats.DueSoon)))

	forest := snap.Filtered(f)
	if len(forest) == 0 {
		if snap.HiddenByFilters(f) {
			fmt.Fprintln(w, dimStyle.Render("All tasks are hidden by filters."))
		} else {
			fmt.Fprintln(w, dimStyle.Render("No tasks."))
		}
		return
	}

	userID := snap.User.ID.String()
	organizer.Walk(forest, func(n *organizer.Node, depth int) {
		t := &n.Task
		line := strings.Repeat("  ", depth) + "• " + t.Name + " " + dimStyle.Render("["+t.Status.Status+"]")
		if due, ok := t.Due(); ok {
			when := humanize.RelTime(due, now, "ago", "from now")
			if t.IsOverdue(now) {
				line += " " + errorStyle.Render("due "+when)
			} else {
				line += " " + dimStyle.Render("due "+when)
			}
		}
		if analytics.Classify(t, userID) == analytics.CategoryContext {
			line = dimStyle.Render(line)
		}
		fmt.Fprintln(w, line)
	})
}
