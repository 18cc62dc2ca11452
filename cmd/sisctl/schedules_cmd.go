package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/noah-isme/sis-schedule-console/internal/models"
	"github.com/noah-isme/sis-schedule-console/internal/service"
)

type scheduleListOptions struct {
	search string
	status string
	action string
}

func newSchedulesCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedules",
		Short: "Merged SIS/HRMS schedule rows",
	}
	cmd.AddCommand(newSchedulesListCmd(root))
	return cmd
}

func newSchedulesListCmd(root *rootOptions) *cobra.Command {
	var opts scheduleListOptions
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Fetch schedules and print rows with their derived action",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := models.ScheduleListFilter{
				Search: strings.TrimSpace(opts.search),
				Status: strings.TrimSpace(opts.status),
				Action: strings.TrimSpace(opts.action),
			}
			if filter.Status != "" && !models.SyncStatus(filter.Status).Valid() {
				return withCode(exitUsage, fmt.Errorf("invalid --status %q", opts.status))
			}
			if filter.Action != "" && !models.RowActionKind(filter.Action).Valid() {
				return withCode(exitUsage, fmt.Errorf("invalid --action %q", opts.action))
			}

			c, err := root.console()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if err := c.board.FetchSISSchedules(ctx, cliSession); err != nil {
				return upstreamErr(err)
			}
			snap, err := c.board.Snapshot(ctx, cliSession)
			if err != nil {
				return upstreamErr(err)
			}

			rows := service.FilterRows(snap.Schedules, filter)
			return writeJSON(cmd.OutOrStdout(), map[string]any{"total": len(rows), "rows": rows})
		},
	}

	cmd.Flags().StringVar(&opts.search, "search", "", "Match subject, section, faculty, room, day or SIS id")
	cmd.Flags().StringVar(&opts.status, "status", "", "Sync status: synced, hrms-only, sis-only, unassigned")
	cmd.Flags().StringVar(&opts.action, "action", "", "Row action: assign, edit, assign-substitute, restore-original")
	return cmd
}
