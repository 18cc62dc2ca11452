package main

import (
	"github.com/spf13/cobra"

	"github.com/noah-isme/sis-schedule-console/internal/models"
	"github.com/noah-isme/sis-schedule-console/internal/service"
)

type syncOutput struct {
	Result  any             `json:"result"`
	Notices []models.Notice `json:"notices,omitempty"`
}

func newSyncCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Bulk SIS to HRMS sync actions",
	}

	var clearExisting bool
	subjects := &cobra.Command{
		Use:   "subjects-sections",
		Short: "Import subjects and class sections from SIS",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := root.console()
			if err != nil {
				return err
			}
			result, notices, err := c.sync.SyncSubjectsSections(cmd.Context(), cliSession, service.SyncSubjectsSectionsRequest{ClearExisting: clearExisting})
			if err != nil {
				return upstreamErr(err)
			}
			return writeJSON(cmd.OutOrStdout(), syncOutput{Result: result, Notices: notices})
		},
	}
	subjects.Flags().BoolVar(&clearExisting, "clear", false, "Delete existing HRMS subjects and sections first")

	existing := &cobra.Command{
		Use:   "existing-assignments",
		Short: "Replay existing SIS teacher assignments into HRMS",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := root.console()
			if err != nil {
				return err
			}
			result, notices, err := c.sync.SyncExistingAssignments(cmd.Context(), cliSession)
			if err != nil {
				return upstreamErr(err)
			}
			return writeJSON(cmd.OutOrStdout(), syncOutput{Result: result, Notices: notices})
		},
	}

	cmd.AddCommand(subjects, existing)
	return cmd
}
