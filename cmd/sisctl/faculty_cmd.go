package main

import (
	"github.com/spf13/cobra"
)

func newFacultyCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "faculty",
		Short: "HRMS faculty roster",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Print faculty with their tallied schedule load",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := root.console()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if err := c.board.FetchFaculties(ctx, cliSession); err != nil {
				return upstreamErr(err)
			}
			faculties, err := c.board.Faculties(ctx, cliSession)
			if err != nil {
				return upstreamErr(err)
			}
			return writeJSON(cmd.OutOrStdout(), faculties)
		},
	})
	return cmd
}
