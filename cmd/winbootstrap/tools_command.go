package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"winbootstrap/internal/deps"
	"winbootstrap/internal/report"
)

func newToolsCommand(ctx *commandContext) *cobra.Command {
	var skipVersions bool

	cmd := &cobra.Command{
		Use:         "tools",
		Short:       "Show which bootstrap collaborators are on PATH",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			requirements := deps.Collaborators()
			statuses := deps.CheckBinaries(ctx.machine.host.LookPath, requirements)
			if !skipVersions {
				deps.FillVersions(cmd.Context(), ctx.machine.exec, requirements, statuses)
			}

			rows := make([][]string, 0, len(statuses))
			for _, status := range statuses {
				state := "missing"
				switch {
				case status.Available:
					state = "found"
				case status.Optional:
					state = "not installed"
				}
				note := status.Path
				if status.Detail != "" {
					if note != "" {
						note += " (" + status.Detail + ")"
					} else {
						note = status.Detail
					}
				}
				rows = append(rows, []string{status.Name, status.Command, state, status.Version, note})
			}
			fmt.Fprintln(cmd.OutOrStdout(), report.RenderTable(
				[]string{"Tool", "Command", "Status", "Version", "Location"},
				rows,
				nil,
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipVersions, "no-versions", false, "Skip querying tool versions")
	return cmd
}
