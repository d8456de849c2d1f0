package main

import (
	"errors"
	"fmt"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"winbootstrap/internal/report"
	"winbootstrap/internal/runlog"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var follow bool
	var list bool
	var lines int

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Display the most recent bootstrap run log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if list {
				entries, err := runlog.List(cfg.Paths.LogDir)
				if err != nil {
					return err
				}
				if len(entries) == 0 {
					fmt.Fprintln(out, "No bootstrap runs recorded in", cfg.Paths.LogDir)
					return nil
				}
				rows := make([][]string, 0, len(entries))
				for _, entry := range entries {
					rows = append(rows, []string{
						entry.StartedAt.Format("2006-01-02 15:04:05"),
						entry.Name,
						strconv.FormatInt(entry.Size, 10),
					})
				}
				fmt.Fprintln(out, report.RenderTable(
					[]string{"Started", "File", "Bytes"},
					rows,
					[]report.Alignment{report.AlignLeft, report.AlignLeft, report.AlignRight},
				))
				return nil
			}

			latest, err := runlog.Latest(cfg.Paths.LogDir)
			if errors.Is(err, runlog.ErrNoRuns) {
				fmt.Fprintln(out, "No log entries available")
				return nil
			}
			if err != nil {
				return err
			}
			tail, offset, err := runlog.Last(latest.Path, lines)
			if err != nil {
				return err
			}
			for _, line := range tail {
				fmt.Fprintln(out, line)
			}
			if !follow {
				return nil
			}

			followCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runlog.Follow(followCtx, latest.Path, offset, 250*time.Millisecond, func(line string) {
				fmt.Fprintln(out, line)
			})
		},
	}

	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Follow log output")
	cmd.Flags().IntVarP(&lines, "lines", "n", 20, "Number of lines to show (0 for all)")
	cmd.Flags().BoolVar(&list, "list", false, "List recorded runs instead of printing a log")
	return cmd
}
