package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"winbootstrap/internal/logging"
	"winbootstrap/internal/preflight"
	"winbootstrap/internal/report"
)

func newProbeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "probe",
		Short: "Run the environment checks without changing anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, closer, err := logging.New(logging.Options{
				Level:   cfg.Logging.Level,
				Format:  cfg.Logging.Format,
				Console: cmd.ErrOrStderr(),
			})
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			defer closer.Close()

			probe := preflight.New(cfg, ctx.machine.host, ctx.machine.exec,
				preflight.WithLogger(logger),
				preflight.WithPlatform(ctx.machine.platform),
			)
			results := probe.Run(cmd.Context())

			out := cmd.OutOrStdout()
			colorize := report.ShouldColorize(out)
			for _, line := range report.SectionHeader("Environment", colorize) {
				fmt.Fprintln(out, line)
			}
			fmt.Fprintln(out, report.RenderChecks(results))

			if err := preflight.BlockingError(results); err != nil {
				fmt.Fprintln(out, report.StatusLine("Probe", report.KindError, err.Error(), colorize))
				return &exitError{code: report.ExitHalted}
			}
			fmt.Fprintln(out, report.StatusLine("Probe", report.KindOK, "machine is ready to bootstrap", colorize))
			return nil
		},
	}
}
