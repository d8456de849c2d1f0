package main

import (
	"github.com/spf13/cobra"

	"winbootstrap/internal/bootstrap"
	"winbootstrap/internal/report"
)

func newRootCommand() *cobra.Command {
	return newRootCommandWith(defaultMachine())
}

func newRootCommandWith(m machine) *cobra.Command {
	var configFlag string
	var logLevelFlag string
	var assumeYes bool
	var noRestorePoint bool

	ctx := newCommandContext(m, &configFlag, &logLevelFlag, &assumeYes, &noRestorePoint)

	rootCmd := &cobra.Command{
		Use:           "winbootstrap",
		Short:         "Prepare a Windows workstation for Ansible configuration management",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			code, err := bootstrap.Execute(cmd.Context(), cfg, bootstrap.Options{
				Stdout:   cmd.OutOrStdout(),
				Host:     ctx.machine.host,
				Exec:     ctx.machine.exec,
				Confirm:  ctx.confirmer(),
				Platform: ctx.machine.platform,
			})
			if err != nil {
				return err
			}
			if code != report.ExitOK {
				return &exitError{code: code}
			}
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	flags.StringVar(&logLevelFlag, "log-level", "", "Console log level (debug, info, warn, error)")
	rootCmd.Flags().BoolVar(&assumeYes, "yes", false, "Create the restore point without prompting")
	rootCmd.Flags().BoolVar(&noRestorePoint, "no-restore-point", false, "Skip the restore point step")

	rootCmd.AddCommand(newProbeCommand(ctx))
	rootCmd.AddCommand(newToolsCommand(ctx))
	rootCmd.AddCommand(newLogsCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
