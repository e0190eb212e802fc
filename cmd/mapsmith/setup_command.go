package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mapsmith/internal/bootstrap"
	"mapsmith/internal/deps"
	"mapsmith/internal/deps/install"
	"mapsmith/internal/progress"
)

func newSetupCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Install and prepare the runtime and media tool",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.newLogger()
			if err != nil {
				return err
			}

			reporter := progress.NewReporter(newProgressSink(), logger)
			installer := install.New(cfg, logger, reporter.Phase(0, 0.7))
			resolver := install.NewResolver(installer, cfg.Paths.DataDir)

			toolchain, err := resolver.Toolchain(cmd.Context())
			if err != nil {
				return fmt.Errorf("resolve toolchain: %w", err)
			}

			bootstrapper := bootstrap.New(logger, reporter.Phase(0.7, 1), cfg.Runtime.SetupScript)
			if err := bootstrapper.EnsureRuntimePackages(cmd.Context(), toolchain.Runtime.Path); err != nil {
				return fmt.Errorf("prepare runtime packages: %w", err)
			}
			deps.MarkBootstrapped()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Runtime ready: %s\n", toolchain.Runtime.Path)
			fmt.Fprintf(out, "Media tool ready: %s\n", toolchain.MediaTool.Path)
			return nil
		},
	}
}
