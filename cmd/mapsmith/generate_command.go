package main

import (
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"mapsmith/internal/deps/install"
	"mapsmith/internal/mapping"
	"mapsmith/internal/progress"
	"mapsmith/internal/queue"
)

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var difficultyFlags []string

	cmd := &cobra.Command{
		Use:   "generate <audio-file>...",
		Short: "Generate packaged map archives from audio files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.newLogger()
			if err != nil {
				return err
			}

			selection := make([]mapping.Difficulty, 0, len(difficultyFlags))
			for _, value := range difficultyFlags {
				difficulty, err := mapping.ParseDifficulty(value)
				if err != nil {
					return fmt.Errorf("unknown difficulty %q (valid: %v)", value, mapping.AllDifficulties())
				}
				selection = append(selection, difficulty)
			}

			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			reporter := progress.NewReporter(newProgressSink(), logger)
			installer := install.New(cfg, logger, reporter.Phase(0, 0.2))
			resolver := install.NewResolver(installer, cfg.Paths.DataDir)
			toolchain, err := resolver.Toolchain(cmd.Context())
			if err != nil {
				return fmt.Errorf("resolve toolchain: %w", err)
			}

			orchestrator := mapping.NewOrchestrator(cfg, store, toolchain, logger, reporter.Phase(0.2, 1))

			results := make([]*mapping.Result, len(args))
			errs := make([]error, len(args))
			var wg sync.WaitGroup
			for idx, audio := range args {
				wg.Add(1)
				go func(idx int, audio string) {
					defer wg.Done()
					results[idx], errs[idx] = orchestrator.Submit(cmd.Context(), audio, selection)
				}(idx, audio)
			}
			wg.Wait()

			out := cmd.OutOrStdout()
			var failed int
			for idx, audio := range args {
				if errs[idx] != nil {
					failed++
					fmt.Fprintf(out, "%s: %v\n", audio, errs[idx])
					continue
				}
				result := results[idx]
				if result == nil {
					failed++
					fmt.Fprintf(out, "%s: no audio file supplied\n", audio)
					continue
				}
				switch result.Status {
				case queue.StatusSucceeded:
					fmt.Fprintf(out, "%s: archive ready: %s\n", audio, result.ArchivePath)
				case queue.StatusCancelled:
					failed++
					fmt.Fprintf(out, "%s: job %s cancelled; log: %s\n", audio, result.JobID, result.LogPath)
				default:
					failed++
					fmt.Fprintf(out, "%s: job %s failed; log: %s\n", audio, result.JobID, result.LogPath)
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d submissions did not produce an archive", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&difficultyFlags, "difficulty", "d", nil,
		"Difficulty tiers to generate (repeatable; defaults to all)")
	return cmd
}
