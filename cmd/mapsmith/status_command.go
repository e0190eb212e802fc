package main

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"mapsmith/internal/deps"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var showAll bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show external tool availability and recent jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			out := cmd.OutOrStdout()

			toolTable := table.NewWriter()
			toolTable.SetOutputMirror(out)
			toolTable.SetStyle(table.StyleLight)
			toolTable.AppendHeader(table.Row{"Tool", "Available", "Path"})
			for _, status := range deps.CheckBinaries([]deps.Requirement{
				{Name: "Runtime", Command: cfg.RuntimeBinary(), Description: "audio analysis runtime"},
				{Name: "Media tool", Command: cfg.MediaToolBinary(), Description: "audio conversion"},
			}) {
				detail := status.Command
				if !status.Available {
					detail = status.Detail
				}
				toolTable.AppendRow(table.Row{status.Name, status.Available, detail})
			}
			toolTable.Render()

			jobs, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			if !showAll && len(jobs) > 20 {
				jobs = jobs[len(jobs)-20:]
			}

			jobTable := table.NewWriter()
			jobTable.SetOutputMirror(out)
			jobTable.SetStyle(table.StyleLight)
			jobTable.AppendHeader(table.Row{"Job", "Song", "Status", "Updated", "Artifact"})
			jobTable.SetColumnConfigs([]table.ColumnConfig{
				{Name: "Artifact", WidthMax: 60, WidthMaxEnforcer: text.Trim},
			})
			for _, job := range jobs {
				artifact := job.ArchivePath
				if artifact == "" {
					artifact = job.LogPath
				}
				jobTable.AppendRow(table.Row{
					shortID(job.ID),
					job.SongName,
					job.Status,
					job.UpdatedAt.Local().Format(time.DateTime),
					artifact,
				})
			}
			jobTable.Render()

			health, err := store.Health(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%d jobs: %d active, %d succeeded, %d failed, %d cancelled\n",
				health.Total, health.Active, health.Succeeded, health.Failed, health.Cancelled)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&showAll, "all", "a", false, "Show every job, not just the most recent")
	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
