// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ashr-exe/icarus-insight/internal/pipeline"
)

var batchCmd = &cobra.Command{
	Use:   "batch [query-file]",
	Short: "Run every query in a YAML query file",
	Long: `Batch reads a YAML file of queries and filters, runs them concurrently
(--parallel at a time) and exports each report. A failing run stops the batch.

  queries:
    - query: reusable launch vehicle landing legs
      from: 2015-01-01
      organizations: [SpaceX, Blue Origin]`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reqs, err := pipeline.ReadQueryFile(args[0])
		if err != nil {
			return err
		}
		parallel, _ := cmd.Flags().GetInt("parallel")
		exportNames, _ := cmd.Flags().GetStringSlice("export")
		exports, err := parseFormats(exportNames)
		if err != nil {
			return err
		}
		upload, _ := cmd.Flags().GetBool("upload")
		save, _ := cmd.Flags().GetBool("save")

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		ctrl, err := newController(ctx)
		if err != nil {
			return err
		}
		reports, err := ctrl.RunAll(ctx, reqs, parallel)
		if err != nil {
			return err
		}
		for _, rep := range reports {
			fmt.Fprintf(os.Stdout, "%s  %4d docs  %-8s  %s\n",
				rep.ID, rep.Statistics.Total, rep.Narrative.Source, rep.Query)
			if err := publish(ctx, rep, exports, upload, save); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	batchCmd.Flags().Int("parallel", 2, "maximum concurrent runs")
	batchCmd.Flags().StringSlice("export", []string{"json"}, "formats to write into the export directory, or all")
	batchCmd.Flags().Bool("upload", false, "upload exports to the configured S3 bucket")
	batchCmd.Flags().Bool("save", false, "archive the runs even when the store is disabled")

	rootCmd.AddCommand(batchCmd)
}
