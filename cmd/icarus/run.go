// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ashr-exe/icarus-insight/internal/pipeline"
	"github.com/ashr-exe/icarus-insight/internal/report"
	"github.com/ashr-exe/icarus-insight/pkg/types"
)

var runCmd = &cobra.Command{
	Use:   "run [query]",
	Short: "Run one research query and print the report",
	Long: `Run plans the query, collects patents and papers, and prints the report
to stdout in the --output format (Markdown by default).

--export writes additional formats into the export directory, --upload
sends them to the configured S3 bucket, and --save archives the run.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runResearch,
}

func runResearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	if err := pipeline.CheckQuery(query); err != nil {
		return err
	}

	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	orgs, _ := cmd.Flags().GetStringSlice("org")
	cats, _ := cmd.Flags().GetStringSlice("category")
	filters, err := pipeline.ParseFilters(from, to, orgs, cats)
	if err != nil {
		return err
	}

	output, _ := cmd.Flags().GetString("output")
	outFormat, err := report.ParseFormat(output)
	if err != nil {
		return err
	}
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
	rep, err := ctrl.Run(ctx, query, filters)
	if err != nil {
		return err
	}

	if err := report.Render(os.Stdout, rep, outFormat); err != nil {
		return err
	}
	return publish(ctx, rep, exports, upload, save)
}

// publish writes, uploads and archives a finished report as requested.
func publish(ctx context.Context, rep *types.ResearchReport, exports []report.Format, upload, save bool) error {
	if len(exports) > 0 {
		paths, err := report.WriteFiles(cfg.Export.Dir, rep, exports)
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Fprintf(os.Stderr, "wrote %s\n", p)
		}
	}

	if upload {
		formats := exports
		if len(formats) == 0 {
			formats = []report.Format{report.FormatJSON}
		}
		u, err := report.NewS3Uploader(ctx, cfg.Export)
		if err != nil {
			return err
		}
		locs, err := report.Upload(ctx, u, cfg.Export.Prefix, rep, formats)
		if err != nil {
			return err
		}
		for _, l := range locs {
			fmt.Fprintf(os.Stderr, "uploaded %s\n", l)
		}
	}

	st, err := openStore(save)
	if err != nil {
		return err
	}
	if st != nil {
		defer st.Close()
		if err := st.Save(ctx, rep); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "archived run %s\n", rep.ID)
	}
	return nil
}

// parseFormats maps format names to report formats. "all" selects every
// format.
func parseFormats(names []string) ([]report.Format, error) {
	var out []report.Format
	seen := map[report.Format]bool{}
	for _, n := range names {
		if strings.EqualFold(strings.TrimSpace(n), "all") {
			return report.Formats, nil
		}
		f, err := report.ParseFormat(n)
		if err != nil {
			return nil, err
		}
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out, nil
}

func init() {
	runCmd.Flags().String("from", "", "publication date range start (YYYY-MM-DD)")
	runCmd.Flags().String("to", "", "publication date range end (YYYY-MM-DD)")
	runCmd.Flags().StringSlice("org", nil, "restrict to assignees or institutions (repeatable)")
	runCmd.Flags().StringSlice("category", nil, "technology categories such as Propulsion or Materials")
	runCmd.Flags().StringP("output", "o", "md", "stdout format: json, yaml, md, html, csv, csl")
	runCmd.Flags().StringSlice("export", nil, "formats to write into the export directory, or all")
	runCmd.Flags().Bool("upload", false, "upload exports to the configured S3 bucket")
	runCmd.Flags().Bool("save", false, "archive the run even when the store is disabled")

	rootCmd.AddCommand(runCmd)
}
