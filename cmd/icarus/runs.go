// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ashr-exe/icarus-insight/internal/report"
	"github.com/ashr-exe/icarus-insight/internal/store"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Browse archived research runs",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived runs, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		jsonOutput, _ := cmd.Flags().GetBool("json")

		st, err := store.Open(cfg.Store.Path)
		if err != nil {
			return err
		}
		defer st.Close()

		runs, err := st.List(context.Background(), limit)
		if err != nil {
			return err
		}
		return formatRuns(runs, jsonOutput)
	},
}

func formatRuns(runs []store.Summary, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}
	if len(runs) == 0 {
		fmt.Println("No runs archived.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-36s  %-20s  %5s  %5s  %5s  %-9s  %s\n",
		"ID", "Created", "Docs", "Pat", "Pap", "Narrative", "Query")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))
	for _, r := range runs {
		query := r.Query
		if len(query) > 40 {
			query = query[:37] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-36s  %-20s  %5d  %5d  %5d  %-9s  %s\n",
			r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"), r.Documents, r.Patents, r.Papers, r.Narrative, query)
	}
	return nil
}

var runsShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Print an archived run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		format, err := report.ParseFormat(output)
		if err != nil {
			return err
		}

		st, err := store.Open(cfg.Store.Path)
		if err != nil {
			return err
		}
		defer st.Close()

		rep, err := st.Load(context.Background(), args[0])
		if err != nil {
			return err
		}
		return report.Render(os.Stdout, rep, format)
	},
}

func init() {
	runsListCmd.Flags().Int("limit", 20, "maximum number of runs to list")
	runsListCmd.Flags().Bool("json", false, "output the listing as JSON")
	runsShowCmd.Flags().StringP("output", "o", "md", "format: json, yaml, md, html, csv, csl")

	runsCmd.AddCommand(runsListCmd, runsShowCmd)
	rootCmd.AddCommand(runsCmd)
}
