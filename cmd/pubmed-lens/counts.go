// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pubmed-lens/internal/engine"
	"github.com/pdiddy/pubmed-lens/internal/export"
	"github.com/pdiddy/pubmed-lens/internal/identity"
	"github.com/pdiddy/pubmed-lens/internal/pubmed"
)

var countsCmd = &cobra.Command{
	Use:   "counts",
	Short: "Build the exact year-by-manufacturer publication count grid",
	Long: `Counts runs one count-only query per manufacturer per year, resolving
each manufacturer's name history against every single-year window so
name changes and acquisitions land in the correct column. Unlike
search, the grid carries exact totals, not sampled statistics.

The year range must be bounded on both sides.`,
	RunE: runCounts,
}

func runCounts(cmd *cobra.Command, args []string) error {
	req, err := requestFromFlags(cmd)
	if err != nil {
		return err
	}
	if req.Range.Start == 0 || req.Range.End == 0 {
		return fmt.Errorf("counts requires both --from and --to")
	}

	cfg := loadAppConfig()
	log := buildLogger(cmd)

	store, err := identity.Open(cfg.Store)
	if err != nil {
		return err
	}
	defer store.Close()

	identities, err := store.List()
	if err != nil {
		return err
	}
	selected, err := identity.Select(identities, req.Manufacturers)
	if err != nil {
		return err
	}
	if len(selected) == 0 {
		return fmt.Errorf("no manufacturers configured: add one with %q", "pubmed-lens manufacturers add")
	}

	timeout, _ := cmd.Flags().GetDuration("timeout")
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	eng := engine.New(pubmed.New(cfg.PubMed, log), cfg.Engine, log)
	series, err := eng.CountsByYear(ctx, req, selected)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(series)
	}

	if csvPath, _ := cmd.Flags().GetString("csv"); csvPath != "" {
		f, err := os.Create(csvPath)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := export.WriteCountsCSV(f, series); err != nil {
			return err
		}
		fmt.Printf("Counts written to %s\n", csvPath)
		return nil
	}

	formatSeries(series, os.Stdout)
	return nil
}

func formatSeries(s engine.YearSeries, w *os.File) {
	if s.Degraded {
		fmt.Fprintln(w, "warning: some counts failed to fetch and read as 0")
	}

	fmt.Fprintf(w, "%-6s", "Year")
	for _, m := range s.Manufacturers {
		fmt.Fprintf(w, "  %-20s", truncate(m, 20))
	}
	fmt.Fprintf(w, "  %s\n", "Total")

	for _, y := range s.Years {
		fmt.Fprintf(w, "%-6d", y)
		for _, m := range s.Manufacturers {
			fmt.Fprintf(w, "  %-20d", s.Counts[y][m])
		}
		fmt.Fprintf(w, "  %d\n", s.TotalsByYear[y])
	}

	fmt.Fprintf(w, "%-6s", "Total")
	sum := 0
	for _, m := range s.Manufacturers {
		fmt.Fprintf(w, "  %-20d", s.TotalsByManufacturer[m])
		sum += s.TotalsByManufacturer[m]
	}
	fmt.Fprintf(w, "  %d\n", sum)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

func init() {
	countsCmd.Flags().String("topic", "", "free-text topic")
	countsCmd.Flags().StringSlice("manufacturers", nil, "manufacturers to include (default: all configured)")
	countsCmd.Flags().Int("from", 0, "year range start (required)")
	countsCmd.Flags().Int("to", 0, "year range end (required)")
	countsCmd.Flags().String("grant", "", "filter by grant number")
	countsCmd.Flags().String("pub-type", "", "filter by publication type")
	countsCmd.Flags().StringSlice("mesh", nil, "filter by MeSH terms (all must match)")
	countsCmd.Flags().String("scope", "", "field scope for the topic: author, journal, or affiliation")
	countsCmd.Flags().Duration("timeout", 10*time.Minute, "overall request timeout")
	countsCmd.Flags().Bool("json", false, "output the series as JSON")
	countsCmd.Flags().String("csv", "", "write the grid to a CSV file")

	rootCmd.AddCommand(countsCmd)
}
