// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pubmed-lens/internal/engine"
	"github.com/pdiddy/pubmed-lens/internal/export"
	"github.com/pdiddy/pubmed-lens/internal/identity"
	"github.com/pdiddy/pubmed-lens/internal/pubmed"
	"github.com/pdiddy/pubmed-lens/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Run a temporal manufacturer search with sampled statistics",
	Long: `Search resolves each selected manufacturer's name history against the
requested year range, queries PubMed per resolved term, and reports the
exact match totals alongside sample-based statistics: per-year counts
and top-10 authors, journals, affiliations, grants, and MeSH terms.

Statistics describe only the fetched sample; the sampling percentage
printed with each manufacturer states the coverage. The formatted query
is printed so it can be pasted into PubMed to verify the results.`,
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	req, err := requestFromFlags(cmd)
	if err != nil {
		return err
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
	out, err := eng.Run(ctx, req, selected)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	formatSearchOutput(out, os.Stdout)

	if csvPath, _ := cmd.Flags().GetString("csv"); csvPath != "" {
		f, err := os.Create(csvPath)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := export.WriteCountsCSV(f, out.Series); err != nil {
			return err
		}
		fmt.Printf("\nYear series written to %s\n", csvPath)
	}
	return nil
}

// requestFromFlags builds the SearchRequest shared by search and counts.
func requestFromFlags(cmd *cobra.Command) (types.SearchRequest, error) {
	topic, _ := cmd.Flags().GetString("topic")
	manufacturers, _ := cmd.Flags().GetStringSlice("manufacturers")
	from, _ := cmd.Flags().GetInt("from")
	to, _ := cmd.Flags().GetInt("to")
	grant, _ := cmd.Flags().GetString("grant")
	pubType, _ := cmd.Flags().GetString("pub-type")
	mesh, _ := cmd.Flags().GetStringSlice("mesh")
	scope, _ := cmd.Flags().GetString("scope")

	if from != 0 && to != 0 && from > to {
		return types.SearchRequest{}, fmt.Errorf("--from %d is after --to %d", from, to)
	}

	switch types.FieldScope(scope) {
	case types.ScopeUnscoped, types.ScopeAuthor, types.ScopeJournal, types.ScopeAffiliation:
	default:
		return types.SearchRequest{}, fmt.Errorf("unknown scope %q: use author, journal, or affiliation", scope)
	}

	return types.SearchRequest{
		Topic:           topic,
		Range:           types.TimeWindow{Start: from, End: to},
		Manufacturers:   manufacturers,
		GrantNumber:     grant,
		PublicationType: pubType,
		MeSHTerms:       mesh,
		Scope:           types.FieldScope(scope),
	}, nil
}

func formatSearchOutput(out engine.Output, w *os.File) {
	for _, name := range out.Skipped {
		fmt.Fprintf(w, "warning: skipped misconfigured manufacturer %q\n", name)
	}

	for i, mr := range out.Manufacturers {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s\n%s\n", mr.Identity.Name, strings.Repeat("=", len(mr.Identity.Name)))
		fmt.Fprintf(w, "Query: %s\n", mr.Query)

		flags := ""
		if mr.Degraded {
			flags += " [degraded]"
		}
		if mr.Partial {
			flags += " [partial]"
		}
		fmt.Fprintf(w, "Matches: %d total, %d sampled (%.1f%%)%s\n",
			mr.Sample.TotalResults, mr.Sample.SampledResults, mr.Sample.SamplingPercentage, flags)
		for _, failed := range mr.FailedTerms {
			fmt.Fprintf(w, "  failed term: %s\n", failed)
		}

		if len(mr.Sample.YearCounts) > 0 {
			years := make([]int, 0, len(mr.Sample.YearCounts))
			for y := range mr.Sample.YearCounts {
				years = append(years, y)
			}
			sort.Ints(years)
			fmt.Fprintf(w, "By year (sampled):")
			for _, y := range years {
				fmt.Fprintf(w, " %d:%d", y, mr.Sample.YearCounts[y])
			}
			fmt.Fprintln(w)
		}

		printTally(w, "Top authors", mr.Sample.TopAuthors)
		printTally(w, "Top journals", mr.Sample.TopJournals)
		printTally(w, "Top affiliations", mr.Sample.TopAffiliations)
		printTally(w, "Top grants", mr.Sample.TopGrants)
		printTally(w, "Top MeSH terms", mr.Sample.TopMeSHTerms)
	}
}

func printTally(w *os.File, title string, tally []types.FieldCount) {
	if len(tally) == 0 {
		return
	}
	fmt.Fprintf(w, "%s:\n", title)
	for _, fc := range tally {
		name := fc.Name
		if len(name) > 70 {
			name = name[:67] + "..."
		}
		fmt.Fprintf(w, "  %5d  %s\n", fc.Count, name)
	}
}

func init() {
	searchCmd.Flags().String("topic", "", "free-text topic")
	searchCmd.Flags().StringSlice("manufacturers", nil, "manufacturers to include (default: all configured)")
	searchCmd.Flags().Int("from", 0, "year range start (0 = open)")
	searchCmd.Flags().Int("to", 0, "year range end (0 = open)")
	searchCmd.Flags().String("grant", "", "filter by grant number")
	searchCmd.Flags().String("pub-type", "", "filter by publication type")
	searchCmd.Flags().StringSlice("mesh", nil, "filter by MeSH terms (all must match)")
	searchCmd.Flags().String("scope", "", "field scope for the topic: author, journal, or affiliation")
	searchCmd.Flags().Duration("timeout", 5*time.Minute, "overall request timeout")
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	searchCmd.Flags().String("csv", "", "write the combined year series to a CSV file")

	rootCmd.AddCommand(searchCmd)
}
