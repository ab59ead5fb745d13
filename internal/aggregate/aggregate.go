// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package aggregate computes per-year counts and top-10 field tallies
// from a bounded article sample. All statistics describe the sample
// only; nothing is extrapolated to the full result population, and the
// sampling percentage is carried with every result so readers can judge
// coverage.
package aggregate

import (
	"sort"
	"strings"
	"unicode"

	"github.com/pdiddy/pubmed-lens/pkg/types"
)

// TopN is the tally truncation depth.
const TopN = 10

// Aggregate builds a SampleResult from the fetched sample and the exact
// total reported by the search step. The total is never recomputed from
// the sample. Articles whose publication date yields no year are left
// out of the year buckets but still count toward SampledResults.
func Aggregate(articles []types.Article, totalResults int) types.SampleResult {
	years := make(map[int]int)
	authors := make(map[string]int)
	journals := make(map[string]int)
	affiliations := make(map[string]int)
	grants := make(map[string]int)
	mesh := make(map[string]int)

	for _, a := range articles {
		if year, ok := PublicationYear(a.PubDate); ok {
			years[year]++
		}
		for _, name := range a.Authors {
			authors[name]++
		}
		if a.Journal != "" {
			journals[a.Journal]++
		}
		for _, aff := range a.Affiliations {
			affiliations[aff]++
		}
		for _, g := range a.Grants {
			if g.ID != "" {
				grants[g.Label()]++
			}
		}
		for _, term := range a.MeSHTerms {
			mesh[term]++
		}
	}

	return types.SampleResult{
		TotalResults:       totalResults,
		SampledResults:     len(articles),
		SamplingPercentage: Percentage(len(articles), totalResults),
		YearCounts:         years,
		TopAuthors:         Top(authors, TopN),
		TopJournals:        Top(journals, TopN),
		TopAffiliations:    Top(affiliations, TopN),
		TopGrants:          Top(grants, TopN),
		TopMeSHTerms:       Top(mesh, TopN),
	}
}

// PublicationYear extracts the year from a raw partial date string such
// as "2021 Mar 15" or "1998 Winter". ok is false when no leading
// four-digit year is present.
func PublicationYear(pubDate string) (int, bool) {
	fields := strings.Fields(pubDate)
	if len(fields) == 0 {
		return 0, false
	}
	token := fields[0]
	if len(token) < 4 {
		return 0, false
	}
	year := 0
	for _, r := range token[:4] {
		if !unicode.IsDigit(r) {
			return 0, false
		}
		year = year*10 + int(r-'0')
	}
	return year, true
}

// Percentage returns sampled/total*100, clamped to [0,100] and 0 when
// the total is 0.
func Percentage(sampled, total int) float64 {
	if total <= 0 {
		return 0
	}
	p := float64(sampled) / float64(total) * 100
	if p > 100 {
		p = 100
	}
	return p
}

// Top converts a tally map to its top-n entries, sorted descending by
// count with a case-insensitive alphabetical tie-break. The ordering is
// deterministic so two runs over the same sample agree entry for entry.
func Top(tally map[string]int, n int) []types.FieldCount {
	out := make([]types.FieldCount, 0, len(tally))
	for name, count := range tally {
		out = append(out, types.FieldCount{Name: name, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		li, lj := strings.ToLower(out[i].Name), strings.ToLower(out[j].Name)
		if li != lj {
			return li < lj
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// MergeTallies sums two ordered tallies by key, returning the re-sorted,
// re-truncated top-n. Used when combining a manufacturer's per-term
// results.
func MergeTallies(a, b []types.FieldCount, n int) []types.FieldCount {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	merged := make(map[string]int, len(a)+len(b))
	for _, fc := range a {
		merged[fc.Name] += fc.Count
	}
	for _, fc := range b {
		merged[fc.Name] += fc.Count
	}
	return Top(merged, n)
}
