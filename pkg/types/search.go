// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// FieldScope selects which PubMed field tag wraps the topic clause.
// It never affects manufacturer clauses.
type FieldScope string

const (
	ScopeUnscoped    FieldScope = ""
	ScopeAuthor      FieldScope = "author"
	ScopeJournal     FieldScope = "journal"
	ScopeAffiliation FieldScope = "affiliation"
)

// SearchRequest holds one temporal search: the free-text topic, the
// requested year range (either bound optional), the selected
// manufacturers, and the advanced filters. All filters AND-combine;
// filters are never OR'd against each other.
type SearchRequest struct {
	Topic         string     `json:"topic" yaml:"topic"`
	Range         TimeWindow `json:"range" yaml:"range"`
	Manufacturers []string   `json:"manufacturers" yaml:"manufacturers"`

	GrantNumber     string     `json:"grant_number,omitempty" yaml:"grant_number,omitempty"`
	PublicationType string     `json:"publication_type,omitempty" yaml:"publication_type,omitempty"`
	MeSHTerms       []string   `json:"mesh_terms,omitempty" yaml:"mesh_terms,omitempty"`
	Scope           FieldScope `json:"scope,omitempty" yaml:"scope,omitempty"`
}

// ResolvedTerm is a single searchable name string paired with the year
// window it is valid for, produced by the window resolver.
type ResolvedTerm struct {
	Name   string     `json:"name" yaml:"name"`
	Window TimeWindow `json:"window" yaml:"window"`
}

// Grant identifies a funding grant on an article.
type Grant struct {
	ID     string `json:"id" yaml:"id"`
	Agency string `json:"agency,omitempty" yaml:"agency,omitempty"`
}

// Label renders the grant for tallying, "ID (Agency)" when the agency is
// known.
func (g Grant) Label() string {
	if g.Agency == "" {
		return g.ID
	}
	return g.ID + " (" + g.Agency + ")"
}

// Article is one parsed PubMed record. PubDate is kept as the raw partial
// date string ("2021 Mar 15", "2021", "2020 Winter"); the aggregator
// extracts the year.
type Article struct {
	PMID             string   `json:"pmid" yaml:"pmid"`
	Title            string   `json:"title" yaml:"title"`
	Authors          []string `json:"authors,omitempty" yaml:"authors,omitempty"`
	Journal          string   `json:"journal,omitempty" yaml:"journal,omitempty"`
	PubDate          string   `json:"pub_date,omitempty" yaml:"pub_date,omitempty"`
	Abstract         string   `json:"abstract,omitempty" yaml:"abstract,omitempty"`
	Grants           []Grant  `json:"grants,omitempty" yaml:"grants,omitempty"`
	MeSHTerms        []string `json:"mesh_terms,omitempty" yaml:"mesh_terms,omitempty"`
	Affiliations     []string `json:"affiliations,omitempty" yaml:"affiliations,omitempty"`
	Keywords         []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	PublicationTypes []string `json:"publication_types,omitempty" yaml:"publication_types,omitempty"`
}

// FieldCount is one entry of a top-N tally. Lists are ordered descending
// by count with a case-insensitive alphabetical tie-break, so the slice
// order is part of the contract.
type FieldCount struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}

// SampleResult holds sample-based statistics for one query. TotalResults
// is the exact count reported by the service; everything else describes
// only the fetched sample and is never extrapolated. SamplingPercentage
// is surfaced alongside every statistic so readers can judge coverage.
type SampleResult struct {
	TotalResults       int     `json:"total_results" yaml:"total_results"`
	SampledResults     int     `json:"sampled_results" yaml:"sampled_results"`
	SamplingPercentage float64 `json:"sampling_percentage" yaml:"sampling_percentage"`

	// YearCounts buckets sampled articles by publication year. Articles
	// with unparseable dates are excluded here but still counted in
	// SampledResults.
	YearCounts map[int]int `json:"year_counts,omitempty" yaml:"year_counts,omitempty"`

	TopAuthors      []FieldCount `json:"top_authors,omitempty" yaml:"top_authors,omitempty"`
	TopJournals     []FieldCount `json:"top_journals,omitempty" yaml:"top_journals,omitempty"`
	TopAffiliations []FieldCount `json:"top_affiliations,omitempty" yaml:"top_affiliations,omitempty"`
	TopGrants       []FieldCount `json:"top_grants,omitempty" yaml:"top_grants,omitempty"`
	TopMeSHTerms    []FieldCount `json:"top_mesh_terms,omitempty" yaml:"top_mesh_terms,omitempty"`
}
