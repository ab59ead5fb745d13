// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package query composes PubMed boolean query strings from resolved
// manufacturer terms, the free-text topic, and advanced filters. The
// returned string is shown to users verbatim and must paste back into
// PubMed unchanged, so its exact shape is a contract, not cosmetics.
package query

import (
	"fmt"
	"strings"

	"github.com/pdiddy/pubmed-lens/pkg/types"
)

// PubMed rejects one-sided date ranges, so open window bounds use
// sentinel years the way the service's own date syntax expects.
const (
	openStartYear = 1800
	openEndYear   = 3000
)

// Build assembles the full query for one manufacturer's resolved terms.
// Term clauses OR-combine; the topic clause and every advanced filter
// AND-combine (filters never OR against each other). With no terms it
// builds a plain topic search; the requested date range then contributes
// a [dp] clause, otherwise dates ride on the per-term [pdat] windows.
func Build(req types.SearchRequest, terms []types.ResolvedTerm) string {
	var parts []string

	if topic := topicClause(req.Topic, req.Scope); topic != "" {
		parts = append(parts, topic)
	}

	if len(terms) > 0 {
		clauses := make([]string, 0, len(terms))
		for _, t := range terms {
			clauses = append(clauses, TermClause(t))
		}
		if len(clauses) == 1 {
			parts = append(parts, clauses[0])
		} else {
			parts = append(parts, "("+strings.Join(clauses, " OR ")+")")
		}
	}

	if req.GrantNumber != "" {
		parts = append(parts, req.GrantNumber+"[Grant Number]")
	}
	if req.PublicationType != "" {
		parts = append(parts, req.PublicationType+"[Publication Type]")
	}
	if mesh := meshClause(req.MeSHTerms); mesh != "" {
		parts = append(parts, mesh)
	}

	if len(terms) == 0 {
		if dates := dateClause(req.Range, "dp"); dates != "" {
			parts = append(parts, dates)
		}
	}

	return strings.Join(parts, " AND ")
}

// TermClause renders one resolved term: the quoted name across the
// company-bearing fields, AND-ed with its window's publication-date
// range. A fully open window omits the date clause.
func TermClause(t types.ResolvedTerm) string {
	name := nameClause(t.Name)
	dates := dateClause(t.Window, "pdat")
	if dates == "" {
		return name
	}
	return "(" + name + " AND " + dates + ")"
}

// nameClause searches a company name in the fields PubMed records
// companies under: author affiliations and grant attribution.
func nameClause(name string) string {
	q := fmt.Sprintf("%q", name)
	return "(" + q + "[Affiliation] OR " + q + "[Grant Number] OR " + q + "[Grant])"
}

// topicClause wraps the topic in the field tag selected by scope.
// Unscoped topics pass through for PubMed's automatic term mapping.
func topicClause(topic string, scope types.FieldScope) string {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return ""
	}
	switch scope {
	case types.ScopeAuthor:
		// Strip punctuation from author names per PubMed's rules;
		// both "Last, First" and natural order are accepted.
		clean := strings.TrimSpace(strings.ReplaceAll(topic, ".", " "))
		return clean + "[Author]"
	case types.ScopeJournal:
		return topic + "[Journal]"
	case types.ScopeAffiliation:
		return topic + "[Affiliation]"
	default:
		return topic
	}
}

// meshClause AND-combines the MeSH term filters into one parenthesized
// group.
func meshClause(terms []string) string {
	var parts []string
	for _, t := range terms {
		t = strings.TrimSpace(t)
		if t != "" {
			parts = append(parts, t+"[MeSH Terms]")
		}
	}
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	default:
		return "(" + strings.Join(parts, " AND ") + ")"
	}
}

// dateClause renders a year window as a PubMed date range with the given
// field tag. Open bounds substitute the sentinel years; a fully open
// window yields no clause.
func dateClause(w types.TimeWindow, field string) string {
	if w.IsOpen() {
		return ""
	}
	start, end := w.Start, w.End
	if start == 0 {
		start = openStartYear
	}
	if end == 0 {
		end = openEndYear
	}
	return fmt.Sprintf("%d:%d[%s]", start, end, field)
}
