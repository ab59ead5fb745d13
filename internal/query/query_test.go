// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package query

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/pubmed-lens/pkg/types"
)

func TestTermClause(t *testing.T) {
	tests := []struct {
		name string
		term types.ResolvedTerm
		want string
	}{
		{
			name: "bounded window",
			term: types.ResolvedTerm{Name: "Varian", Window: types.Window(2018, 2020)},
			want: `(("Varian"[Affiliation] OR "Varian"[Grant Number] OR "Varian"[Grant]) AND 2018:2020[pdat])`,
		},
		{
			name: "open start",
			term: types.ResolvedTerm{Name: "Varian", Window: types.TimeWindow{End: 2020}},
			want: `(("Varian"[Affiliation] OR "Varian"[Grant Number] OR "Varian"[Grant]) AND 1800:2020[pdat])`,
		},
		{
			name: "open end",
			term: types.ResolvedTerm{Name: "Siemens", Window: types.TimeWindow{Start: 2021}},
			want: `(("Siemens"[Affiliation] OR "Siemens"[Grant Number] OR "Siemens"[Grant]) AND 2021:3000[pdat])`,
		},
		{
			name: "fully open window omits dates",
			term: types.ResolvedTerm{Name: "Siemens"},
			want: `("Siemens"[Affiliation] OR "Siemens"[Grant Number] OR "Siemens"[Grant])`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TermClause(tt.term))
		})
	}
}

func TestBuild(t *testing.T) {
	tests := []struct {
		name  string
		req   types.SearchRequest
		terms []types.ResolvedTerm
		want  string
	}{
		{
			name: "topic only",
			req:  types.SearchRequest{Topic: "proton therapy"},
			want: "proton therapy",
		},
		{
			name: "topic with date range and no terms",
			req: types.SearchRequest{
				Topic: "proton therapy",
				Range: types.Window(2018, 2023),
			},
			want: "proton therapy AND 2018:2023[dp]",
		},
		{
			name: "single term carries its own dates",
			req: types.SearchRequest{
				Topic: "proton therapy",
				Range: types.Window(2018, 2023),
			},
			terms: []types.ResolvedTerm{
				{Name: "Siemens", Window: types.Window(2018, 2023)},
			},
			want: `proton therapy AND (("Siemens"[Affiliation] OR "Siemens"[Grant Number] OR "Siemens"[Grant]) AND 2018:2023[pdat])`,
		},
		{
			name: "multiple terms OR in parens",
			req:  types.SearchRequest{Topic: "radiotherapy"},
			terms: []types.ResolvedTerm{
				{Name: "Siemens", Window: types.Window(2018, 2023)},
				{Name: "Varian", Window: types.Window(2018, 2020)},
			},
			want: `radiotherapy AND ((("Siemens"[Affiliation] OR "Siemens"[Grant Number] OR "Siemens"[Grant]) AND 2018:2023[pdat]) OR (("Varian"[Affiliation] OR "Varian"[Grant Number] OR "Varian"[Grant]) AND 2018:2020[pdat]))`,
		},
		{
			name: "terms without topic",
			terms: []types.ResolvedTerm{
				{Name: "Siemens"},
			},
			want: `("Siemens"[Affiliation] OR "Siemens"[Grant Number] OR "Siemens"[Grant])`,
		},
		{
			name: "advanced filters AND combine",
			req: types.SearchRequest{
				Topic:           "imaging",
				GrantNumber:     "R01 CA123456",
				PublicationType: "Clinical Trial",
				MeSHTerms:       []string{"Neoplasms", "Radiotherapy"},
			},
			want: "imaging AND R01 CA123456[Grant Number] AND Clinical Trial[Publication Type] AND (Neoplasms[MeSH Terms] AND Radiotherapy[MeSH Terms])",
		},
		{
			name: "single mesh term without parens",
			req: types.SearchRequest{
				Topic:     "imaging",
				MeSHTerms: []string{"Neoplasms"},
			},
			want: "imaging AND Neoplasms[MeSH Terms]",
		},
		{
			name: "author scope strips periods",
			req: types.SearchRequest{
				Topic: "Smith J.R.",
				Scope: types.ScopeAuthor,
			},
			want: "Smith J R[Author]",
		},
		{
			name: "journal scope",
			req: types.SearchRequest{
				Topic: "Medical Physics",
				Scope: types.ScopeJournal,
			},
			want: "Medical Physics[Journal]",
		},
		{
			name: "affiliation scope",
			req: types.SearchRequest{
				Topic: "Mayo Clinic",
				Scope: types.ScopeAffiliation,
			},
			want: "Mayo Clinic[Affiliation]",
		},
		{
			name: "open range with no terms yields no date clause",
			req:  types.SearchRequest{Topic: "imaging"},
			want: "imaging",
		},
		{
			name: "one sided range uses sentinel",
			req: types.SearchRequest{
				Topic: "imaging",
				Range: types.TimeWindow{Start: 2015},
			},
			want: "imaging AND 2015:3000[dp]",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Build(tt.req, tt.terms))
		})
	}
}
