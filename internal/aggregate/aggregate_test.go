// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package aggregate

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pubmed-lens/pkg/types"
)

func TestPublicationYear(t *testing.T) {
	tests := []struct {
		pubDate string
		want    int
		wantOK  bool
	}{
		{"2021 Mar 15", 2021, true},
		{"2021", 2021, true},
		{"1998 Winter", 1998, true},
		{"2020 Nov-Dec", 2020, true},
		{"", 0, false},
		{"Mar 2021", 0, false},
		{"20", 0, false},
		{"n.d.", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.pubDate, func(t *testing.T) {
			got, ok := PublicationYear(tt.pubDate)
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, 0.0, Percentage(10, 0))
	assert.Equal(t, 0.0, Percentage(10, -5))
	assert.Equal(t, 100.0, Percentage(50, 50))
	assert.Equal(t, 100.0, Percentage(60, 50), "clamped when sample exceeds total")
	assert.InDelta(t, 25.0, Percentage(25, 100), 1e-9)
}

func TestTopOrdering(t *testing.T) {
	tally := map[string]int{
		"Charlie": 3,
		"alpha":   5,
		"Bravo":   5,
		"delta":   1,
	}

	got := Top(tally, 10)
	// Descending by count, case-insensitive alphabetical tie-break.
	assert.Equal(t, []types.FieldCount{
		{Name: "alpha", Count: 5},
		{Name: "Bravo", Count: 5},
		{Name: "Charlie", Count: 3},
		{Name: "delta", Count: 1},
	}, got)
}

func TestTopTruncates(t *testing.T) {
	tally := make(map[string]int)
	for i := 0; i < 25; i++ {
		tally[fmt.Sprintf("name-%02d", i)] = i
	}

	got := Top(tally, TopN)
	require.Len(t, got, TopN)
	assert.Equal(t, "name-24", got[0].Name)
	assert.Equal(t, 24, got[0].Count)
	// Monotonically non-increasing counts.
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Count, got[i].Count)
	}
}

func TestAggregate(t *testing.T) {
	articles := []types.Article{
		{
			PMID:         "1",
			PubDate:      "2020 Jan",
			Authors:      []string{"Smith, Jane", "Lee, Kim"},
			Journal:      "Med Phys",
			Affiliations: []string{"Mayo Clinic"},
			Grants:       []types.Grant{{ID: "R01 CA1", Agency: "NCI"}},
			MeSHTerms:    []string{"Neoplasms"},
		},
		{
			PMID:      "2",
			PubDate:   "2020 Mar 3",
			Authors:   []string{"Smith, Jane"},
			Journal:   "Med Phys",
			MeSHTerms: []string{"Neoplasms", "Radiotherapy"},
		},
		{
			PMID:    "3",
			PubDate: "2021",
			Journal: "Radiology",
		},
		{
			PMID:    "4",
			PubDate: "Winter", // no parseable year
		},
	}

	got := Aggregate(articles, 400)

	assert.Equal(t, 400, got.TotalResults)
	assert.Equal(t, 4, got.SampledResults)
	assert.InDelta(t, 1.0, got.SamplingPercentage, 1e-9)

	// The unparseable date is excluded from year buckets but still
	// counted in SampledResults.
	assert.Equal(t, map[int]int{2020: 2, 2021: 1}, got.YearCounts)

	sum := 0
	for _, c := range got.YearCounts {
		sum += c
	}
	assert.LessOrEqual(t, sum, got.SampledResults)

	assert.Equal(t, []types.FieldCount{
		{Name: "Smith, Jane", Count: 2},
		{Name: "Lee, Kim", Count: 1},
	}, got.TopAuthors)
	assert.Equal(t, []types.FieldCount{
		{Name: "Med Phys", Count: 2},
		{Name: "Radiology", Count: 1},
	}, got.TopJournals)
	assert.Equal(t, []types.FieldCount{{Name: "Mayo Clinic", Count: 1}}, got.TopAffiliations)
	assert.Equal(t, []types.FieldCount{{Name: "R01 CA1 (NCI)", Count: 1}}, got.TopGrants)
	assert.Equal(t, []types.FieldCount{
		{Name: "Neoplasms", Count: 2},
		{Name: "Radiotherapy", Count: 1},
	}, got.TopMeSHTerms)
}

func TestAggregateEmptySample(t *testing.T) {
	got := Aggregate(nil, 0)
	assert.Equal(t, 0, got.TotalResults)
	assert.Equal(t, 0, got.SampledResults)
	assert.Equal(t, 0.0, got.SamplingPercentage)
	assert.Empty(t, got.YearCounts)
	assert.Empty(t, got.TopAuthors)
}

func TestMergeTallies(t *testing.T) {
	a := []types.FieldCount{{Name: "Med Phys", Count: 3}, {Name: "Radiology", Count: 1}}
	b := []types.FieldCount{{Name: "Radiology", Count: 4}, {Name: "Lancet", Count: 2}}

	got := MergeTallies(a, b, TopN)
	assert.Equal(t, []types.FieldCount{
		{Name: "Radiology", Count: 5},
		{Name: "Med Phys", Count: 3},
		{Name: "Lancet", Count: 2},
	}, got)

	assert.Nil(t, MergeTallies(nil, nil, TopN))
	assert.Equal(t, a, MergeTallies(a, nil, TopN))
}
