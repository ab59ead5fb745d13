// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"strings"

	"github.com/pdiddy/pubmed-lens/pkg/types"
)

// efetch XML structures. Only the fields the aggregator consumes are
// mapped; everything else in the record is ignored by the decoder.

type articleSet struct {
	Articles []rawArticle `xml:"PubmedArticle"`
}

type rawArticle struct {
	PMID     string      `xml:"MedlineCitation>PMID"`
	Title    string      `xml:"MedlineCitation>Article>ArticleTitle"`
	Journal  string      `xml:"MedlineCitation>Article>Journal>Title"`
	PubDate  rawPubDate  `xml:"MedlineCitation>Article>Journal>JournalIssue>PubDate"`
	Abstract []string    `xml:"MedlineCitation>Article>Abstract>AbstractText"`
	Authors  []rawAuthor `xml:"MedlineCitation>Article>AuthorList>Author"`
	Grants   []rawGrant  `xml:"MedlineCitation>Article>GrantList>Grant"`
	PubTypes []string    `xml:"MedlineCitation>Article>PublicationTypeList>PublicationType"`
	MeSH     []string    `xml:"MedlineCitation>MeshHeadingList>MeshHeading>DescriptorName"`
	Keywords []string    `xml:"MedlineCitation>KeywordList>Keyword"`
}

type rawPubDate struct {
	Year        string `xml:"Year"`
	Month       string `xml:"Month"`
	Day         string `xml:"Day"`
	MedlineDate string `xml:"MedlineDate"`
}

type rawAuthor struct {
	LastName       string   `xml:"LastName"`
	ForeName       string   `xml:"ForeName"`
	CollectiveName string   `xml:"CollectiveName"`
	Affiliations   []string `xml:"AffiliationInfo>Affiliation"`
}

type rawGrant struct {
	GrantID string `xml:"GrantID"`
	Agency  string `xml:"Agency"`
}

// toArticle converts a raw record to the engine's Article. ok is false
// for malformed records (no PMID); the caller skips those without
// failing the batch.
func (r rawArticle) toArticle() (types.Article, bool) {
	pmid := strings.TrimSpace(r.PMID)
	if pmid == "" {
		return types.Article{}, false
	}

	a := types.Article{
		PMID:             pmid,
		Title:            strings.TrimSpace(r.Title),
		Journal:          strings.TrimSpace(r.Journal),
		PubDate:          r.PubDate.display(),
		Abstract:         strings.TrimSpace(strings.Join(r.Abstract, " ")),
		MeSHTerms:        trimAll(r.MeSH),
		Keywords:         trimAll(r.Keywords),
		PublicationTypes: trimAll(r.PubTypes),
	}

	seen := make(map[string]bool)
	for _, au := range r.Authors {
		if name := au.displayName(); name != "" {
			a.Authors = append(a.Authors, name)
		}
		for _, aff := range au.Affiliations {
			aff = strings.TrimSpace(aff)
			if aff == "" || seen[aff] {
				continue
			}
			seen[aff] = true
			a.Affiliations = append(a.Affiliations, aff)
		}
	}

	for _, g := range r.Grants {
		id := strings.TrimSpace(g.GrantID)
		agency := strings.TrimSpace(g.Agency)
		if id == "" && agency == "" {
			continue
		}
		a.Grants = append(a.Grants, types.Grant{ID: id, Agency: agency})
	}

	return a, true
}

// displayName renders "Last, First", a collective name, or whichever
// part is present.
func (au rawAuthor) displayName() string {
	if au.CollectiveName != "" {
		return strings.TrimSpace(au.CollectiveName)
	}
	name := strings.TrimSpace(au.LastName + ", " + au.ForeName)
	return strings.Trim(name, ", ")
}

// display renders the partial publication date as "Year Month Day" with
// absent parts dropped, falling back to the free-form MedlineDate
// ("2020 Nov-Dec", "1998 Winter").
func (d rawPubDate) display() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{d.Year, d.Month, d.Day} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return strings.TrimSpace(d.MedlineDate)
	}
	return strings.Join(parts, " ")
}

func trimAll(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
