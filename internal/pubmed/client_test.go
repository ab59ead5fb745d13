// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pubmed-lens/internal/httputil"
	"github.com/pdiddy/pubmed-lens/pkg/types"
)

func init() {
	httputil.RetryBaseDelay = 1 * time.Millisecond
}

func newTestClient(ts *httptest.Server, cfg types.PubMedConfig) *Client {
	cfg.BaseURL = ts.URL + "/"
	// High ceiling so tests never wait on the limiter.
	cfg.RequestsPerSecond = 1000
	return New(cfg, nil)
}

func TestSearch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/esearch.fcgi", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "pubmed", q.Get("db"))
		assert.Equal(t, "Varian[Affiliation]", q.Get("term"))
		assert.Equal(t, "40", q.Get("retstart"))
		assert.Equal(t, "20", q.Get("retmax"))
		assert.Equal(t, "json", q.Get("retmode"))
		assert.Equal(t, "secret", q.Get("api_key"))
		assert.Equal(t, "pubmed-lens", q.Get("tool"))

		fmt.Fprint(w, `{"esearchresult":{"count":"1234","idlist":["111","222","333"]}}`)
	}))
	defer ts.Close()

	c := newTestClient(ts, types.PubMedConfig{APIKey: "secret", Tool: "pubmed-lens"})

	page, err := c.Search(context.Background(), "Varian[Affiliation]", 40, 20)
	require.NoError(t, err)
	assert.Equal(t, 1234, page.Total)
	assert.Equal(t, []string{"111", "222", "333"}, page.PMIDs)
}

func TestSearchRetriesOn429(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, `{"esearchresult":{"count":"5","idlist":[]}}`)
	}))
	defer ts.Close()

	c := newTestClient(ts, types.PubMedConfig{MaxRetries: 3})

	page, err := c.Search(context.Background(), "q", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 5, page.Total)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestSearchExhaustedRetries(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	c := newTestClient(ts, types.PubMedConfig{MaxRetries: 1})

	_, err := c.Search(context.Background(), "q", 0, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFetchFailed))
}

func TestSearchBadCount(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"esearchresult":{"count":"not-a-number","idlist":[]}}`)
	}))
	defer ts.Close()

	c := newTestClient(ts, types.PubMedConfig{})

	_, err := c.Search(context.Background(), "q", 0, 0)
	require.Error(t, err)
}

func TestFetchSummariesBatches(t *testing.T) {
	var batches [][]string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/efetch.fcgi", r.URL.Path)
		ids := strings.Split(r.URL.Query().Get("id"), ",")
		batches = append(batches, ids)

		var sb strings.Builder
		sb.WriteString("<PubmedArticleSet>")
		for _, id := range ids {
			fmt.Fprintf(&sb, `<PubmedArticle><MedlineCitation><PMID>%s</PMID><Article><ArticleTitle>T</ArticleTitle></Article></MedlineCitation></PubmedArticle>`, id)
		}
		sb.WriteString("</PubmedArticleSet>")
		fmt.Fprint(w, sb.String())
	}))
	defer ts.Close()

	c := newTestClient(ts, types.PubMedConfig{SummaryBatchSize: 2})

	pmids := []string{"1", "2", "3", "4", "5"}
	articles, err := c.FetchSummaries(context.Background(), pmids)
	require.NoError(t, err)

	require.Len(t, articles, 5)
	assert.Equal(t, [][]string{{"1", "2"}, {"3", "4"}, {"5"}}, batches)
}

func TestFetchSummariesSkipsMalformed(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<PubmedArticleSet>
			<PubmedArticle><MedlineCitation><PMID>42</PMID></MedlineCitation></PubmedArticle>
			<PubmedArticle><MedlineCitation></MedlineCitation></PubmedArticle>
		</PubmedArticleSet>`)
	}))
	defer ts.Close()

	c := newTestClient(ts, types.PubMedConfig{})

	articles, err := c.FetchSummaries(context.Background(), []string{"42", "43"})
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "42", articles[0].PMID)
}

func TestFetchSummariesEmpty(t *testing.T) {
	c := New(types.PubMedConfig{}, nil)
	articles, err := c.FetchSummaries(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, articles)
}

func TestDefaults(t *testing.T) {
	c := New(types.PubMedConfig{}, nil)
	assert.Equal(t, defaultPageSize, c.PageSize())
	assert.Equal(t, defaultBaseURL, c.cfg.BaseURL)
	assert.Equal(t, defaultSummaryBatchSize, c.cfg.SummaryBatchSize)
}
