// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pubmed is the rate-limited client for the NCBI E-utilities
// search and fetch endpoints. A single shared limiter guards every
// outbound request so concurrent searches respect the service's global
// requests-per-second ceiling.
package pubmed

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/pdiddy/pubmed-lens/internal/httputil"
	"github.com/pdiddy/pubmed-lens/pkg/types"
)

// ErrFetchFailed marks errors where retries against the service were
// exhausted. Callers attribute the failure to the term being fetched and
// continue with sibling fetches.
var ErrFetchFailed = errors.New("pubmed fetch failed")

const (
	defaultBaseURL          = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/"
	defaultRequestsPerSec   = 3
	defaultPageSize         = 100
	defaultSummaryBatchSize = 100
)

// Page is one esearch result page: the exact total match count and the
// PMIDs within the requested slice.
type Page struct {
	Total int
	PMIDs []string
}

// Client calls esearch.fcgi and efetch.fcgi under a shared rate limit
// with retry and backoff.
type Client struct {
	http    *http.Client
	limiter *rate.Limiter
	cfg     types.PubMedConfig
	log     *zap.SugaredLogger
}

// New builds a Client from cfg, filling defaults for unset fields.
// The limiter's Wait admits requests in FIFO order, so no caller starves
// under contention.
func New(cfg types.PubMedConfig, log *zap.SugaredLogger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = defaultRequestsPerSec
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}
	if cfg.SummaryBatchSize <= 0 {
		cfg.SummaryBatchSize = defaultSummaryBatchSize
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Client{
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		cfg:     cfg,
		log:     log,
	}
}

// PageSize returns the configured esearch page size.
func (c *Client) PageSize() int { return c.cfg.PageSize }

// Search runs an esearch call for query, returning the exact total count
// and the PMIDs in [retstart, retstart+retmax).
func (c *Client) Search(ctx context.Context, query string, retstart, retmax int) (Page, error) {
	params := url.Values{
		"db":       {"pubmed"},
		"term":     {query},
		"retstart": {strconv.Itoa(retstart)},
		"retmax":   {strconv.Itoa(retmax)},
		"retmode":  {"json"},
	}

	resp, err := c.get(ctx, "esearch.fcgi", params)
	if err != nil {
		return Page{}, err
	}
	defer resp.Body.Close()

	var sr esearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return Page{}, errors.Wrap(err, "parsing esearch response")
	}

	total, err := strconv.Atoi(sr.Result.Count)
	if err != nil {
		return Page{}, errors.Wrapf(err, "esearch count %q", sr.Result.Count)
	}
	return Page{Total: total, PMIDs: sr.Result.IDList}, nil
}

// FetchSummaries retrieves full article records for the given PMIDs via
// efetch, splitting the request into SummaryBatchSize chunks to respect
// the service's IDs-per-call cap. Records that fail to parse are skipped;
// a batch-level transport failure aborts the remaining batches.
func (c *Client) FetchSummaries(ctx context.Context, pmids []string) ([]types.Article, error) {
	var articles []types.Article
	for start := 0; start < len(pmids); start += c.cfg.SummaryBatchSize {
		end := min(start+c.cfg.SummaryBatchSize, len(pmids))
		batch, err := c.fetchBatch(ctx, pmids[start:end])
		if err != nil {
			return articles, err
		}
		articles = append(articles, batch...)
	}
	return articles, nil
}

func (c *Client) fetchBatch(ctx context.Context, pmids []string) ([]types.Article, error) {
	if len(pmids) == 0 {
		return nil, nil
	}
	params := url.Values{
		"db":      {"pubmed"},
		"id":      {strings.Join(pmids, ",")},
		"retmode": {"xml"},
	}

	resp, err := c.get(ctx, "efetch.fcgi", params)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var set articleSet
	if err := xml.NewDecoder(resp.Body).Decode(&set); err != nil {
		return nil, errors.Wrap(err, "parsing efetch response")
	}

	articles := make([]types.Article, 0, len(set.Articles))
	skipped := 0
	for _, raw := range set.Articles {
		a, ok := raw.toArticle()
		if !ok {
			skipped++
			continue
		}
		articles = append(articles, a)
	}
	if skipped > 0 {
		c.log.Warnw("skipped malformed article records", "skipped", skipped, "batch", len(pmids))
	}
	return articles, nil
}

// get waits for a limiter token, issues the request through the retry
// helper, and converts still-failing responses into ErrFetchFailed.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values) (*http.Response, error) {
	if c.cfg.APIKey != "" {
		params.Set("api_key", c.cfg.APIKey)
	}
	if c.cfg.Tool != "" {
		params.Set("tool", c.cfg.Tool)
	}
	if c.cfg.Email != "" {
		params.Set("email", c.cfg.Email)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	reqURL := c.cfg.BaseURL + endpoint + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "creating request")
	}
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, c.http, req, c.cfg.MaxRetries)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "%s request", endpoint), ErrFetchFailed)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, errors.Mark(
			errors.Newf("%s returned HTTP %d after retries", endpoint, resp.StatusCode),
			ErrFetchFailed)
	}
	return resp, nil
}

// esearch JSON structures.
type esearchResponse struct {
	Result esearchResult `json:"esearchresult"`
}

type esearchResult struct {
	Count  string   `json:"count"`
	IDList []string `json:"idlist"`
}
