// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package engine runs temporal manufacturer searches end to end: it
// resolves each identity into time-bounded terms, fans the term fetches
// out under a bounded concurrency limit, aggregates the sampled
// articles, and merges per-term results back into one result per
// canonical manufacturer.
package engine

import (
	"context"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/pubmed-lens/internal/aggregate"
	"github.com/pdiddy/pubmed-lens/internal/pubmed"
	"github.com/pdiddy/pubmed-lens/internal/query"
	"github.com/pdiddy/pubmed-lens/internal/resolve"
	"github.com/pdiddy/pubmed-lens/pkg/types"
)

const (
	defaultMaxConcurrent = 4
	defaultMaxSample     = 1000
)

// Searcher is the slice of the PubMed client the engine depends on.
type Searcher interface {
	Search(ctx context.Context, query string, retstart, retmax int) (pubmed.Page, error)
	FetchSummaries(ctx context.Context, pmids []string) ([]types.Article, error)
	PageSize() int
}

// TermResult is the outcome of fetching one resolved term.
type TermResult struct {
	Term   types.ResolvedTerm `json:"term"`
	Query  string             `json:"query"`
	Sample types.SampleResult `json:"sample"`

	// Failed is set when retries were exhausted; the term's counts are
	// excluded from the manufacturer sums.
	Failed bool `json:"failed,omitempty"`

	// Err holds the failure, nil on success.
	Err error `json:"-"`
}

// ManufacturerResult is the merged outcome for one canonical
// manufacturer.
type ManufacturerResult struct {
	Identity types.ManufacturerIdentity `json:"identity"`

	// Query is the full formatted boolean query covering all resolved
	// terms; users paste it back into PubMed to verify results.
	Query string `json:"query"`

	Terms  []TermResult       `json:"terms"`
	Sample types.SampleResult `json:"sample"`

	// Degraded is set when at least one term fetch exhausted retries.
	Degraded bool `json:"degraded,omitempty"`

	// Partial is set when the request deadline expired before every
	// term completed.
	Partial bool `json:"partial,omitempty"`

	FailedTerms []string `json:"failed_terms,omitempty"`
}

// Output is the full result set of one engine run.
type Output struct {
	Manufacturers []ManufacturerResult `json:"manufacturers"`

	// Series is the combined per-year chart series built from the
	// merged sampled year counts.
	Series YearSeries `json:"series"`

	// Skipped names identities dropped for configuration errors.
	Skipped []string `json:"skipped,omitempty"`
}

// Engine coordinates resolution, fetching, aggregation, and merging.
type Engine struct {
	client Searcher
	cfg    types.EngineConfig
	log    *zap.SugaredLogger
}

// New builds an Engine, filling config defaults.
func New(client Searcher, cfg types.EngineConfig, log *zap.SugaredLogger) *Engine {
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = defaultMaxConcurrent
	}
	if cfg.MaxSample <= 0 {
		cfg.MaxSample = defaultMaxSample
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Engine{client: client, cfg: cfg, log: log}
}

// Run executes the request against the given identities (already
// selected and ordered by display order). Misconfigured identities are
// skipped with a warning; failed term fetches degrade only their own
// manufacturer; a request timeout marks unfinished manufacturers partial.
// Run never fails the whole request for a single manufacturer's error.
func (e *Engine) Run(ctx context.Context, req types.SearchRequest, identities []types.ManufacturerIdentity) (Output, error) {
	var out Output

	for _, m := range identities {
		terms, err := resolve.Resolve(m, req.Range)
		if err != nil {
			e.log.Warnw("skipping misconfigured manufacturer", "manufacturer", m.Name, "error", err)
			out.Skipped = append(out.Skipped, m.Name)
			continue
		}

		mr := ManufacturerResult{
			Identity: m,
			Query:    query.Build(req, terms),
			Terms:    make([]TermResult, len(terms)),
		}
		for i, t := range terms {
			mr.Terms[i] = TermResult{
				Term:  t,
				Query: query.Build(req, []types.ResolvedTerm{t}),
			}
		}
		out.Manufacturers = append(out.Manufacturers, mr)
	}

	// Term failures are recorded, never returned, so sibling fetches
	// keep running; only the parent ctx deadline stops them.
	var g errgroup.Group
	g.SetLimit(e.cfg.MaxConcurrent)

	for mi := range out.Manufacturers {
		for ti := range out.Manufacturers[mi].Terms {
			tr := &out.Manufacturers[mi].Terms[ti]
			g.Go(func() error {
				sample, err := e.fetchTerm(ctx, tr.Query)
				if err != nil {
					tr.Failed = true
					tr.Err = err
					e.log.Warnw("term fetch failed",
						"term", tr.Term.Name, "window", tr.Term.Window.String(), "error", err)
					return nil
				}
				tr.Sample = sample
				return nil
			})
		}
	}
	g.Wait()

	for i := range out.Manufacturers {
		mergeManufacturer(&out.Manufacturers[i])
	}
	out.Series = BuildSeries(out.Manufacturers, req.Range)
	return out, nil
}

// fetchTerm searches one term's query, samples article records spread
// across the full result set up to MaxSample, and aggregates them.
func (e *Engine) fetchTerm(ctx context.Context, q string) (types.SampleResult, error) {
	pageSize := e.client.PageSize()

	first, err := e.client.Search(ctx, q, 0, pageSize)
	if err != nil {
		return types.SampleResult{}, err
	}
	if first.Total == 0 {
		return aggregate.Aggregate(nil, 0), nil
	}

	pmids := make([]string, 0, min(first.Total, e.cfg.MaxSample))
	seen := make(map[string]bool)
	add := func(ids []string) {
		for _, id := range ids {
			if !seen[id] && len(pmids) < e.cfg.MaxSample {
				seen[id] = true
				pmids = append(pmids, id)
			}
		}
	}
	add(first.PMIDs)

	for _, offset := range sampleOffsets(first.Total, pageSize, e.cfg.MaxSample) {
		if offset == 0 || len(pmids) >= e.cfg.MaxSample {
			continue
		}
		page, err := e.client.Search(ctx, q, offset, pageSize)
		if err != nil {
			return types.SampleResult{}, err
		}
		add(page.PMIDs)
	}

	articles, err := e.client.FetchSummaries(ctx, pmids)
	if err != nil {
		return types.SampleResult{}, err
	}
	return aggregate.Aggregate(articles, first.Total), nil
}

// sampleOffsets returns evenly spread esearch start indexes so the
// sample covers the whole result set instead of only its head.
func sampleOffsets(total, pageSize, maxSample int) []int {
	batches := min(maxSample/pageSize, (total+pageSize-1)/pageSize)
	if batches <= 1 {
		return []int{0}
	}
	stride := total / batches
	offsets := make([]int, 0, batches)
	for i := 0; i < batches; i++ {
		offsets = append(offsets, i*stride)
	}
	return offsets
}

// mergeManufacturer folds the per-term samples into one SampleResult,
// following the merger contract: totals and year counts sum, tallies
// merge by key before re-truncation, and the sampling percentage is
// recomputed from the summed values rather than averaged. Failed terms
// contribute nothing and set the degraded or partial flag.
func mergeManufacturer(mr *ManufacturerResult) {
	merged := types.SampleResult{YearCounts: make(map[int]int)}

	for _, tr := range mr.Terms {
		if tr.Failed {
			mr.FailedTerms = append(mr.FailedTerms, tr.Term.Name+" "+tr.Term.Window.String())
			if errors.IsAny(tr.Err, context.DeadlineExceeded, context.Canceled) {
				mr.Partial = true
			} else {
				mr.Degraded = true
			}
			continue
		}
		merged.TotalResults += tr.Sample.TotalResults
		merged.SampledResults += tr.Sample.SampledResults
		for year, n := range tr.Sample.YearCounts {
			merged.YearCounts[year] += n
		}
		merged.TopAuthors = aggregate.MergeTallies(merged.TopAuthors, tr.Sample.TopAuthors, aggregate.TopN)
		merged.TopJournals = aggregate.MergeTallies(merged.TopJournals, tr.Sample.TopJournals, aggregate.TopN)
		merged.TopAffiliations = aggregate.MergeTallies(merged.TopAffiliations, tr.Sample.TopAffiliations, aggregate.TopN)
		merged.TopGrants = aggregate.MergeTallies(merged.TopGrants, tr.Sample.TopGrants, aggregate.TopN)
		merged.TopMeSHTerms = aggregate.MergeTallies(merged.TopMeSHTerms, tr.Sample.TopMeSHTerms, aggregate.TopN)
	}

	merged.SamplingPercentage = aggregate.Percentage(merged.SampledResults, merged.TotalResults)
	mr.Sample = merged
}
