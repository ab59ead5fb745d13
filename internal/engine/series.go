// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"context"
	"sort"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/pubmed-lens/internal/query"
	"github.com/pdiddy/pubmed-lens/internal/resolve"
	"github.com/pdiddy/pubmed-lens/pkg/types"
)

// YearSeries is the combined multi-manufacturer year series consumed by
// charts and the CSV export. Years ascend; Manufacturers follow display
// order.
type YearSeries struct {
	Years         []int    `json:"years"`
	Manufacturers []string `json:"manufacturers"`

	// Counts maps year to per-manufacturer counts.
	Counts map[int]map[string]int `json:"counts"`

	TotalsByYear         map[int]int    `json:"totals_by_year"`
	TotalsByManufacturer map[string]int `json:"totals_by_manufacturer"`

	// Degraded is set when any cell's fetch failed and reads as zero.
	Degraded bool `json:"degraded,omitempty"`
}

// BuildSeries assembles the chart series from merged sampled year
// counts. With a fully bounded request range the year axis spans the
// range even where counts are zero; otherwise it covers the observed
// years.
func BuildSeries(results []ManufacturerResult, requested types.TimeWindow) YearSeries {
	s := YearSeries{
		Counts:               make(map[int]map[string]int),
		TotalsByYear:         make(map[int]int),
		TotalsByManufacturer: make(map[string]int),
	}

	observed := make(map[int]bool)
	for _, mr := range results {
		s.Manufacturers = append(s.Manufacturers, mr.Identity.Name)
		for year := range mr.Sample.YearCounts {
			if requested.Contains(year) {
				observed[year] = true
			}
		}
	}

	if requested.Start != 0 && requested.End != 0 {
		for y := requested.Start; y <= requested.End; y++ {
			s.Years = append(s.Years, y)
		}
	} else {
		for y := range observed {
			s.Years = append(s.Years, y)
		}
		sort.Ints(s.Years)
	}

	for _, y := range s.Years {
		s.Counts[y] = make(map[string]int)
		for _, mr := range results {
			n := mr.Sample.YearCounts[y]
			s.Counts[y][mr.Identity.Name] = n
			s.TotalsByYear[y] += n
			s.TotalsByManufacturer[mr.Identity.Name] += n
		}
	}
	return s
}

// CountsByYear builds the exact year-by-manufacturer count grid: one
// count-only search per (manufacturer, year) cell, resolved against that
// single-year window so name changes and acquisitions land in the right
// column. Cell fetch failures read as zero and mark the series degraded;
// they never abort the grid. The requested range must be bounded on both
// sides.
func (e *Engine) CountsByYear(ctx context.Context, req types.SearchRequest, identities []types.ManufacturerIdentity) (YearSeries, error) {
	if req.Range.Start == 0 || req.Range.End == 0 {
		return YearSeries{}, errors.New("counts grid requires a bounded year range")
	}

	s := YearSeries{
		Counts:               make(map[int]map[string]int),
		TotalsByYear:         make(map[int]int),
		TotalsByManufacturer: make(map[string]int),
	}
	for y := req.Range.Start; y <= req.Range.End; y++ {
		s.Years = append(s.Years, y)
		s.Counts[y] = make(map[string]int)
	}

	type cell struct {
		manufacturer string
		year         int
		query        string
	}
	var cells []cell

	for _, m := range identities {
		valid := true
		for _, y := range s.Years {
			terms, err := resolve.Resolve(m, types.Window(y, y))
			if err != nil {
				e.log.Warnw("skipping misconfigured manufacturer",
					"manufacturer", m.Name, "error", err)
				valid = false
				break
			}
			if len(terms) == 0 {
				continue
			}
			cells = append(cells, cell{
				manufacturer: m.Name,
				year:         y,
				query:        query.Build(req, terms),
			})
		}
		if valid {
			s.Manufacturers = append(s.Manufacturers, m.Name)
		}
	}

	counts := make([]int, len(cells))
	failed := make([]bool, len(cells))

	var g errgroup.Group
	g.SetLimit(e.cfg.MaxConcurrent)
	for i := range cells {
		i := i
		g.Go(func() error {
			page, err := e.client.Search(ctx, cells[i].query, 0, 0)
			if err != nil {
				e.log.Warnw("count fetch failed",
					"manufacturer", cells[i].manufacturer, "year", cells[i].year, "error", err)
				failed[i] = true
				return nil
			}
			counts[i] = page.Total
			return nil
		})
	}
	g.Wait()

	for i, c := range cells {
		if failed[i] {
			s.Degraded = true
			continue
		}
		s.Counts[c.year][c.manufacturer] += counts[i]
		s.TotalsByYear[c.year] += counts[i]
		s.TotalsByManufacturer[c.manufacturer] += counts[i]
	}
	return s, nil
}
