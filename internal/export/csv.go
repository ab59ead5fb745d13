// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export writes result series in formats external tools consume.
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/cockroachdb/errors"

	"github.com/pdiddy/pubmed-lens/internal/engine"
)

// WriteCountsCSV renders the year series as CSV: a Year column, one
// column per manufacturer in display order, a Total column, and a final
// Total row summing each manufacturer's column.
func WriteCountsCSV(w io.Writer, s engine.YearSeries) error {
	cw := csv.NewWriter(w)

	header := append(append([]string{"Year"}, s.Manufacturers...), "Total")
	if err := cw.Write(header); err != nil {
		return errors.Wrap(err, "writing header")
	}

	for _, year := range s.Years {
		row := make([]string, 0, len(header))
		row = append(row, strconv.Itoa(year))
		for _, m := range s.Manufacturers {
			row = append(row, strconv.Itoa(s.Counts[year][m]))
		}
		row = append(row, strconv.Itoa(s.TotalsByYear[year]))
		if err := cw.Write(row); err != nil {
			return errors.Wrapf(err, "writing row for %d", year)
		}
	}

	totals := make([]string, 0, len(header))
	totals = append(totals, "Total")
	sum := 0
	for _, m := range s.Manufacturers {
		totals = append(totals, strconv.Itoa(s.TotalsByManufacturer[m]))
		sum += s.TotalsByManufacturer[m]
	}
	totals = append(totals, strconv.Itoa(sum))
	if err := cw.Write(totals); err != nil {
		return errors.Wrap(err, "writing totals row")
	}

	cw.Flush()
	return errors.Wrap(cw.Error(), "flushing csv")
}
