// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the pubmed-lens engine:
// the manufacturer identity model, time windows, search requests, fetched
// articles, and sampled statistics.
package types

import (
	"github.com/cockroachdb/errors"
)

// ErrBadConfig marks identity configuration errors. The engine skips a
// misconfigured identity with a warning; sibling identities proceed.
var ErrBadConfig = errors.New("bad manufacturer configuration")

// NameVariation is a literal company name string and the inclusive year
// window during which publications under that name belong to the owning
// identity. Windows of one identity may overlap or leave gaps; the
// resolver merges overlaps before query construction.
type NameVariation struct {
	Name      string `json:"name" yaml:"name"`
	StartYear int    `json:"start_year" yaml:"start_year"`
	EndYear   int    `json:"end_year" yaml:"end_year"`
}

// Acquisition is a one-time absorption event: from Year onward the
// acquired company's publications are attributed to the owning identity.
// Publications under the acquired name before Year stay with the acquired
// name itself.
type Acquisition struct {
	Name string `json:"name" yaml:"name"`
	Year int    `json:"year" yaml:"year"`
}

// ManufacturerIdentity is the long-lived configuration record for one
// canonical manufacturer. The engine reads identities as an injected
// snapshot per request and never mutates them.
type ManufacturerIdentity struct {
	// Name is the canonical manufacturer name, unique across the store.
	Name string `json:"name" yaml:"name"`

	// Color is the display color for charts (presentation only).
	Color string `json:"color,omitempty" yaml:"color,omitempty"`

	// DisplayOrder defines presentation ordering across identities.
	// Ties break by insertion order.
	DisplayOrder int `json:"display_order" yaml:"display_order"`

	Variations   []NameVariation `json:"variations,omitempty" yaml:"variations,omitempty"`
	Acquisitions []Acquisition   `json:"acquisitions,omitempty" yaml:"acquisitions,omitempty"`
}

// Validate checks the identity invariants: a non-empty canonical name,
// non-empty variation names with StartYear <= EndYear when both are set,
// and non-empty acquisition names with a positive year. Violations are
// marked with ErrBadConfig.
func (m ManufacturerIdentity) Validate() error {
	if m.Name == "" {
		return errors.Mark(errors.New("canonical name is empty"), ErrBadConfig)
	}
	for _, v := range m.Variations {
		if v.Name == "" {
			return errors.Mark(
				errors.Newf("%s: variation with empty name", m.Name), ErrBadConfig)
		}
		if v.StartYear != 0 && v.EndYear != 0 && v.StartYear > v.EndYear {
			return errors.Mark(
				errors.Newf("%s: variation %q has start_year %d after end_year %d",
					m.Name, v.Name, v.StartYear, v.EndYear), ErrBadConfig)
		}
	}
	for _, a := range m.Acquisitions {
		if a.Name == "" {
			return errors.Mark(
				errors.Newf("%s: acquisition with empty name", m.Name), ErrBadConfig)
		}
		if a.Year <= 0 {
			return errors.Mark(
				errors.Newf("%s: acquisition %q has invalid year %d",
					m.Name, a.Name, a.Year), ErrBadConfig)
		}
	}
	return nil
}
